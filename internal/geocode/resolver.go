package geocode

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmarkov/weather-requests-api/internal/apperr"
	"github.com/dmarkov/weather-requests-api/internal/model"
	"github.com/dmarkov/weather-requests-api/internal/observability"
	"github.com/dmarkov/weather-requests-api/internal/repository"
	"go.uber.org/zap"
)

// Resolver validates free-text locations against the geocoder, backed
// by the persistent location cache. Every outcome, positive or
// negative, is cached so a search term hits the geocoder at most once.
// Entries never expire; re-trying a term requires deleting its cache
// row out of band.
type Resolver struct {
	cache    repository.LocationCacheRepository
	geocoder Geocoder
	logger   *zap.Logger
}

// NewResolver creates a resolver over the given cache store and geocoder
func NewResolver(cache repository.LocationCacheRepository, geocoder Geocoder, logger *zap.Logger) *Resolver {
	return &Resolver{cache: cache, geocoder: geocoder, logger: logger}
}

// Resolve validates a location and returns its canonical name,
// coordinates and country. Failures of the geocoding lookup itself are
// reported as LocationNotFound and cached negatively.
func (r *Resolver) Resolve(ctx context.Context, locationText string) (*model.LocationInfo, error) {
	searchTerm := strings.ToLower(strings.TrimSpace(locationText))
	if searchTerm == "" {
		return nil, apperr.New(apperr.KindLocationNotFound, "Location not found")
	}

	cached, err := r.cache.Get(ctx, searchTerm)
	if err != nil {
		return nil, fmt.Errorf("failed to read location cache: %w", err)
	}
	if cached != nil {
		if cached.IsValid {
			observability.GeocoderCacheTotal.WithLabelValues("hit").Inc()
			return &model.LocationInfo{
				Name:        cached.NormalizedName,
				Coordinates: cached.Coordinates,
				Country:     cached.Country,
			}, nil
		}
		observability.GeocoderCacheTotal.WithLabelValues("negative_hit").Inc()
		return nil, apperr.New(apperr.KindLocationNotFound, "Location not found")
	}
	observability.GeocoderCacheTotal.WithLabelValues("miss").Inc()

	// A valid "lat,lon" pair is accepted as a pre-resolved location
	// without consulting the geocoder.
	if lat, lon, ok := ParseCoordinatePair(locationText); ok {
		info := &model.LocationInfo{
			Name:        FormatCoordinates(lat, lon),
			Coordinates: FormatCoordinates(lat, lon),
		}
		r.storeOutcome(ctx, searchTerm, info, true)
		return info, nil
	}

	result, err := r.geocoder.Search(ctx, locationText)
	if err != nil {
		r.logger.Warn("geocoding lookup failed",
			zap.String("location", locationText), zap.Error(err))
		r.storeOutcome(ctx, searchTerm, &model.LocationInfo{Name: locationText}, false)
		return nil, apperr.New(apperr.KindLocationNotFound, "Location not found or invalid")
	}
	if result == nil {
		r.storeOutcome(ctx, searchTerm, &model.LocationInfo{Name: locationText}, false)
		return nil, apperr.New(apperr.KindLocationNotFound, "Location not found or invalid")
	}

	info := &model.LocationInfo{
		Name:        result.Name,
		Coordinates: FormatCoordinates(result.Latitude, result.Longitude),
		Country:     result.Country,
	}
	r.storeOutcome(ctx, searchTerm, info, true)
	return info, nil
}

// storeOutcome upserts a cache row. Cache write failures are logged,
// not propagated: a resolution that succeeded stays successful.
func (r *Resolver) storeOutcome(ctx context.Context, searchTerm string, info *model.LocationInfo, valid bool) {
	entry := model.LocationCacheEntry{
		SearchTerm:     searchTerm,
		NormalizedName: info.Name,
		IsValid:        valid,
		CreatedAt:      time.Now().UTC(),
	}
	if valid {
		entry.Coordinates = info.Coordinates
		entry.Country = info.Country
	}

	if err := r.cache.Upsert(ctx, entry); err != nil {
		r.logger.Warn("failed to cache geocoding outcome",
			zap.String("search_term", searchTerm), zap.Error(err))
	}
}
