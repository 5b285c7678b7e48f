package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dmarkov/weather-requests-api/internal/apperr"
	"github.com/dmarkov/weather-requests-api/internal/model"
	"github.com/dmarkov/weather-requests-api/internal/repository"
	"github.com/dmarkov/weather-requests-api/internal/validation"
	"github.com/dmarkov/weather-requests-api/internal/weatherapi"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
	maxExportLimit   = 1000
)

// CreateRequest validates the date range and location, fetches a
// best-effort forecast and persists a new weather request. A failed
// weather fetch does not abort creation; its error text is stored as
// the weather data instead, since there is no reliable
// historical-weather source and forecast data is always substituted.
func (s *Service) CreateRequest(ctx context.Context, req model.CreateRequest) (*model.CreateResponse, error) {
	dateRange, err := validation.ValidateDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	loc, err := s.resolver.Resolve(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	days := dateRange.Days()
	if days > weatherapi.MaxForecastDays {
		days = weatherapi.MaxForecastDays
	}

	weatherData, err := s.fetcher.Forecast(ctx, *loc, days)
	if err != nil {
		s.logger.Warn("weather fetch failed, storing error text",
			zap.String("location", loc.Name), zap.Error(err))
		weatherData = err.Error()
	}

	now := time.Now().UTC()
	record := &model.WeatherRequest{
		Location:           req.Location,
		NormalizedLocation: loc.Name,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		WeatherData:        weatherData,
		UserID:             req.UserID,
		Coordinates:        loc.Coordinates,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	id, err := s.requests.Insert(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to store weather request: %w", err)
	}

	return &model.CreateResponse{
		ID:      id,
		Message: fmt.Sprintf("Weather request created successfully for %s", loc.Name),
	}, nil
}

// GetRequest returns a weather request by id, or nil if none exists
func (s *Service) GetRequest(ctx context.Context, id int64) (*model.WeatherRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get weather request: %w", err)
	}
	return req, nil
}

// ListRequests returns a page of weather requests, newest first. The
// limit is clamped to [1,100]; the optional filter matches location or
// normalized location case-insensitively.
func (s *Service) ListRequests(ctx context.Context, req model.ListRequest) (*model.ListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	requests, err := s.requests.List(ctx, limit, offset, req.LocationFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list weather requests: %w", err)
	}

	return &model.ListResponse{
		Requests: requests,
		Count:    len(requests),
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// ListForExport returns up to 1000 requests for the export subsystem,
// using the same read path and ordering as ListRequests.
func (s *Service) ListForExport(ctx context.Context, limit int, locationFilter string) ([]model.WeatherRequest, error) {
	if limit <= 0 || limit > maxExportLimit {
		limit = maxExportLimit
	}

	requests, err := s.requests.List(ctx, limit, 0, locationFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list weather requests for export: %w", err)
	}
	return requests, nil
}

// UpdateRequest applies a partial update. A provided location is
// re-resolved; the effective date pair (provided or stored for each
// end) is always re-validated together. Provided values equal to the
// stored ones are ignored; if nothing is left to change the update
// fails with NoChanges. The stored weather data is a creation-time
// snapshot and is never re-fetched here.
func (s *Service) UpdateRequest(ctx context.Context, id int64, req model.UpdateRequest) error {
	existing, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get weather request: %w", err)
	}
	if existing == nil {
		return apperr.New(apperr.KindNotFound, "Weather request not found")
	}

	upd := repository.RequestUpdate{}

	if req.Location != nil && *req.Location != "" && *req.Location != existing.Location {
		loc, err := s.resolver.Resolve(ctx, *req.Location)
		if err != nil {
			return err
		}
		upd.Location = req.Location
		upd.NormalizedLocation = &loc.Name
		upd.Coordinates = &loc.Coordinates
	}

	effectiveStart := existing.StartDate
	if req.StartDate != nil && *req.StartDate != "" {
		effectiveStart = *req.StartDate
	}
	effectiveEnd := existing.EndDate
	if req.EndDate != nil && *req.EndDate != "" {
		effectiveEnd = *req.EndDate
	}
	if _, err := validation.ValidateDateRange(effectiveStart, effectiveEnd); err != nil {
		return err
	}

	if effectiveStart != existing.StartDate {
		upd.StartDate = &effectiveStart
	}
	if effectiveEnd != existing.EndDate {
		upd.EndDate = &effectiveEnd
	}

	if upd.IsEmpty() {
		return apperr.New(apperr.KindNoChanges, "No changes made")
	}

	matched, err := s.requests.Update(ctx, id, upd, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update weather request: %w", err)
	}
	if !matched {
		return apperr.New(apperr.KindNotFound, "Weather request not found")
	}
	return nil
}

// DeleteRequest permanently removes a weather request
func (s *Service) DeleteRequest(ctx context.Context, id int64) error {
	deleted, err := s.requests.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete weather request: %w", err)
	}
	if !deleted {
		return apperr.New(apperr.KindNotFound, "Weather request not found")
	}
	return nil
}
