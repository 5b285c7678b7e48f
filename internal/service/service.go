package service

import (
	"context"

	"github.com/dmarkov/weather-requests-api/internal/model"
	"github.com/dmarkov/weather-requests-api/internal/repository"
	"github.com/dmarkov/weather-requests-api/internal/weatherapi"
	"go.uber.org/zap"
)

// LocationResolver validates a free-text location and returns its
// canonical attributes
type LocationResolver interface {
	Resolve(ctx context.Context, locationText string) (*model.LocationInfo, error)
}

// Service provides business logic for weather requests
type Service struct {
	requests repository.RequestRepository
	resolver LocationResolver
	fetcher  weatherapi.Fetcher
	logger   *zap.Logger
}

// NewService creates a new service instance
func NewService(
	requests repository.RequestRepository,
	resolver LocationResolver,
	fetcher weatherapi.Fetcher,
	logger *zap.Logger,
) *Service {
	return &Service{
		requests: requests,
		resolver: resolver,
		fetcher:  fetcher,
		logger:   logger,
	}
}

// ResolveLocation validates a location through the cache-backed resolver
func (s *Service) ResolveLocation(ctx context.Context, locationText string) (*model.LocationInfo, error) {
	return s.resolver.Resolve(ctx, locationText)
}
