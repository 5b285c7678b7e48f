package service

import (
	"context"

	"github.com/dmarkov/weather-requests-api/internal/model"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	CreateRequest(ctx context.Context, req model.CreateRequest) (*model.CreateResponse, error)
	GetRequest(ctx context.Context, id int64) (*model.WeatherRequest, error)
	ListRequests(ctx context.Context, req model.ListRequest) (*model.ListResponse, error)
	ListForExport(ctx context.Context, limit int, locationFilter string) ([]model.WeatherRequest, error)
	UpdateRequest(ctx context.Context, id int64, req model.UpdateRequest) error
	DeleteRequest(ctx context.Context, id int64) error
	ResolveLocation(ctx context.Context, locationText string) (*model.LocationInfo, error)
}
