package repository

import (
	"context"
	"time"

	"github.com/dmarkov/weather-requests-api/internal/config"
	"github.com/dmarkov/weather-requests-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// RequestUpdate describes a partial rewrite of a weather request row.
// Nil fields are left untouched.
type RequestUpdate struct {
	Location           *string
	NormalizedLocation *string
	Coordinates        *string
	StartDate          *string
	EndDate            *string
}

// IsEmpty returns true if no field would be rewritten
func (u RequestUpdate) IsEmpty() bool {
	return u.Location == nil && u.NormalizedLocation == nil && u.Coordinates == nil &&
		u.StartDate == nil && u.EndDate == nil
}

// RequestRepository defines operations for weather request rows
type RequestRepository interface {
	Insert(ctx context.Context, req *model.WeatherRequest) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.WeatherRequest, error)
	List(ctx context.Context, limit, offset int, locationFilter string) ([]model.WeatherRequest, error)
	Update(ctx context.Context, id int64, upd RequestUpdate, updatedAt time.Time) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// LocationCacheRepository defines operations for cached geocoding results
type LocationCacheRepository interface {
	Get(ctx context.Context, searchTerm string) (*model.LocationCacheEntry, error)
	Upsert(ctx context.Context, entry model.LocationCacheEntry) error
}

// Container holds all repositories
type Container struct {
	Requests      RequestRepository
	LocationCache LocationCacheRepository
}

// NewRepositories creates repository implementations based on DB type
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	if dbType == config.DBTypePostgreSQL {
		return &Container{
			Requests:      &pgRequestRepository{db: db},
			LocationCache: &pgLocationCacheRepository{db: db},
		}
	}

	// Default to SQLite
	return &Container{
		Requests:      &sqliteRequestRepository{db: db},
		LocationCache: &sqliteLocationCacheRepository{db: db},
	}
}
