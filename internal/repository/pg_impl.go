package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmarkov/weather-requests-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// --- PostgreSQL Implementation ---

type pgRequestRepository struct {
	db *sqlx.DB
}

func (r *pgRequestRepository) Insert(ctx context.Context, req *model.WeatherRequest) (int64, error) {
	q := `
		INSERT INTO weather_requests
			(location, normalized_location, start_date, end_date, weather_data, user_id, coordinates, additional_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var id int64
	err := r.db.GetContext(ctx, &id, q,
		req.Location, req.NormalizedLocation, req.StartDate, req.EndDate,
		req.WeatherData, req.UserID, req.Coordinates, req.AdditionalData,
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *pgRequestRepository) GetByID(ctx context.Context, id int64) (*model.WeatherRequest, error) {
	var req model.WeatherRequest
	if err := r.db.GetContext(ctx, &req, "SELECT * FROM weather_requests WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *pgRequestRepository) List(ctx context.Context, limit, offset int, locationFilter string) ([]model.WeatherRequest, error) {
	q := "SELECT * FROM weather_requests"
	args := []interface{}{}

	if locationFilter != "" {
		q += " WHERE location ILIKE '%' || $1 || '%' OR normalized_location ILIKE '%' || $1 || '%'"
		args = append(args, locationFilter)
	}

	q += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	requests := []model.WeatherRequest{}
	if err := r.db.SelectContext(ctx, &requests, q, args...); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *pgRequestRepository) Update(ctx context.Context, id int64, upd RequestUpdate, updatedAt time.Time) (bool, error) {
	sets := []string{}
	args := []interface{}{}

	appendSet := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	appendSet("location", upd.Location)
	appendSet("normalized_location", upd.NormalizedLocation)
	appendSet("coordinates", upd.Coordinates)
	appendSet("start_date", upd.StartDate)
	appendSet("end_date", upd.EndDate)

	if len(sets) == 0 {
		return false, nil
	}

	args = append(args, updatedAt)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	q := fmt.Sprintf("UPDATE weather_requests SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *pgRequestRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM weather_requests WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type pgLocationCacheRepository struct {
	db *sqlx.DB
}

func (r *pgLocationCacheRepository) Get(ctx context.Context, searchTerm string) (*model.LocationCacheEntry, error) {
	var entry model.LocationCacheEntry
	q := "SELECT * FROM location_cache WHERE search_term = $1"
	if err := r.db.GetContext(ctx, &entry, q, searchTerm); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *pgLocationCacheRepository) Upsert(ctx context.Context, entry model.LocationCacheEntry) error {
	q := `
		INSERT INTO location_cache (search_term, normalized_name, coordinates, country, is_valid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT(search_term) DO UPDATE SET
			normalized_name = excluded.normalized_name,
			coordinates = excluded.coordinates,
			country = excluded.country,
			is_valid = excluded.is_valid,
			created_at = excluded.created_at
	`
	_, err := r.db.ExecContext(ctx, q,
		entry.SearchTerm, entry.NormalizedName, entry.Coordinates,
		entry.Country, entry.IsValid, entry.CreatedAt,
	)
	return err
}
