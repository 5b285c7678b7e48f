package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmarkov/weather-requests-api/internal/model"
	"github.com/jmoiron/sqlx"
)

type sqliteRequestRepository struct {
	db *sqlx.DB
}

func (r *sqliteRequestRepository) Insert(ctx context.Context, req *model.WeatherRequest) (int64, error) {
	q := `
		INSERT INTO weather_requests
			(location, normalized_location, start_date, end_date, weather_data, user_id, coordinates, additional_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, q,
		req.Location, req.NormalizedLocation, req.StartDate, req.EndDate,
		req.WeatherData, req.UserID, req.Coordinates, req.AdditionalData,
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *sqliteRequestRepository) GetByID(ctx context.Context, id int64) (*model.WeatherRequest, error) {
	var req model.WeatherRequest
	if err := r.db.GetContext(ctx, &req, "SELECT * FROM weather_requests WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *sqliteRequestRepository) List(ctx context.Context, limit, offset int, locationFilter string) ([]model.WeatherRequest, error) {
	q := "SELECT * FROM weather_requests"
	args := []interface{}{}

	if locationFilter != "" {
		q += ` WHERE LOWER(location) LIKE '%' || LOWER(?) || '%'
			OR LOWER(normalized_location) LIKE '%' || LOWER(?) || '%'`
		args = append(args, locationFilter, locationFilter)
	}

	q += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	requests := []model.WeatherRequest{}
	if err := r.db.SelectContext(ctx, &requests, q, args...); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *sqliteRequestRepository) Update(ctx context.Context, id int64, upd RequestUpdate, updatedAt time.Time) (bool, error) {
	sets := []string{}
	args := []interface{}{}

	appendSet := func(column string, value *string) {
		if value != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *value)
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

	sets = append(sets, "updated_at = ?")
	args = append(args, updatedAt, id)

	q := "UPDATE weather_requests SET " + strings.Join(sets, ", ") + " WHERE id = ?"
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

func (r *sqliteRequestRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM weather_requests WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type sqliteLocationCacheRepository struct {
	db *sqlx.DB
}

func (r *sqliteLocationCacheRepository) Get(ctx context.Context, searchTerm string) (*model.LocationCacheEntry, error) {
	var entry model.LocationCacheEntry
	q := "SELECT * FROM location_cache WHERE search_term = ?"
	if err := r.db.GetContext(ctx, &entry, q, searchTerm); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *sqliteLocationCacheRepository) Upsert(ctx context.Context, entry model.LocationCacheEntry) error {
	q := `
		INSERT INTO location_cache (search_term, normalized_name, coordinates, country, is_valid, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
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
