package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmarkov/weather-requests-api/internal/config"
	"github.com/dmarkov/weather-requests-api/internal/database"
	"github.com/dmarkov/weather-requests-api/internal/model"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*Container, func()) {
	cfg := config.DBConfig{Type: config.DBTypeMemory}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	require.NoError(t, err)

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations/sqlite",
		"sqlite3",
		driver,
	)
	require.NoError(t, err)
	err = m.Up()
	require.NoError(t, err)

	repos := NewRepositories(db, config.DBTypeMemory)

	cleanup := func() {
		db.Close()
	}

	return repos, cleanup
}

func newRequest(location, normalized string, createdAt time.Time) *model.WeatherRequest {
	return &model.WeatherRequest{
		Location:           location,
		NormalizedLocation: normalized,
		StartDate:          "2024-06-10",
		EndDate:            "2024-06-12",
		WeatherData:        "Current weather in " + normalized,
		Coordinates:        "52.52,13.405",
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
}

func TestRequestRepository_InsertAndGet(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	userID := "user-42"
	req := newRequest("berlin", "Berlin", now)
	req.UserID = &userID

	id, err := repos.Requests.Insert(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	stored, err := repos.Requests.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "berlin", stored.Location)
	assert.Equal(t, "Berlin", stored.NormalizedLocation)
	assert.Equal(t, "2024-06-10", stored.StartDate)
	assert.Equal(t, "2024-06-12", stored.EndDate)
	assert.Equal(t, "52.52,13.405", stored.Coordinates)
	require.NotNil(t, stored.UserID)
	assert.Equal(t, "user-42", *stored.UserID)
	assert.Nil(t, stored.AdditionalData)
	assert.True(t, stored.CreatedAt.Equal(now))
}

func TestRequestRepository_GetMissing(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()

	stored, err := repos.Requests.GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRequestRepository_List(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	entries := []*model.WeatherRequest{
		newRequest("berlin", "Berlin", base.Add(-2*time.Hour)),
		newRequest("PARIS", "Paris", base.Add(-1*time.Hour)),
		newRequest("london", "London", base),
	}
	for _, e := range entries {
		_, err := repos.Requests.Insert(ctx, e)
		require.NoError(t, err)
	}

	t.Run("newest first", func(t *testing.T) {
		results, err := repos.Requests.List(ctx, 10, 0, "")
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "London", results[0].NormalizedLocation)
		assert.Equal(t, "Paris", results[1].NormalizedLocation)
		assert.Equal(t, "Berlin", results[2].NormalizedLocation)
	})

	t.Run("limit and offset", func(t *testing.T) {
		results, err := repos.Requests.List(ctx, 1, 1, "")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Paris", results[0].NormalizedLocation)
	})

	t.Run("case insensitive filter", func(t *testing.T) {
		results, err := repos.Requests.List(ctx, 10, 0, "paris")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "PARIS", results[0].Location)
	})

	t.Run("filter matches normalized location", func(t *testing.T) {
		results, err := repos.Requests.List(ctx, 10, 0, "Lond")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "London", results[0].NormalizedLocation)
	})

	t.Run("filter mismatch", func(t *testing.T) {
		results, err := repos.Requests.List(ctx, 10, 0, "Madrid")
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestRequestRepository_ListTieBreakByID(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	// Identical timestamps must still produce a stable order
	now := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		_, err := repos.Requests.Insert(ctx, newRequest(fmt.Sprintf("city-%d", i), "City", now))
		require.NoError(t, err)
	}

	results, err := repos.Requests.List(ctx, 10, 0, "")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int64(3), results[0].ID)
	assert.Equal(t, int64(2), results[1].ID)
	assert.Equal(t, int64(1), results[2].ID)
}

func TestRequestRepository_Update(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	id, err := repos.Requests.Insert(ctx, newRequest("berlin", "Berlin", now))
	require.NoError(t, err)

	newEnd := "2024-06-20"
	updatedAt := now.Add(time.Minute)
	matched, err := repos.Requests.Update(ctx, id, RequestUpdate{EndDate: &newEnd}, updatedAt)
	require.NoError(t, err)
	assert.True(t, matched)

	stored, err := repos.Requests.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "2024-06-20", stored.EndDate)
	assert.Equal(t, "2024-06-10", stored.StartDate)
	assert.Equal(t, "berlin", stored.Location)
	assert.True(t, stored.UpdatedAt.Equal(updatedAt))
	assert.True(t, stored.CreatedAt.Equal(now))
}

func TestRequestRepository_UpdateLocationFields(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	id, err := repos.Requests.Insert(ctx, newRequest("berlin", "Berlin", now))
	require.NoError(t, err)

	loc, norm, coords := "paris", "Paris", "48.8566,2.3522"
	matched, err := repos.Requests.Update(ctx, id, RequestUpdate{
		Location:           &loc,
		NormalizedLocation: &norm,
		Coordinates:        &coords,
	}, now.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, matched)

	stored, err := repos.Requests.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "paris", stored.Location)
	assert.Equal(t, "Paris", stored.NormalizedLocation)
	assert.Equal(t, "48.8566,2.3522", stored.Coordinates)
	// Weather data is untouched by updates
	assert.Equal(t, "Current weather in Berlin", stored.WeatherData)
}

func TestRequestRepository_UpdateMissing(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()

	newEnd := "2024-06-20"
	matched, err := repos.Requests.Update(context.Background(), 99,
		RequestUpdate{EndDate: &newEnd}, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestRequestRepository_Delete(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	id, err := repos.Requests.Insert(ctx, newRequest("berlin", "Berlin", now))
	require.NoError(t, err)

	deleted, err := repos.Requests.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	stored, err := repos.Requests.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, stored)

	deleted, err = repos.Requests.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestLocationCacheRepository_Upsert(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)

	missing, err := repos.LocationCache.Get(ctx, "berlin")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repos.LocationCache.Upsert(ctx, model.LocationCacheEntry{
		SearchTerm:     "berlin",
		NormalizedName: "Berlin",
		Coordinates:    "52.52,13.405",
		Country:        "Germany",
		IsValid:        true,
		CreatedAt:      now,
	})
	require.NoError(t, err)

	entry, err := repos.LocationCache.Get(ctx, "berlin")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Berlin", entry.NormalizedName)
	assert.Equal(t, "52.52,13.405", entry.Coordinates)
	assert.Equal(t, "Germany", entry.Country)
	assert.True(t, entry.IsValid)

	// A second upsert of the same term replaces the row
	err = repos.LocationCache.Upsert(ctx, model.LocationCacheEntry{
		SearchTerm:     "berlin",
		NormalizedName: "Berlin, Germany",
		Coordinates:    "52.52,13.405",
		Country:        "Germany",
		IsValid:        true,
		CreatedAt:      now.Add(time.Minute),
	})
	require.NoError(t, err)

	entry, err = repos.LocationCache.Get(ctx, "berlin")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Berlin, Germany", entry.NormalizedName)

	var count int
	// the unique constraint keeps one row per term
	err = repos.LocationCache.(*sqliteLocationCacheRepository).db.Get(&count,
		"SELECT COUNT(*) FROM location_cache WHERE search_term = ?", "berlin")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLocationCacheRepository_NegativeEntry(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	err := repos.LocationCache.Upsert(ctx, model.LocationCacheEntry{
		SearchTerm:     "atlantis",
		NormalizedName: "Atlantis",
		IsValid:        false,
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	})
	require.NoError(t, err)

	entry, err := repos.LocationCache.Get(ctx, "atlantis")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.False(t, entry.IsValid)
	assert.Empty(t, entry.Coordinates)
	assert.Empty(t, entry.Country)
}
