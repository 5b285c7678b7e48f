package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMeteoGeocoder_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "Berlin", r.URL.Query().Get("name"))
		assert.Equal(t, "1", r.URL.Query().Get("count"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [{"name": "Berlin", "latitude": 52.52, "longitude": 13.405, "country": "Germany"}]}`))
	}))
	defer server.Close()

	geocoder := NewOpenMeteoGeocoder(server.URL, server.Client())

	result, err := geocoder.Search(context.Background(), "Berlin")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Berlin", result.Name)
	assert.Equal(t, 52.52, result.Latitude)
	assert.Equal(t, 13.405, result.Longitude)
	assert.Equal(t, "Germany", result.Country)
}

func TestOpenMeteoGeocoder_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generationtime_ms": 0.5}`))
	}))
	defer server.Close()

	geocoder := NewOpenMeteoGeocoder(server.URL, server.Client())

	result, err := geocoder.Search(context.Background(), "NonExistentCityXYZ")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestOpenMeteoGeocoder_RetriesServerErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"results": [{"name": "Berlin", "latitude": 52.52, "longitude": 13.405, "country": "Germany"}]}`))
	}))
	defer server.Close()

	geocoder := NewOpenMeteoGeocoder(server.URL, server.Client())

	result, err := geocoder.Search(context.Background(), "Berlin")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 2, calls)
}
