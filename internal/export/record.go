package export

import (
	"strings"
	"time"

	"github.com/dmarkov/weather-requests-api/internal/model"
)

// Field is one (key, value) pair of a flattened record. A nil value
// means the field is absent and is skipped by the per-record formats.
type Field struct {
	Key   string
	Value interface{}
}

// Record is an ordered list of fields; iteration order is the canonical
// export order, shared by all formats.
type Record []Field

// Get returns the value for a key, or nil if the record has no such field
func (r Record) Get(key string) interface{} {
	for _, f := range r {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

const timestampLayout = "2006-01-02 15:04:05"

// FlattenRequests converts stored weather requests into export records
// with the canonical field order.
func FlattenRequests(requests []model.WeatherRequest) []Record {
	records := make([]Record, 0, len(requests))
	for _, req := range requests {
		var userID interface{}
		if req.UserID != nil {
			userID = *req.UserID
		}
		records = append(records, Record{
			{Key: "id", Value: req.ID},
			{Key: "location", Value: req.Location},
			{Key: "normalized_location", Value: req.NormalizedLocation},
			{Key: "start_date", Value: req.StartDate},
			{Key: "end_date", Value: req.EndDate},
			{Key: "weather_data", Value: req.WeatherData},
			{Key: "created_at", Value: req.CreatedAt.Format(timestampLayout)},
			{Key: "updated_at", Value: req.UpdatedAt.Format(timestampLayout)},
			{Key: "user_id", Value: userID},
			{Key: "coordinates", Value: req.Coordinates},
		})
	}
	return records
}

// formatKey renders a field key as a display name ("start_date" -> "Start Date")
func formatKey(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func formatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}
