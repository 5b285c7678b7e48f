package model

import "time"

// WeatherRequest represents a stored weather request in the database
type WeatherRequest struct {
	ID                 int64     `db:"id" json:"id"`
	Location           string    `db:"location" json:"location"`
	NormalizedLocation string    `db:"normalized_location" json:"normalized_location"`
	StartDate          string    `db:"start_date" json:"start_date"`
	EndDate            string    `db:"end_date" json:"end_date"`
	WeatherData        string    `db:"weather_data" json:"weather_data"`
	UserID             *string   `db:"user_id" json:"user_id,omitempty"`
	Coordinates        string    `db:"coordinates" json:"coordinates"`
	AdditionalData     *string   `db:"additional_data" json:"additional_data,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// LocationCacheEntry memoizes a geocoding result, positive or negative.
// At most one entry exists per lower-cased search term.
type LocationCacheEntry struct {
	ID             int64     `db:"id"`
	SearchTerm     string    `db:"search_term"`
	NormalizedName string    `db:"normalized_name"`
	Coordinates    string    `db:"coordinates"`
	Country        string    `db:"country"`
	IsValid        bool      `db:"is_valid"`
	CreatedAt      time.Time `db:"created_at"`
}

// LocationInfo is the outcome of a successful location resolution
type LocationInfo struct {
	Name        string `json:"name"`
	Coordinates string `json:"coordinates"`
	Country     string `json:"country"`
}
