package model

// CreateRequest represents the payload for creating a weather request
type CreateRequest struct {
	Location  string  `json:"location"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	UserID    *string `json:"user_id,omitempty"`
}

// UpdateRequest represents a partial update of a weather request.
// Nil fields stay untouched.
type UpdateRequest struct {
	Location  *string `json:"location,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

// ListRequest represents the parameters for listing weather requests
type ListRequest struct {
	Limit          int
	Offset         int
	LocationFilter string
}

// CreateResponse is returned after a successful create
type CreateResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// ListResponse wraps a page of weather requests
type ListResponse struct {
	Requests []WeatherRequest `json:"requests"`
	Count    int              `json:"count"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// LocationCount pairs a normalized location with its request count
type LocationCount struct {
	Location string `json:"location" db:"normalized_location"`
	Count    int64  `json:"count" db:"count"`
}
