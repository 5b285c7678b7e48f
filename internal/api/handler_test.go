package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmarkov/weather-requests-api/internal/apperr"
	"github.com/dmarkov/weather-requests-api/internal/model"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockService is a mock implementation of service.ServiceInterface
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateRequest(ctx context.Context, req model.CreateRequest) (*model.CreateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreateResponse), args.Error(1)
}

func (m *MockService) GetRequest(ctx context.Context, id int64) (*model.WeatherRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WeatherRequest), args.Error(1)
}

func (m *MockService) ListRequests(ctx context.Context, req model.ListRequest) (*model.ListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ListResponse), args.Error(1)
}

func (m *MockService) ListForExport(ctx context.Context, limit int, locationFilter string) ([]model.WeatherRequest, error) {
	args := m.Called(ctx, limit, locationFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WeatherRequest), args.Error(1)
}

func (m *MockService) UpdateRequest(ctx context.Context, id int64, req model.UpdateRequest) error {
	args := m.Called(ctx, id, req)
	return args.Error(0)
}

func (m *MockService) DeleteRequest(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) ResolveLocation(ctx context.Context, locationText string) (*model.LocationInfo, error) {
	args := m.Called(ctx, locationText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LocationInfo), args.Error(1)
}

func TestHandler_CreateRequest(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(*MockService)
		expectedStatus int
	}{
		{
			name: "successful request",
			body: `{"location": "Berlin", "start_date": "2024-06-10", "end_date": "2024-06-12"}`,
			mockSetup: func(ms *MockService) {
				ms.On("CreateRequest", mock.Anything, mock.MatchedBy(func(req model.CreateRequest) bool {
					return req.Location == "Berlin" && req.StartDate == "2024-06-10"
				})).Return(&model.CreateResponse{
					ID:      1,
					Message: "Weather request created successfully for Berlin",
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed body",
			body:           `{"location": `,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing location",
			body:           `{"start_date": "2024-06-10", "end_date": "2024-06-12"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing dates",
			body:           `{"location": "Berlin"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid date range",
			body: `{"location": "Berlin", "start_date": "2024-06-12", "end_date": "2024-06-10"}`,
			mockSetup: func(ms *MockService) {
				ms.On("CreateRequest", mock.Anything, mock.Anything).
					Return(nil, apperr.New(apperr.KindInvertedRange, "Start date cannot be after end date"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown location",
			body: `{"location": "Atlantis", "start_date": "2024-06-10", "end_date": "2024-06-12"}`,
			mockSetup: func(ms *MockService) {
				ms.On("CreateRequest", mock.Anything, mock.Anything).
					Return(nil, apperr.New(apperr.KindLocationNotFound, "Location not found or invalid"))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			if tt.mockSetup != nil {
				tt.mockSetup(mockService)
			}

			handler := &Handler{service: mockService}

			req, _ := http.NewRequest("POST", "/api/v1/requests", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			handler.CreateRequest(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestHandler_GetRequest(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		mockSetup      func(*MockService)
		expectedStatus int
	}{
		{
			name: "successful request",
			id:   "1",
			mockSetup: func(ms *MockService) {
				ms.On("GetRequest", mock.Anything, int64(1)).Return(&model.WeatherRequest{
					ID: 1, Location: "berlin", NormalizedLocation: "Berlin",
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			id:   "99",
			mockSetup: func(ms *MockService) {
				ms.On("GetRequest", mock.Anything, int64(99)).Return(nil, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid id",
			id:             "abc",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			if tt.mockSetup != nil {
				tt.mockSetup(mockService)
			}
			handler := &Handler{service: mockService}

			req, _ := http.NewRequest("GET", "/api/v1/requests/"+tt.id, nil)
			req = mux.SetURLVars(req, map[string]string{"id": tt.id})
			rr := httptest.NewRecorder()
			handler.GetRequest(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestHandler_ListRequests(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		mockSetup      func(*MockService)
		expectedStatus int
	}{
		{
			name:  "defaults",
			query: "",
			mockSetup: func(ms *MockService) {
				ms.On("ListRequests", mock.Anything, model.ListRequest{}).
					Return(&model.ListResponse{Requests: []model.WeatherRequest{}, Limit: 50}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "with parameters",
			query: "limit=10&offset=5&location=berlin",
			mockSetup: func(ms *MockService) {
				ms.On("ListRequests", mock.Anything, model.ListRequest{
					Limit: 10, Offset: 5, LocationFilter: "berlin",
				}).Return(&model.ListResponse{Requests: []model.WeatherRequest{}, Limit: 10, Offset: 5}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid limit",
			query:          "limit=abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative offset",
			query:          "offset=-1",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			if tt.mockSetup != nil {
				tt.mockSetup(mockService)
			}
			handler := &Handler{service: mockService}

			req, _ := http.NewRequest("GET", "/api/v1/requests?"+tt.query, nil)
			rr := httptest.NewRecorder()
			handler.ListRequests(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestHandler_UpdateRequest(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		body           string
		mockSetup      func(*MockService)
		expectedStatus int
	}{
		{
			name: "successful request",
			id:   "1",
			body: `{"end_date": "2024-06-20"}`,
			mockSetup: func(ms *MockService) {
				ms.On("UpdateRequest", mock.Anything, int64(1), mock.MatchedBy(func(req model.UpdateRequest) bool {
					return req.EndDate != nil && *req.EndDate == "2024-06-20"
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			id:   "99",
			body: `{"end_date": "2024-06-20"}`,
			mockSetup: func(ms *MockService) {
				ms.On("UpdateRequest", mock.Anything, int64(99), mock.Anything).
					Return(apperr.New(apperr.KindNotFound, "Weather request not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "no changes",
			id:   "1",
			body: `{}`,
			mockSetup: func(ms *MockService) {
				ms.On("UpdateRequest", mock.Anything, int64(1), mock.Anything).
					Return(apperr.New(apperr.KindNoChanges, "No changes made"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid id",
			id:             "abc",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			if tt.mockSetup != nil {
				tt.mockSetup(mockService)
			}
			handler := &Handler{service: mockService}

			req, _ := http.NewRequest("PUT", "/api/v1/requests/"+tt.id, bytes.NewBufferString(tt.body))
			req = mux.SetURLVars(req, map[string]string{"id": tt.id})
			rr := httptest.NewRecorder()
			handler.UpdateRequest(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestHandler_DeleteRequest(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		mockSetup      func(*MockService)
		expectedStatus int
	}{
		{
			name: "successful request",
			id:   "1",
			mockSetup: func(ms *MockService) {
				ms.On("DeleteRequest", mock.Anything, int64(1)).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			id:   "99",
			mockSetup: func(ms *MockService) {
				ms.On("DeleteRequest", mock.Anything, int64(99)).
					Return(apperr.New(apperr.KindNotFound, "Weather request not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			if tt.mockSetup != nil {
				tt.mockSetup(mockService)
			}
			handler := &Handler{service: mockService}

			req, _ := http.NewRequest("DELETE", "/api/v1/requests/"+tt.id, nil)
			req = mux.SetURLVars(req, map[string]string{"id": tt.id})
			rr := httptest.NewRecorder()
			handler.DeleteRequest(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestHandler_ValidateLocation(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		mockSetup      func(*MockService)
		expectedStatus int
	}{
		{
			name:  "valid location",
			query: "q=Berlin",
			mockSetup: func(ms *MockService) {
				ms.On("ResolveLocation", mock.Anything, "Berlin").Return(&model.LocationInfo{
					Name: "Berlin", Coordinates: "52.52,13.405", Country: "Germany",
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "unknown location",
			query: "q=Atlantis",
			mockSetup: func(ms *MockService) {
				ms.On("ResolveLocation", mock.Anything, "Atlantis").
					Return(nil, apperr.New(apperr.KindLocationNotFound, "Location not found or invalid"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing query",
			query:          "",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			if tt.mockSetup != nil {
				tt.mockSetup(mockService)
			}
			handler := &Handler{service: mockService}

			req, _ := http.NewRequest("GET", "/api/v1/locations/validate?"+tt.query, nil)
			rr := httptest.NewRecorder()
			handler.ValidateLocation(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestHandler_HealthCheck(t *testing.T) {
	handler := &Handler{service: new(MockService)}

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	handler.HealthCheck(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestHandler_CreateRequestResponseBody(t *testing.T) {
	mockService := new(MockService)
	mockService.On("CreateRequest", mock.Anything, mock.Anything).Return(&model.CreateResponse{
		ID:      7,
		Message: "Weather request created successfully for Berlin",
	}, nil)
	handler := &Handler{service: mockService}

	body := `{"location": "Berlin", "start_date": "2024-06-10", "end_date": "2024-06-12"}`
	req, _ := http.NewRequest("POST", "/api/v1/requests", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	handler.CreateRequest(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp model.CreateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "Weather request created successfully for Berlin", resp.Message)
}
