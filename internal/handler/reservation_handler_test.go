package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hoteleria/reservation-engine/internal/domain"
	"github.com/hoteleria/reservation-engine/internal/dto"
)

// MockReservationService is a mock implementation of ReservationService for testing
type MockReservationService struct {
	CreateFunc           func(ctx context.Context, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error)
	UpdateFunc           func(ctx context.Context, id int64, req *dto.UpdateReservationRequest) (*dto.ReservationResponse, error)
	CancelFunc           func(ctx context.Context, id int64) (*dto.ReservationResponse, error)
	GetFunc              func(ctx context.Context, id int64) (*dto.ReservationResponse, error)
	ListByGuestFunc      func(ctx context.Context, guestID int64) ([]*dto.ReservationResponse, error)
	ListByRoomFunc       func(ctx context.Context, roomID int64) ([]*dto.ReservationResponse, error)
	ListActiveFunc       func(ctx context.Context) ([]*dto.ReservationResponse, error)
	CompleteDueStaysFunc func(ctx context.Context, asOf domain.Date, limit int) (int, error)
}

func (m *MockReservationService) Create(ctx context.Context, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockReservationService) Update(ctx context.Context, id int64, req *dto.UpdateReservationRequest) (*dto.ReservationResponse, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockReservationService) Cancel(ctx context.Context, id int64) (*dto.ReservationResponse, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockReservationService) Get(ctx context.Context, id int64) (*dto.ReservationResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrReservationNotFound
}

func (m *MockReservationService) ListByGuest(ctx context.Context, guestID int64) ([]*dto.ReservationResponse, error) {
	if m.ListByGuestFunc != nil {
		return m.ListByGuestFunc(ctx, guestID)
	}
	return []*dto.ReservationResponse{}, nil
}

func (m *MockReservationService) ListByRoom(ctx context.Context, roomID int64) ([]*dto.ReservationResponse, error) {
	if m.ListByRoomFunc != nil {
		return m.ListByRoomFunc(ctx, roomID)
	}
	return []*dto.ReservationResponse{}, nil
}

func (m *MockReservationService) ListActive(ctx context.Context) ([]*dto.ReservationResponse, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return []*dto.ReservationResponse{}, nil
}

func (m *MockReservationService) CompleteDueStays(ctx context.Context, asOf domain.Date, limit int) (int, error) {
	if m.CompleteDueStaysFunc != nil {
		return m.CompleteDueStaysFunc(ctx, asOf, limit)
	}
	return 0, nil
}

// envelope mirrors the response wrapper for decoding in assertions
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupReservationRouter(svc *MockReservationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewReservationHandler(svc)
	reservations := router.Group("/v1/reservations")
	{
		reservations.POST("", h.Create)
		reservations.GET("", h.ListActive)
		reservations.GET("/:id", h.Get)
		reservations.PATCH("/:id", h.Update)
		reservations.POST("/:id/cancel", h.Cancel)
	}

	return router
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func TestReservationHandler_Create(t *testing.T) {
	sample := &dto.ReservationResponse{
		ID: 1, GuestID: 1, RoomID: 101,
		CheckIn: "2027-06-01", CheckOut: "2027-06-03",
		Nights: 2, Occupants: 2, TotalAmount: "200.00", Status: "active",
	}

	tests := []struct {
		name           string
		body           string
		mockFunc       func(ctx context.Context, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "successful booking",
			body: `{"guest_id":1,"room_id":101,"check_in":"2027-06-01","check_out":"2027-06-03","occupants":2}`,
			mockFunc: func(ctx context.Context, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
				return sample, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed body",
			body:           `{"guest_id":`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name:           "missing required fields",
			body:           `{"guest_id":1}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name: "invalid dates",
			body: `{"guest_id":1,"room_id":101,"check_in":"2027-06-03","check_out":"2027-06-01","occupants":2}`,
			mockFunc: func(ctx context.Context, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
				return nil, domain.ErrInvalidInput
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name: "unknown guest",
			body: `{"guest_id":99,"room_id":101,"check_in":"2027-06-01","check_out":"2027-06-03","occupants":2}`,
			mockFunc: func(ctx context.Context, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
				return nil, domain.ErrGuestNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name: "room capacity exceeded",
			body: `{"guest_id":1,"room_id":101,"check_in":"2027-06-01","check_out":"2027-06-03","occupants":8}`,
			mockFunc: func(ctx context.Context, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
				return nil, domain.ErrCapacityExceeded
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "CAPACITY_EXCEEDED",
		},
		{
			name: "dates taken",
			body: `{"guest_id":1,"room_id":101,"check_in":"2027-06-01","check_out":"2027-06-03","occupants":2}`,
			mockFunc: func(ctx context.Context, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
				return nil, domain.ErrRoomUnavailable
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "ROOM_UNAVAILABLE",
		},
		{
			name: "storage failure",
			body: `{"guest_id":1,"room_id":101,"check_in":"2027-06-01","check_out":"2027-06-03","occupants":2}`,
			mockFunc: func(ctx context.Context, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
				return nil, domain.WrapRepositoryFailure(context.DeadlineExceeded)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockReservationService{CreateFunc: tt.mockFunc}
			router := setupReservationRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/v1/reservations", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			env := decodeEnvelope(t, w)
			if tt.expectedCode != "" {
				if env.Error == nil || env.Error.Code != tt.expectedCode {
					t.Errorf("error code = %v, want %q", env.Error, tt.expectedCode)
				}
			} else if !env.Success {
				t.Error("expected success envelope")
			}
		})
	}
}

func TestReservationHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		mockFunc       func(ctx context.Context, id int64) (*dto.ReservationResponse, error)
		expectedStatus int
	}{
		{
			name: "found",
			path: "/v1/reservations/7",
			mockFunc: func(ctx context.Context, id int64) (*dto.ReservationResponse, error) {
				return &dto.ReservationResponse{ID: id, Status: "active"}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found",
			path:           "/v1/reservations/999",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "non-numeric id",
			path:           "/v1/reservations/abc",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockReservationService{GetFunc: tt.mockFunc}
			router := setupReservationRouter(svc)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
		})
	}
}

func TestReservationHandler_Update(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockFunc       func(ctx context.Context, id int64, req *dto.UpdateReservationRequest) (*dto.ReservationResponse, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "date change",
			body: `{"check_out":"2027-06-05"}`,
			mockFunc: func(ctx context.Context, id int64, req *dto.UpdateReservationRequest) (*dto.ReservationResponse, error) {
				return &dto.ReservationResponse{ID: id, CheckOut: *req.CheckOut, Status: "active"}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "terminal reservation",
			body: `{"occupants":3}`,
			mockFunc: func(ctx context.Context, id int64, req *dto.UpdateReservationRequest) (*dto.ReservationResponse, error) {
				return nil, domain.ErrInvalidState
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "INVALID_STATE",
		},
		{
			name: "new dates clash",
			body: `{"check_out":"2027-06-10"}`,
			mockFunc: func(ctx context.Context, id int64, req *dto.UpdateReservationRequest) (*dto.ReservationResponse, error) {
				return nil, domain.ErrRoomUnavailable
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "ROOM_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockReservationService{UpdateFunc: tt.mockFunc}
			router := setupReservationRouter(svc)

			req := httptest.NewRequest(http.MethodPatch, "/v1/reservations/5", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectedCode != "" {
				env := decodeEnvelope(t, w)
				if env.Error == nil || env.Error.Code != tt.expectedCode {
					t.Errorf("error code = %v, want %q", env.Error, tt.expectedCode)
				}
			}
		})
	}
}

func TestReservationHandler_Cancel(t *testing.T) {
	tests := []struct {
		name           string
		mockFunc       func(ctx context.Context, id int64) (*dto.ReservationResponse, error)
		expectedStatus int
	}{
		{
			name: "cancels",
			mockFunc: func(ctx context.Context, id int64) (*dto.ReservationResponse, error) {
				return &dto.ReservationResponse{ID: id, Status: "cancelled"}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "stay already started",
			mockFunc: func(ctx context.Context, id int64) (*dto.ReservationResponse, error) {
				return nil, domain.ErrInvalidState
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "unknown reservation",
			mockFunc: func(ctx context.Context, id int64) (*dto.ReservationResponse, error) {
				return nil, domain.ErrReservationNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockReservationService{CancelFunc: tt.mockFunc}
			router := setupReservationRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/v1/reservations/5/cancel", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
		})
	}
}

func TestReservationHandler_ListActive(t *testing.T) {
	svc := &MockReservationService{
		ListActiveFunc: func(ctx context.Context) ([]*dto.ReservationResponse, error) {
			return []*dto.ReservationResponse{
				{ID: 1, Status: "active"},
				{ID: 2, Status: "active"},
			}, nil
		},
	}
	router := setupReservationRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/reservations", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	env := decodeEnvelope(t, w)
	var items []*dto.ReservationResponse
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("items = %d, want 2", len(items))
	}
}
