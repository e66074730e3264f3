package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hoteleria/reservation-engine/internal/domain"
	"github.com/hoteleria/reservation-engine/internal/dto"
)

// mockReservationService stubs the reservation service; only
// CompleteDueStays matters to the worker.
type mockReservationService struct {
	completeDueStaysFunc func(ctx context.Context, asOf domain.Date, limit int) (int, error)
}

func (m *mockReservationService) Create(ctx context.Context, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
	return nil, nil
}

func (m *mockReservationService) Update(ctx context.Context, id int64, req *dto.UpdateReservationRequest) (*dto.ReservationResponse, error) {
	return nil, nil
}

func (m *mockReservationService) Cancel(ctx context.Context, id int64) (*dto.ReservationResponse, error) {
	return nil, nil
}

func (m *mockReservationService) Get(ctx context.Context, id int64) (*dto.ReservationResponse, error) {
	return nil, nil
}

func (m *mockReservationService) ListByGuest(ctx context.Context, guestID int64) ([]*dto.ReservationResponse, error) {
	return nil, nil
}

func (m *mockReservationService) ListByRoom(ctx context.Context, roomID int64) ([]*dto.ReservationResponse, error) {
	return nil, nil
}

func (m *mockReservationService) ListActive(ctx context.Context) ([]*dto.ReservationResponse, error) {
	return nil, nil
}

func (m *mockReservationService) CompleteDueStays(ctx context.Context, asOf domain.Date, limit int) (int, error) {
	if m.completeDueStaysFunc != nil {
		return m.completeDueStaysFunc(ctx, asOf, limit)
	}
	return 0, nil
}

func TestCompletionWorker_SweepsOnStart(t *testing.T) {
	var sweeps int64
	svc := &mockReservationService{
		completeDueStaysFunc: func(ctx context.Context, asOf domain.Date, limit int) (int, error) {
			atomic.AddInt64(&sweeps, 1)
			return 2, nil
		},
	}

	w := NewCompletionWorker(svc, &CompletionWorkerConfig{
		SweepInterval: time.Hour, // only the immediate sweep fires
		BatchSize:     50,
	})

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}
	defer w.Stop()

	deadline := time.After(2 * time.Second)
	for w.Stats().TotalCompleted < 2 {
		select {
		case <-deadline:
			t.Fatalf("worker never swept (sweeps=%d)", atomic.LoadInt64(&sweeps))
		case <-time.After(10 * time.Millisecond):
		}
	}

	if !w.Stats().IsRunning {
		t.Error("Stats().IsRunning = false, want true")
	}
}

func TestCompletionWorker_StartTwice(t *testing.T) {
	w := NewCompletionWorker(&mockReservationService{}, nil)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}
	defer w.Stop()

	if err := w.Start(context.Background()); err == nil {
		t.Error("second Start() did not fail")
	}
}

func TestCompletionWorker_StopIsIdempotent(t *testing.T) {
	w := NewCompletionWorker(&mockReservationService{}, nil)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}

	w.Stop()
	w.Stop() // second stop must not panic

	if w.Stats().IsRunning {
		t.Error("Stats().IsRunning = true after Stop()")
	}
}
