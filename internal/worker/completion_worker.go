package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hoteleria/reservation-engine/internal/domain"
	"github.com/hoteleria/reservation-engine/internal/service"
	"github.com/hoteleria/reservation-engine/pkg/logger"
)

// CompletionWorkerConfig contains configuration for the completion worker
type CompletionWorkerConfig struct {
	// SweepInterval is the interval between sweeps for finished stays
	SweepInterval time.Duration
	// BatchSize is the number of reservations to complete per sweep
	BatchSize int
}

// DefaultCompletionWorkerConfig returns default configuration
func DefaultCompletionWorkerConfig() *CompletionWorkerConfig {
	return &CompletionWorkerConfig{
		SweepInterval: time.Minute,
		BatchSize:     100,
	}
}

// CompletionWorker periodically sweeps active reservations whose check-out
// date has passed and transitions them to completed.
type CompletionWorker struct {
	reservationService service.ReservationService
	config             *CompletionWorkerConfig
	log                *zap.Logger
	stopCh             chan struct{}
	wg                 sync.WaitGroup
	mu                 sync.Mutex
	running            bool

	totalCompleted int64
	lastSweepTime  time.Time
}

// NewCompletionWorker creates a new completion worker
func NewCompletionWorker(reservationService service.ReservationService, config *CompletionWorkerConfig) *CompletionWorker {
	if config == nil {
		config = DefaultCompletionWorkerConfig()
	}
	return &CompletionWorker{
		reservationService: reservationService,
		config:             config,
		log:                logger.Get(),
		stopCh:             make(chan struct{}),
	}
}

// Start starts the completion worker
func (w *CompletionWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("completion worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.log.Info("starting completion worker",
		zap.Duration("sweep_interval", w.config.SweepInterval),
		zap.Int("batch_size", w.config.BatchSize))

	w.wg.Add(1)
	go w.sweep(ctx)

	return nil
}

// Stop stops the completion worker
func (w *CompletionWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("completion worker stopped")
}

// sweep runs one sweep immediately, then on every tick
func (w *CompletionWorker) sweep(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.SweepInterval)
	defer ticker.Stop()

	w.completeDueStays(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.completeDueStays(ctx)
		}
	}
}

// completeDueStays completes one batch of finished stays
func (w *CompletionWorker) completeDueStays(ctx context.Context) {
	w.mu.Lock()
	w.lastSweepTime = time.Now()
	w.mu.Unlock()

	completed, err := w.reservationService.CompleteDueStays(ctx, domain.Today(), w.config.BatchSize)
	if err != nil {
		w.log.Error("completion sweep failed", zap.Error(err))
		return
	}
	if completed == 0 {
		return
	}

	w.mu.Lock()
	w.totalCompleted += int64(completed)
	w.mu.Unlock()

	w.log.Info("completed finished stays", zap.Int("count", completed))
}

// Stats returns worker statistics
func (w *CompletionWorker) Stats() *CompletionWorkerStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	return &CompletionWorkerStats{
		IsRunning:      w.running,
		TotalCompleted: w.totalCompleted,
		LastSweepTime:  w.lastSweepTime,
	}
}

// CompletionWorkerStats contains worker statistics
type CompletionWorkerStats struct {
	IsRunning      bool      `json:"is_running"`
	TotalCompleted int64     `json:"total_completed"`
	LastSweepTime  time.Time `json:"last_sweep_time"`
}
