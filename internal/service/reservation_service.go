package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/hoteleria/reservation-engine/internal/domain"
	"github.com/hoteleria/reservation-engine/internal/dto"
	"github.com/hoteleria/reservation-engine/internal/repository"
	"github.com/hoteleria/reservation-engine/pkg/logger"
	"github.com/hoteleria/reservation-engine/pkg/retry"
	"github.com/hoteleria/reservation-engine/pkg/telemetry"
)

// ReservationService defines the interface for reservation business logic
type ReservationService interface {
	// Create books a room for a guest over a half-open date range
	Create(ctx context.Context, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error)

	// Update modifies the dates and/or occupant count of an active reservation
	Update(ctx context.Context, id int64, req *dto.UpdateReservationRequest) (*dto.ReservationResponse, error)

	// Cancel cancels an active reservation whose check-in is still in the future
	Cancel(ctx context.Context, id int64) (*dto.ReservationResponse, error)

	// Get retrieves a reservation by ID
	Get(ctx context.Context, id int64) (*dto.ReservationResponse, error)

	// ListByGuest retrieves all reservations for a guest, newest first
	ListByGuest(ctx context.Context, guestID int64) ([]*dto.ReservationResponse, error)

	// ListByRoom retrieves all reservations for a room ordered by check-in
	ListByRoom(ctx context.Context, roomID int64) ([]*dto.ReservationResponse, error)

	// ListActive retrieves all active reservations
	ListActive(ctx context.Context) ([]*dto.ReservationResponse, error)

	// CompleteDueStays transitions active reservations whose check-out has
	// passed to completed, up to limit rows. Returns the number completed.
	CompleteDueStays(ctx context.Context, asOf domain.Date, limit int) (int, error)
}

// reservationService implements ReservationService
type reservationService struct {
	reservationRepo repository.ReservationRepository
	guestRepo       repository.GuestRepository
	roomRepo        repository.RoomRepository
	eventPublisher  EventPublisher
	retrier         *retry.Retrier
}

// ReservationServiceConfig contains configuration for reservation service
type ReservationServiceConfig struct {
	// ConflictRetries bounds how many times a write that lost the commit race
	// is retried before the slot is reported unavailable.
	ConflictRetries int
}

// NewReservationService creates a new reservation service
func NewReservationService(
	reservationRepo repository.ReservationRepository,
	guestRepo repository.GuestRepository,
	roomRepo repository.RoomRepository,
	eventPublisher EventPublisher,
	cfg *ReservationServiceConfig,
) ReservationService {
	retryCfg := retry.DefaultConfig()
	if cfg != nil && cfg.ConflictRetries > 0 {
		retryCfg.MaxRetries = cfg.ConflictRetries
	}
	if eventPublisher == nil {
		eventPublisher = NewNoOpEventPublisher()
	}
	return &reservationService{
		reservationRepo: reservationRepo,
		guestRepo:       guestRepo,
		roomRepo:        roomRepo,
		eventPublisher:  eventPublisher,
		retrier:         retry.New(retryCfg),
	}
}

// Create books a room for a guest over a half-open date range
func (s *reservationService) Create(ctx context.Context, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.reservation.create")
	defer span.End()

	if req == nil {
		span.SetStatus(codes.Error, "nil request")
		return nil, domain.ErrInvalidInput
	}

	checkIn, err := domain.ParseDate(req.CheckIn)
	if err != nil {
		span.SetStatus(codes.Error, "invalid check_in")
		return nil, domain.ErrInvalidInput
	}
	checkOut, err := domain.ParseDate(req.CheckOut)
	if err != nil {
		span.SetStatus(codes.Error, "invalid check_out")
		return nil, domain.ErrInvalidInput
	}

	res := domain.NewReservation(req.GuestID, req.RoomID, checkIn, checkOut, req.Occupants)
	if err := res.Validate(domain.Today()); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("guest_id", req.GuestID),
		attribute.Int64("room_id", req.RoomID),
		attribute.String("check_in", checkIn.String()),
		attribute.String("check_out", checkOut.String()),
		attribute.Int("occupants", req.Occupants),
	)

	if _, err := s.guestRepo.GetByID(ctx, req.GuestID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "guest lookup failed")
		return nil, err
	}

	room, err := s.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "room lookup failed")
		return nil, err
	}
	// Capacity is a property of the request itself, so it is reported
	// before any availability concern.
	if !room.CanAccommodate(req.Occupants) {
		span.SetStatus(codes.Error, "capacity exceeded")
		return nil, domain.ErrCapacityExceeded
	}
	if !room.Available {
		span.SetStatus(codes.Error, "room withdrawn from sale")
		return nil, domain.ErrRoomUnavailable
	}

	total, err := domain.TotalPrice(room.NightlyRate, checkIn, checkOut)
	if err != nil {
		span.SetStatus(codes.Error, "pricing failed")
		return nil, err
	}
	res.TotalAmount = total

	created, err := s.insertWithRetry(ctx, res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, err
	}

	span.AddEvent("reservation created")
	span.SetAttributes(attribute.Int64("reservation_id", created.ID))
	span.SetStatus(codes.Ok, "")

	s.publishAsync(created, s.eventPublisher.PublishReservationCreated)

	return dto.ReservationFromDomain(created), nil
}

// insertWithRetry inserts a reservation, re-checking availability before each
// attempt. The repository's exclusion constraint is the source of truth: the
// pre-check only exists to fail fast and to turn a lost race into a clean
// retry. A conflict that persists past the retry budget means the dates are
// genuinely taken.
func (s *reservationService) insertWithRetry(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	var created *domain.Reservation
	result := s.retrier.Do(ctx, func(ctx context.Context) error {
		existing, err := s.reservationRepo.FindActiveForRoom(ctx, res.RoomID)
		if err != nil {
			return retry.Permanent(err)
		}
		if !domain.IsRoomFree(res.RoomID, res.CheckIn, res.CheckOut, excludeReservation(existing, res.ID)) {
			return retry.Permanent(domain.ErrRoomUnavailable)
		}
		created, err = s.reservationRepo.Insert(ctx, res)
		if errors.Is(err, domain.ErrConflict) {
			return err // lost the commit race, re-check and retry
		}
		if err != nil {
			return retry.Permanent(err)
		}
		return nil
	})
	if result.Err != nil {
		if errors.Is(result.Err, domain.ErrConflict) {
			return nil, domain.ErrRoomUnavailable
		}
		return nil, result.Err
	}
	return created, nil
}

// Update modifies the dates and/or occupant count of an active reservation
func (s *reservationService) Update(ctx context.Context, id int64, req *dto.UpdateReservationRequest) (*dto.ReservationResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.reservation.update")
	defer span.End()

	span.SetAttributes(attribute.Int64("reservation_id", id))

	if req == nil || (req.CheckIn == nil && req.CheckOut == nil && req.Occupants == nil) {
		span.SetStatus(codes.Error, "nothing to update")
		return nil, domain.ErrInvalidInput
	}

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reservation lookup failed")
		return nil, err
	}
	if !res.IsActive() {
		span.SetStatus(codes.Error, "reservation not active")
		return nil, domain.ErrInvalidState
	}

	datesChanged := false
	if req.CheckIn != nil {
		checkIn, err := domain.ParseDate(*req.CheckIn)
		if err != nil {
			span.SetStatus(codes.Error, "invalid check_in")
			return nil, domain.ErrInvalidInput
		}
		res.CheckIn = checkIn
		datesChanged = true
	}
	if req.CheckOut != nil {
		checkOut, err := domain.ParseDate(*req.CheckOut)
		if err != nil {
			span.SetStatus(codes.Error, "invalid check_out")
			return nil, domain.ErrInvalidInput
		}
		res.CheckOut = checkOut
		datesChanged = true
	}
	if req.Occupants != nil {
		res.Occupants = *req.Occupants
	}

	if err := res.ValidateOccupants(); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	room, err := s.roomRepo.GetByID(ctx, res.RoomID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "room lookup failed")
		return nil, err
	}
	if !room.CanAccommodate(res.Occupants) {
		span.SetStatus(codes.Error, "capacity exceeded")
		return nil, domain.ErrCapacityExceeded
	}

	var updated *domain.Reservation
	if datesChanged {
		if err := res.ValidateDates(domain.Today()); err != nil {
			span.SetStatus(codes.Error, "validation failed")
			return nil, err
		}
		total, err := domain.TotalPrice(room.NightlyRate, res.CheckIn, res.CheckOut)
		if err != nil {
			span.SetStatus(codes.Error, "pricing failed")
			return nil, err
		}
		res.TotalAmount = total
		updated, err = s.updateWithRetry(ctx, res)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "update failed")
			return nil, err
		}
	} else {
		// Occupant-only change cannot introduce a date overlap, skip the
		// availability re-check.
		updated, err = s.reservationRepo.Update(ctx, res)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "update failed")
			return nil, err
		}
	}

	span.AddEvent("reservation updated")
	span.SetStatus(codes.Ok, "")

	s.publishAsync(updated, s.eventPublisher.PublishReservationUpdated)

	return dto.ReservationFromDomain(updated), nil
}

// updateWithRetry persists a date change, re-checking availability against
// the room's other active reservations before each attempt.
func (s *reservationService) updateWithRetry(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	var updated *domain.Reservation
	result := s.retrier.Do(ctx, func(ctx context.Context) error {
		existing, err := s.reservationRepo.FindActiveForRoom(ctx, res.RoomID)
		if err != nil {
			return retry.Permanent(err)
		}
		if !domain.IsRoomFree(res.RoomID, res.CheckIn, res.CheckOut, excludeReservation(existing, res.ID)) {
			return retry.Permanent(domain.ErrRoomUnavailable)
		}
		updated, err = s.reservationRepo.Update(ctx, res)
		if errors.Is(err, domain.ErrConflict) {
			return err
		}
		if err != nil {
			return retry.Permanent(err)
		}
		return nil
	})
	if result.Err != nil {
		if errors.Is(result.Err, domain.ErrConflict) {
			return nil, domain.ErrRoomUnavailable
		}
		return nil, result.Err
	}
	return updated, nil
}

// Cancel cancels an active reservation whose check-in is still in the future
func (s *reservationService) Cancel(ctx context.Context, id int64) (*dto.ReservationResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.reservation.cancel")
	defer span.End()

	span.SetAttributes(attribute.Int64("reservation_id", id))

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reservation lookup failed")
		return nil, err
	}

	if err := res.Cancel(domain.Today()); err != nil {
		span.SetStatus(codes.Error, "cannot cancel")
		return nil, err
	}

	updated, err := s.reservationRepo.Update(ctx, res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}

	span.AddEvent("reservation cancelled")
	span.SetStatus(codes.Ok, "")

	s.publishAsync(updated, s.eventPublisher.PublishReservationCancelled)

	return dto.ReservationFromDomain(updated), nil
}

// Get retrieves a reservation by ID
func (s *reservationService) Get(ctx context.Context, id int64) (*dto.ReservationResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.reservation.get")
	defer span.End()

	span.SetAttributes(attribute.Int64("reservation_id", id))

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reservation lookup failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.ReservationFromDomain(res), nil
}

// ListByGuest retrieves all reservations for a guest, newest first
func (s *reservationService) ListByGuest(ctx context.Context, guestID int64) ([]*dto.ReservationResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.reservation.list_by_guest")
	defer span.End()

	span.SetAttributes(attribute.Int64("guest_id", guestID))

	if _, err := s.guestRepo.GetByID(ctx, guestID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "guest lookup failed")
		return nil, err
	}

	reservations, err := s.reservationRepo.FindByGuest(ctx, guestID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.ReservationsFromDomain(reservations), nil
}

// ListByRoom retrieves all reservations for a room ordered by check-in
func (s *reservationService) ListByRoom(ctx context.Context, roomID int64) ([]*dto.ReservationResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.reservation.list_by_room")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", roomID))

	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "room lookup failed")
		return nil, err
	}

	reservations, err := s.reservationRepo.FindByRoom(ctx, roomID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.ReservationsFromDomain(reservations), nil
}

// ListActive retrieves all active reservations
func (s *reservationService) ListActive(ctx context.Context) ([]*dto.ReservationResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.reservation.list_active")
	defer span.End()

	reservations, err := s.reservationRepo.FindActive(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.ReservationsFromDomain(reservations), nil
}

// CompleteDueStays transitions active reservations whose check-out has passed
// to completed, up to limit rows. Returns the number completed.
func (s *reservationService) CompleteDueStays(ctx context.Context, asOf domain.Date, limit int) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.reservation.complete_due_stays")
	defer span.End()

	span.SetAttributes(attribute.String("as_of", asOf.String()))

	due, err := s.reservationRepo.FindDueForCompletion(ctx, asOf, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return 0, err
	}

	completed := 0
	for _, res := range due {
		if err := res.Complete(asOf); err != nil {
			continue
		}
		updated, err := s.reservationRepo.Update(ctx, res)
		if err != nil {
			logger.Get().Warn("failed to complete reservation",
				zap.Int64("reservation_id", res.ID),
				zap.Error(err))
			continue
		}
		completed++
		s.publishAsync(updated, s.eventPublisher.PublishReservationCompleted)
	}

	span.SetAttributes(attribute.Int("completed", completed))
	span.SetStatus(codes.Ok, "")
	return completed, nil
}

// publishAsync publishes a reservation event without blocking the request.
// Publish failures are logged, never surfaced to the caller.
func (s *reservationService) publishAsync(res *domain.Reservation, publish func(context.Context, *domain.Reservation) error) {
	go func() {
		if err := publish(context.Background(), res); err != nil {
			logger.Get().Warn("failed to publish reservation event",
				zap.Int64("reservation_id", res.ID),
				zap.Error(err))
		}
	}()
}

// excludeReservation filters one reservation id out of a slice, so a
// reservation being rescheduled does not conflict with itself.
func excludeReservation(reservations []*domain.Reservation, id int64) []*domain.Reservation {
	if id == 0 {
		return reservations
	}
	out := reservations[:0:0]
	for _, r := range reservations {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
