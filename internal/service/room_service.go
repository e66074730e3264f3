package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hoteleria/reservation-engine/internal/domain"
	"github.com/hoteleria/reservation-engine/internal/dto"
	"github.com/hoteleria/reservation-engine/internal/repository"
	"github.com/hoteleria/reservation-engine/pkg/telemetry"
)

// RoomService defines the interface for room catalog business logic
type RoomService interface {
	// Create adds a room to the catalog
	Create(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)

	// Get retrieves a room by ID
	Get(ctx context.Context, id int64) (*dto.RoomResponse, error)

	// List retrieves all rooms ordered by room number
	List(ctx context.Context) ([]*dto.RoomResponse, error)

	// Update modifies a room's rate, capacity or availability flag
	Update(ctx context.Context, id int64, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error)

	// Delete removes a room from the catalog
	Delete(ctx context.Context, id int64) error

	// FindAvailable retrieves rooms free over a date range for a party size,
	// cheapest first
	FindAvailable(ctx context.Context, req *dto.FindAvailableRoomsRequest) ([]*dto.RoomResponse, error)
}

// roomService implements RoomService
type roomService struct {
	roomRepo        repository.RoomRepository
	reservationRepo repository.ReservationRepository
}

// NewRoomService creates a new room service
func NewRoomService(roomRepo repository.RoomRepository, reservationRepo repository.ReservationRepository) RoomService {
	return &roomService{
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
	}
}

// Create adds a room to the catalog
func (s *roomService) Create(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.create")
	defer span.End()

	if req == nil {
		span.SetStatus(codes.Error, "nil request")
		return nil, domain.ErrInvalidInput
	}

	rate, err := domain.ParseMoney(req.NightlyRate)
	if err != nil {
		span.SetStatus(codes.Error, "invalid nightly_rate")
		return nil, domain.ErrInvalidInput
	}

	room := domain.NewRoom(req.Number, domain.RoomClass(req.Class), rate)
	if req.MaxOccupancy > 0 {
		room.MaxOccupancy = req.MaxOccupancy
	}
	if err := room.Validate(); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("room_number", room.Number),
		attribute.String("room_class", room.Class.String()),
	)

	created, err := s.roomRepo.Create(ctx, room)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int64("room_id", created.ID))
	span.SetStatus(codes.Ok, "")
	return dto.RoomFromDomain(created), nil
}

// Get retrieves a room by ID
func (s *roomService) Get(ctx context.Context, id int64) (*dto.RoomResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.get")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", id))

	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "room lookup failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.RoomFromDomain(room), nil
}

// List retrieves all rooms ordered by room number
func (s *roomService) List(ctx context.Context) ([]*dto.RoomResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.list")
	defer span.End()

	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.RoomsFromDomain(rooms), nil
}

// Update modifies a room's rate, capacity or availability flag
func (s *roomService) Update(ctx context.Context, id int64, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.update")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", id))

	if req == nil || (req.NightlyRate == nil && req.MaxOccupancy == nil && req.Available == nil) {
		span.SetStatus(codes.Error, "nothing to update")
		return nil, domain.ErrInvalidInput
	}

	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "room lookup failed")
		return nil, err
	}

	if req.NightlyRate != nil {
		rate, err := domain.ParseMoney(*req.NightlyRate)
		if err != nil {
			span.SetStatus(codes.Error, "invalid nightly_rate")
			return nil, domain.ErrInvalidInput
		}
		room.NightlyRate = rate
	}
	if req.MaxOccupancy != nil {
		room.MaxOccupancy = *req.MaxOccupancy
	}
	if req.Available != nil {
		room.Available = *req.Available
	}

	if err := room.Validate(); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	updated, err := s.roomRepo.Update(ctx, room)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.RoomFromDomain(updated), nil
}

// Delete removes a room from the catalog. Fails with a conflict while
// reservations still reference the room.
func (s *roomService) Delete(ctx context.Context, id int64) error {
	ctx, span := telemetry.StartSpan(ctx, "service.room.delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", id))

	if err := s.roomRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// FindAvailable retrieves rooms free over a date range for a party size,
// cheapest first
func (s *roomService) FindAvailable(ctx context.Context, req *dto.FindAvailableRoomsRequest) ([]*dto.RoomResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.find_available")
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
	if !checkIn.Before(checkOut) {
		span.SetStatus(codes.Error, "invalid date range")
		return nil, domain.ErrInvalidInput
	}
	if req.Occupants < 1 || req.Occupants > domain.MaxOccupants {
		span.SetStatus(codes.Error, "invalid occupants")
		return nil, domain.ErrInvalidInput
	}

	span.SetAttributes(
		attribute.String("check_in", checkIn.String()),
		attribute.String("check_out", checkOut.String()),
		attribute.Int("occupants", req.Occupants),
	)

	candidates, err := s.roomRepo.ListCandidates(ctx, req.Occupants)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "candidate query failed")
		return nil, err
	}

	active, err := s.reservationRepo.FindActive(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reservation query failed")
		return nil, err
	}

	available := domain.FilterAvailable(candidates, checkIn, checkOut, active)

	span.SetAttributes(attribute.Int("count", len(available)))
	span.SetStatus(codes.Ok, "")
	return dto.RoomsFromDomain(available), nil
}
