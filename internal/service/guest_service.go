package service

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hoteleria/reservation-engine/internal/domain"
	"github.com/hoteleria/reservation-engine/internal/dto"
	"github.com/hoteleria/reservation-engine/internal/repository"
	"github.com/hoteleria/reservation-engine/pkg/telemetry"
)

// GuestService defines the interface for guest directory business logic
type GuestService interface {
	// Register adds a guest to the directory
	Register(ctx context.Context, req *dto.RegisterGuestRequest) (*dto.GuestResponse, error)

	// Get retrieves a guest by ID
	Get(ctx context.Context, id int64) (*dto.GuestResponse, error)

	// GetByEmail retrieves a guest by email
	GetByEmail(ctx context.Context, email string) (*dto.GuestResponse, error)

	// List retrieves all guests ordered by registration time
	List(ctx context.Context) ([]*dto.GuestResponse, error)

	// Update modifies a guest's contact details
	Update(ctx context.Context, id int64, req *dto.UpdateGuestRequest) (*dto.GuestResponse, error)

	// Delete removes a guest from the directory
	Delete(ctx context.Context, id int64) error
}

// guestService implements GuestService
type guestService struct {
	guestRepo repository.GuestRepository
}

// NewGuestService creates a new guest service
func NewGuestService(guestRepo repository.GuestRepository) GuestService {
	return &guestService{guestRepo: guestRepo}
}

// Register adds a guest to the directory
func (s *guestService) Register(ctx context.Context, req *dto.RegisterGuestRequest) (*dto.GuestResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.guest.register")
	defer span.End()

	if req == nil {
		span.SetStatus(codes.Error, "nil request")
		return nil, domain.ErrInvalidInput
	}

	guest := &domain.Guest{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		RegisteredAt: time.Now(),
	}
	if err := guest.Validate(); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	created, err := s.guestRepo.Create(ctx, guest)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int64("guest_id", created.ID))
	span.SetStatus(codes.Ok, "")
	return dto.GuestFromDomain(created), nil
}

// Get retrieves a guest by ID
func (s *guestService) Get(ctx context.Context, id int64) (*dto.GuestResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.guest.get")
	defer span.End()

	span.SetAttributes(attribute.Int64("guest_id", id))

	guest, err := s.guestRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "guest lookup failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.GuestFromDomain(guest), nil
}

// GetByEmail retrieves a guest by email
func (s *guestService) GetByEmail(ctx context.Context, email string) (*dto.GuestResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.guest.get_by_email")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		span.SetStatus(codes.Error, "empty email")
		return nil, domain.ErrInvalidInput
	}

	guest, err := s.guestRepo.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "guest lookup failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.GuestFromDomain(guest), nil
}

// List retrieves all guests ordered by registration time
func (s *guestService) List(ctx context.Context) ([]*dto.GuestResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.guest.list")
	defer span.End()

	guests, err := s.guestRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.GuestsFromDomain(guests), nil
}

// Update modifies a guest's contact details
func (s *guestService) Update(ctx context.Context, id int64, req *dto.UpdateGuestRequest) (*dto.GuestResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.guest.update")
	defer span.End()

	span.SetAttributes(attribute.Int64("guest_id", id))

	if req == nil {
		span.SetStatus(codes.Error, "nil request")
		return nil, domain.ErrInvalidInput
	}

	guest, err := s.guestRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "guest lookup failed")
		return nil, err
	}

	guest.Name = strings.TrimSpace(req.Name)
	guest.Email = strings.ToLower(strings.TrimSpace(req.Email))
	guest.Phone = strings.TrimSpace(req.Phone)
	if err := guest.Validate(); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	updated, err := s.guestRepo.Update(ctx, guest)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.GuestFromDomain(updated), nil
}

// Delete removes a guest from the directory. Fails with a conflict while
// reservations still reference the guest.
func (s *guestService) Delete(ctx context.Context, id int64) error {
	ctx, span := telemetry.StartSpan(ctx, "service.guest.delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("guest_id", id))

	if err := s.guestRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
