package repository

import (
	"context"

	"github.com/hoteleria/reservation-engine/internal/domain"
)

// GuestRepository defines the persistence interface for guests.
type GuestRepository interface {
	// Create inserts a guest and returns it with its assigned id.
	Create(ctx context.Context, guest *domain.Guest) (*domain.Guest, error)

	// GetByID retrieves a guest by id.
	GetByID(ctx context.Context, id int64) (*domain.Guest, error)

	// GetByEmail retrieves a guest by email.
	GetByEmail(ctx context.Context, email string) (*domain.Guest, error)

	// List retrieves all guests ordered by registration time.
	List(ctx context.Context) ([]*domain.Guest, error)

	// Update persists changes to a guest's mutable fields.
	Update(ctx context.Context, guest *domain.Guest) (*domain.Guest, error)

	// Delete removes a guest. Fails while reservations still reference it.
	Delete(ctx context.Context, id int64) error
}
