package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoteleria/reservation-engine/internal/domain"
)

// PostgresGuestRepository implements GuestRepository using PostgreSQL with pgxpool.
type PostgresGuestRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresGuestRepository creates a new PostgresGuestRepository.
func NewPostgresGuestRepository(pool *pgxpool.Pool) *PostgresGuestRepository {
	return &PostgresGuestRepository{pool: pool}
}

// Create inserts a guest and returns it with its assigned id.
func (r *PostgresGuestRepository) Create(ctx context.Context, guest *domain.Guest) (*domain.Guest, error) {
	query := `
		INSERT INTO guests (name, email, phone, registered_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		guest.Name,
		guest.Email,
		guest.Phone,
		guest.RegisteredAt,
	).Scan(&guest.ID)

	if err != nil {
		if isUniqueViolation(err, "guests_email_unique") {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}

	return guest, nil
}

// GetByID retrieves a guest by id.
func (r *PostgresGuestRepository) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	query := `
		SELECT id, name, email, phone, registered_at
		FROM guests
		WHERE id = $1
	`

	guest := &domain.Guest{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&guest.ID,
		&guest.Name,
		&guest.Email,
		&guest.Phone,
		&guest.RegisteredAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGuestNotFound
		}
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}

	return guest, nil
}

// GetByEmail retrieves a guest by email.
func (r *PostgresGuestRepository) GetByEmail(ctx context.Context, email string) (*domain.Guest, error) {
	query := `
		SELECT id, name, email, phone, registered_at
		FROM guests
		WHERE email = $1
	`

	guest := &domain.Guest{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&guest.ID,
		&guest.Name,
		&guest.Email,
		&guest.Phone,
		&guest.RegisteredAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGuestNotFound
		}
		return nil, fmt.Errorf("failed to get guest by email: %w", err)
	}

	return guest, nil
}

// List retrieves all guests ordered by registration time.
func (r *PostgresGuestRepository) List(ctx context.Context) ([]*domain.Guest, error) {
	query := `
		SELECT id, name, email, phone, registered_at
		FROM guests
		ORDER BY registered_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	defer rows.Close()

	var guests []*domain.Guest
	for rows.Next() {
		guest := &domain.Guest{}
		if err := rows.Scan(&guest.ID, &guest.Name, &guest.Email, &guest.Phone, &guest.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, guest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guests: %w", err)
	}

	return guests, nil
}

// Update persists changes to a guest's mutable fields.
func (r *PostgresGuestRepository) Update(ctx context.Context, guest *domain.Guest) (*domain.Guest, error) {
	query := `
		UPDATE guests SET
			name = $2,
			email = $3,
			phone = $4
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, guest.ID, guest.Name, guest.Email, guest.Phone)
	if err != nil {
		if isUniqueViolation(err, "guests_email_unique") {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update guest: %w", err)
	}

	if result.RowsAffected() == 0 {
		return nil, domain.ErrGuestNotFound
	}

	return guest, nil
}

// Delete removes a guest. Fails while reservations still reference it.
func (r *PostgresGuestRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return domain.ErrConflict
		}
		return fmt.Errorf("failed to delete guest: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrGuestNotFound
	}

	return nil
}
