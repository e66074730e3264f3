package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hoteleria/reservation-engine/internal/domain"
	"github.com/hoteleria/reservation-engine/pkg/telemetry"
)

// PostgresReservationRepository implements ReservationRepository using
// PostgreSQL with pgxpool. The reservations table carries an exclusion
// constraint on (room_id, active date range); inserts and updates that would
// double-book a room fail there with domain.ErrConflict no matter how the
// service-level availability check raced.
type PostgresReservationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresReservationRepository creates a new PostgresReservationRepository.
func NewPostgresReservationRepository(pool *pgxpool.Pool) *PostgresReservationRepository {
	return &PostgresReservationRepository{pool: pool}
}

// Insert persists a new reservation and returns it with its assigned id.
func (r *PostgresReservationRepository) Insert(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.reservation.insert")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("guest_id", res.GuestID),
		attribute.Int64("room_id", res.RoomID),
		attribute.String("check_in", res.CheckIn.String()),
		attribute.String("check_out", res.CheckOut.String()),
	)

	query := `
		INSERT INTO reservations (
			guest_id, room_id, check_in, check_out,
			occupants, total_amount_cents, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		res.GuestID,
		res.RoomID,
		res.CheckIn.Time(),
		res.CheckOut.Time(),
		res.Occupants,
		res.TotalAmount.Cents(),
		res.Status.String(),
		res.CreatedAt,
	).Scan(&res.ID)

	if err != nil {
		if isPgError(err, pgExclusionViolation) {
			span.SetStatus(codes.Error, "overlap conflict")
			return nil, domain.ErrConflict
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to insert reservation: %w", err)
	}

	span.SetAttributes(attribute.Int64("reservation_id", res.ID))
	span.SetStatus(codes.Ok, "")
	return res, nil
}

// Update persists changes to an existing reservation. Every lifecycle write
// transitions from active (reschedule, cancel, complete), so the WHERE clause
// requires the stored row to still be active. A row that was cancelled or
// completed by a concurrent writer stays terminal and the update reports
// ErrInvalidState instead of resurrecting it.
func (r *PostgresReservationRepository) Update(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.reservation.update")
	defer span.End()

	span.SetAttributes(attribute.Int64("reservation_id", res.ID))

	query := `
		UPDATE reservations SET
			room_id = $2,
			check_in = $3,
			check_out = $4,
			occupants = $5,
			total_amount_cents = $6,
			status = $7
		WHERE id = $1 AND status = 'active'
	`

	result, err := r.pool.Exec(ctx, query,
		res.ID,
		res.RoomID,
		res.CheckIn.Time(),
		res.CheckOut.Time(),
		res.Occupants,
		res.TotalAmount.Cents(),
		res.Status.String(),
	)
	if err != nil {
		if isPgError(err, pgExclusionViolation) {
			span.SetStatus(codes.Error, "overlap conflict")
			return nil, domain.ErrConflict
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reservations WHERE id = $1)`, res.ID).Scan(&exists); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to check reservation existence: %w", err)
		}
		if exists {
			// Lost a race against cancel or the completion sweep.
			span.SetStatus(codes.Error, "no longer active")
			return nil, domain.ErrInvalidState
		}
		span.SetStatus(codes.Error, "not found")
		return nil, domain.ErrReservationNotFound
	}

	span.SetStatus(codes.Ok, "")
	return res, nil
}

// GetByID retrieves a reservation by id.
func (r *PostgresReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.reservation.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.Int64("reservation_id", id))

	query := selectReservation + ` WHERE id = $1`

	res, err := scanReservation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrReservationNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return res, nil
}

// FindActiveForRoom retrieves all active reservations for a room.
func (r *PostgresReservationRepository) FindActiveForRoom(ctx context.Context, roomID int64) ([]*domain.Reservation, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.reservation.find_active_for_room")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", roomID))

	query := selectReservation + ` WHERE room_id = $1 AND status = 'active' ORDER BY check_in`
	return r.queryReservations(ctx, span, query, roomID)
}

// FindActive retrieves all active reservations.
func (r *PostgresReservationRepository) FindActive(ctx context.Context) ([]*domain.Reservation, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.reservation.find_active")
	defer span.End()

	query := selectReservation + ` WHERE status = 'active' ORDER BY check_in`
	return r.queryReservations(ctx, span, query)
}

// FindByGuest retrieves a guest's reservations, newest first.
func (r *PostgresReservationRepository) FindByGuest(ctx context.Context, guestID int64) ([]*domain.Reservation, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.reservation.find_by_guest")
	defer span.End()

	span.SetAttributes(attribute.Int64("guest_id", guestID))

	query := selectReservation + ` WHERE guest_id = $1 ORDER BY created_at DESC`
	return r.queryReservations(ctx, span, query, guestID)
}

// FindByRoom retrieves a room's reservations ordered by check-in.
func (r *PostgresReservationRepository) FindByRoom(ctx context.Context, roomID int64) ([]*domain.Reservation, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.reservation.find_by_room")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", roomID))

	query := selectReservation + ` WHERE room_id = $1 ORDER BY check_in`
	return r.queryReservations(ctx, span, query, roomID)
}

// FindDueForCompletion retrieves active reservations whose check-out date is
// on or before asOf, up to limit rows.
func (r *PostgresReservationRepository) FindDueForCompletion(ctx context.Context, asOf domain.Date, limit int) ([]*domain.Reservation, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.reservation.find_due_for_completion")
	defer span.End()

	span.SetAttributes(
		attribute.String("as_of", asOf.String()),
		attribute.Int("limit", limit),
	)

	query := selectReservation + ` WHERE status = 'active' AND check_out <= $1 ORDER BY check_out LIMIT $2`
	return r.queryReservations(ctx, span, query, asOf.Time(), limit)
}

const selectReservation = `
	SELECT id, guest_id, room_id, check_in, check_out,
	       occupants, total_amount_cents, status, created_at
	FROM reservations`

func (r *PostgresReservationRepository) queryReservations(ctx context.Context, span trace.Span, query string, args ...any) ([]*domain.Reservation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating reservations: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(reservations)))
	span.SetStatus(codes.Ok, "")
	return reservations, nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	var (
		checkIn    time.Time
		checkOut   time.Time
		totalCents int64
		status     string
	)

	err := row.Scan(
		&res.ID,
		&res.GuestID,
		&res.RoomID,
		&checkIn,
		&checkOut,
		&res.Occupants,
		&totalCents,
		&status,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CheckIn = domain.DateOf(checkIn)
	res.CheckOut = domain.DateOf(checkOut)
	res.TotalAmount = domain.Money(totalCents)
	res.Status = domain.ReservationStatus(status)
	return res, nil
}
