package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoteleria/reservation-engine/internal/domain"
)

// PostgresRoomRepository implements RoomRepository using PostgreSQL with pgxpool.
type PostgresRoomRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoomRepository creates a new PostgresRoomRepository.
func NewPostgresRoomRepository(pool *pgxpool.Pool) *PostgresRoomRepository {
	return &PostgresRoomRepository{pool: pool}
}

// Create inserts a room and returns it with its assigned id.
func (r *PostgresRoomRepository) Create(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	query := `
		INSERT INTO rooms (number, class, nightly_rate_cents, max_occupancy, available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		room.Number,
		room.Class.String(),
		room.NightlyRate.Cents(),
		room.MaxOccupancy,
		room.Available,
	).Scan(&room.ID)

	if err != nil {
		if isUniqueViolation(err, "rooms_number_unique") {
			return nil, domain.ErrDuplicateRoomNumber
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return room, nil
}

// GetByID retrieves a room by id.
func (r *PostgresRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	query := `
		SELECT id, number, class, nightly_rate_cents, max_occupancy, available
		FROM rooms
		WHERE id = $1
	`

	room, err := scanRoom(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// List retrieves all rooms ordered by room number.
func (r *PostgresRoomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	query := `
		SELECT id, number, class, nightly_rate_cents, max_occupancy, available
		FROM rooms
		ORDER BY number
	`
	return r.queryRooms(ctx, query)
}

// ListCandidates retrieves available rooms that can host at least minCapacity
// occupants, cheapest first with room number as the deterministic tie-break.
func (r *PostgresRoomRepository) ListCandidates(ctx context.Context, minCapacity int) ([]*domain.Room, error) {
	query := `
		SELECT id, number, class, nightly_rate_cents, max_occupancy, available
		FROM rooms
		WHERE available = true AND max_occupancy >= $1
		ORDER BY nightly_rate_cents, number
	`
	return r.queryRooms(ctx, query, minCapacity)
}

// Update persists changes to a room.
func (r *PostgresRoomRepository) Update(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	query := `
		UPDATE rooms SET
			number = $2,
			class = $3,
			nightly_rate_cents = $4,
			max_occupancy = $5,
			available = $6
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		room.ID,
		room.Number,
		room.Class.String(),
		room.NightlyRate.Cents(),
		room.MaxOccupancy,
		room.Available,
	)
	if err != nil {
		if isUniqueViolation(err, "rooms_number_unique") {
			return nil, domain.ErrDuplicateRoomNumber
		}
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	if result.RowsAffected() == 0 {
		return nil, domain.ErrRoomNotFound
	}

	return room, nil
}

// Delete removes a room. Fails while reservations still reference it.
func (r *PostgresRoomRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return domain.ErrConflict
		}
		return fmt.Errorf("failed to delete room: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}

	return nil
}

func (r *PostgresRoomRepository) queryRooms(ctx context.Context, query string, args ...any) ([]*domain.Room, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}

	return rooms, nil
}

func scanRoom(row pgx.Row) (*domain.Room, error) {
	room := &domain.Room{}
	var class string
	var rateCents int64

	err := row.Scan(
		&room.ID,
		&room.Number,
		&class,
		&rateCents,
		&room.MaxOccupancy,
		&room.Available,
	)
	if err != nil {
		return nil, err
	}

	room.Class = domain.RoomClass(class)
	room.NightlyRate = domain.Money(rateCents)
	return room, nil
}
