package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/hoteleria/reservation-engine/internal/domain"
	"github.com/hoteleria/reservation-engine/pkg/redis"
)

const (
	// Cache key prefixes
	roomDetailKeyPrefix = "room:detail:"
	roomListKey         = "room:list"

	// Default TTL for room caches
	roomCacheTTL = 5 * time.Minute
)

// CachedRoomRepository wraps RoomRepository with Redis caching. Room records
// change rarely compared to how often they are read, so detail and list reads
// go through a short-TTL cache; every write invalidates it. Availability
// searches always hit the database since they reflect live candidate sets.
type CachedRoomRepository struct {
	repo  RoomRepository
	cache *redis.Client
}

// NewCachedRoomRepository creates a new CachedRoomRepository
func NewCachedRoomRepository(repo RoomRepository, cache *redis.Client) *CachedRoomRepository {
	return &CachedRoomRepository{
		repo:  repo,
		cache: cache,
	}
}

// Create creates a new room and invalidates the list cache
func (r *CachedRoomRepository) Create(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	created, err := r.repo.Create(ctx, room)
	if err != nil {
		return nil, err
	}
	r.cache.Del(ctx, roomListKey)
	return created, nil
}

// GetByID retrieves a room by ID with caching
func (r *CachedRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	cacheKey := roomDetailKeyPrefix + strconv.FormatInt(id, 10)
	cached, err := r.cache.Get(ctx, cacheKey).Result()
	if err == nil && cached != "" {
		var room domain.Room
		if err := json.Unmarshal([]byte(cached), &room); err == nil {
			return &room, nil
		}
	}

	// Cache miss - get from database
	room, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheRoom(ctx, cacheKey, room)
	return room, nil
}

// List retrieves all rooms with caching
func (r *CachedRoomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	cached, err := r.cache.Get(ctx, roomListKey).Result()
	if err == nil && cached != "" {
		var rooms []*domain.Room
		if err := json.Unmarshal([]byte(cached), &rooms); err == nil {
			return rooms, nil
		}
	}

	// Cache miss - get from database
	rooms, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rooms); err == nil {
		r.cache.Set(ctx, roomListKey, string(data), roomCacheTTL)
	}

	return rooms, nil
}

// ListCandidates retrieves bookable rooms for an occupant count (bypass cache)
func (r *CachedRoomRepository) ListCandidates(ctx context.Context, minCapacity int) ([]*domain.Room, error) {
	return r.repo.ListCandidates(ctx, minCapacity)
}

// Update updates a room and invalidates its caches
func (r *CachedRoomRepository) Update(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	updated, err := r.repo.Update(ctx, room)
	if err != nil {
		return nil, err
	}
	r.invalidateRoomCaches(ctx, room.ID)
	return updated, nil
}

// Delete deletes a room and invalidates its caches
func (r *CachedRoomRepository) Delete(ctx context.Context, id int64) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidateRoomCaches(ctx, id)
	return nil
}

// --- Helper functions ---

func (r *CachedRoomRepository) cacheRoom(ctx context.Context, key string, room *domain.Room) {
	data, err := json.Marshal(room)
	if err != nil {
		return
	}
	r.cache.Set(ctx, key, string(data), roomCacheTTL)
}

func (r *CachedRoomRepository) invalidateRoomCaches(ctx context.Context, id int64) {
	r.cache.Del(ctx,
		fmt.Sprintf("%s%d", roomDetailKeyPrefix, id),
		roomListKey,
	)
}
