package di

import (
	"github.com/hoteleria/reservation-engine/internal/handler"
	"github.com/hoteleria/reservation-engine/internal/repository"
	"github.com/hoteleria/reservation-engine/internal/service"
	"github.com/hoteleria/reservation-engine/pkg/database"
	"github.com/hoteleria/reservation-engine/pkg/redis"
)

// Container holds all dependencies for the reservation engine
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	GuestRepo       repository.GuestRepository
	RoomRepo        repository.RoomRepository
	ReservationRepo repository.ReservationRepository

	// Publishers
	EventPublisher service.EventPublisher

	// Services
	GuestService       service.GuestService
	RoomService        service.RoomService
	ReservationService service.ReservationService

	// Handlers
	HealthHandler      *handler.HealthHandler
	GuestHandler       *handler.GuestHandler
	RoomHandler        *handler.RoomHandler
	ReservationHandler *handler.ReservationHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB             *database.PostgresDB
	Redis          *redis.Client
	EventPublisher service.EventPublisher
	ServiceConfig  *service.ReservationServiceConfig
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:             cfg.DB,
		Redis:          cfg.Redis,
		EventPublisher: cfg.EventPublisher,
	}

	// Initialize repositories
	c.GuestRepo = repository.NewPostgresGuestRepository(c.DB.Pool())
	c.ReservationRepo = repository.NewPostgresReservationRepository(c.DB.Pool())

	pgRoomRepo := repository.RoomRepository(repository.NewPostgresRoomRepository(c.DB.Pool()))
	c.RoomRepo = pgRoomRepo
	if c.Redis != nil {
		c.RoomRepo = repository.NewCachedRoomRepository(pgRoomRepo, c.Redis)
	}

	// Initialize services. The booking path reads rooms through the
	// uncached repository: a cached row could report a withdrawn room as
	// still on sale until its TTL expires. Catalog reads tolerate that,
	// bookings do not.
	c.GuestService = service.NewGuestService(c.GuestRepo)
	c.RoomService = service.NewRoomService(c.RoomRepo, c.ReservationRepo)
	c.ReservationService = service.NewReservationService(
		c.ReservationRepo,
		c.GuestRepo,
		pgRoomRepo,
		c.EventPublisher,
		cfg.ServiceConfig,
	)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.GuestHandler = handler.NewGuestHandler(c.GuestService, c.ReservationService)
	c.RoomHandler = handler.NewRoomHandler(c.RoomService, c.ReservationService)
	c.ReservationHandler = handler.NewReservationHandler(c.ReservationService)

	return c
}
