package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hoteleria/reservation-engine/internal/dto"
	"github.com/hoteleria/reservation-engine/internal/service"
	"github.com/hoteleria/reservation-engine/pkg/response"
	"github.com/hoteleria/reservation-engine/pkg/telemetry"
)

// RoomHandler handles room catalog HTTP requests
type RoomHandler struct {
	roomService        service.RoomService
	reservationService service.ReservationService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomService service.RoomService, reservationService service.ReservationService) *RoomHandler {
	return &RoomHandler{
		roomService:        roomService,
		reservationService: reservationService,
	}
}

// Create handles POST /rooms
func (h *RoomHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	room, err := h.roomService.Create(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int64("room_id", room.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, room)
}

// Get handles GET /rooms/:id
func (h *RoomHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, ok := pathID(c)
	if !ok {
		span.SetStatus(codes.Error, "invalid id")
		return
	}

	room, err := h.roomService.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, room)
}

// List handles GET /rooms
func (h *RoomHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	rooms, err := h.roomService.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("count", len(rooms)))
	span.SetStatus(codes.Ok, "")
	response.Success(c, rooms)
}

// FindAvailable handles GET /rooms/available
func (h *RoomHandler) FindAvailable(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.find_available")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.FindAvailableRoomsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	rooms, err := h.roomService.FindAvailable(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("count", len(rooms)))
	span.SetStatus(codes.Ok, "")
	response.Success(c, rooms)
}

// Update handles PATCH /rooms/:id
func (h *RoomHandler) Update(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.update")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, ok := pathID(c)
	if !ok {
		span.SetStatus(codes.Error, "invalid id")
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	room, err := h.roomService.Update(ctx, id, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, room)
}

// Delete handles DELETE /rooms/:id
func (h *RoomHandler) Delete(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.delete")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, ok := pathID(c)
	if !ok {
		span.SetStatus(codes.Error, "invalid id")
		return
	}

	if err := h.roomService.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.NoContent(c)
}

// Reservations handles GET /rooms/:id/reservations
func (h *RoomHandler) Reservations(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.reservations")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, ok := pathID(c)
	if !ok {
		span.SetStatus(codes.Error, "invalid id")
		return
	}

	reservations, err := h.reservationService.ListByRoom(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("count", len(reservations)))
	span.SetStatus(codes.Ok, "")
	response.Success(c, reservations)
}
