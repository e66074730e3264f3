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

// ReservationHandler handles reservation lifecycle HTTP requests
type ReservationHandler struct {
	reservationService service.ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// Create handles POST /reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.reservation.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(
		attribute.Int64("guest_id", req.GuestID),
		attribute.Int64("room_id", req.RoomID),
		attribute.Int("occupants", req.Occupants),
	)

	reservation, err := h.reservationService.Create(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int64("reservation_id", reservation.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, reservation)
}

// Get handles GET /reservations/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.reservation.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, ok := pathID(c)
	if !ok {
		span.SetStatus(codes.Error, "invalid id")
		return
	}

	reservation, err := h.reservationService.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, reservation)
}

// ListActive handles GET /reservations
func (h *ReservationHandler) ListActive(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.reservation.list_active")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	reservations, err := h.reservationService.ListActive(ctx)
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

// Update handles PATCH /reservations/:id
func (h *ReservationHandler) Update(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.reservation.update")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, ok := pathID(c)
	if !ok {
		span.SetStatus(codes.Error, "invalid id")
		return
	}

	var req dto.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	reservation, err := h.reservationService.Update(ctx, id, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, reservation)
}

// Cancel handles POST /reservations/:id/cancel
func (h *ReservationHandler) Cancel(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.reservation.cancel")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, ok := pathID(c)
	if !ok {
		span.SetStatus(codes.Error, "invalid id")
		return
	}

	reservation, err := h.reservationService.Cancel(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, reservation)
}
