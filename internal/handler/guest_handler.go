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

// GuestHandler handles guest directory HTTP requests
type GuestHandler struct {
	guestService       service.GuestService
	reservationService service.ReservationService
}

// NewGuestHandler creates a new guest handler
func NewGuestHandler(guestService service.GuestService, reservationService service.ReservationService) *GuestHandler {
	return &GuestHandler{
		guestService:       guestService,
		reservationService: reservationService,
	}
}

// Register handles POST /guests
func (h *GuestHandler) Register(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.guest.register")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.RegisterGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	guest, err := h.guestService.Register(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int64("guest_id", guest.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, guest)
}

// Get handles GET /guests/:id
func (h *GuestHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.guest.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, ok := pathID(c)
	if !ok {
		span.SetStatus(codes.Error, "invalid id")
		return
	}

	guest, err := h.guestService.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, guest)
}

// List handles GET /guests. With an email query parameter it becomes a
// single-guest lookup.
func (h *GuestHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.guest.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	if email := c.Query("email"); email != "" {
		guest, err := h.guestService.GetByEmail(ctx, email)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			handleError(c, err)
			return
		}
		span.SetStatus(codes.Ok, "")
		response.Success(c, guest)
		return
	}

	guests, err := h.guestService.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("count", len(guests)))
	span.SetStatus(codes.Ok, "")
	response.Success(c, guests)
}

// Update handles PUT /guests/:id
func (h *GuestHandler) Update(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.guest.update")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, ok := pathID(c)
	if !ok {
		span.SetStatus(codes.Error, "invalid id")
		return
	}

	var req dto.UpdateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	guest, err := h.guestService.Update(ctx, id, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, guest)
}

// Delete handles DELETE /guests/:id
func (h *GuestHandler) Delete(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.guest.delete")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, ok := pathID(c)
	if !ok {
		span.SetStatus(codes.Error, "invalid id")
		return
	}

	if err := h.guestService.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.NoContent(c)
}

// Reservations handles GET /guests/:id/reservations
func (h *GuestHandler) Reservations(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.guest.reservations")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, ok := pathID(c)
	if !ok {
		span.SetStatus(codes.Error, "invalid id")
		return
	}

	reservations, err := h.reservationService.ListByGuest(ctx, id)
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
