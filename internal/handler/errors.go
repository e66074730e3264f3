package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hoteleria/reservation-engine/internal/domain"
	"github.com/hoteleria/reservation-engine/pkg/response"
)

// handleError maps domain errors to HTTP responses. Everything unmatched is
// treated as an internal failure.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrGuestNotFound),
		errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrReservationNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrCapacityExceeded):
		response.UnprocessableEntity(c, "CAPACITY_EXCEEDED", err.Error())
	case errors.Is(err, domain.ErrRoomUnavailable):
		response.Conflict(c, "ROOM_UNAVAILABLE", err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		response.Conflict(c, "INVALID_STATE", err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		response.Conflict(c, "DUPLICATE_EMAIL", err.Error())
	case errors.Is(err, domain.ErrDuplicateRoomNumber):
		response.Conflict(c, "DUPLICATE_ROOM_NUMBER", err.Error())
	case errors.Is(err, domain.ErrConflict):
		response.Conflict(c, "CONFLICT", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", "")
	}
}

// pathID parses the :id path parameter. A second return of false means the
// 400 response has already been written.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
