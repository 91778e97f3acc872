package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/barzda/barbershop-api/internal/domain"
	"github.com/barzda/barbershop-api/internal/http/response"
	"github.com/barzda/barbershop-api/internal/service"
	"github.com/barzda/barbershop-api/pkg/logger"
)

type Handler struct {
	bookings service.BookingService
	auth     service.AuthService
	loc      *time.Location
}

func New(bookings service.BookingService, auth service.AuthService, loc *time.Location) *Handler {
	return &Handler{
		bookings: bookings,
		auth:     auth,
		loc:      loc,
	}
}

// writeDomainError maps domain rejections to HTTP codes; anything
// unrecognized is an infrastructure failure and becomes a 500.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, domain.ErrSlotTaken), errors.Is(err, domain.ErrAlreadyCancelled):
		response.Conflict(w, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		response.WriteError(w, http.StatusConflict, err.Error(), response.CodeEmailExists)
	case errors.Is(err, domain.ErrBadCredentials):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, domain.ErrPastStart):
		response.WriteError(w, http.StatusBadRequest, err.Error(), response.CodePastDateTime)
	case domain.IsPolicyError(err):
		response.WriteError(w, http.StatusBadRequest, err.Error(), response.CodeClosed)
	default:
		logger.ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
		response.InternalError(w, "internal error")
	}
}
