package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/barzda/barbershop-api/internal/domain"
	"github.com/barzda/barbershop-api/internal/http/middleware"
	"github.com/barzda/barbershop-api/internal/http/response"
)

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	var in domain.BookReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	if in.StartTime.IsZero() {
		response.BadRequest(w, "start_time is required")
		return
	}

	appt, err := h.bookings.Book(r.Context(), claims.Sub, in.StartTime)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, appt)
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	appts, err := h.bookings.ListUpcoming(r.Context(), claims.Sub)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{"appointments": appts})
}

func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(w, "invalid appointment id")
		return
	}

	if err := h.bookings.Cancel(r.Context(), id, claims.Sub); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"message": "appointment cancelled"})
}
