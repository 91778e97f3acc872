package handlers

import (
	"net/http"
	"strconv"

	"github.com/barzda/barbershop-api/internal/http/response"
	"github.com/barzda/barbershop-api/internal/service"
)

// AdminHandler serves the staff-only list views.
type AdminHandler struct {
	bookings service.BookingService
	users    service.UserDirectory
}

func NewAdminHandler(bookings service.BookingService, users service.UserDirectory) *AdminHandler {
	return &AdminHandler{bookings: bookings, users: users}
}

func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	appts, err := h.bookings.ListAll(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w, "failed to list appointments")
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"appointments": appts})
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	users, err := h.users.ListUsers(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w, "failed to list users")
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
