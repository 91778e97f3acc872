package handlers

import (
	"net/http"
	"time"

	"github.com/barzda/barbershop-api/internal/http/response"
)

type availabilityRes struct {
	Date  string      `json:"date"`
	Slots []time.Time `json:"slots"`
}

// GetAvailability returns the free slot start instants for one calendar day.
// The date is a plain YYYY-MM-DD interpreted in the shop timezone.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		response.BadRequest(w, "date is required")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, h.loc)
	if err != nil {
		response.BadRequest(w, "invalid date, expected YYYY-MM-DD")
		return
	}

	slots, err := h.bookings.AvailableSlots(r.Context(), date)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, availabilityRes{Date: dateStr, Slots: slots})
}
