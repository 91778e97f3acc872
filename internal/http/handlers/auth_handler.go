package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/barzda/barbershop-api/internal/domain"
	"github.com/barzda/barbershop-api/internal/http/response"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in domain.RegisterReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	user, err := h.auth.Register(r.Context(), &in)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	res, err := h.auth.Login(r.Context(), &in)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, res)
}
