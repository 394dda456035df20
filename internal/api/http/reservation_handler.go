package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/service"
)

// ReservationHandler serves the reservation queue
type ReservationHandler struct {
	reservations service.ReservationService
}

func NewReservationHandler(reservations service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

type placeReservationRequest struct {
	TitleID  string `json:"title_id"`
	MemberID string `json:"member_id"`
}

func (h *ReservationHandler) PlaceReservation(w http.ResponseWriter, r *http.Request) {
	var req placeReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	reservation, err := h.reservations.PlaceReservation(r.Context(), req.TitleID, req.MemberID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.reservations.ListReservations(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": reservations})
}

func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("reservation id must be numeric: %w", domain.ErrInvalidInput))
		return
	}
	if err := h.reservations.CancelReservation(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
