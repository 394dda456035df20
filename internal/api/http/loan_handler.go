package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"sarasavi-library-backend/internal/service"
)

// LoanHandler serves checkout, return and loan listings
type LoanHandler struct {
	lending service.LendingService
	returns service.ReturnService
}

func NewLoanHandler(lending service.LendingService, returns service.ReturnService) *LoanHandler {
	return &LoanHandler{lending: lending, returns: returns}
}

type createLoanRequest struct {
	CopyID   string `json:"copy_id"`
	MemberID string `json:"member_id"`
}

func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	loan, err := h.lending.CreateLoan(r.Context(), req.CopyID, req.MemberID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

func (h *LoanHandler) GetActiveLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.lending.GetActiveLoan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (h *LoanHandler) ListActiveLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.lending.ListActiveLoans(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loans": loans})
}

func (h *LoanHandler) ListOverdueLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.lending.ListOverdueLoans(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loans": loans})
}

type returnRequest struct {
	CopyID string `json:"copy_id"`
}

func (h *LoanHandler) ReturnCopy(w http.ResponseWriter, r *http.Request) {
	var req returnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	receipt, err := h.returns.ReturnCopy(r.Context(), req.CopyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}
