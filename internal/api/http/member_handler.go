package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/service"
)

// MemberHandler serves member enrollment and lookup
type MemberHandler struct {
	membership service.MembershipService
	lending    service.LendingService
}

func NewMemberHandler(membership service.MembershipService, lending service.LendingService) *MemberHandler {
	return &MemberHandler{membership: membership, lending: lending}
}

type enrollMemberRequest struct {
	Name    string `json:"name"`
	Sex     string `json:"sex"`
	NIC     string `json:"nic"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Type    string `json:"type"`
}

func (h *MemberHandler) EnrollMember(w http.ResponseWriter, r *http.Request) {
	var req enrollMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	member, err := h.membership.EnrollMember(r.Context(),
		req.Name, req.Sex, req.NIC, req.Address, req.Email,
		domain.MemberType(req.Type))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.membership.GetMember(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

// ListMembers returns all members, or a search when ?q= is given.
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	var (
		members []domain.Member
		err     error
	)
	if term := r.URL.Query().Get("q"); term != "" {
		members, err = h.membership.SearchMembers(r.Context(), term)
	} else {
		members, err = h.membership.ListMembers(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

type eligibilityResponse struct {
	Eligible    bool   `json:"eligible"`
	Reason      string `json:"reason,omitempty"`
	ActiveLoans int    `json:"active_loans"`
}

func (h *MemberHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	result, err := h.lending.CheckEligibility(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eligibilityResponse{
		Eligible:    result.Eligible,
		Reason:      result.Reason,
		ActiveLoans: result.ActiveLoans,
	})
}

func (h *MemberHandler) ListMemberLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.lending.ListMemberLoans(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loans": loans})
}
