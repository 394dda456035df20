// Package http exposes the circulation API over JSON.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"sarasavi-library-backend/internal/security"
	"sarasavi-library-backend/internal/service"
)

// Services bundles everything the router needs.
type Services struct {
	Catalog      service.CatalogService
	Membership   service.MembershipService
	Lending      service.LendingService
	Reservations service.ReservationService
	Returns      service.ReturnService
	Auth         service.AuthService
	Tokens       security.TokenManager
}

// NewRouter builds the full route table. Everything under /api/v1
// except login requires a station token.
func NewRouter(svcs Services) *mux.Router {
	catalog := NewCatalogHandler(svcs.Catalog)
	members := NewMemberHandler(svcs.Membership, svcs.Lending)
	loans := NewLoanHandler(svcs.Lending, svcs.Returns)
	reservations := NewReservationHandler(svcs.Reservations)
	auth := NewAuthHandler(svcs.Auth)

	r := mux.NewRouter()
	r.Use(RequestID, RequestLogger)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(Authenticate(svcs.Tokens))

	protected.HandleFunc("/titles", catalog.RegisterTitle).Methods(http.MethodPost)
	protected.HandleFunc("/titles", catalog.ListTitles).Methods(http.MethodGet)
	protected.HandleFunc("/titles/{id}", catalog.InquireTitle).Methods(http.MethodGet)
	protected.HandleFunc("/titles/{id}/copies", catalog.AddCopies).Methods(http.MethodPost)
	protected.HandleFunc("/titles/{id}/reservations", reservations.ListReservations).Methods(http.MethodGet)

	protected.HandleFunc("/members", members.EnrollMember).Methods(http.MethodPost)
	protected.HandleFunc("/members", members.ListMembers).Methods(http.MethodGet)
	protected.HandleFunc("/members/{id}", members.GetMember).Methods(http.MethodGet)
	protected.HandleFunc("/members/{id}/eligibility", members.CheckEligibility).Methods(http.MethodGet)
	protected.HandleFunc("/members/{id}/loans", members.ListMemberLoans).Methods(http.MethodGet)

	protected.HandleFunc("/loans", loans.CreateLoan).Methods(http.MethodPost)
	protected.HandleFunc("/loans/active", loans.ListActiveLoans).Methods(http.MethodGet)
	protected.HandleFunc("/loans/overdue", loans.ListOverdueLoans).Methods(http.MethodGet)
	protected.HandleFunc("/copies/{id}/loan", loans.GetActiveLoan).Methods(http.MethodGet)
	protected.HandleFunc("/returns", loans.ReturnCopy).Methods(http.MethodPost)

	protected.HandleFunc("/reservations", reservations.PlaceReservation).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{id}", reservations.CancelReservation).Methods(http.MethodDelete)

	return r
}
