package service

import (
	"context"
	"time"

	"sarasavi-library-backend/internal/domain"
)

// TitleInquiry aggregates a title with the current disposition of its
// copies and the depth of its reservation queue.
type TitleInquiry struct {
	Title        domain.Title
	Copies       []domain.Copy
	Counts       domain.CopyCounts
	Reservations int
}

// EligibilityResult reports whether a member may borrow and, when not,
// which rule blocked them.
type EligibilityResult struct {
	Eligible    bool
	Reason      string
	ActiveLoans int
}

// Eligibility rejection reasons, checked in this order.
const (
	ReasonVisitor   = "visitors may not borrow"
	ReasonOverdue   = "member has overdue loans"
	ReasonLoanLimit = "member has reached the active loan limit"
)

type CatalogService interface {
	RegisterTitle(ctx context.Context, classification byte, name, author, isbn, publisher string, copies int, reference bool) (*domain.Title, []domain.Copy, error)
	AddCopies(ctx context.Context, titleID string, count int, reference bool) ([]domain.Copy, error)
	InquireTitle(ctx context.Context, titleID string) (*TitleInquiry, error)
	SearchTitles(ctx context.Context, term string) ([]domain.Title, error)
	ListTitles(ctx context.Context) ([]domain.Title, error)
}

type MembershipService interface {
	EnrollMember(ctx context.Context, name, sex, nic, address, email string, memberType domain.MemberType) (*domain.Member, error)
	GetMember(ctx context.Context, memberID string) (*domain.Member, error)
	SearchMembers(ctx context.Context, term string) ([]domain.Member, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
}

type LendingService interface {
	CheckEligibility(ctx context.Context, memberID string) (*EligibilityResult, error)
	CreateLoan(ctx context.Context, copyID, memberID string) (*domain.Loan, error)
	GetActiveLoan(ctx context.Context, copyID string) (*domain.Loan, error)
	ListMemberLoans(ctx context.Context, memberID string) ([]domain.Loan, error)
	ListActiveLoans(ctx context.Context) ([]domain.Loan, error)
	ListOverdueLoans(ctx context.Context) ([]domain.Loan, error)
}

type ReservationService interface {
	PlaceReservation(ctx context.Context, titleID, memberID string) (*domain.Reservation, error)
	ListReservations(ctx context.Context, titleID string) ([]domain.Reservation, error)
	CancelReservation(ctx context.Context, reservationID int64) error
}

type ReturnService interface {
	ReturnCopy(ctx context.Context, copyID string) (*domain.ReturnReceipt, error)
}

type AuthService interface {
	Login(ctx context.Context, stationID, operator, password string) (string, error)
}

// Notifier delivers out-of-band messages to members. Implementations
// must tolerate members without an email address.
type Notifier interface {
	NotifyReservationReady(ctx context.Context, member *domain.Member, title *domain.Title) error
	NotifyOverdueLoan(ctx context.Context, member *domain.Member, title *domain.Title, dueDate time.Time) error
}
