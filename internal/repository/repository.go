package repository

import (
	"context"
	"time"

	"sarasavi-library-backend/internal/domain"
)

type TitleRepository interface {
	Create(ctx context.Context, title *domain.Title) error
	GetByID(ctx context.Context, id string) (*domain.Title, error)
	// MaxIDForClassification returns the highest title id for the letter, or
	// "" when the classification has no titles yet. Inside a transaction the
	// postgres implementation locks the row it reads so concurrent
	// registrations of the same letter serialize.
	MaxIDForClassification(ctx context.Context, classification byte) (string, error)
	List(ctx context.Context) ([]domain.Title, error)
	Search(ctx context.Context, term string) ([]domain.Title, error)
}

type CopyRepository interface {
	Create(ctx context.Context, copy *domain.Copy) error
	GetByID(ctx context.Context, id string) (*domain.Copy, error)
	// GetByIDForUpdate locks the copy row for the remainder of the enclosing
	// transaction. Loan creation and returns use it to serialize per copy.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Copy, error)
	ListByTitle(ctx context.Context, titleID string) ([]domain.Copy, error)
	CountByTitle(ctx context.Context, titleID string) (int, error)
	UpdateStatus(ctx context.Context, id string, status domain.CopyStatus) error
}

type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	// GetByIDForUpdate locks the member row so the eligibility re-check and
	// the loan insert are atomic with respect to that member's other loans.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Member, error)
	MaxID(ctx context.Context) (string, error)
	List(ctx context.Context) ([]domain.Member, error)
	Search(ctx context.Context, term string) ([]domain.Member, error)
}

type LoanRepository interface {
	// Create inserts the loan and fills in the store-assigned id.
	Create(ctx context.Context, loan *domain.Loan) error
	GetActiveByCopy(ctx context.Context, copyID string) (*domain.Loan, error)
	ListActiveByMember(ctx context.Context, memberID string) ([]domain.Loan, error)
	CountActiveByMember(ctx context.Context, memberID string) (int, error)
	HasOverdue(ctx context.Context, memberID string, today time.Time) (bool, error)
	ListActive(ctx context.Context) ([]domain.Loan, error)
	ListOverdue(ctx context.Context, today time.Time) ([]domain.Loan, error)
	SetReturnDate(ctx context.Context, loanID int64, returned time.Time) error
}

type ReservationRepository interface {
	// Create inserts the reservation and fills in the store-assigned id.
	Create(ctx context.Context, res *domain.Reservation) error
	// Oldest returns the reservation with the smallest (reserved date, id)
	// for the title, or ErrNotFound when none is outstanding.
	Oldest(ctx context.Context, titleID string) (*domain.Reservation, error)
	ListByTitle(ctx context.Context, titleID string) ([]domain.Reservation, error)
	CountByTitle(ctx context.Context, titleID string) (int, error)
	Delete(ctx context.Context, id int64) error
}

// Repositories bundles the per-record-kind repositories sharing one
// database handle, either the pooled connection or a single transaction.
type Repositories struct {
	Titles       TitleRepository
	Copies       CopyRepository
	Members      MemberRepository
	Loans        LoanRepository
	Reservations ReservationRepository
}

// Store is the persistent store the engine is built on. ExecTx runs fn
// against transaction-bound repositories and commits only if fn returns nil;
// any error rolls every write back. All compound operations (loan creation,
// returns, registration with id allocation) go through ExecTx.
type Store interface {
	Repos() Repositories
	ExecTx(ctx context.Context, fn func(Repositories) error) error
}
