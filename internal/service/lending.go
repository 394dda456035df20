package service

import (
	"context"
	"fmt"
	"time"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/repository"
)

type lendingService struct {
	store repository.Store
	now   func() time.Time
}

func NewLendingService(store repository.Store) LendingService {
	return &lendingService{store: store, now: time.Now}
}

// CheckEligibility applies the borrowing rules in order: visitors never
// borrow, overdue loans lock the member out, and five active loans is
// the ceiling.
func (s *lendingService) CheckEligibility(ctx context.Context, memberID string) (*EligibilityResult, error) {
	member, err := s.store.Repos().Members.GetByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member %s: %w", memberID, err)
	}
	return s.eligibility(ctx, s.store.Repos(), member)
}

func (s *lendingService) eligibility(ctx context.Context, repos repository.Repositories, member *domain.Member) (*EligibilityResult, error) {
	active, err := repos.Loans.CountActiveByMember(ctx, member.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active loans: %w", err)
	}
	result := &EligibilityResult{ActiveLoans: active}

	if !member.CanBorrow() {
		result.Reason = ReasonVisitor
		return result, nil
	}
	overdue, err := repos.Loans.HasOverdue(ctx, member.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to check overdue loans: %w", err)
	}
	if overdue {
		result.Reason = ReasonOverdue
		return result, nil
	}
	if active >= domain.MaxActiveLoansPerMember {
		result.Reason = ReasonLoanLimit
		return result, nil
	}

	result.Eligible = true
	return result, nil
}

// CreateLoan checks out a copy to a member. The copy row is locked for
// the duration of the transaction so two stations cannot lend the same
// copy, and eligibility is re-checked under the member lock.
func (s *lendingService) CreateLoan(ctx context.Context, copyID, memberID string) (*domain.Loan, error) {
	var loan *domain.Loan
	err := s.store.ExecTx(ctx, func(repos repository.Repositories) error {
		member, err := repos.Members.GetByIDForUpdate(ctx, memberID)
		if err != nil {
			return fmt.Errorf("failed to get member %s: %w", memberID, err)
		}
		result, err := s.eligibility(ctx, repos, member)
		if err != nil {
			return err
		}
		if !result.Eligible {
			switch result.Reason {
			case ReasonLoanLimit:
				return fmt.Errorf("%s: %w", result.Reason, domain.ErrLimitExceeded)
			default:
				return fmt.Errorf("%s: %w", result.Reason, domain.ErrIneligible)
			}
		}

		copy, err := repos.Copies.GetByIDForUpdate(ctx, copyID)
		if err != nil {
			return fmt.Errorf("failed to get copy %s: %w", copyID, err)
		}
		if !copy.CanBeBorrowed() {
			return fmt.Errorf("copy %s is %s: %w", copyID, copy.Status, domain.ErrCopyUnavailable)
		}

		today := domain.Day(s.now())
		loan = &domain.Loan{
			CopyID:   copy.ID,
			MemberID: member.ID,
			LoanDate: today,
			DueDate:  today.AddDate(0, 0, domain.LoanPeriodDays),
		}
		if err := repos.Loans.Create(ctx, loan); err != nil {
			return fmt.Errorf("failed to create loan: %w", err)
		}
		if err := repos.Copies.UpdateStatus(ctx, copy.ID, domain.CopyStatusLoaned); err != nil {
			return fmt.Errorf("failed to mark copy loaned: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *lendingService) GetActiveLoan(ctx context.Context, copyID string) (*domain.Loan, error) {
	loan, err := s.store.Repos().Loans.GetActiveByCopy(ctx, copyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active loan for copy %s: %w", copyID, err)
	}
	return loan, nil
}

func (s *lendingService) ListMemberLoans(ctx context.Context, memberID string) ([]domain.Loan, error) {
	repos := s.store.Repos()
	if _, err := repos.Members.GetByID(ctx, memberID); err != nil {
		return nil, fmt.Errorf("failed to get member %s: %w", memberID, err)
	}
	loans, err := repos.Loans.ListActiveByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, nil
}

func (s *lendingService) ListActiveLoans(ctx context.Context) ([]domain.Loan, error) {
	loans, err := s.store.Repos().Loans.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active loans: %w", err)
	}
	return loans, nil
}

func (s *lendingService) ListOverdueLoans(ctx context.Context) ([]domain.Loan, error) {
	loans, err := s.store.Repos().Loans.ListOverdue(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue loans: %w", err)
	}
	return loans, nil
}
