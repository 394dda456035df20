package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/logger"
	"sarasavi-library-backend/internal/repository"
)

type returnService struct {
	store    repository.Store
	notifier Notifier
	now      func() time.Time
}

func NewReturnService(store repository.Store, notifier Notifier) ReturnService {
	return &returnService{store: store, notifier: notifier, now: time.Now}
}

// ReturnCopy closes the active loan on a copy and hands the copy to the
// oldest reservation on its title, if any. Closing the loan, updating
// the copy status and consuming the reservation commit together or not
// at all; the member notice goes out after the commit and never rolls
// the return back.
func (s *returnService) ReturnCopy(ctx context.Context, copyID string) (*domain.ReturnReceipt, error) {
	var (
		receipt   *domain.ReturnReceipt
		notifyTo  *domain.Member
		notifyFor *domain.Title
	)
	err := s.store.ExecTx(ctx, func(repos repository.Repositories) error {
		notifyTo, notifyFor = nil, nil

		copy, err := repos.Copies.GetByIDForUpdate(ctx, copyID)
		if err != nil {
			return fmt.Errorf("failed to get copy %s: %w", copyID, err)
		}
		loan, err := repos.Loans.GetActiveByCopy(ctx, copyID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("copy %s: %w", copyID, domain.ErrNotOnLoan)
			}
			return fmt.Errorf("failed to get active loan: %w", err)
		}

		today := domain.Day(s.now())
		if err := repos.Loans.SetReturnDate(ctx, loan.ID, today); err != nil {
			return fmt.Errorf("failed to close loan %d: %w", loan.ID, err)
		}

		receipt = &domain.ReturnReceipt{
			CopyID:     copy.ID,
			TitleID:    copy.TitleID,
			MemberID:   loan.MemberID,
			LoanDate:   loan.LoanDate,
			DueDate:    loan.DueDate,
			ReturnDate: today,
			WasOverdue: today.After(loan.DueDate),
		}

		next, err := repos.Reservations.Oldest(ctx, copy.TitleID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("failed to read reservation queue: %w", err)
			}
			return repos.Copies.UpdateStatus(ctx, copy.ID, domain.CopyStatusAvailable)
		}

		if err := repos.Reservations.Delete(ctx, next.ID); err != nil {
			return fmt.Errorf("failed to consume reservation %d: %w", next.ID, err)
		}
		if err := repos.Copies.UpdateStatus(ctx, copy.ID, domain.CopyStatusReserved); err != nil {
			return fmt.Errorf("failed to mark copy reserved: %w", err)
		}
		receipt.Fulfilled = &domain.Fulfillment{
			ReservationID: next.ID,
			MemberID:      next.MemberID,
			ReservedDate:  next.ReservedDate,
		}

		// Resolve the notice recipient while still inside the
		// transaction; delivery itself waits for the commit.
		notifyTo, err = repos.Members.GetByID(ctx, next.MemberID)
		if err != nil {
			return fmt.Errorf("failed to get reserving member: %w", err)
		}
		notifyFor, err = repos.Titles.GetByID(ctx, copy.TitleID)
		if err != nil {
			return fmt.Errorf("failed to get title: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if notifyTo != nil && s.notifier != nil {
		if err := s.notifier.NotifyReservationReady(ctx, notifyTo, notifyFor); err != nil {
			logger.Warn("reservation notice not delivered",
				"member_id", notifyTo.ID,
				"title_id", notifyFor.ID,
				"error", err)
		}
	}
	return receipt, nil
}
