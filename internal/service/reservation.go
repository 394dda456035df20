package service

import (
	"context"
	"fmt"
	"time"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/repository"
)

type reservationService struct {
	store repository.Store
	now   func() time.Time
}

func NewReservationService(store repository.Store) ReservationService {
	return &reservationService{store: store, now: time.Now}
}

// PlaceReservation queues a member for the next returned copy of a
// title. Visitors may not reserve; a member may hold several
// reservations on the same title, each fulfilled in turn.
func (s *reservationService) PlaceReservation(ctx context.Context, titleID, memberID string) (*domain.Reservation, error) {
	var reservation *domain.Reservation
	err := s.store.ExecTx(ctx, func(repos repository.Repositories) error {
		member, err := repos.Members.GetByID(ctx, memberID)
		if err != nil {
			return fmt.Errorf("failed to get member %s: %w", memberID, err)
		}
		if !member.CanBorrow() {
			return fmt.Errorf("%s: %w", ReasonVisitor, domain.ErrIneligible)
		}
		if _, err := repos.Titles.GetByID(ctx, titleID); err != nil {
			return fmt.Errorf("failed to get title %s: %w", titleID, err)
		}

		reservation = &domain.Reservation{
			TitleID:      titleID,
			MemberID:     memberID,
			ReservedDate: domain.Day(s.now()),
		}
		if err := repos.Reservations.Create(ctx, reservation); err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

func (s *reservationService) ListReservations(ctx context.Context, titleID string) ([]domain.Reservation, error) {
	repos := s.store.Repos()
	if _, err := repos.Titles.GetByID(ctx, titleID); err != nil {
		return nil, fmt.Errorf("failed to get title %s: %w", titleID, err)
	}
	reservations, err := repos.Reservations.ListByTitle(ctx, titleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

func (s *reservationService) CancelReservation(ctx context.Context, reservationID int64) error {
	if err := s.store.Repos().Reservations.Delete(ctx, reservationID); err != nil {
		return fmt.Errorf("failed to cancel reservation %d: %w", reservationID, err)
	}
	return nil
}
