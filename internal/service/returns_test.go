package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sarasavi-library-backend/internal/domain"
)

func TestReturnService_ReturnCopy(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, copies := f.mustTitle(t, "Returned", 3)
	member := f.mustMember(t, "reader")

	t.Run("NoReservationGoesBackOnShelf", func(t *testing.T) {
		f.mustLoan(t, copies[0].ID, member.ID)

		receipt, err := f.returns.ReturnCopy(ctx, copies[0].ID)
		require.NoError(t, err)
		assert.Equal(t, copies[0].ID, receipt.CopyID)
		assert.Equal(t, member.ID, receipt.MemberID)
		assert.Equal(t, domain.Day(testDay), receipt.ReturnDate)
		assert.False(t, receipt.WasOverdue)
		assert.Nil(t, receipt.Fulfilled)

		c, err := f.store.Repos().Copies.GetByID(ctx, copies[0].ID)
		require.NoError(t, err)
		assert.Equal(t, domain.CopyStatusAvailable, c.Status)
		assert.Empty(t, f.notifier.readyCalls)
	})

	t.Run("NotOnLoan", func(t *testing.T) {
		_, err := f.returns.ReturnCopy(ctx, copies[1].ID)
		assert.ErrorIs(t, err, domain.ErrNotOnLoan)
	})

	t.Run("UnknownCopy", func(t *testing.T) {
		_, err := f.returns.ReturnCopy(ctx, "X00001")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("OverdueFlagged", func(t *testing.T) {
		loan := f.mustLoan(t, copies[0].ID, member.ID)
		f.store.SetLoanDates(loan.ID, testDay.AddDate(0, 0, -20), testDay.AddDate(0, 0, -6))

		receipt, err := f.returns.ReturnCopy(ctx, copies[0].ID)
		require.NoError(t, err)
		assert.True(t, receipt.WasOverdue)
	})
}

func TestReturnService_ReservationFulfillment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	title, copies := f.mustTitle(t, "Contested", 1)
	holder := f.mustMember(t, "holder")
	first := f.mustMember(t, "first")
	second := f.mustMember(t, "second")

	f.mustLoan(t, copies[0].ID, holder.ID)

	older, err := f.reservations.PlaceReservation(ctx, title.ID, first.ID)
	require.NoError(t, err)
	newer, err := f.reservations.PlaceReservation(ctx, title.ID, second.ID)
	require.NoError(t, err)
	f.store.SetReservationDate(older.ID, testDay.AddDate(0, 0, -3))
	f.store.SetReservationDate(newer.ID, testDay.AddDate(0, 0, -1))

	receipt, err := f.returns.ReturnCopy(ctx, copies[0].ID)
	require.NoError(t, err)
	require.NotNil(t, receipt.Fulfilled)
	assert.Equal(t, older.ID, receipt.Fulfilled.ReservationID)
	assert.Equal(t, first.ID, receipt.Fulfilled.MemberID)

	// The copy is held, not shelved, and the queue shrank by one.
	c, err := f.store.Repos().Copies.GetByID(ctx, copies[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CopyStatusReserved, c.Status)

	remaining, err := f.reservations.ListReservations(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, newer.ID, remaining[0].ID)

	assert.Equal(t, []string{first.ID}, f.notifier.readyCalls)
}

func TestReturnService_TiedDatesFulfilledByID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	title, copies := f.mustTitle(t, "SameDay", 1)
	holder := f.mustMember(t, "holder")
	a := f.mustMember(t, "a")
	b := f.mustMember(t, "b")

	f.mustLoan(t, copies[0].ID, holder.ID)

	earlier, err := f.reservations.PlaceReservation(ctx, title.ID, a.ID)
	require.NoError(t, err)
	_, err = f.reservations.PlaceReservation(ctx, title.ID, b.ID)
	require.NoError(t, err)

	receipt, err := f.returns.ReturnCopy(ctx, copies[0].ID)
	require.NoError(t, err)
	require.NotNil(t, receipt.Fulfilled)
	assert.Equal(t, earlier.ID, receipt.Fulfilled.ReservationID)
}

func TestReturnService_NotifierFailureDoesNotUndoReturn(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	title, copies := f.mustTitle(t, "Flaky", 1)
	holder := f.mustMember(t, "holder")
	waiting := f.mustMember(t, "waiting")

	f.mustLoan(t, copies[0].ID, holder.ID)
	_, err := f.reservations.PlaceReservation(ctx, title.ID, waiting.ID)
	require.NoError(t, err)

	f.notifier.err = errors.New("smtp down")

	receipt, err := f.returns.ReturnCopy(ctx, copies[0].ID)
	require.NoError(t, err)
	require.NotNil(t, receipt.Fulfilled)

	// Loan is closed despite the failed notice.
	_, err = f.lending.GetActiveLoan(ctx, copies[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReturnService_RestoresEligibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, copies := f.mustTitle(t, "Cycle", 10)
	member := f.mustMember(t, "reader")

	for i := 0; i < domain.MaxActiveLoansPerMember; i++ {
		f.mustLoan(t, copies[i].ID, member.ID)
	}
	_, err := f.lending.CreateLoan(ctx, copies[5].ID, member.ID)
	require.ErrorIs(t, err, domain.ErrLimitExceeded)

	_, err = f.returns.ReturnCopy(ctx, copies[0].ID)
	require.NoError(t, err)

	// One slot freed, the sixth book can go out now.
	loan, err := f.lending.CreateLoan(ctx, copies[5].ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, copies[5].ID, loan.CopyID)
}
