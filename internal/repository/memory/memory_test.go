package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/repository"
)

func TestStore_ExecTx_RollsBackEveryWrite(t *testing.T) {
	st := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	require.NoError(t, st.Repos().Titles.Create(ctx, &domain.Title{ID: "A0001", Classification: 'A', Name: "Kept"}))

	err := st.ExecTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Titles.Create(ctx, &domain.Title{ID: "A0002", Classification: 'A', Name: "Discarded"}); err != nil {
			return err
		}
		if err := repos.Copies.Create(ctx, &domain.Copy{ID: "A00021", TitleID: "A0002", Status: domain.CopyStatusAvailable, Borrowable: true}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = st.Repos().Titles.GetByID(ctx, "A0002")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = st.Repos().Copies.GetByID(ctx, "A00021")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Pre-existing data is untouched.
	kept, err := st.Repos().Titles.GetByID(ctx, "A0001")
	require.NoError(t, err)
	assert.Equal(t, "Kept", kept.Name)
}

func TestStore_LoanIDsAndActiveUniqueness(t *testing.T) {
	st := NewStore()
	ctx := context.Background()
	day := domain.Day(time.Now())

	first := &domain.Loan{CopyID: "A00011", MemberID: "U0001", LoanDate: day, DueDate: day.AddDate(0, 0, 14)}
	require.NoError(t, st.Repos().Loans.Create(ctx, first))
	assert.Equal(t, int64(1), first.ID)

	// A second active loan on the same copy is refused, mirroring the
	// partial unique index in postgres.
	dup := &domain.Loan{CopyID: "A00011", MemberID: "U0002", LoanDate: day, DueDate: day.AddDate(0, 0, 14)}
	assert.ErrorIs(t, st.Repos().Loans.Create(ctx, dup), domain.ErrDuplicateID)

	require.NoError(t, st.Repos().Loans.SetReturnDate(ctx, first.ID, day))
	require.NoError(t, st.Repos().Loans.Create(ctx, dup))
	assert.Equal(t, int64(2), dup.ID)
}

func TestStore_OldestReservationOrdering(t *testing.T) {
	st := NewStore()
	ctx := context.Background()
	day := domain.Day(time.Now())

	newer := &domain.Reservation{TitleID: "A0001", MemberID: "U0001", ReservedDate: day}
	older := &domain.Reservation{TitleID: "A0001", MemberID: "U0002", ReservedDate: day.AddDate(0, 0, -2)}
	other := &domain.Reservation{TitleID: "B0001", MemberID: "U0003", ReservedDate: day.AddDate(0, 0, -9)}
	require.NoError(t, st.Repos().Reservations.Create(ctx, newer))
	require.NoError(t, st.Repos().Reservations.Create(ctx, older))
	require.NoError(t, st.Repos().Reservations.Create(ctx, other))

	got, err := st.Repos().Reservations.Oldest(ctx, "A0001")
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID)

	require.NoError(t, st.Repos().Reservations.Delete(ctx, older.ID))
	got, err = st.Repos().Reservations.Oldest(ctx, "A0001")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)
}
