package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sarasavi-library-backend/internal/domain"
)

func TestReservationService_PlaceReservation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	title, _ := f.mustTitle(t, "Wanted", 1)
	member := f.mustMember(t, "patient")

	t.Run("Success", func(t *testing.T) {
		reservation, err := f.reservations.PlaceReservation(ctx, title.ID, member.ID)
		require.NoError(t, err)
		assert.Equal(t, title.ID, reservation.TitleID)
		assert.Equal(t, member.ID, reservation.MemberID)
		assert.Equal(t, domain.Day(testDay), reservation.ReservedDate)
	})

	t.Run("SameMemberMayQueueTwice", func(t *testing.T) {
		_, err := f.reservations.PlaceReservation(ctx, title.ID, member.ID)
		assert.NoError(t, err)
	})

	t.Run("VisitorRejected", func(t *testing.T) {
		visitor := f.mustVisitor(t, "guest")
		_, err := f.reservations.PlaceReservation(ctx, title.ID, visitor.ID)
		assert.ErrorIs(t, err, domain.ErrIneligible)
	})

	t.Run("UnknownTitle", func(t *testing.T) {
		_, err := f.reservations.PlaceReservation(ctx, "Z0001", member.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UnknownMember", func(t *testing.T) {
		_, err := f.reservations.PlaceReservation(ctx, title.ID, "U5000")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReservationService_ListAndCancel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	title, _ := f.mustTitle(t, "Queued", 1)
	a := f.mustMember(t, "a")
	b := f.mustMember(t, "b")

	older, err := f.reservations.PlaceReservation(ctx, title.ID, a.ID)
	require.NoError(t, err)
	newer, err := f.reservations.PlaceReservation(ctx, title.ID, b.ID)
	require.NoError(t, err)
	f.store.SetReservationDate(newer.ID, testDay.AddDate(0, 0, 1))

	queue, err := f.reservations.ListReservations(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, older.ID, queue[0].ID)
	assert.Equal(t, newer.ID, queue[1].ID)

	require.NoError(t, f.reservations.CancelReservation(ctx, older.ID))

	queue, err = f.reservations.ListReservations(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, newer.ID, queue[0].ID)

	err = f.reservations.CancelReservation(ctx, older.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
