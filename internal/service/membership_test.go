package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sarasavi-library-backend/internal/domain"
)

func TestMembershipService_EnrollMember(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("SequentialIDs", func(t *testing.T) {
		first, err := f.membership.EnrollMember(ctx, "Nimal Perera", "M", "851234567V", "Colombo", "nimal@example.com", domain.MemberTypeMember)
		require.NoError(t, err)
		assert.Equal(t, "U0001", first.ID)

		second, err := f.membership.EnrollMember(ctx, "Kamala Silva", "F", "", "Kandy", "", domain.MemberTypeVisitor)
		require.NoError(t, err)
		assert.Equal(t, "U0002", second.ID)
		assert.Equal(t, domain.MemberTypeVisitor, second.Type)
	})

	t.Run("NameRequired", func(t *testing.T) {
		_, err := f.membership.EnrollMember(ctx, "", "M", "", "", "", domain.MemberTypeMember)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := f.membership.EnrollMember(ctx, "Somebody", "F", "", "", "", domain.MemberType("Staff"))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestMembershipService_Lookup(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	member := f.mustMember(t, "Findable Reader")
	f.mustMember(t, "Other Person")

	got, err := f.membership.GetMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, member.Name, got.Name)

	_, err = f.membership.GetMember(ctx, "U9000")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	byName, err := f.membership.SearchMembers(ctx, "findable")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, member.ID, byName[0].ID)

	byID, err := f.membership.SearchMembers(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, byID, 1)

	all, err := f.membership.ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
