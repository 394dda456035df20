package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/repository/memory"
)

var testDay = time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// stubNotifier records reservation notices instead of sending email.
type stubNotifier struct {
	readyCalls []string // member ids notified
	err        error
}

func (n *stubNotifier) NotifyReservationReady(_ context.Context, member *domain.Member, _ *domain.Title) error {
	n.readyCalls = append(n.readyCalls, member.ID)
	return n.err
}

func (n *stubNotifier) NotifyOverdueLoan(_ context.Context, member *domain.Member, _ *domain.Title, _ time.Time) error {
	return n.err
}

type fixture struct {
	store        *memory.Store
	catalog      CatalogService
	membership   MembershipService
	lending      *lendingService
	reservations *reservationService
	returns      *returnService
	notifier     *stubNotifier
}

func newFixture() *fixture {
	st := memory.NewStore()
	notifier := &stubNotifier{}
	return &fixture{
		store:        st,
		catalog:      NewCatalogService(st),
		membership:   NewMembershipService(st),
		lending:      &lendingService{store: st, now: fixedClock(testDay)},
		reservations: &reservationService{store: st, now: fixedClock(testDay)},
		returns:      &returnService{store: st, notifier: notifier, now: fixedClock(testDay)},
		notifier:     notifier,
	}
}

func (f *fixture) mustTitle(t *testing.T, name string, copies int) (*domain.Title, []domain.Copy) {
	t.Helper()
	title, created, err := f.catalog.RegisterTitle(context.Background(), 'A', name, "Test Author", "", "", copies, false)
	require.NoError(t, err)
	return title, created
}

func (f *fixture) mustMember(t *testing.T, name string) *domain.Member {
	t.Helper()
	member, err := f.membership.EnrollMember(context.Background(), name, "F", "", "", name+"@example.com", domain.MemberTypeMember)
	require.NoError(t, err)
	return member
}

func (f *fixture) mustVisitor(t *testing.T, name string) *domain.Member {
	t.Helper()
	visitor, err := f.membership.EnrollMember(context.Background(), name, "M", "", "", "", domain.MemberTypeVisitor)
	require.NoError(t, err)
	return visitor
}

func (f *fixture) mustLoan(t *testing.T, copyID, memberID string) *domain.Loan {
	t.Helper()
	loan, err := f.lending.CreateLoan(context.Background(), copyID, memberID)
	require.NoError(t, err)
	return loan
}
