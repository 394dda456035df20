// Package memory provides an in-memory implementation of the repository
// interfaces for tests and local experiments. A single mutex serializes
// transactions; ExecTx snapshots the state and restores it when the
// callback fails, matching the no-partial-writes guarantee of the
// postgres store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/repository"
)

type Store struct {
	mu sync.Mutex

	titles       map[string]domain.Title
	copies       map[string]domain.Copy
	members      map[string]domain.Member
	loans        map[int64]domain.Loan
	reservations map[int64]domain.Reservation

	nextLoanID        int64
	nextReservationID int64
}

func NewStore() *Store {
	return &Store{
		titles:            make(map[string]domain.Title),
		copies:            make(map[string]domain.Copy),
		members:           make(map[string]domain.Member),
		loans:             make(map[int64]domain.Loan),
		reservations:      make(map[int64]domain.Reservation),
		nextLoanID:        1,
		nextReservationID: 1,
	}
}

func (s *Store) Repos() repository.Repositories {
	return newRepos(&access{s: s})
}

func (s *Store) ExecTx(_ context.Context, fn func(repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.clone()
	if err := fn(newRepos(&access{s: s, held: true})); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

func newRepos(a *access) repository.Repositories {
	return repository.Repositories{
		Titles:       &titleRepo{a},
		Copies:       &copyRepo{a},
		Members:      &memberRepo{a},
		Loans:        &loanRepo{a},
		Reservations: &reservationRepo{a},
	}
}

// access gates repository methods on the store mutex. Inside ExecTx the
// mutex is already held, so tx-bound repositories skip locking.
type access struct {
	s    *Store
	held bool
}

func (a *access) lock() func() {
	if a.held {
		return func() {}
	}
	a.s.mu.Lock()
	return a.s.mu.Unlock
}

func (s *Store) clone() *Store {
	c := &Store{
		titles:            make(map[string]domain.Title, len(s.titles)),
		copies:            make(map[string]domain.Copy, len(s.copies)),
		members:           make(map[string]domain.Member, len(s.members)),
		loans:             make(map[int64]domain.Loan, len(s.loans)),
		reservations:      make(map[int64]domain.Reservation, len(s.reservations)),
		nextLoanID:        s.nextLoanID,
		nextReservationID: s.nextReservationID,
	}
	for k, v := range s.titles {
		c.titles[k] = v
	}
	for k, v := range s.copies {
		c.copies[k] = v
	}
	for k, v := range s.members {
		c.members[k] = v
	}
	for k, v := range s.loans {
		c.loans[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	return c
}

func (s *Store) restore(snapshot *Store) {
	s.titles = snapshot.titles
	s.copies = snapshot.copies
	s.members = snapshot.members
	s.loans = snapshot.loans
	s.reservations = snapshot.reservations
	s.nextLoanID = snapshot.nextLoanID
	s.nextReservationID = snapshot.nextReservationID
}

// SetLoanDates rewrites the dates of a stored loan. Tests use it to age a
// loan into overdue territory without faking the clock everywhere.
func (s *Store) SetLoanDates(loanID int64, loanDate, dueDate time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.loans[loanID]; ok {
		l.LoanDate = domain.Day(loanDate)
		l.DueDate = domain.Day(dueDate)
		s.loans[loanID] = l
	}
}

// SetReservationDate rewrites the reserved date of a stored reservation.
func (s *Store) SetReservationDate(reservationID int64, reserved time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reservations[reservationID]; ok {
		r.ReservedDate = domain.Day(reserved)
		s.reservations[reservationID] = r
	}
}

// ---------------------------------------------------------------------------
// Titles
// ---------------------------------------------------------------------------

type titleRepo struct {
	a *access
}

func (r *titleRepo) Create(_ context.Context, t *domain.Title) error {
	defer r.a.lock()()
	if _, ok := r.a.s.titles[t.ID]; ok {
		return domain.ErrDuplicateID
	}
	r.a.s.titles[t.ID] = *t
	return nil
}

func (r *titleRepo) GetByID(_ context.Context, id string) (*domain.Title, error) {
	defer r.a.lock()()
	t, ok := r.a.s.titles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *titleRepo) MaxIDForClassification(_ context.Context, classification byte) (string, error) {
	defer r.a.lock()()
	max := ""
	for id := range r.a.s.titles {
		if id[0] == classification && id > max {
			max = id
		}
	}
	return max, nil
}

func (r *titleRepo) List(_ context.Context) ([]domain.Title, error) {
	defer r.a.lock()()
	titles := make([]domain.Title, 0, len(r.a.s.titles))
	for _, t := range r.a.s.titles {
		titles = append(titles, t)
	}
	sort.Slice(titles, func(i, j int) bool { return titles[i].ID < titles[j].ID })
	return titles, nil
}

func (r *titleRepo) Search(_ context.Context, term string) ([]domain.Title, error) {
	defer r.a.lock()()
	var titles []domain.Title
	for _, t := range r.a.s.titles {
		if containsFold(t.Name, term) || containsFold(t.Author, term) {
			titles = append(titles, t)
		}
	}
	sort.Slice(titles, func(i, j int) bool { return titles[i].ID < titles[j].ID })
	return titles, nil
}

// ---------------------------------------------------------------------------
// Copies
// ---------------------------------------------------------------------------

type copyRepo struct {
	a *access
}

func (r *copyRepo) Create(_ context.Context, c *domain.Copy) error {
	defer r.a.lock()()
	if _, ok := r.a.s.copies[c.ID]; ok {
		return domain.ErrDuplicateID
	}
	r.a.s.copies[c.ID] = *c
	return nil
}

func (r *copyRepo) GetByID(_ context.Context, id string) (*domain.Copy, error) {
	defer r.a.lock()()
	c, ok := r.a.s.copies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *copyRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Copy, error) {
	// The tx-wide mutex already serializes writers.
	return r.GetByID(ctx, id)
}

func (r *copyRepo) ListByTitle(_ context.Context, titleID string) ([]domain.Copy, error) {
	defer r.a.lock()()
	var copies []domain.Copy
	for _, c := range r.a.s.copies {
		if c.TitleID == titleID {
			copies = append(copies, c)
		}
	}
	sort.Slice(copies, func(i, j int) bool { return copies[i].ID < copies[j].ID })
	return copies, nil
}

func (r *copyRepo) CountByTitle(_ context.Context, titleID string) (int, error) {
	defer r.a.lock()()
	count := 0
	for _, c := range r.a.s.copies {
		if c.TitleID == titleID {
			count++
		}
	}
	return count, nil
}

func (r *copyRepo) UpdateStatus(_ context.Context, id string, status domain.CopyStatus) error {
	defer r.a.lock()()
	c, ok := r.a.s.copies[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	r.a.s.copies[id] = c
	return nil
}

// ---------------------------------------------------------------------------
// Members
// ---------------------------------------------------------------------------

type memberRepo struct {
	a *access
}

func (r *memberRepo) Create(_ context.Context, m *domain.Member) error {
	defer r.a.lock()()
	if _, ok := r.a.s.members[m.ID]; ok {
		return domain.ErrDuplicateID
	}
	r.a.s.members[m.ID] = *m
	return nil
}

func (r *memberRepo) GetByID(_ context.Context, id string) (*domain.Member, error) {
	defer r.a.lock()()
	m, ok := r.a.s.members[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (r *memberRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Member, error) {
	return r.GetByID(ctx, id)
}

func (r *memberRepo) MaxID(_ context.Context) (string, error) {
	defer r.a.lock()()
	max := ""
	for id := range r.a.s.members {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (r *memberRepo) List(_ context.Context) ([]domain.Member, error) {
	defer r.a.lock()()
	members := make([]domain.Member, 0, len(r.a.s.members))
	for _, m := range r.a.s.members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (r *memberRepo) Search(_ context.Context, term string) ([]domain.Member, error) {
	defer r.a.lock()()
	var members []domain.Member
	for _, m := range r.a.s.members {
		if containsFold(m.Name, term) || containsFold(m.ID, term) {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

// ---------------------------------------------------------------------------
// Loans
// ---------------------------------------------------------------------------

type loanRepo struct {
	a *access
}

func (r *loanRepo) Create(_ context.Context, l *domain.Loan) error {
	defer r.a.lock()()
	for _, existing := range r.a.s.loans {
		if existing.CopyID == l.CopyID && existing.ReturnDate == nil {
			return domain.ErrDuplicateID
		}
	}
	l.ID = r.a.s.nextLoanID
	r.a.s.nextLoanID++
	r.a.s.loans[l.ID] = *l
	return nil
}

func (r *loanRepo) GetActiveByCopy(_ context.Context, copyID string) (*domain.Loan, error) {
	defer r.a.lock()()
	for _, l := range r.a.s.loans {
		if l.CopyID == copyID && l.ReturnDate == nil {
			loan := l
			return &loan, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *loanRepo) ListActiveByMember(_ context.Context, memberID string) ([]domain.Loan, error) {
	defer r.a.lock()()
	var loans []domain.Loan
	for _, l := range r.a.s.loans {
		if l.MemberID == memberID && l.ReturnDate == nil {
			loans = append(loans, l)
		}
	}
	sortLoansByDue(loans)
	return loans, nil
}

func (r *loanRepo) CountActiveByMember(_ context.Context, memberID string) (int, error) {
	defer r.a.lock()()
	count := 0
	for _, l := range r.a.s.loans {
		if l.MemberID == memberID && l.ReturnDate == nil {
			count++
		}
	}
	return count, nil
}

func (r *loanRepo) HasOverdue(_ context.Context, memberID string, today time.Time) (bool, error) {
	defer r.a.lock()()
	for _, l := range r.a.s.loans {
		if l.MemberID == memberID && l.IsOverdue(today) {
			return true, nil
		}
	}
	return false, nil
}

func (r *loanRepo) ListActive(_ context.Context) ([]domain.Loan, error) {
	defer r.a.lock()()
	var loans []domain.Loan
	for _, l := range r.a.s.loans {
		if l.ReturnDate == nil {
			loans = append(loans, l)
		}
	}
	sortLoansByDue(loans)
	return loans, nil
}

func (r *loanRepo) ListOverdue(_ context.Context, today time.Time) ([]domain.Loan, error) {
	defer r.a.lock()()
	var loans []domain.Loan
	for _, l := range r.a.s.loans {
		if l.IsOverdue(today) {
			loans = append(loans, l)
		}
	}
	sortLoansByDue(loans)
	return loans, nil
}

func (r *loanRepo) SetReturnDate(_ context.Context, loanID int64, returned time.Time) error {
	defer r.a.lock()()
	l, ok := r.a.s.loans[loanID]
	if !ok || l.ReturnDate != nil {
		return domain.ErrNotOnLoan
	}
	day := domain.Day(returned)
	l.ReturnDate = &day
	r.a.s.loans[loanID] = l
	return nil
}

func sortLoansByDue(loans []domain.Loan) {
	sort.Slice(loans, func(i, j int) bool {
		if loans[i].DueDate.Equal(loans[j].DueDate) {
			return loans[i].ID < loans[j].ID
		}
		return loans[i].DueDate.Before(loans[j].DueDate)
	})
}

// ---------------------------------------------------------------------------
// Reservations
// ---------------------------------------------------------------------------

type reservationRepo struct {
	a *access
}

func (r *reservationRepo) Create(_ context.Context, res *domain.Reservation) error {
	defer r.a.lock()()
	res.ID = r.a.s.nextReservationID
	r.a.s.nextReservationID++
	res.ReservedDate = domain.Day(res.ReservedDate)
	r.a.s.reservations[res.ID] = *res
	return nil
}

func (r *reservationRepo) Oldest(_ context.Context, titleID string) (*domain.Reservation, error) {
	defer r.a.lock()()
	var oldest *domain.Reservation
	for _, res := range r.a.s.reservations {
		if res.TitleID != titleID {
			continue
		}
		res := res
		if oldest == nil || earlier(&res, oldest) {
			oldest = &res
		}
	}
	if oldest == nil {
		return nil, domain.ErrNotFound
	}
	return oldest, nil
}

func (r *reservationRepo) ListByTitle(_ context.Context, titleID string) ([]domain.Reservation, error) {
	defer r.a.lock()()
	var reservations []domain.Reservation
	for _, res := range r.a.s.reservations {
		if res.TitleID == titleID {
			reservations = append(reservations, res)
		}
	}
	sort.Slice(reservations, func(i, j int) bool {
		return earlier(&reservations[i], &reservations[j])
	})
	return reservations, nil
}

func (r *reservationRepo) CountByTitle(_ context.Context, titleID string) (int, error) {
	defer r.a.lock()()
	count := 0
	for _, res := range r.a.s.reservations {
		if res.TitleID == titleID {
			count++
		}
	}
	return count, nil
}

func (r *reservationRepo) Delete(_ context.Context, id int64) error {
	defer r.a.lock()()
	if _, ok := r.a.s.reservations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.a.s.reservations, id)
	return nil
}

func earlier(a, b *domain.Reservation) bool {
	if a.ReservedDate.Equal(b.ReservedDate) {
		return a.ID < b.ID
	}
	return a.ReservedDate.Before(b.ReservedDate)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
