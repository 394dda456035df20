package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"sarasavi-library-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the same repository code
// serves pooled reads and transactional writes.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db    *sql.DB
	repos repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		repos: newRepositories(db),
	}
}

func newRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Titles:       NewTitleRepository(db),
		Copies:       NewCopyRepository(db),
		Members:      NewMemberRepository(db),
		Loans:        NewLoanRepository(db),
		Reservations: NewReservationRepository(db),
	}
}

// Repos returns repositories bound to the pooled connection, for reads and
// single-statement writes.
func (s *Store) Repos() repository.Repositories {
	return s.repos
}

// ExecTx runs fn against transaction-bound repositories. fn returning an
// error rolls back every write; otherwise the transaction commits. This is
// the atomic multi-write primitive every compound engine operation uses.
func (s *Store) ExecTx(ctx context.Context, fn func(repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(newRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
