package postgres

import (
	"context"
	"database/sql"
	"errors"

	"time"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/repository"
)

type loanRepository struct {
	db DBTX
}

func NewLoanRepository(db DBTX) repository.LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, l *domain.Loan) error {
	query := `INSERT INTO loans (copy_id, member_id, loan_date, due_date)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, l.CopyID, l.MemberID, l.LoanDate, l.DueDate).Scan(&l.ID)
	return mapDuplicate(err)
}

func (r *loanRepository) GetActiveByCopy(ctx context.Context, copyID string) (*domain.Loan, error) {
	query := `SELECT id, copy_id, member_id, loan_date, due_date, return_date
	          FROM loans WHERE copy_id = $1 AND return_date IS NULL`
	l := &domain.Loan{}
	err := r.db.QueryRowContext(ctx, query, copyID).
		Scan(&l.ID, &l.CopyID, &l.MemberID, &l.LoanDate, &l.DueDate, &l.ReturnDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *loanRepository) ListActiveByMember(ctx context.Context, memberID string) ([]domain.Loan, error) {
	query := `SELECT id, copy_id, member_id, loan_date, due_date, return_date
	          FROM loans WHERE member_id = $1 AND return_date IS NULL ORDER BY due_date`
	return r.queryLoans(ctx, query, memberID)
}

func (r *loanRepository) CountActiveByMember(ctx context.Context, memberID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM loans WHERE member_id = $1 AND return_date IS NULL`
	err := r.db.QueryRowContext(ctx, query, memberID).Scan(&count)
	return count, err
}

func (r *loanRepository) HasOverdue(ctx context.Context, memberID string, today time.Time) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM loans
	          WHERE member_id = $1 AND return_date IS NULL AND due_date < $2`
	err := r.db.QueryRowContext(ctx, query, memberID, domain.Day(today)).Scan(&count)
	return count > 0, err
}

func (r *loanRepository) ListActive(ctx context.Context) ([]domain.Loan, error) {
	query := `SELECT id, copy_id, member_id, loan_date, due_date, return_date
	          FROM loans WHERE return_date IS NULL ORDER BY due_date`
	return r.queryLoans(ctx, query)
}

func (r *loanRepository) ListOverdue(ctx context.Context, today time.Time) ([]domain.Loan, error) {
	query := `SELECT id, copy_id, member_id, loan_date, due_date, return_date
	          FROM loans WHERE return_date IS NULL AND due_date < $1 ORDER BY due_date`
	return r.queryLoans(ctx, query, domain.Day(today))
}

func (r *loanRepository) SetReturnDate(ctx context.Context, loanID int64, returned time.Time) error {
	query := `UPDATE loans SET return_date = $1 WHERE id = $2 AND return_date IS NULL`
	res, err := r.db.ExecContext(ctx, query, domain.Day(returned), loanID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotOnLoan
	}
	return nil
}

func (r *loanRepository) queryLoans(ctx context.Context, query string, args ...any) ([]domain.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		var l domain.Loan
		if err := rows.Scan(&l.ID, &l.CopyID, &l.MemberID, &l.LoanDate, &l.DueDate, &l.ReturnDate); err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}
