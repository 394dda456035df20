package postgres

import (
	"context"
	"database/sql"
	"errors"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/repository"
)

type copyRepository struct {
	db DBTX
}

func NewCopyRepository(db DBTX) repository.CopyRepository {
	return &copyRepository{db: db}
}

func (r *copyRepository) Create(ctx context.Context, c *domain.Copy) error {
	query := `INSERT INTO copies (id, title_id, status, borrowable) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.TitleID, c.Status, c.Borrowable)
	return mapDuplicate(err)
}

func (r *copyRepository) GetByID(ctx context.Context, id string) (*domain.Copy, error) {
	query := `SELECT id, title_id, status, borrowable FROM copies WHERE id = $1`
	return r.scanCopy(r.db.QueryRowContext(ctx, query, id))
}

func (r *copyRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Copy, error) {
	query := `SELECT id, title_id, status, borrowable FROM copies WHERE id = $1 FOR UPDATE`
	return r.scanCopy(r.db.QueryRowContext(ctx, query, id))
}

func (r *copyRepository) scanCopy(row *sql.Row) (*domain.Copy, error) {
	c := &domain.Copy{}
	err := row.Scan(&c.ID, &c.TitleID, &c.Status, &c.Borrowable)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *copyRepository) ListByTitle(ctx context.Context, titleID string) ([]domain.Copy, error) {
	query := `SELECT id, title_id, status, borrowable FROM copies WHERE title_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, titleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var copies []domain.Copy
	for rows.Next() {
		var c domain.Copy
		if err := rows.Scan(&c.ID, &c.TitleID, &c.Status, &c.Borrowable); err != nil {
			return nil, err
		}
		copies = append(copies, c)
	}
	return copies, rows.Err()
}

func (r *copyRepository) CountByTitle(ctx context.Context, titleID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM copies WHERE title_id = $1`
	err := r.db.QueryRowContext(ctx, query, titleID).Scan(&count)
	return count, err
}

func (r *copyRepository) UpdateStatus(ctx context.Context, id string, status domain.CopyStatus) error {
	query := `UPDATE copies SET status = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
