package postgres

import (
	"context"
	"database/sql"
	"errors"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/repository"

	"github.com/lib/pq"
)

type titleRepository struct {
	db DBTX
}

func NewTitleRepository(db DBTX) repository.TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) Create(ctx context.Context, t *domain.Title) error {
	query := `INSERT INTO titles (id, classification, title, author, isbn, publisher)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, t.ID, string(t.Classification), t.Name, t.Author, t.ISBN, t.Publisher)
	return mapDuplicate(err)
}

func (r *titleRepository) GetByID(ctx context.Context, id string) (*domain.Title, error) {
	t := &domain.Title{}
	var classification string
	query := `SELECT id, classification, title, author, isbn, publisher FROM titles WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &classification, &t.Name, &t.Author, &t.ISBN, &t.Publisher)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Classification = classification[0]
	return t, nil
}

func (r *titleRepository) MaxIDForClassification(ctx context.Context, classification byte) (string, error) {
	// FOR UPDATE serializes concurrent registrations of the same letter on
	// the current max row. An empty classification has no row to lock; the
	// primary key plus the caller's retry loop covers that first insert.
	query := `SELECT id FROM titles WHERE classification = $1 ORDER BY id DESC LIMIT 1 FOR UPDATE`
	var id string
	err := r.db.QueryRowContext(ctx, query, string(classification)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *titleRepository) List(ctx context.Context) ([]domain.Title, error) {
	query := `SELECT id, classification, title, author, isbn, publisher FROM titles ORDER BY id`
	return r.queryTitles(ctx, query)
}

func (r *titleRepository) Search(ctx context.Context, term string) ([]domain.Title, error) {
	query := `SELECT id, classification, title, author, isbn, publisher FROM titles
	          WHERE title ILIKE $1 OR author ILIKE $1 ORDER BY id`
	return r.queryTitles(ctx, query, "%"+term+"%")
}

func (r *titleRepository) queryTitles(ctx context.Context, query string, args ...any) ([]domain.Title, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []domain.Title
	for rows.Next() {
		var t domain.Title
		var classification string
		if err := rows.Scan(&t.ID, &classification, &t.Name, &t.Author, &t.ISBN, &t.Publisher); err != nil {
			return nil, err
		}
		t.Classification = classification[0]
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// mapDuplicate converts a postgres unique violation into ErrDuplicateID so
// registration can retry identifier allocation.
func mapDuplicate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrDuplicateID
	}
	return err
}
