package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"sarasavi-library-backend/internal/domain"
)

func TestTitleRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewTitleRepository(db)
	ctx := context.Background()

	title := &domain.Title{
		ID:             "A0001",
		Classification: 'A',
		Name:           "Clean Architecture",
		Author:         "Robert Martin",
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO titles").
			WithArgs(title.ID, "A", title.Name, title.Author, title.ISBN, title.Publisher).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, title))
	})

	t.Run("DuplicateKey", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO titles").
			WithArgs(title.ID, "A", title.Name, title.Author, title.ISBN, title.Publisher).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, title)
		assert.ErrorIs(t, err, domain.ErrDuplicateID)
	})
}

func TestTitleRepository_MaxIDForClassification(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewTitleRepository(db)
	ctx := context.Background()

	t.Run("ReturnsHighestID", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM titles WHERE classification = \\$1 ORDER BY id DESC LIMIT 1 FOR UPDATE").
			WithArgs("A").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("A0042"))

		id, err := repo.MaxIDForClassification(ctx, 'A')
		assert.NoError(t, err)
		assert.Equal(t, "A0042", id)
	})

	t.Run("EmptyClassification", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM titles WHERE classification = \\$1 ORDER BY id DESC LIMIT 1 FOR UPDATE").
			WithArgs("B").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		id, err := repo.MaxIDForClassification(ctx, 'B')
		assert.NoError(t, err)
		assert.Equal(t, "", id)
	})
}

func TestTitleRepository_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewTitleRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "classification", "title", "author", "isbn", "publisher"}).
		AddRow("A0001", "A", "Go in Practice", "Matt Butcher", "", "")

	mock.ExpectQuery("SELECT (.+) FROM titles").
		WithArgs("%practice%").
		WillReturnRows(rows)

	titles, err := repo.Search(ctx, "practice")
	assert.NoError(t, err)
	assert.Len(t, titles, 1)
	assert.Equal(t, byte('A'), titles[0].Classification)
}
