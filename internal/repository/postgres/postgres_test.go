package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/repository"
)

func TestStore_ExecTx_CommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE copies SET status").
		WithArgs(domain.CopyStatusLoaned, "A00011").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = store.ExecTx(context.Background(), func(repos repository.Repositories) error {
		return repos.Copies.UpdateStatus(context.Background(), "A00011", domain.CopyStatusLoaned)
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ExecTx_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := NewStore(db)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE copies SET status").
		WithArgs(domain.CopyStatusLoaned, "A00011").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err = store.ExecTx(context.Background(), func(repos repository.Repositories) error {
		if err := repos.Copies.UpdateStatus(context.Background(), "A00011", domain.CopyStatusLoaned); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
