package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestWithScopeLockCommits(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer database.Close()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs("prompts:user-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE custom_prompts SET is_default = FALSE").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = WithScopeLock(context.Background(), database, "prompts:user-1", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE custom_prompts SET is_default = FALSE")
		return err
	})
	if err != nil {
		t.Fatalf("WithScopeLock: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestWithScopeLockRollsBackOnError(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer database.Close()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs("resumes:user-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = WithScopeLock(context.Background(), database, "resumes:user-1", func(tx *sql.Tx) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
