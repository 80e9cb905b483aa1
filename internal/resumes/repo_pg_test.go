package resumes

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var resumeCols = []string{"id", "user_id", "filename", "original_filename", "file_size", "file_type",
	"storage_path", "resume_text", "is_default", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepo(db), mock
}

func TestPGRepoUpdateDefaultClearsOthers(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := "44444444-4444-4444-4444-444444444444"
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WithArgs("resumes:user:u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE resumes").WithArgs("u1", id).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("UPDATE resumes").
		WithArgs(id, "u1", true, nil).
		WillReturnRows(sqlmock.NewRows(resumeCols).AddRow(id, "u1", "f.pdf", "f.pdf", 10, "application/pdf", "k/f.pdf", "", true, now, now))
	mock.ExpectCommit()

	yes := true
	got, err := repo.Update(context.Background(), "u1", id, Patch{IsDefault: &yes})
	require.NoError(t, err)
	require.True(t, got.IsDefault)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoUpdateForeignResume(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := "44444444-4444-4444-4444-444444444445"

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE resumes").WillReturnRows(sqlmock.NewRows(resumeCols))
	mock.ExpectRollback()

	text := "x"
	_, err := repo.Update(context.Background(), "u1", id, Patch{Text: &text})
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoListCountsAndPages(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT count").WithArgs("u1").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("ORDER BY is_default DESC").
		WithArgs("u1", 2, 1).
		WillReturnRows(sqlmock.NewRows(resumeCols).
			AddRow("a", "u1", "a.pdf", "a.pdf", 1, "application/pdf", "k/a", "", false, now, now).
			AddRow("b", "u1", "b.pdf", "b.pdf", 1, "application/pdf", "k/b", "", false, now, now))

	items, total, err := repo.List(context.Background(), "u1", 2, 1)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, items, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoDeleteNoRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := "44444444-4444-4444-4444-444444444446"

	mock.ExpectExec("DELETE FROM resumes").WithArgs(id, "u1").WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), "u1", id), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
