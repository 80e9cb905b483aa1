package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"coverletter-backend/internal/shared/storage/db"
)

// PGRepo persists résumés in Postgres.
type PGRepo struct {
	DB *sql.DB
}

func NewPGRepo(database *sql.DB) *PGRepo {
	return &PGRepo{DB: database}
}

const (
	resumeColumns = `id, user_id, filename, original_filename, file_size, file_type, storage_path, resume_text, is_default, created_at, updated_at`

	insertResumeSQL = `
INSERT INTO resumes (id, user_id, filename, original_filename, file_size, file_type, storage_path, resume_text, is_default, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
RETURNING ` + resumeColumns

	clearResumeDefaultsSQL = `
UPDATE resumes
SET is_default = FALSE, updated_at = now()
WHERE user_id = $1 AND is_default AND id <> $2`

	updateResumeSQL = `
UPDATE resumes
SET is_default = COALESCE($3, is_default),
    resume_text = COALESCE($4, resume_text),
    updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + resumeColumns

	deleteResumeSQL = `DELETE FROM resumes WHERE id = $1 AND user_id = $2`

	getResumeSQL = `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND user_id = $2`

	countResumesSQL = `SELECT count(*) FROM resumes WHERE user_id = $1`

	listResumesSQL = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1
ORDER BY is_default DESC, created_at DESC
LIMIT $2 OFFSET $3`

	listResumeDefaultsSQL = `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 AND is_default`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var r Resume
	err := row.Scan(&r.ID, &r.UserID, &r.FileName, &r.OriginalFileName, &r.SizeBytes, &r.MimeType,
		&r.StorageKey, &r.Text, &r.IsDefault, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (p *PGRepo) Create(ctx context.Context, r Resume) (Resume, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	var created Resume
	err := db.WithScopeLock(ctx, p.DB, scopeKey(r.UserID), func(tx *sql.Tx) error {
		if r.IsDefault {
			if _, err := tx.ExecContext(ctx, clearResumeDefaultsSQL, r.UserID, r.ID); err != nil {
				return fmt.Errorf("clear defaults: %w", err)
			}
		}
		row := tx.QueryRowContext(ctx, insertResumeSQL, r.ID, r.UserID, r.FileName, r.OriginalFileName,
			r.SizeBytes, r.MimeType, r.StorageKey, r.Text, r.IsDefault)
		var err error
		if created, err = scanResume(row); err != nil {
			return fmt.Errorf("insert resume: %w", err)
		}
		return nil
	})
	return created, err
}

func (p *PGRepo) Update(ctx context.Context, userID, id string, patch Patch) (Resume, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Resume{}, ErrNotFound
	}
	var updated Resume
	err := db.WithScopeLock(ctx, p.DB, scopeKey(userID), func(tx *sql.Tx) error {
		if patch.IsDefault != nil && *patch.IsDefault {
			if _, err := tx.ExecContext(ctx, clearResumeDefaultsSQL, userID, id); err != nil {
				return fmt.Errorf("clear defaults: %w", err)
			}
		}
		var isDefault sql.NullBool
		if patch.IsDefault != nil {
			isDefault = sql.NullBool{Bool: *patch.IsDefault, Valid: true}
		}
		var text sql.NullString
		if patch.Text != nil {
			text = sql.NullString{String: *patch.Text, Valid: true}
		}
		var err error
		updated, err = scanResume(tx.QueryRowContext(ctx, updateResumeSQL, id, userID, isDefault, text))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("update resume: %w", err)
		}
		return nil
	})
	if err != nil {
		return Resume{}, err
	}
	return updated, nil
}

func (p *PGRepo) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res, err := p.DB.ExecContext(ctx, deleteResumeSQL, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PGRepo) Get(ctx context.Context, userID, id string) (Resume, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Resume{}, ErrNotFound
	}
	r, err := scanResume(p.DB.QueryRowContext(ctx, getResumeSQL, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Resume{}, ErrNotFound
	}
	return r, err
}

func (p *PGRepo) List(ctx context.Context, userID string, limit, offset int) ([]Resume, int, error) {
	var total int
	if err := p.DB.QueryRowContext(ctx, countResumesSQL, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	items, err := p.query(ctx, listResumesSQL, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (p *PGRepo) ListDefaults(ctx context.Context, userID string) ([]Resume, error) {
	return p.query(ctx, listResumeDefaultsSQL, userID)
}

func (p *PGRepo) query(ctx context.Context, q string, args ...any) ([]Resume, error) {
	rows, err := p.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
