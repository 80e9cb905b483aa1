package coverletters

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// PGRepo persists cover letters in Postgres.
type PGRepo struct {
	DB *sql.DB
}

func NewPGRepo(database *sql.DB) *PGRepo {
	return &PGRepo{DB: database}
}

const (
	letterColumns = `id, user_id, template_name, template_description, cover_letter_content, resume_text, created_at, updated_at`

	insertLetterSQL = `
INSERT INTO cover_letters (id, user_id, template_name, template_description, cover_letter_content, resume_text, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
RETURNING ` + letterColumns

	updateLetterSQL = `
UPDATE cover_letters
SET template_name = COALESCE($3, template_name),
    template_description = COALESCE($4, template_description),
    cover_letter_content = COALESCE($5, cover_letter_content),
    updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + letterColumns

	deleteLetterSQL = `DELETE FROM cover_letters WHERE id = $1 AND user_id = $2`

	countLettersSQL = `SELECT count(*) FROM cover_letters WHERE user_id = $1`

	listLettersSQL = `
SELECT ` + letterColumns + `
FROM cover_letters
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLetter(row rowScanner) (CoverLetter, error) {
	var (
		cl     CoverLetter
		resume sql.NullString
	)
	if err := row.Scan(&cl.ID, &cl.UserID, &cl.Title, &cl.Description, &cl.Content, &resume, &cl.CreatedAt, &cl.UpdatedAt); err != nil {
		return CoverLetter{}, err
	}
	if resume.Valid {
		cl.ResumeText = &resume.String
	}
	return cl, nil
}

func (r *PGRepo) Create(ctx context.Context, cl CoverLetter) (CoverLetter, error) {
	if cl.ID == "" {
		cl.ID = uuid.NewString()
	}
	var resume sql.NullString
	if cl.ResumeText != nil {
		resume = sql.NullString{String: *cl.ResumeText, Valid: true}
	}
	return scanLetter(r.DB.QueryRowContext(ctx, insertLetterSQL, cl.ID, cl.UserID, cl.Title, cl.Description, cl.Content, resume))
}

func (r *PGRepo) Update(ctx context.Context, userID, id string, patch Patch) (CoverLetter, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CoverLetter{}, ErrNotFound
	}
	cl, err := scanLetter(r.DB.QueryRowContext(ctx, updateLetterSQL, id, userID,
		nullString(patch.Title), nullString(patch.Description), nullString(patch.Content)))
	if errors.Is(err, sql.ErrNoRows) {
		return CoverLetter{}, ErrNotFound
	}
	return cl, err
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res, err := r.DB.ExecContext(ctx, deleteLetterSQL, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) List(ctx context.Context, userID string, limit, offset int) ([]CoverLetter, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, countLettersSQL, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx, listLettersSQL, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []CoverLetter{}
	for rows.Next() {
		cl, err := scanLetter(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, cl)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
