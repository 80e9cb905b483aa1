package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"coverletter-backend/internal/shared/storage/db"
)

// PGRepo persists templates in Postgres.
type PGRepo struct {
	DB *sql.DB
}

func NewPGRepo(database *sql.DB) *PGRepo {
	return &PGRepo{DB: database}
}

const (
	templateColumns = `id, user_id, name, prompt_text, is_default, created_at, updated_at`

	insertTemplateSQL = `
INSERT INTO custom_prompts (id, user_id, name, prompt_text, is_default, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
RETURNING ` + templateColumns

	clearDefaultsSQL = `
UPDATE custom_prompts
SET is_default = FALSE, updated_at = now()
WHERE user_id IS NOT DISTINCT FROM $1 AND is_default AND id <> $2`

	selectOwnerForUpdateSQL = `SELECT user_id FROM custom_prompts WHERE id = $1 FOR UPDATE`

	updateTemplateSQL = `
UPDATE custom_prompts
SET name = COALESCE($2, name),
    prompt_text = COALESCE($3, prompt_text),
    is_default = COALESCE($4, is_default),
    updated_at = now()
WHERE id = $1
RETURNING ` + templateColumns

	deleteTemplateSQL = `DELETE FROM custom_prompts WHERE id = $1 AND user_id = $2`

	getTemplateSQL = `SELECT ` + templateColumns + ` FROM custom_prompts WHERE id = $1`

	listVisibleSQL = `
SELECT ` + templateColumns + `
FROM custom_prompts
WHERE user_id IS NULL OR user_id = $1
ORDER BY created_at DESC, id DESC`

	listDefaultsSQL = `
SELECT ` + templateColumns + `
FROM custom_prompts
WHERE user_id IS NOT DISTINCT FROM $1 AND is_default
ORDER BY created_at DESC`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (Template, error) {
	var (
		t     Template
		owner sql.NullString
	)
	if err := row.Scan(&t.ID, &owner, &t.Name, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return Template{}, err
	}
	if owner.Valid {
		o := owner.String
		t.OwnerID = &o
	}
	return t, nil
}

func ownerArg(ownerID string) sql.NullString {
	return sql.NullString{String: ownerID, Valid: ownerID != ""}
}

func (r *PGRepo) Create(ctx context.Context, t Template) (Template, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	owner := t.Owner()
	var created Template
	err := db.WithScopeLock(ctx, r.DB, scopeKey(owner), func(tx *sql.Tx) error {
		if t.IsDefault {
			if _, err := tx.ExecContext(ctx, clearDefaultsSQL, ownerArg(owner), t.ID); err != nil {
				return fmt.Errorf("clear defaults: %w", err)
			}
		}
		row := tx.QueryRowContext(ctx, insertTemplateSQL, t.ID, ownerArg(owner), t.Name, t.Body, t.IsDefault)
		var err error
		created, err = scanTemplate(row)
		if err != nil {
			return fmt.Errorf("insert template: %w", err)
		}
		return nil
	})
	if err != nil {
		return Template{}, err
	}
	return created, nil
}

func (r *PGRepo) Update(ctx context.Context, ownerID, id string, patch Patch) (Template, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Template{}, ErrNotFound
	}
	var updated Template
	err := db.WithScopeLock(ctx, r.DB, scopeKey(ownerID), func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, ownerID, id); err != nil {
			return err
		}
		if patch.IsDefault != nil && *patch.IsDefault {
			if _, err := tx.ExecContext(ctx, clearDefaultsSQL, ownerArg(ownerID), id); err != nil {
				return fmt.Errorf("clear defaults: %w", err)
			}
		}
		row := tx.QueryRowContext(ctx, updateTemplateSQL, id, nullString(patch.Name), nullString(patch.Body), nullBool(patch.IsDefault))
		var err error
		updated, err = scanTemplate(row)
		if err != nil {
			return fmt.Errorf("update template: %w", err)
		}
		return nil
	})
	if err != nil {
		return Template{}, err
	}
	return updated, nil
}

func (r *PGRepo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	return db.WithScopeLock(ctx, r.DB, scopeKey(ownerID), func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, ownerID, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteTemplateSQL, id, ownerID); err != nil {
			return fmt.Errorf("delete template: %w", err)
		}
		return nil
	})
}

// checkOwner maps the locked row's owner to ErrForbidden for the global scope
// and ErrNotFound for anyone else's template.
func checkOwner(ctx context.Context, tx *sql.Tx, ownerID, id string) error {
	var owner sql.NullString
	if err := tx.QueryRowContext(ctx, selectOwnerForUpdateSQL, id).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("load template owner: %w", err)
	}
	if !owner.Valid {
		return ErrForbidden
	}
	if owner.String != ownerID {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Template, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Template{}, ErrNotFound
	}
	t, err := scanTemplate(r.DB.QueryRowContext(ctx, getTemplateSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrNotFound
		}
		return Template{}, err
	}
	return t, nil
}

func (r *PGRepo) ListVisible(ctx context.Context, ownerID string) ([]Template, error) {
	return r.query(ctx, listVisibleSQL, ownerArg(ownerID))
}

func (r *PGRepo) ListDefaults(ctx context.Context, ownerID string) ([]Template, error) {
	return r.query(ctx, listDefaultsSQL, ownerArg(ownerID))
}

func (r *PGRepo) query(ctx context.Context, q string, args ...any) ([]Template, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}
