package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

// ResumeRepository stores each resume as one JSONB document plus the intake cursor.
type ResumeRepository struct {
	pool *pgxpool.Pool
}

func NewResumeRepository(pool *pgxpool.Pool) *ResumeRepository {
	return &ResumeRepository{pool: pool}
}

const resumeColumns = `id, owner_id, doc, intake_step, created_at, updated_at`

func (r *ResumeRepository) Create(ctx context.Context, p resume.Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	doc, err := json.Marshal(p.Content)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO resumes (id, owner_id, doc, intake_step, created_at, updated_at)
VALUES ($1, $2, $3::jsonb, $4, $5, $6)
`, p.ID, p.OwnerID, doc, p.IntakeStep, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ResumeRepository) GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (resume.Profile, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+resumeColumns+`
FROM resumes WHERE id = $1 AND owner_id = $2
`, id, ownerID)
	return scanProfile(row)
}

func (r *ResumeRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]resume.Profile, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+resumeColumns+`
FROM resumes WHERE owner_id = $3
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, limit, offset, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []resume.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// UpdateForOwner merges the patch into the stored document in one statement.
// Top-level keys are replaced; contact keys are merged so phone and email
// stay independently settable.
func (r *ResumeRepository) UpdateForOwner(ctx context.Context, ownerID, id uuid.UUID, patch resume.Patch, step *string) (resume.Profile, error) {
	fields, err := json.Marshal(patch.Fields())
	if err != nil {
		return resume.Profile{}, fmt.Errorf("encode patch: %w", err)
	}
	contact, err := json.Marshal(patch.ContactFields())
	if err != nil {
		return resume.Profile{}, fmt.Errorf("encode contact patch: %w", err)
	}
	row := r.pool.QueryRow(ctx, `
UPDATE resumes SET
	doc = doc || $3::jsonb || jsonb_build_object('contact', COALESCE(doc->'contact', '{}'::jsonb) || $4::jsonb),
	intake_step = COALESCE($5, intake_step),
	updated_at = clock_timestamp()
WHERE id = $1 AND owner_id = $2
RETURNING `+resumeColumns+`
`, id, ownerID, fields, contact, step)
	return scanProfile(row)
}

func (r *ResumeRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return resume.ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (resume.Profile, error) {
	var (
		p       resume.Profile
		doc     []byte
		created time.Time
		updated time.Time
	)
	if err := row.Scan(&p.ID, &p.OwnerID, &doc, &p.IntakeStep, &created, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.Profile{}, resume.ErrNotFound
		}
		return resume.Profile{}, err
	}
	if err := json.Unmarshal(doc, &p.Content); err != nil {
		return resume.Profile{}, fmt.Errorf("decode resume %s: %w", p.ID, err)
	}
	p.Content.Normalize()
	p.CreatedAt = created.UTC()
	p.UpdatedAt = updated.UTC()
	return p, nil
}
