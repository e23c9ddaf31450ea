package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/ats"
)

// ATSRepository keeps scoring runs per account.
type ATSRepository struct {
	pool *pgxpool.Pool
}

func NewATSRepository(pool *pgxpool.Pool) *ATSRepository {
	return &ATSRepository{pool: pool}
}

func (r *ATSRepository) Create(ctx context.Context, rec ats.Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	validationJSON, err := json.Marshal(rec.Validation)
	if err != nil {
		return err
	}
	reportJSON, err := json.Marshal(rec.Report)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO ats_reports (id, owner_id, filename, job_matched, model, validation, report, excerpted, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`, rec.ID, rec.OwnerID, rec.Filename, rec.JobMatched, rec.Model, validationJSON, reportJSON, rec.Excerpted, rec.CreatedAt)
	return err
}

func (r *ATSRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]ats.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, owner_id, filename, job_matched, model, validation, report, excerpted, created_at
FROM ats_reports WHERE owner_id = $3
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, limit, offset, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []ats.Record{}
	for rows.Next() {
		var (
			rec                ats.Record
			validation, report []byte
			created            time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.Filename, &rec.JobMatched, &rec.Model, &validation, &report, &rec.Excerpted, &created); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(validation, &rec.Validation)
		_ = json.Unmarshal(report, &rec.Report)
		rec.CreatedAt = created.UTC()
		res = append(res, rec)
	}
	return res, rows.Err()
}
