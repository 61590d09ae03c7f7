package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/fiscalia/fiscalia-api/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Record) error {
	const q = `
INSERT INTO financial_analyses
  (id, user_id, title, category, amount, taxes, insights, monthly_summary, original_data, operation_type, advisory, artifact_url, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13);
`
	taxes := a.Taxes
	if len(taxes) == 0 {
		// taxes column requires valid JSON; use empty object
		taxes = []byte("{}")
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		string(a.ID), a.UserID, a.Title, a.Category, a.Amount,
		[]byte(taxes), nullBytes(a.Insights), a.MonthlySummary, a.OriginalData,
		a.OperationType, nullBytes(a.Advisory), nullString(a.ArtifactURL), createdAt,
	)
	return err
}

// ListByUser returns all records for an owner ordered by created_at desc
func (r *AnalysisRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Record, error) {
	const q = `
SELECT id, user_id, title, category, amount, taxes, insights, monthly_summary, original_data, operation_type, advisory, artifact_url, created_at
FROM financial_analyses
WHERE user_id=$1
ORDER BY created_at DESC, id DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(rows *sql.Rows) (*domain.Record, error) {
	var (
		rec         domain.Record
		id          string
		taxes       []byte
		insights    []byte
		advisory    []byte
		artifactURL sql.NullString
		created     time.Time
	)
	if err := rows.Scan(&id, &rec.UserID, &rec.Title, &rec.Category, &rec.Amount,
		&taxes, &insights, &rec.MonthlySummary, &rec.OriginalData,
		&rec.OperationType, &advisory, &artifactURL, &created); err != nil {
		return nil, err
	}
	rec.ID = domain.RecordID(id)
	rec.Taxes = taxes
	rec.Insights = insights
	rec.Advisory = advisory
	rec.ArtifactURL = artifactURL.String
	rec.CreatedAt = created
	return &rec, nil
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
