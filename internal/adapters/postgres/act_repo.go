package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

// ActRepo implements ports.ActRepository with pgx.
type ActRepo struct {
	db *DB
}

// NewActRepo creates a new ActRepo.
func NewActRepo(db *DB) *ActRepo {
	return &ActRepo{db: db}
}

// UpsertBatch inserts or replaces acts using pgx.Batch.
func (r *ActRepo) UpsertBatch(ctx context.Context, acts []domain.Act) error {
	batch := &pgx.Batch{}
	for _, a := range acts {
		sections := a.Sections
		if sections == nil {
			sections = []domain.Section{}
		}
		batch.Queue(`
			INSERT INTO acts (act_id, act_name, description, sections)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (act_id) DO UPDATE
			SET act_name = EXCLUDED.act_name, description = EXCLUDED.description,
			    sections = EXCLUDED.sections
		`, a.ActID, a.Name, a.Description, sections)
	}
	return sendBatch(ctx, r.db.Pool, batch)
}

// List returns every act ordered by id.
func (r *ActRepo) List(ctx context.Context) ([]domain.Act, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT act_id, act_name, description, sections, created_at
		FROM acts ORDER BY length(act_id), act_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var acts []domain.Act
	for rows.Next() {
		var a domain.Act
		if err := rows.Scan(&a.ActID, &a.Name, &a.Description, &a.Sections, &a.CreatedAt); err != nil {
			return nil, err
		}
		acts = append(acts, a)
	}
	return acts, rows.Err()
}

// Find matches act_id exactly, falling back to a case-insensitive name match.
func (r *ActRepo) Find(ctx context.Context, idOrName string) (*domain.Act, error) {
	var a domain.Act
	err := r.db.Pool.QueryRow(ctx, `
		SELECT act_id, act_name, description, sections, created_at
		FROM acts
		WHERE act_id = $1 OR act_name ILIKE $2
		ORDER BY (act_id = $1) DESC, length(act_name)
		LIMIT 1
	`, idOrName, likePattern(idOrName)).Scan(&a.ActID, &a.Name, &a.Description, &a.Sections, &a.CreatedAt)
	if err != nil {
		return nil, notFound(err, "act")
	}
	return &a, nil
}
