package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

// ArticleRepo implements ports.ArticleRepository with pgx.
type ArticleRepo struct {
	db *DB
}

// NewArticleRepo creates a new ArticleRepo.
func NewArticleRepo(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

func (r *ArticleRepo) UpsertBatch(ctx context.Context, articles []domain.Article) error {
	batch := &pgx.Batch{}
	for _, a := range articles {
		batch.Queue(`
			INSERT INTO articles (id, article_number, title, part, content)
			VALUES ($1, $2, $3, NULLIF($4, ''), $5)
			ON CONFLICT (id) DO UPDATE
			SET article_number = EXCLUDED.article_number, title = EXCLUDED.title,
			    part = EXCLUDED.part, content = EXCLUDED.content
		`, a.ID, a.Number, a.Title, a.Part, a.Content)
	}
	return sendBatch(ctx, r.db.Pool, batch)
}

func (r *ArticleRepo) List(ctx context.Context) ([]domain.Article, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, article_number, title, COALESCE(part, ''), content
		FROM articles
		ORDER BY NULLIF(regexp_replace(article_number, '\D', '', 'g'), '')::int NULLS LAST, article_number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Article
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.ID, &a.Number, &a.Title, &a.Part, &a.Content); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CaseRepo implements ports.CaseRepository with pgx.
type CaseRepo struct {
	db *DB
}

// NewCaseRepo creates a new CaseRepo.
func NewCaseRepo(db *DB) *CaseRepo {
	return &CaseRepo{db: db}
}

func (r *CaseRepo) UpsertBatch(ctx context.Context, cases []domain.Case) error {
	batch := &pgx.Batch{}
	for _, c := range cases {
		batch.Queue(`
			INSERT INTO cases (id, title, citation, court, year, summary, category)
			VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, 0), $6, NULLIF($7, ''))
			ON CONFLICT (id) DO UPDATE
			SET title = EXCLUDED.title, citation = EXCLUDED.citation, court = EXCLUDED.court,
			    year = EXCLUDED.year, summary = EXCLUDED.summary, category = EXCLUDED.category
		`, c.ID, c.Title, c.Citation, c.Court, c.Year, c.Summary, c.Category)
	}
	return sendBatch(ctx, r.db.Pool, batch)
}

func (r *CaseRepo) List(ctx context.Context) ([]domain.Case, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, title, COALESCE(citation, ''), court, COALESCE(year, 0), summary, COALESCE(category, '')
		FROM cases ORDER BY year DESC NULLS LAST, title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Case
	for rows.Next() {
		var c domain.Case
		if err := rows.Scan(&c.ID, &c.Title, &c.Citation, &c.Court, &c.Year, &c.Summary, &c.Category); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UserRepo implements ports.UserRepository with pgx.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Upsert(ctx context.Context, u *domain.User) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO users (uid, email, name) VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name
	`, u.UID, u.Email, u.Name)
	return err
}

func (r *UserRepo) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	var u domain.User
	err := r.db.Pool.QueryRow(ctx, `SELECT uid, email, name, created_at FROM users WHERE uid = $1`, uid).
		Scan(&u.UID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}
