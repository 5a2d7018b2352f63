package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/core/ports"
)

// LegalService serves the reference library: acts, articles and cases.
type LegalService struct {
	acts     ports.ActRepository
	articles ports.ArticleRepository
	cases    ports.CaseRepository
	cache    ports.CacheService
}

// NewLegalService creates a new LegalService.
func NewLegalService(acts ports.ActRepository, articles ports.ArticleRepository, cases ports.CaseRepository, cache ports.CacheService) *LegalService {
	return &LegalService{acts: acts, articles: articles, cases: cases, cache: cache}
}

// ListActs returns every act.
func (s *LegalService) ListActs(ctx context.Context) ([]domain.Act, error) {
	var acts []domain.Act
	if s.cached(ctx, "acts:all", &acts) {
		return acts, nil
	}
	acts, err := s.acts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list acts: %w", err)
	}
	s.store(ctx, "acts:all", acts, 3600)
	return acts, nil
}

// GetAct finds an act by act_id or by a case-insensitive fragment of its name.
func (s *LegalService) GetAct(ctx context.Context, idOrName string) (*domain.Act, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil, fmt.Errorf("%w: act id is required", domain.ErrInvalidInput)
	}

	key := "acts:find:" + strings.ToLower(idOrName)
	var act domain.Act
	if s.cached(ctx, key, &act) {
		return &act, nil
	}

	found, err := s.acts.Find(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, found, 3600)
	return found, nil
}

// ListArticles returns every constitution article.
func (s *LegalService) ListArticles(ctx context.Context) ([]domain.Article, error) {
	return s.articles.List(ctx)
}

// ListCases returns every case.
func (s *LegalService) ListCases(ctx context.Context) ([]domain.Case, error) {
	return s.cases.List(ctx)
}

// ImportActs upserts acts and drops the cached act list.
func (s *LegalService) ImportActs(ctx context.Context, acts []domain.Act) error {
	if len(acts) == 0 {
		return nil
	}
	if err := s.acts.UpsertBatch(ctx, acts); err != nil {
		return fmt.Errorf("upsert acts: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "acts:all")
	}
	return nil
}

// ImportArticles upserts constitution articles.
func (s *LegalService) ImportArticles(ctx context.Context, articles []domain.Article) error {
	return s.articles.UpsertBatch(ctx, articles)
}

// ImportCases upserts case law.
func (s *LegalService) ImportCases(ctx context.Context, cases []domain.Case) error {
	return s.cases.UpsertBatch(ctx, cases)
}

func (s *LegalService) cached(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (s *LegalService) store(ctx context.Context, key string, v any, ttl int) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = s.cache.Set(ctx, key, data, ttl)
	}
}
