package ports

import (
	"context"
	"time"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

// ActRepository persists acts with their sections.
type ActRepository interface {
	UpsertBatch(ctx context.Context, acts []domain.Act) error
	List(ctx context.Context) ([]domain.Act, error)
	// Find matches the act_id exactly or the name case-insensitively as a
	// substring. It returns domain.ErrNotFound when nothing matches.
	Find(ctx context.Context, idOrName string) (*domain.Act, error)
}

// ArticleRepository persists constitution articles.
type ArticleRepository interface {
	UpsertBatch(ctx context.Context, articles []domain.Article) error
	List(ctx context.Context) ([]domain.Article, error)
}

// CaseRepository persists case law.
type CaseRepository interface {
	UpsertBatch(ctx context.Context, cases []domain.Case) error
	List(ctx context.Context) ([]domain.Case, error)
}

// LawyerRepository persists the lawyer directory. Search applies every
// filter field except the geo origin.
type LawyerRepository interface {
	UpsertBatch(ctx context.Context, lawyers []domain.Lawyer) error
	Search(ctx context.Context, f domain.LawyerFilter) ([]domain.Lawyer, error)
}

// LocationRepository persists the state, district and police station catalogue.
type LocationRepository interface {
	ListStates(ctx context.Context) ([]domain.State, error)
	ListDistricts(ctx context.Context, stateCode string) ([]domain.District, error)
	GetDistrict(ctx context.Context, code string) (*domain.District, error)
	ListStations(ctx context.Context, districtCode string) ([]domain.PoliceStation, error)
	// ReplaceCatalogue swaps the states and districts tables in one transaction.
	ReplaceCatalogue(ctx context.Context, states []domain.State, districts []domain.District) error
	ReplaceStations(ctx context.Context, stations []domain.PoliceStation) error
	Counts(ctx context.Context) (states, districts, stations int, err error)
}

// FIRRepository persists first information reports and their history.
type FIRRepository interface {
	Create(ctx context.Context, fir *domain.FIR) error
	GetByID(ctx context.Context, id string) (*domain.FIR, error)
	ListByEmail(ctx context.Context, email string) ([]domain.FIR, error)
	// ListByStatus returns FIRs in status last updated before updatedBefore,
	// oldest first, without history.
	ListByStatus(ctx context.Context, status domain.FIRStatus, updatedBefore time.Time, limit int) ([]domain.FIR, error)
	// AppendStatus sets the status and records the change in the history.
	AppendStatus(ctx context.Context, id string, change domain.FIRStatusChange) error
	AssignStation(ctx context.Context, id, stationCode string) error
}

// UserRepository persists local user profiles.
type UserRepository interface {
	Upsert(ctx context.Context, u *domain.User) error
	GetByUID(ctx context.Context, uid string) (*domain.User, error)
}
