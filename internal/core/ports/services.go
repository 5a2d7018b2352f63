package ports

import (
	"context"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishFIRFiled(ctx context.Context, fir *domain.FIR) error
	PublishFIRStatus(ctx context.Context, firID string, change domain.FIRStatusChange) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeFIRFiled(ctx context.Context, handler func(ctx context.Context, fir *domain.FIR) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// IdentityProvider owns user credentials.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, displayName string) (uid string, err error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	VerifyIDToken(ctx context.Context, idToken string) (*domain.TokenInfo, error)
}

// ChatCompleter sends one system+user exchange to a completion API.
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Geocoder resolves a free-text address to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*domain.GeoPoint, error)
}

// PlaceFinder looks up police stations around a point.
type PlaceFinder interface {
	PoliceStationsAround(ctx context.Context, origin domain.GeoPoint, radiusKm float64) ([]domain.PoliceStation, error)
}

// CatalogueSource downloads the state → districts listing.
type CatalogueSource interface {
	StatesAndDistricts(ctx context.Context) (map[string][]string, error)
}

// NotificationService sends notifications to complainants.
type NotificationService interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// ObjectStore archives import artefacts.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
}
