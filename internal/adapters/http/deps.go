package http

import (
	"github.com/nats-io/nats.go"
	"github.com/nyayasahayak/legallibrary/internal/adapters/postgres"
	"github.com/nyayasahayak/legallibrary/internal/adapters/valkey"
	"github.com/nyayasahayak/legallibrary/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Legal     *usecases.LegalService
	Lawyers   *usecases.LawyerService
	Auth      *usecases.AuthService
	Chat      *usecases.ChatService
	Locations *usecases.LocationService
	FIRs      *usecases.FIRService
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache
	// AllowOrigins is the CORS allow list; empty disables the CORS middleware.
	AllowOrigins string
	// SpecPath overrides DefaultSpecPath for /docs/openapi.yaml.
	SpecPath string
}
