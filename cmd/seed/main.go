package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/nyayasahayak/legallibrary/internal/adapters/osm"
	"github.com/nyayasahayak/legallibrary/internal/adapters/postgres"
	"github.com/nyayasahayak/legallibrary/internal/core/usecases"
	"github.com/nyayasahayak/legallibrary/internal/pkg/config"
	"github.com/nyayasahayak/legallibrary/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load("legallib-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Server.LogLevel, cfg.Server.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	catalogue := osm.NewCatalogue(osm.Config{
		CatalogueURL: cfg.OSM.CatalogueURL,
		UserAgent:    cfg.OSM.UserAgent,
		Timeout:      30 * time.Second,
	})
	svc := usecases.NewLocationService(postgres.NewLocationRepo(db), nil, nil, nil)

	slog.Info("seeding states, districts and police stations", "source", cfg.OSM.CatalogueURL)
	report, err := svc.Seed(ctx, catalogue)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	slog.Info("catalogue seeded", "states", report.States, "districts", report.Districts, "stations", report.Stations)

	verify(ctx, svc)
}

// verify walks one state down to its stations so a broken relationship
// shows up right after seeding.
func verify(ctx context.Context, svc *usecases.LocationService) {
	states, err := svc.ListStates(ctx)
	if err != nil || len(states) == 0 {
		log.Fatalf("verify: no states readable: %v", err)
	}
	state := states[0]
	districts, err := svc.ListDistricts(ctx, state.Code)
	if err != nil {
		log.Fatalf("verify districts of %s: %v", state.Code, err)
	}
	slog.Info("sample state", "name", state.Name, "code", state.Code, "type", state.Type, "districts", len(districts))

	for i, d := range districts {
		if i == 3 {
			break
		}
		stations, err := svc.ListStations(ctx, d.Code)
		if err != nil {
			log.Fatalf("verify stations of %s: %v", d.Code, err)
		}
		if len(stations) == 0 {
			log.Fatalf("verify: district %s has no police stations", d.Code)
		}
		slog.Info("sample district", "name", d.Name, "code", d.Code, "stations", len(stations))
	}
}
