package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nyayasahayak/legallibrary/internal/adapters/http"
	"github.com/nyayasahayak/legallibrary/internal/adapters/identity"
	natsadapter "github.com/nyayasahayak/legallibrary/internal/adapters/nats"
	"github.com/nyayasahayak/legallibrary/internal/adapters/openrouter"
	"github.com/nyayasahayak/legallibrary/internal/adapters/osm"
	"github.com/nyayasahayak/legallibrary/internal/adapters/postgres"
	"github.com/nyayasahayak/legallibrary/internal/adapters/valkey"
	"github.com/nyayasahayak/legallibrary/internal/core/ports"
	"github.com/nyayasahayak/legallibrary/internal/core/usecases"
	"github.com/nyayasahayak/legallibrary/internal/pkg/config"
	"github.com/nyayasahayak/legallibrary/internal/pkg/logging"
	"github.com/nyayasahayak/legallibrary/internal/pkg/metrics"
	"github.com/nyayasahayak/legallibrary/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("legallib-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Telemetry.ServiceName, cfg.Server.LogLevel, cfg.Server.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
	}

	// NATS
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, fir events disabled", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Optional integrations stay nil interfaces when unconfigured
	var idp ports.IdentityProvider
	if cfg.Identity.APIKey != "" {
		fb, err := identity.NewFirebase(cfg.Identity.APIKey, cfg.Identity.BaseURL)
		if err != nil {
			log.Fatalf("identity: %v", err)
		}
		idp = fb
	} else {
		slog.Warn("identity.api_key not set, auth endpoints disabled")
	}

	var completer ports.ChatCompleter
	if cfg.Chat.APIKey != "" {
		client, err := openrouter.New(openrouter.Config{
			APIKey:      cfg.Chat.APIKey,
			BaseURL:     cfg.Chat.BaseURL,
			Model:       cfg.Chat.Model,
			MaxTokens:   cfg.Chat.MaxTokens,
			Temperature: cfg.Chat.Temperature,
			Timeout:     time.Duration(cfg.Chat.Timeout) * time.Second,
			Referer:     cfg.Chat.Referer,
			Title:       cfg.Chat.Title,
		})
		if err != nil {
			log.Fatalf("chat: %v", err)
		}
		completer = client
	} else {
		slog.Warn("chat.api_key not set, chat endpoint disabled")
	}

	var (
		geocoder ports.Geocoder
		places   ports.PlaceFinder
	)
	osmCfg := osm.Config{
		NominatimURL: cfg.OSM.NominatimURL,
		OverpassURL:  cfg.OSM.OverpassURL,
		CatalogueURL: cfg.OSM.CatalogueURL,
		UserAgent:    cfg.OSM.UserAgent,
		Timeout:      time.Duration(cfg.OSM.Timeout) * time.Second,
	}
	if cfg.OSM.NominatimURL != "" && cfg.OSM.OverpassURL != "" {
		geocoder = osm.NewNominatim(osmCfg)
		places = osm.NewOverpass(osmCfg)
	}

	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}

	// Repos
	actRepo := postgres.NewActRepo(db)
	articleRepo := postgres.NewArticleRepo(db)
	caseRepo := postgres.NewCaseRepo(db)
	lawyerRepo := postgres.NewLawyerRepo(db)
	locationRepo := postgres.NewLocationRepo(db)
	firRepo := postgres.NewFIRRepo(db)
	userRepo := postgres.NewUserRepo(db)

	deps := &http.Dependencies{
		Legal:        usecases.NewLegalService(actRepo, articleRepo, caseRepo, cacheSvc),
		Lawyers:      usecases.NewLawyerService(lawyerRepo, cacheSvc),
		Auth:         usecases.NewAuthService(idp, userRepo),
		Chat:         usecases.NewChatService(completer),
		Locations:    usecases.NewLocationService(locationRepo, geocoder, places, cacheSvc),
		FIRs:         usecases.NewFIRService(firRepo, locationRepo, publisher),
		NATS:         natsConn,
		DB:           db,
		Cache:        cache,
		AllowOrigins: cfg.CORS.AllowOrigins,
		SpecPath:     http.DefaultSpecPath,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Nyaya Sahayak Legal Library API",
	})
	app.Use(recover.New())

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Pool.Stat())
		}
	}
}
