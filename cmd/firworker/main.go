package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/nyayasahayak/legallibrary/internal/adapters/mailer"
	natsadapter "github.com/nyayasahayak/legallibrary/internal/adapters/nats"
	"github.com/nyayasahayak/legallibrary/internal/adapters/osm"
	"github.com/nyayasahayak/legallibrary/internal/adapters/postgres"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/core/ports"
	"github.com/nyayasahayak/legallibrary/internal/core/usecases"
	"github.com/nyayasahayak/legallibrary/internal/pkg/config"
	"github.com/nyayasahayak/legallibrary/internal/pkg/logging"
	"github.com/nyayasahayak/legallibrary/internal/pkg/metrics"
	"github.com/nyayasahayak/legallibrary/internal/pkg/telemetry"
	"github.com/nyayasahayak/legallibrary/internal/workflows"
)

func main() {
	cfg, err := config.Load("legallib-firworker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Server.LogLevel, cfg.Server.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), 8)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Status changes made by the workflow reach WebSocket clients through NATS
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats publisher unavailable, status events disabled", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	var notifier ports.NotificationService
	if cfg.SMTP.Enabled() {
		notifier = mailer.New(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		slog.Warn("smtp not configured, acknowledgement emails are logged only")
	}

	osmCfg := osm.Config{
		NominatimURL: cfg.OSM.NominatimURL,
		OverpassURL:  cfg.OSM.OverpassURL,
		UserAgent:    cfg.OSM.UserAgent,
		Timeout:      time.Duration(cfg.OSM.Timeout) * time.Second,
	}
	locationRepo := postgres.NewLocationRepo(db)
	firs := usecases.NewFIRService(postgres.NewFIRRepo(db), locationRepo, publisher)
	acts := &workflows.IntakeActivities{
		FIRs:      firs,
		Locations: usecases.NewLocationService(locationRepo, osm.NewNominatim(osmCfg), osm.NewOverpass(osmCfg), nil),
		Notifier:  notifier,
	}

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	workflows.Register(w, acts)

	// One intake workflow per filed FIR
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribeFIRFiled(ctx, func(ctx context.Context, fir *domain.FIR) error {
		started, err := workflows.StartIntake(ctx, c, cfg.Temporal.TaskQueue, fir.ID)
		switch {
		case err != nil:
			metrics.IntakeWorkflows.WithLabelValues("error").Inc()
			return err
		case !started:
			metrics.IntakeWorkflows.WithLabelValues("duplicate").Inc()
			slog.Info("intake already started", "fir_id", fir.ID)
		default:
			metrics.IntakeWorkflows.WithLabelValues("started").Inc()
			slog.Info("intake workflow started", "fir_id", fir.ID, "state", fir.StateCode)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe fir.filed: %v", err)
	}

	if cfg.Temporal.SweepInterval > 0 {
		go sweepStalled(ctx, firs, c, cfg.Temporal.TaskQueue,
			time.Duration(cfg.Temporal.SweepInterval)*time.Second,
			time.Duration(cfg.Temporal.SweepAge)*time.Second)
	}

	// Metrics only; the worker serves no API
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/metrics", metrics.Handler())
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := app.Listen(addr); err != nil {
			slog.Error("metrics listener stopped", "error", err)
		}
	}()
	defer func() { _ = app.Shutdown() }()

	slog.Info("fir worker started", "temporal", cfg.Temporal.HostPort, "queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		slog.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}

// sweepStalled periodically restarts intake for FIRs whose fir.filed event
// was lost.
func sweepStalled(ctx context.Context, firs workflows.StalledLister, c client.Client, queue string, every, age time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := workflows.RestartStalled(ctx, firs, c, queue, age, 100)
			if n > 0 {
				metrics.IntakeWorkflows.WithLabelValues("swept").Add(float64(n))
				slog.Info("restarted stalled intakes", "count", n)
			}
			if err != nil {
				metrics.IntakeWorkflows.WithLabelValues("error").Inc()
				slog.Warn("intake sweep failed", "error", err)
			}
		}
	}
}
