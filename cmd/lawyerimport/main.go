package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ledongthuc/pdf"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nyayasahayak/legallibrary/internal/adapters/objectstore"
	"github.com/nyayasahayak/legallibrary/internal/adapters/postgres"
	"github.com/nyayasahayak/legallibrary/internal/core/ports"
	"github.com/nyayasahayak/legallibrary/internal/core/usecases"
	"github.com/nyayasahayak/legallibrary/internal/pkg/config"
	"github.com/nyayasahayak/legallibrary/internal/pkg/lawyerparse"
	"github.com/nyayasahayak/legallibrary/internal/pkg/logging"
	"github.com/nyayasahayak/legallibrary/internal/pkg/metrics"
	"github.com/nyayasahayak/legallibrary/internal/pkg/telemetry"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: lawyerimport <roster.pdf> [roster.pdf ...]")
	}

	cfg, err := config.Load("legallib-lawyerimport")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Server.LogLevel, cfg.Server.LogFormat)

	ctx := context.Background()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	var archive ports.ObjectStore
	if cfg.ObjectStore.Endpoint != "" {
		store, err := objectstore.New(ctx, objectstore.Config{
			Endpoint:  cfg.ObjectStore.Endpoint,
			AccessKey: cfg.ObjectStore.AccessKey,
			SecretKey: cfg.ObjectStore.SecretKey,
			Bucket:    cfg.ObjectStore.Bucket,
			UseSSL:    cfg.ObjectStore.UseSSL,
		})
		if err != nil {
			slog.Warn("object store unavailable, skipping archive", "error", err)
		} else {
			archive = store
		}
	}

	imp := &importer{
		lawyers: usecases.NewLawyerService(postgres.NewLawyerRepo(db), nil),
		archive: archive,
		runAt:   time.Now().UTC(),
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		total  int
		failed int
	)
	sem := make(chan struct{}, 2) // PDF text extraction is memory heavy

	for _, path := range os.Args[1:] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			n, err := imp.importFile(ctx, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				slog.Error("import failed", "file", path, "error", err)
				return
			}
			total += n
		}()
	}
	wg.Wait()

	slog.Info("lawyer import complete", "lawyers", total, "files", len(os.Args)-1, "failed", failed)

	if url := cfg.Telemetry.PushgatewayURL; url != "" {
		if err := metrics.Push(ctx, url, "legallib_lawyerimport", metrics.LawyersImported); err != nil {
			slog.Warn("push metrics failed", "error", err)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

type importer struct {
	lawyers *usecases.LawyerService
	archive ports.ObjectStore
	runAt   time.Time
}

func (imp *importer) importFile(ctx context.Context, path string) (n int, err error) {
	ctx, span := telemetry.Start(ctx, "lawyerimport.file", attribute.String("file", filepath.Base(path)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Int("lawyers", n))
		span.End()
	}()

	text, err := extractText(path)
	if err != nil {
		return 0, err
	}

	recs := lawyerparse.Extract(text)
	slog.Info("roster parsed", "file", path, "records", len(recs))
	if len(recs) == 0 {
		return 0, fmt.Errorf("no lawyer records found in %s", path)
	}

	n, err = imp.lawyers.Import(ctx, recs, imp.runAt)
	if err != nil {
		return 0, err
	}
	metrics.LawyersImported.Add(float64(n))

	if imp.archive != nil {
		if err := imp.archiveRun(ctx, path, recs); err != nil {
			slog.Warn("archive failed", "file", path, "error", err)
		}
	}
	return n, nil
}

// archiveRun keeps the source PDF and the parsed records side by side.
func (imp *importer) archiveRun(ctx context.Context, path string, recs []lawyerparse.Record) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}
	if err := imp.archive.Put(ctx, objectstore.ImportKey("lawyers", path, imp.runAt), "application/pdf", raw); err != nil {
		return err
	}

	parsed, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".json"
	return imp.archive.Put(ctx, objectstore.ImportKey("lawyers", name, imp.runAt), "application/json", parsed)
}

func extractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", fmt.Errorf("no extractable text in %s", path)
	}
	return text, nil
}
