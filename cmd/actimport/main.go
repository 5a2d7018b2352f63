package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nyayasahayak/legallibrary/internal/adapters/postgres"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/core/usecases"
	"github.com/nyayasahayak/legallibrary/internal/pkg/config"
	"github.com/nyayasahayak/legallibrary/internal/pkg/logging"
)

func main() {
	articlesPath := flag.String("articles", "", "JSON array of constitution articles to import")
	casesPath := flag.String("cases", "", "JSON array of cases to import")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: actimport [-articles file] [-cases file] [acts-dir]")
		flag.PrintDefaults()
	}
	flag.Parse()

	actsDir := "central_acts"
	if flag.NArg() > 0 {
		actsDir = flag.Arg(0)
	}

	cfg, err := config.Load("legallib-actimport")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Server.LogLevel, cfg.Server.LogFormat)

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	svc := usecases.NewLegalService(postgres.NewActRepo(db), postgres.NewArticleRepo(db), postgres.NewCaseRepo(db), nil)

	acts, failed := loadActs(actsDir)
	if err := svc.ImportActs(ctx, acts); err != nil {
		log.Fatalf("import acts: %v", err)
	}
	slog.Info("acts imported", "dir", actsDir, "acts", len(acts), "failed", failed)

	if *articlesPath != "" {
		var articles []domain.Article
		if err := readJSON(*articlesPath, &articles); err != nil {
			log.Fatalf("articles: %v", err)
		}
		if err := svc.ImportArticles(ctx, articles); err != nil {
			log.Fatalf("import articles: %v", err)
		}
		slog.Info("articles imported", "count", len(articles))
	}

	if *casesPath != "" {
		var cases []domain.Case
		if err := readJSON(*casesPath, &cases); err != nil {
			log.Fatalf("cases: %v", err)
		}
		if err := svc.ImportCases(ctx, cases); err != nil {
			log.Fatalf("import cases: %v", err)
		}
		slog.Info("cases imported", "count", len(cases))
	}
}

// loadActs normalizes every *.json file in dir. Act IDs are assigned 1, 2, ...
// in file name order; files that fail to parse are skipped and counted.
func loadActs(dir string) ([]domain.Act, int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("read %s: %v", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		slog.Warn("no JSON files found", "dir", dir)
		return nil, 0
	}

	var (
		acts   []domain.Act
		failed int
	)
	for _, name := range files {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Error("read act failed", "file", name, "error", err)
			failed++
			continue
		}
		act, err := usecases.NormalizeAct(raw, strconv.Itoa(len(acts)+1))
		if err != nil {
			slog.Error("normalize act failed", "file", name, "error", err)
			failed++
			continue
		}
		slog.Debug("act loaded", "file", name, "act_id", act.ActID, "name", act.Name, "sections", len(act.Sections))
		acts = append(acts, act)
	}
	return acts, failed
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
