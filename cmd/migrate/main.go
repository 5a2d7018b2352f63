package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nyayasahayak/legallibrary/internal/pkg/config"
)

var upFiles = []string{
	"001_library.sql",
	"002_locations_firs.sql",
}

const downFile = "down.sql"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down> [migrations-dir]")
	}
	dir := "migrations"
	if len(os.Args) > 2 {
		dir = os.Args[2]
	}

	cfg, err := config.Load("legallib-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		runFiles(ctx, pool, dir, upFiles)
		log.Println("all migrations applied")
	case "down":
		runFiles(ctx, pool, dir, []string{downFile})
		log.Println("all tables dropped")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runFiles(ctx context.Context, pool *pgxpool.Pool, dir string, files []string) {
	for _, name := range files {
		f := filepath.Join(dir, name)
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		if _, err := pool.Exec(ctx, string(data)); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}
}
