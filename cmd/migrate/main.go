package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/stocksentryhq/stocksentry-backend/pkg/config"
	"github.com/stocksentryhq/stocksentry-backend/pkg/db"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
	"github.com/stocksentryhq/stocksentry-backend/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "one of up|down|status|version|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, "directory holding the goose .sql files")
	name := flag.String("name", "", "new migration name, create only")
	version := flag.String("version", "", "schema version to land on (YYYYMMDDHHMMSS), version only")
	flag.Parse()

	// create and validate work on files alone; no config or DB needed.
	switch *cmd {
	case "create":
		if *name == "" {
			fatalf("missing -name for create")
		}
		path, err := migrate.Scaffold(*dir, *name)
		if err != nil {
			fatalf("scaffold migration: %v", err)
		}
		fmt.Println("wrote", path)
		return
	case "validate":
		if err := migrate.Lint(*dir); err != nil {
			fatalf("lint migrations: %v", err)
		}
		fmt.Println("migrations look well-formed")
		return
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatalf("load config: %v", err)
	}
	if cfg.DB.Driver == db.DriverSQLite {
		fatalf("goose migrations target postgres; sqlite datasources auto-migrate at startup")
	}

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "database bootstrap failed", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.SQLDB()
	if err != nil {
		logg.Error(ctx, "unwrap sql.DB failed", err)
		os.Exit(1)
	}

	switch *cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
			logg.Error(ctx, "goose command failed", err)
			os.Exit(1)
		}
	case "version":
		if *version == "" {
			fatalf("missing -version for version command")
		}
		if err := migrate.To(ctx, sqlDB, *dir, *version); err != nil {
			logg.Error(ctx, "goose version migrate failed", err)
			os.Exit(1)
		}
	default:
		fatalf("unknown -cmd value: %s", *cmd)
	}
	logg.Info(ctx, "migrate finished")
}

// fatalf reports flag and usage mistakes straight to stderr; the structured
// logger only comes up once config is loaded.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
