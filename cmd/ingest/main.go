package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"fontpair/internal/fonts"
	"fontpair/internal/foundries"
	"fontpair/internal/ingest"
	"fontpair/internal/logging"
	"fontpair/pkg/database"
	"fontpair/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "path to fontpair.yaml")
	mode := flag.String("mode", "db", "sink: db or json")
	out := flag.String("out", "fonts.json", "output file for json mode")
	refresh := flag.Bool("refresh", false, "wipe fonts before saving (db mode)")
	flag.Parse()

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		logging.New(utils.LogConfig{}, os.Stderr).Fatal("load config", "err", err)
	}
	logger := logging.New(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Ingest.Timeout)
	defer cancel()

	if *refresh {
		cfg.Ingest.Refresh = true
	}

	switch *mode {
	case "json":
		runner := ingest.NewRunner(cfg.Ingest, nil, nil, logger)
		rep, err := runner.RunJSON(ctx, *out)
		if err != nil {
			logger.Fatal("ingest failed", "err", err)
		}
		logger.Info("wrote catalog", "path", *out, "fonts", rep.Saved, "invalid", rep.Invalid, "took", rep.Duration)

	case "db":
		db, err := database.OpenAndMigrate(database.FromConfig(cfg.DB))
		if err != nil {
			logger.Fatal("open database", "path", cfg.DB.Path, "err", err)
		}
		defer db.Close()

		runner := ingest.NewRunner(cfg.Ingest, fonts.NewRepo(db), foundries.NewRepo(db), logger)
		rep, err := runner.Run(ctx, ingest.NewRunID())
		if err != nil {
			logger.Fatal("ingest failed", "err", err)
		}
		logger.Info("database populated",
			"path", cfg.DB.Path,
			"saved", rep.Saved,
			"failed", rep.Failed,
			"foundries_added", rep.FoundriesAdded,
			"took", rep.Duration,
		)

	default:
		logger.Fatal("unknown mode", "mode", *mode)
	}
}
