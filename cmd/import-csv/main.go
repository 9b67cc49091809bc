package main

import (
	"context"
	"flag"
	"os"
	"time"

	"fontpair/internal/export"
	"fontpair/internal/fonts"
	"fontpair/internal/foundries"
	"fontpair/internal/ingest"
	"fontpair/internal/logging"
	"fontpair/pkg/database"
	"fontpair/pkg/models"
	"fontpair/pkg/utils"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to fontpair.yaml")
		fontsIn     = flag.String("fonts", "data/fonts.csv", "input CSV path for fonts")
		foundriesIn = flag.String("foundries", "", "input CSV path for foundries (optional)")
		refresh     = flag.Bool("refresh", false, "wipe fonts before importing")
	)
	flag.Parse()

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		logging.New(utils.LogConfig{}, os.Stderr).Fatal("load config", "err", err)
	}
	logger := logging.New(cfg.Log, os.Stderr).WithPrefix("import")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.OpenAndMigrate(database.FromConfig(cfg.DB))
	if err != nil {
		logger.Fatal("open database", "path", cfg.DB.Path, "err", err)
	}
	defer db.Close()

	list, err := readFonts(*fontsIn)
	if err != nil {
		logger.Fatal("read fonts", "path", *fontsIn, "err", err)
	}
	valid, invalid := ingest.Partition(list)
	for _, e := range invalid {
		logger.Warn("skipping invalid row", "err", e)
	}

	fontRepo, foundryRepo := fonts.NewRepo(db), foundries.NewRepo(db)
	saved, failed, err := ingest.SaveFonts(ctx, fontRepo, valid, cfg.Ingest.BatchSize, *refresh)
	if err != nil {
		logger.Fatal("import fonts failed", "err", err)
	}

	if *foundriesIn != "" {
		f, err := os.Open(*foundriesIn)
		if err != nil {
			logger.Fatal("open foundries", "err", err)
		}
		records, err := export.ReadFoundriesCSV(f)
		_ = f.Close()
		if err != nil {
			logger.Fatal("read foundries", "path", *foundriesIn, "err", err)
		}
		if err := foundryRepo.Upsert(ctx, records); err != nil {
			logger.Fatal("import foundries failed", "err", err)
		}
	}
	added, err := foundryRepo.InsertMissing(ctx, ingest.ExtractFoundries(valid))
	if err != nil {
		logger.Fatal("add foundries failed", "err", err)
	}

	logger.Info("imported", "fonts", saved, "failed", failed, "invalid", len(invalid), "foundries_added", added)
}

func readFonts(path string) ([]models.Font, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return export.ReadFontsCSV(f)
}
