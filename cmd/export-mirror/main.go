package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"fontpair/internal/fonts"
	"fontpair/internal/ingest"
	"fontpair/internal/logging"
	"fontpair/internal/seed"
	"fontpair/pkg/database"
	"fontpair/pkg/models"
	"fontpair/pkg/utils"
)

// export-mirror writes the catalog in the fonts.google.com metadata format
// for mirror-server, so ingestion can be exercised without the live feed.
func main() {
	var (
		configPath = flag.String("config", "", "path to fontpair.yaml")
		outPath    = flag.String("out", "data/metadata.json", "output path")
		fromSeed   = flag.Bool("seed", false, "export the embedded seed instead of the database")
	)
	flag.Parse()

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		logging.New(utils.LogConfig{}, os.Stderr).Fatal("load config", "err", err)
	}
	logger := logging.New(cfg.Log, os.Stderr).WithPrefix("export-mirror")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var list []models.Font
	if *fromSeed {
		list = seed.MustLoad().Fonts
	} else {
		db, err := database.OpenAndMigrate(database.FromConfig(cfg.DB))
		if err != nil {
			logger.Fatal("open database", "path", cfg.DB.Path, "err", err)
		}
		defer db.Close()

		if list, err = fonts.NewRepo(db).All(ctx); err != nil {
			logger.Fatal("load fonts", "err", err)
		}
	}

	b, err := ingest.EncodeMetadata(list)
	if err != nil {
		logger.Fatal("encode", "err", err)
	}
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		logger.Fatal("mkdir failed", "err", err)
	}
	if err := os.WriteFile(*outPath, b, 0o644); err != nil {
		logger.Fatal("write failed", "err", err)
	}

	logger.Info("exported mirror", "fonts", len(list), "path", *outPath)
}
