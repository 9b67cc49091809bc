package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"fontpair/internal/export"
	"fontpair/internal/fonts"
	"fontpair/internal/foundries"
	"fontpair/internal/logging"
	"fontpair/pkg/database"
	"fontpair/pkg/utils"
)

func main() {
	var (
		configPath   = flag.String("config", "", "path to fontpair.yaml")
		fontsOut     = flag.String("fonts", "data/fonts.csv", "output CSV path for fonts")
		foundriesOut = flag.String("foundries", "data/foundries.csv", "output CSV path for foundries")
	)
	flag.Parse()

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		logging.New(utils.LogConfig{}, os.Stderr).Fatal("load config", "err", err)
	}
	logger := logging.New(cfg.Log, os.Stderr).WithPrefix("export")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.OpenAndMigrate(database.FromConfig(cfg.DB))
	if err != nil {
		logger.Fatal("open database", "path", cfg.DB.Path, "err", err)
	}
	defer db.Close()

	all, err := fonts.NewRepo(db).All(ctx)
	if err != nil {
		logger.Fatal("load fonts", "err", err)
	}
	list, err := foundries.NewRepo(db).All(ctx)
	if err != nil {
		logger.Fatal("load foundries", "err", err)
	}

	if err := export.ToFile(*fontsOut, func(w io.Writer) error { return export.WriteFontsCSV(w, all) }); err != nil {
		logger.Fatal("export fonts failed", "err", err)
	}
	if err := export.ToFile(*foundriesOut, func(w io.Writer) error { return export.WriteFoundriesCSV(w, list) }); err != nil {
		logger.Fatal("export foundries failed", "err", err)
	}

	logger.Info("exported", "fonts", len(all), "fonts_path", *fontsOut, "foundries", len(list), "foundries_path", *foundriesOut)
}
