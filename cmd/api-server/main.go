package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"fontpair/internal/fonts"
	"fontpair/internal/foundries"
	"fontpair/internal/grpcserver"
	"fontpair/internal/ingest"
	"fontpair/internal/logging"
	"fontpair/internal/pairing"
	"fontpair/internal/ratelimit"
	"fontpair/internal/search"
	"fontpair/internal/seed"
	"fontpair/internal/server"
	synchub "fontpair/internal/sync"
	"fontpair/pkg/database"
	"fontpair/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "path to fontpair.yaml")
	flag.Parse()

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		logging.New(utils.LogConfig{}, os.Stderr).Fatal("load config", "err", err)
	}
	logger := logging.New(cfg.Log, os.Stderr)

	db, err := database.OpenAndMigrate(database.FromConfig(cfg.DB))
	if err != nil {
		logger.Fatal("open database", "path", cfg.DB.Path, "err", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	idx, err := search.New()
	if err != nil {
		logger.Fatal("create search index", "err", err)
	}
	defer idx.Close()

	hub := synchub.NewHub(logger)
	defer hub.Close()

	cat := &server.Catalog{
		Fonts:     fonts.NewRepo(db),
		Foundries: foundries.NewRepo(db),
		Index:     idx,
		Hub:       hub,
		Logger:    logger,
	}

	data := seed.MustLoad()
	if _, err := cat.SeedIfEmpty(ctx, data); err != nil {
		logger.Fatal("seed catalog", "err", err)
	}
	if err := cat.Reindex(ctx); err != nil {
		logger.Fatal("build search index", "err", err)
	}

	selector := pairing.NewDefaultSelector()
	limiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	var ingester *server.Ingester
	if cfg.Admin.Enabled {
		runner := ingest.NewRunner(cfg.Ingest, cat.Fonts, cat.Foundries, logger)
		ingester = server.NewIngester(ctx, runner, cat)
	}

	if cfg.Log.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.Deps{
		DB:       db,
		Catalog:  cat,
		Selector: selector,
		Popular:  data.PopularPairings,
		Limiter:  limiter,
		Logger:   logger.WithPrefix("http"),
		Ingester: ingester,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcSrv := grpc.NewServer()
	grpcserver.RegisterCatalogServer(grpcSrv, grpcserver.NewServer(cat.Fonts, selector))

	tcpSrv := synchub.NewServer(cfg.Server.TCPAddr, hub)

	g, gctx := errgroup.WithContext(ctx)

	// start the TCP feed first so binding errors surface early
	g.Go(func() error {
		return tcpSrv.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("http listening", "addr", cfg.Server.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		var lc net.ListenConfig
		ln, err := lc.Listen(gctx, "tcp", cfg.Server.GRPCAddr)
		if err != nil {
			return err
		}
		logger.Info("grpc listening", "addr", cfg.Server.GRPCAddr)
		return grpcSrv.Serve(ln)
	})

	g.Go(func() error {
		limiter.RunSweeper(gctx, time.Minute)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", "err", err)
		}
		grpcSrv.GracefulStop()
		if ingester != nil {
			ingester.Wait()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
	logger.Info("servers stopped")
}
