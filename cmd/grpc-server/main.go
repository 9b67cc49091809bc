package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"fontpair/internal/fonts"
	"fontpair/internal/grpcserver"
	"fontpair/internal/logging"
	"fontpair/internal/pairing"
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
	logger := logging.New(cfg.Log, os.Stderr).WithPrefix("grpc")

	db, err := database.OpenAndMigrate(database.FromConfig(cfg.DB))
	if err != nil {
		logger.Fatal("open database", "path", cfg.DB.Path, "err", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Fatal("grpc listen failed", "addr", cfg.Server.GRPCAddr, "err", err)
	}

	svc := grpcserver.NewServer(fonts.NewRepo(db), pairing.NewDefaultSelector())
	grpcServer := grpc.NewServer()
	grpcserver.RegisterCatalogServer(grpcServer, svc)

	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()

	logger.Info("gRPC server listening", "addr", cfg.Server.GRPCAddr)
	if err := grpcServer.Serve(listener); err != nil {
		logger.Fatal("grpc server stopped", "err", err)
	}
}
