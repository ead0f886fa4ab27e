package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"katydid-common-auth/pkg/authapi"
	"katydid-common-auth/pkg/authsvc"
	"katydid-common-auth/pkg/config"
	"katydid-common-auth/pkg/idgen"
	"katydid-common-auth/pkg/logger"
	"katydid-common-auth/pkg/products"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（可选）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		zap.NewExample().Fatal("init logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := authsvc.Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := authsvc.AutoMigrate(db); err != nil {
		return err
	}
	if err := products.AutoMigrate(db); err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = rdb.Close() }()

	ids, err := idgen.New(0, 0)
	if err != nil {
		return err
	}
	sessions, err := authsvc.NewSessionManager(cfg.JWT, ids, authsvc.NewRedisTokenStore(rdb))
	if err != nil {
		return err
	}
	svc, err := authsvc.NewService(authsvc.NewStore(db), sessions, ids, log)
	if err != nil {
		return err
	}
	catalog, err := products.NewService(products.NewStore(db), ids, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: authapi.NewRouter(svc, catalog, log, cfg.Server.Mode),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
