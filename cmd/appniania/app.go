package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joel172001/appniania/internal/db"
	"github.com/joel172001/appniania/internal/handlers"
	"github.com/joel172001/appniania/internal/logger"
	"github.com/joel172001/appniania/internal/repository/postgres"
	"github.com/joel172001/appniania/internal/scheduler"
	"github.com/joel172001/appniania/internal/service/admin"
	"github.com/joel172001/appniania/internal/service/auth"
	"github.com/joel172001/appniania/internal/service/auth/tokenmanager"
	"github.com/joel172001/appniania/internal/service/earnings"
	"github.com/joel172001/appniania/internal/service/invest"
	"github.com/joel172001/appniania/internal/service/payment"
	"github.com/joel172001/appniania/internal/service/phone"
	"github.com/joel172001/appniania/internal/service/task"
	"github.com/joel172001/appniania/internal/service/user"
	"github.com/joel172001/appniania/internal/service/verification"
	"github.com/joel172001/appniania/internal/storage"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger    logger.Logger
	scheduler *scheduler.Scheduler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	store := postgres.NewStorage(pool)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey}, store.Refresh())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	authService, err := auth.NewService(auth.Config{}, tokenManager, store)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	documents, err := storage.NewS3Store(ctx, storage.S3Config{
		Region:    c.S3Region,
		Bucket:    c.S3Bucket,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Endpoint:  c.S3Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating document store. Err: %w", err)
	}

	earningsService := earnings.NewService(store, log)

	mux := handlers.NewRouter(handlers.RouterConfig{
		Auth:         authService,
		User:         user.NewService(store),
		Invest:       invest.NewService(store),
		Payment:      payment.NewService(store),
		Task:         task.NewService(store),
		Phone:        phone.NewService(store),
		Verification: verification.NewService(store, documents),
		Admin:        admin.NewService(store),
		Earnings:     earningsService,
		JobToken:     c.JobToken,
		Logger:       log,
	})

	app := &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		logger:     log,
	}

	if c.RunScheduler {
		app.scheduler = scheduler.New(earningsService, log)
	}

	return app, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	if s.scheduler != nil {
		if err := s.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("error while starting scheduler. Err: %w", err)
		}
		defer s.scheduler.Stop()
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
