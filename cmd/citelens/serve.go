package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/citelens/internal/api"
	"github.com/liliang-cn/citelens/internal/config"
	"github.com/liliang-cn/citelens/internal/provider"
	"github.com/liliang-cn/citelens/internal/repository"
	"github.com/liliang-cn/citelens/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCMD(cfgPath *string) *cobra.Command {
	var strict bool
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgPath, strict, config.AllComponents...)
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			return a.serve()
		},
	}
	serve.Flags().BoolVar(&strict, "strict", false, "refuse to start when API keys are missing")

	return serve
}

func (a *app) serve() error {
	cfg, logger := a.cfg, a.logger
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	sessionRepo := repository.NewSessionRepository(db)

	// Initialize gateways
	screenshots, err := provider.NewScreenshotter(cfg.Screenshot, logger)
	if err != nil {
		return err
	}
	answerer := provider.NewAnswerFromConfig(cfg.Answer)

	// Initialize services
	locateService := a.locateService()
	chatService := service.NewChatService(
		cfg,
		sessionRepo,
		answerer,
		screenshots,
		locateService,
		a.metrics,
		logger,
	)
	sessionService := service.NewSessionService(sessionRepo)

	// Setup router
	router := api.SetupRouter(chatService, locateService, sessionService, api.RouterConfig{
		APIKey:       cfg.Admin.APIKey,
		AllowOrigins: cfg.Server.AllowOrigins,
		Metrics:      a.metrics,
		Logger:       logger,
	})

	// A chat turn waits on three upstream calls, so the write timeout covers
	// the slowest of them end to end.
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Answer.Timeout + cfg.Screenshot.Timeout + cfg.Vision.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting CiteLens server",
			zap.String("address", cfg.Address()),
			zap.String("base_url", cfg.Server.BaseURL),
			zap.String("screenshot_provider", cfg.Screenshot.Provider),
			zap.String("vision_model", cfg.Vision.Model),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		logger.Error("Failed to start server", zap.Error(err))
		return err
	case <-quit:
	}

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server exited")
	return nil
}
