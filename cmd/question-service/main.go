package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/question-service/internal/auth"
	"github.com/SAP-F-2025/question-service/internal/cache"
	"github.com/SAP-F-2025/question-service/internal/config"
	"github.com/SAP-F-2025/question-service/internal/events"
	"github.com/SAP-F-2025/question-service/internal/handlers"
	"github.com/SAP-F-2025/question-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/question-service/internal/services"
	"github.com/SAP-F-2025/question-service/internal/utils"
	"github.com/SAP-F-2025/question-service/internal/validator"
	"github.com/SAP-F-2025/question-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "question-service",
		Short:        "Question bank service with normalized answer configs",
		SilenceUsage: true,
	}

	serve := serveCmd()
	root.AddCommand(serve, migrateLegacyCmd(), normalizeCmd())
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().Bool("auto-migrate", true, "Create or update the questions table on startup")
	return cmd
}

func migrateLegacyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate-legacy",
		Short: "Store normalized answer configs for questions that only have legacy answer columns",
		RunE:  runMigrateLegacy,
	}
	f := cmd.Flags()
	f.Int("batch-size", 200, "Questions loaded per page")
	f.Bool("dry-run", false, "Report what would change without writing")
	return cmd
}

// app holds the dependencies shared by the serve and migrate-legacy commands.
type app struct {
	cfg       *config.Config
	slog      *slog.Logger
	logger    utils.Logger
	db        *gorm.DB
	cache     cache.CacheService
	publisher events.EventPublisher
	closers   []func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	slogger := utils.NewSlog(cfg.Environment, os.Stdout)
	a := &app{
		cfg:    cfg,
		slog:   slogger,
		logger: utils.NewSlogLogger(slogger),
	}

	a.db, err = pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB, err := a.db.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}

	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		slogger.Warn("Redis unavailable, caching disabled", "error", err)
		a.cache = cache.NewNoopCache()
	} else {
		a.cache = cache.NewRedisCache(redisClient, slogger)
		a.closers = append(a.closers, redisClient.Close)
	}

	a.publisher, err = cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		slogger.Error("Failed to create event publisher, falling back to mock", "error", err)
		a.publisher = events.NewMockEventPublisher(slogger)
	}
	a.closers = append(a.closers, a.publisher.Close)

	return a, nil
}

func (a *app) questionService() services.QuestionService {
	repo := postgres.NewQuestionPostgreSQL(a.db)
	return services.NewQuestionService(repo, a.cache, a.publisher, validator.New(), a.slog, a.cfg.CacheTTL)
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.slog.Warn("Failed to release resource", "error", err)
		}
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if autoMigrate, _ := cmd.Flags().GetBool("auto-migrate"); autoMigrate {
		if err := pkg.AutoMigrate(a.db); err != nil {
			return err
		}
	}

	authMiddleware, err := newAuthMiddleware(a.cfg.Auth, a.logger)
	if err != nil {
		return err
	}

	repo := postgres.NewQuestionPostgreSQL(a.db)
	v := validator.New()
	questionService := services.NewQuestionService(repo, a.cache, a.publisher, v, a.slog, a.cfg.CacheTTL)
	importExportService := services.NewImportExportService(repo, a.publisher, v, a.slog)

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.ContextLogger(a.logger), utils.LoggerMiddleware(a.logger))
	handlers.NewHandlerManager(questionService, importExportService, a.logger).SetupRoutes(router, authMiddleware)

	server := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", "addr", server.Addr, "environment", a.cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newAuthMiddleware(cfg config.AuthConfig, logger utils.Logger) (gin.HandlerFunc, error) {
	if !cfg.Enabled {
		logger.Warn("Authentication disabled, trusting X-User-ID header")
		return auth.DevMiddleware(), nil
	}
	parser, err := auth.NewCasdoorTokenParser(cfg)
	if err != nil {
		return nil, err
	}
	return auth.Middleware(parser, logger), nil
}

func runMigrateLegacy(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	batchSize, _ := cmd.Flags().GetInt("batch-size")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	report, err := a.questionService().MigrateLegacy(ctx, services.MigrateLegacyOptions{
		BatchSize: batchSize,
		DryRun:    dryRun,
	})
	if report != nil {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			return encErr
		}
	}
	return err
}
