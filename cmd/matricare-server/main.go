package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/matricare/api/internal/config"
	"github.com/matricare/api/internal/domain/child"
	"github.com/matricare/api/internal/domain/consultation"
	"github.com/matricare/api/internal/domain/doctor"
	"github.com/matricare/api/internal/domain/identity"
	"github.com/matricare/api/internal/domain/messaging"
	"github.com/matricare/api/internal/domain/mood"
	"github.com/matricare/api/internal/domain/mother"
	"github.com/matricare/api/internal/domain/report"
	"github.com/matricare/api/internal/platform/ai"
	"github.com/matricare/api/internal/platform/auth"
	"github.com/matricare/api/internal/platform/db"
	"github.com/matricare/api/internal/platform/middleware"
)

// doctorRegistryAdapter adapts doctor.Service to consultation.DoctorRegistry,
// dropping the updated profile from Rate which the consultation flow does not
// need.
type doctorRegistryAdapter struct {
	svc *doctor.Service
}

func (a *doctorRegistryAdapter) IsActive(ctx context.Context, doctorUserID uuid.UUID) (bool, error) {
	return a.svc.IsActive(ctx, doctorUserID)
}

func (a *doctorRegistryAdapter) AddPatient(ctx context.Context, doctorUserID, patientUserID uuid.UUID) error {
	return a.svc.AddPatient(ctx, doctorUserID, patientUserID)
}

func (a *doctorRegistryAdapter) RateDoctor(ctx context.Context, doctorUserID uuid.UUID, rating int) error {
	_, err := a.svc.Rate(ctx, doctorUserID, rating)
	return err
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "matricare-server",
		Short: "Maternal and child health API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Token issuer
	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create token issuer")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.BodyLimit("1M"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// API groups. The public group carries register/login; everything else
	// requires a valid token.
	public := e.Group("/api/v1")
	api := e.Group("/api/v1", auth.Middleware(tokens))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	public.Use(middleware.RateLimit(rateLimitCfg))
	api.Use(middleware.RateLimit(rateLimitCfg))

	txRunner := db.NewTxManager(pool)

	// -- Register domain handlers --

	// Identity
	userRepo := identity.NewUserRepoPG(pool)
	identitySvc := identity.NewService(userRepo, tokens)
	identity.NewHandler(identitySvc).RegisterRoutes(public, api)

	// Mother profiles
	motherRepo := mother.NewProfileRepoPG(pool)
	motherSvc := mother.NewService(motherRepo)
	mother.NewHandler(motherSvc).RegisterRoutes(api)

	// Mood tracking
	moodRepo := mood.NewLogRepoPG(pool)
	moodSvc := mood.NewService(moodRepo)
	mood.NewHandler(moodSvc).RegisterRoutes(api)

	// Children and screening games
	childRepo := child.NewChildRepoPG(pool)
	childSvc := child.NewService(childRepo, motherSvc, txRunner)
	child.NewHandler(childSvc).RegisterRoutes(api)

	// Doctors and patient roster
	doctorRepo := doctor.NewProfileRepoPG(pool)
	rosterRepo := doctor.NewRosterRepoPG(pool)
	doctorSvc := doctor.NewService(doctorRepo, rosterRepo)
	doctor.NewHandler(doctorSvc).RegisterRoutes(api)

	// Consultations
	consultationRepo := consultation.NewConsultationRepoPG(pool)
	consultationSvc := consultation.NewService(consultationRepo, &doctorRegistryAdapter{svc: doctorSvc}, txRunner)
	consultation.NewHandler(consultationSvc).RegisterRoutes(api)

	// Doctor-mother messaging
	messageRepo := messaging.NewMessageRepoPG(pool)
	messagingSvc := messaging.NewService(messageRepo)
	messaging.NewHandler(messagingSvc).RegisterRoutes(api)

	// AI reports and chat
	generator := ai.NewClient(ai.Options{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		Timeout: time.Duration(cfg.AITimeoutSeconds) * time.Second,
		Retries: 2,
	})
	chatRepo := report.NewChatRepoPG(pool)
	reportSvc := report.NewService(generator, chatRepo, motherSvc, moodSvc, childSvc, consultationSvc)
	report.NewHandler(reportSvc).RegisterRoutes(api)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	return nil
}
