// Package main runs the MarginPilot workshop dashboard HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/marginpilot/backend/config"
	"github.com/marginpilot/backend/internal/auth"
	"github.com/marginpilot/backend/internal/company"
	"github.com/marginpilot/backend/internal/costs"
	"github.com/marginpilot/backend/internal/dashboard"
	"github.com/marginpilot/backend/internal/facilities"
	"github.com/marginpilot/backend/internal/invites"
	"github.com/marginpilot/backend/internal/middleware"
	"github.com/marginpilot/backend/internal/models"
	"github.com/marginpilot/backend/internal/realtime"
	"github.com/marginpilot/backend/internal/targets"
	"github.com/marginpilot/backend/internal/worker"
	"github.com/marginpilot/backend/pkg/database"
	"github.com/marginpilot/backend/pkg/queue"
	"github.com/marginpilot/backend/pkg/redis"
	"github.com/marginpilot/backend/pkg/response"
	"github.com/marginpilot/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			AssetsBucket:    cfg.AWS.AssetsBucket,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	// Auth and sessions
	sessions := auth.NewSessions(cfg.App.IsProduction())
	profileRepo := auth.NewRepository(pool)
	resolver := auth.NewResolver(profileRepo)
	limiter := auth.NewLoginLimiter(rdb.Client, logger)
	authHandler := auth.NewHandler(profileRepo, sessions, resolver, limiter, logger)

	// Company document (profile, branches, users, logo)
	companyHandler := company.NewHandler(profileRepo, s3Client, hub, logger)

	// Team invites
	jobQueue := queue.NewQueue(rdb.Client, logger)
	inviteHandler := invites.NewHandler(profileRepo, sessions, jobQueue, logger)
	inviteMailer := worker.NewInviteMailer(jobQueue, cfg.Email, logger)

	// Workshop data
	facilityRepo := facilities.NewRepository(pool)
	facilityHandler := facilities.NewHandler(facilityRepo, hub)
	targetRepo := targets.NewRepository(pool)
	targetHandler := targets.NewHandler(targetRepo, hub)
	costRepo := costs.NewRepository(pool)
	costHandler := costs.NewHandler(costRepo, targetRepo, hub)

	// Dashboard aggregation
	dashboardHandler := dashboard.NewHandler(profileRepo, targetRepo, costRepo, rdb.Client, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.POST("/accept-invite", inviteHandler.Accept)
	}

	// Public: invite token validation (signup page checks before showing the form)
	router.GET("/invites/:token/validate", inviteHandler.Validate)

	// Protected API (session cookie required)
	api := router.Group("")
	api.Use(middleware.Session(sessions, resolver))
	{
		api.GET("/auth/me", authHandler.Me)

		// Company profile and logo
		api.GET("/company", companyHandler.GetCompany)
		api.PUT("/company", middleware.Require(models.Role.CanWriteCompanyProfile), companyHandler.UpdateCompany)
		api.POST("/company/logo", middleware.Require(models.Role.CanWriteCompanyProfile), companyHandler.UploadLogo)

		// Branches (company settings)
		api.GET("/company/branches", companyHandler.ListBranches)
		api.POST("/company/branches", middleware.Require(models.Role.CanAccessBranchSettings), companyHandler.CreateBranch)
		api.PUT("/company/branches/:id", middleware.Require(models.Role.CanAccessBranchSettings), companyHandler.UpdateBranch)
		api.DELETE("/company/branches/:id", middleware.Require(models.Role.CanAccessBranchSettings), companyHandler.DeleteBranch)

		// Team (admin only)
		api.GET("/company/users", middleware.Require(models.Role.CanAccessCompanyUsers), companyHandler.ListUsers)
		api.POST("/company/users/invite", middleware.Require(models.Role.CanAccessCompanyUsers), inviteHandler.Invite)
		api.PUT("/company/users/:email", middleware.Require(models.Role.CanAccessCompanyUsers), companyHandler.UpdateUserRole)
		api.DELETE("/company/users/:email", middleware.Require(models.Role.CanAccessCompanyUsers), companyHandler.RemoveUser)

		// Facilities
		api.GET("/branches/:id/facilities", facilityHandler.ListByBranch)
		api.POST("/branches/:id/facilities", middleware.Require(models.Role.CanWriteWorkshop), facilityHandler.Create)
		api.PUT("/facilities/:id", middleware.Require(models.Role.CanWriteWorkshop), facilityHandler.Update)
		api.DELETE("/facilities/:id", middleware.Require(models.Role.CanWriteWorkshop), facilityHandler.Delete)

		// Targets and what-if simulation
		api.GET("/branches/:id/targets", targetHandler.GetSettings)
		api.PUT("/branches/:id/targets", middleware.Require(models.Role.CanWriteWorkshop), targetHandler.PutSettings)
		api.GET("/branches/:id/targets/calculated", targetHandler.GetCalculated)
		api.POST("/branches/:id/simulate", targetHandler.Simulate)

		// Cost items and break-even
		api.GET("/branches/:id/costs", costHandler.ListByBranch)
		api.POST("/branches/:id/costs", middleware.Require(models.Role.CanWriteWorkshop), costHandler.Create)
		api.PUT("/costs/:id", middleware.Require(models.Role.CanWriteWorkshop), costHandler.Update)
		api.DELETE("/costs/:id", middleware.Require(models.Role.CanWriteWorkshop), costHandler.Delete)
		api.GET("/branches/:id/costs/breakdown", costHandler.GetBreakdown)

		// Dashboard
		api.GET("/dashboard/summary", dashboardHandler.GetSummary)

		// WebSocket (session cookie authenticates the upgrade request)
		api.GET("/ws", realtime.ServeWs(hub, logger))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background worker (invite email delivery)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go inviteMailer.Run(workerCtx)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
