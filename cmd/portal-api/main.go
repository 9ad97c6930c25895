package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/barangayhub/portal-api/api/swagger"
	"github.com/barangayhub/portal-api/internal/handler"
	"github.com/barangayhub/portal-api/internal/middleware"
	"github.com/barangayhub/portal-api/internal/repository"
	"github.com/barangayhub/portal-api/internal/service"
	"github.com/barangayhub/portal-api/pkg/cache"
	"github.com/barangayhub/portal-api/pkg/config"
	"github.com/barangayhub/portal-api/pkg/database"
	"github.com/barangayhub/portal-api/pkg/docgen"
	"github.com/barangayhub/portal-api/pkg/jobs"
	"github.com/barangayhub/portal-api/pkg/logger"
	corsmiddleware "github.com/barangayhub/portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/barangayhub/portal-api/pkg/middleware/requestid"
	"github.com/barangayhub/portal-api/pkg/storage"
)

// @title Barangay Hub Portal API
// @version 1.0.0
// @description Municipal e-government portal backend
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled")
		redisClient = nil
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	residentRepo := repository.NewResidentRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	ambulanceRepo := repository.NewAmbulanceRepository(db)
	courtRepo := repository.NewCourtRepository(db)
	reportRepo := repository.NewReportRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	homepageRepo := repository.NewHomepageRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Shared services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, redisClient != nil)

	activitySvc := service.NewActivityService(activityRepo, jobs.Options{
		Workers:    cfg.Activity.Workers,
		BufferSize: cfg.Activity.BufferSize,
		MaxRetries: cfg.Activity.MaxRetries,
		Logger:     logr,
	}, logr)
	activitySvc.Start(context.Background())

	authSvc := service.NewAuthService(service.AuthServiceParams{
		Users:     userRepo,
		Residents: residentRepo,
		Activity:  activitySvc,
		Logger:    logr,
		Config: service.AuthConfig{
			AccessTokenSecret:  cfg.JWT.Secret,
			AccessTokenExpiry:  cfg.JWT.Expiration,
			RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
			Issuer:             "barangay-hub",
		},
	})

	// Dashboard aggregation. The legacy feed source stands in while the SQL
	// collections are still being backfilled.
	var source service.DashboardSource
	if cfg.Dashboard.FeedBaseURL != "" {
		source = service.NewLegacyFeedSource(cfg.Dashboard.FeedBaseURL, cfg.Dashboard.FeedTimeout, logr)
	} else {
		source = service.NewRepositorySource(service.RepositorySourceParams{
			Ambulance: ambulanceRepo,
			Court:     courtRepo,
			Documents: documentRepo,
			Reports:   reportRepo,
			Proposals: proposalRepo,
			Residents: residentRepo,
			Logger:    logr,
		})
	}

	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Source:   source,
		Activity: activitySvc,
		Cache:    cacheSvc,
		Metrics:  metricsSvc,
		Logger:   logr,
		Config: service.DashboardServiceConfig{
			CacheTTL:       cfg.Dashboard.CacheTTL,
			RefreshTimeout: cfg.Dashboard.RefreshTimeout,
		},
	})

	var refresher *service.DashboardRefresher
	if cfg.Dashboard.Enabled {
		refresher = service.NewDashboardRefresher(dashboardSvc, cfg.Dashboard.RefreshInterval, cfg.Dashboard.RefreshTimeout, logr)
		refresher.Start(context.Background())
	}

	// Document generation.
	archive, err := storage.NewLocalStorage(cfg.Documents.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init document storage", "error", err)
	}
	uploadsStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init uploads storage", "error", err)
	}
	signer := storage.NewDownloadSigner(cfg.Documents.SignedURLSecret, cfg.Documents.SignedURLTTL)
	generator := docgen.NewGenerator(docgen.Letterhead{
		Municipality: cfg.Documents.Municipality,
		Barangay:     cfg.Documents.Barangay,
		Captain:      cfg.Documents.Captain,
		Secretary:    cfg.Documents.Secretary,
	})

	bookingParams := service.BookingServiceParams{
		Residents: residentRepo,
		Dashboard: dashboardSvc,
		Activity:  activitySvc,
		Metrics:   metricsSvc,
		Logger:    logr,
	}

	documentSvc := service.NewDocumentService(service.DocumentServiceParams{
		Repo:      documentRepo,
		Residents: residentRepo,
		Archive:   archive,
		Signer:    signer,
		Generator: generator,
		Dashboard: dashboardSvc,
		Activity:  activitySvc,
		Metrics:   metricsSvc,
		Logger:    logr,
	})
	ambulanceSvc := service.NewAmbulanceService(ambulanceRepo, bookingParams)
	courtSvc := service.NewCourtService(courtRepo, bookingParams)
	reportSvc := service.NewReportService(reportRepo, bookingParams)
	proposalSvc := service.NewProposalService(proposalRepo, bookingParams)
	residentSvc := service.NewResidentService(service.ResidentServiceParams{
		Repo:      residentRepo,
		Activity:  activitySvc,
		Dashboard: dashboardSvc,
		Logger:    logr,
	})
	announcementSvc := service.NewAnnouncementService(service.AnnouncementServiceParams{
		Repo:     announcementRepo,
		Activity: activitySvc,
		Logger:   logr,
	})
	homepageSvc := service.NewHomepageService(homepageRepo, activitySvc, logr)
	uploadSvc := service.NewUploadService(uploadsStore, cfg.Uploads.MaxFileSizeBytes, activitySvc, logr)
	exportSvc := service.NewExportService(service.ExportServiceParams{
		Documents: documentRepo,
		Ambulance: ambulanceRepo,
		Court:     courtRepo,
		Reports:   reportRepo,
		Proposals: proposalRepo,
	})

	router := buildRouter(cfg, logr, routerDeps{
		auth:         authSvc,
		metrics:      metricsSvc,
		dashboard:    handler.NewDashboardHandler(dashboardSvc),
		documents:    handler.NewDocumentHandler(documentSvc),
		ambulance:    handler.NewAmbulanceHandler(ambulanceSvc),
		court:        handler.NewCourtHandler(courtSvc),
		reports:      handler.NewReportHandler(reportSvc),
		proposals:    handler.NewProposalHandler(proposalSvc),
		residents:    handler.NewResidentHandler(residentSvc),
		announcement: handler.NewAnnouncementHandler(announcementSvc),
		homepage:     handler.NewHomepageHandler(homepageSvc),
		activity:     handler.NewActivityHandler(activitySvc),
		export:       handler.NewExportHandler(exportSvc),
		uploads:      handler.NewUploadHandler(uploadSvc),
		authHandler:  handler.NewAuthHandler(authSvc),
	})

	// Archived certificates only need to survive their download window.
	retentionDone := make(chan struct{})
	if cfg.Documents.RetentionTTL > 0 {
		go func() {
			ticker := time.NewTicker(24 * time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					removed, err := archive.CleanupOlderThan(cfg.Documents.RetentionTTL)
					if err != nil {
						logr.Sugar().Warnw("document retention sweep failed", "error", err)
						continue
					}
					if len(removed) > 0 {
						logr.Sugar().Infow("document retention sweep", "removed", len(removed))
					}
				case <-retentionDone:
					return
				}
			}
		}()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if refresher != nil {
		refresher.Stop()
	}
	close(retentionDone)
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("server shutdown failed", "error", err)
	}
	activitySvc.Stop()
	if err := cacheRepo.Close(); err != nil {
		logr.Sugar().Warnw("redis close failed", "error", err)
	}
}

type routerDeps struct {
	auth         *service.AuthService
	metrics      *service.MetricsService
	authHandler  *handler.AuthHandler
	dashboard    *handler.DashboardHandler
	documents    *handler.DocumentHandler
	ambulance    *handler.AmbulanceHandler
	court        *handler.CourtHandler
	reports      *handler.ReportHandler
	proposals    *handler.ProposalHandler
	residents    *handler.ResidentHandler
	announcement *handler.AnnouncementHandler
	homepage     *handler.HomepageHandler
	activity     *handler.ActivityHandler
	export       *handler.ExportHandler
	uploads      *handler.UploadHandler
}

func buildRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.ResponseMeta())
	r.Use(middleware.Metrics(deps.metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(deps.metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Announcement attachments are public once posted.
	r.Static("/uploads", cfg.Uploads.StorageDir)

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	if cfg.RateLimit.Enabled {
		auth.Use(middleware.LoginRateLimit(cfg.RateLimit.LoginWindow, cfg.RateLimit.LoginPerMin))
	}
	auth.POST("/signup", deps.authHandler.Register)
	auth.POST("/login", deps.authHandler.Login)
	auth.POST("/refresh", deps.authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(deps.auth), deps.authHandler.Logout)
	auth.POST("/checkifloggedin", middleware.OptionalJWT(deps.auth), deps.authHandler.CheckIfLoggedIn)

	// Public surface.
	api.GET("/homepage", deps.homepage.Get)
	api.GET("/announcements", deps.announcement.List)
	api.GET("/announcements/:id", deps.announcement.Get)
	api.GET("/documents/download", deps.documents.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(deps.auth))

	authed.GET("/profile", deps.authHandler.Profile)
	authed.PUT("/profile", deps.authHandler.UpdateProfile)
	authed.PUT("/profile/password", deps.authHandler.ChangePassword)

	authed.POST("/documents", deps.documents.Submit)
	authed.GET("/documents", deps.documents.List)
	authed.GET("/documents/:id", deps.documents.Get)

	authed.POST("/ambulance-bookings", deps.ambulance.Submit)
	authed.GET("/ambulance-bookings", deps.ambulance.List)
	authed.GET("/ambulance-bookings/:id", deps.ambulance.Get)

	authed.POST("/court-reservations", deps.court.Submit)
	authed.GET("/court-reservations", deps.court.List)
	authed.GET("/court-reservations/:id", deps.court.Get)

	authed.POST("/infrastructure-reports", deps.reports.Submit)
	authed.GET("/infrastructure-reports", deps.reports.List)
	authed.GET("/infrastructure-reports/:id", deps.reports.Get)

	authed.POST("/project-proposals", deps.proposals.Submit)
	authed.GET("/project-proposals", deps.proposals.List)
	authed.GET("/project-proposals/:id", deps.proposals.Get)

	// Admin review surface.
	admin := authed.Group("")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/dashboard", deps.dashboard.Overview)
	admin.GET("/logs", deps.activity.List)
	admin.GET("/export/:collection", deps.export.Export)

	admin.PATCH("/documents/:id/status", deps.documents.UpdateStatus)
	admin.POST("/documents/generate", deps.documents.Generate)
	admin.PATCH("/ambulance-bookings/:id/status", deps.ambulance.UpdateStatus)
	admin.PATCH("/court-reservations/:id/status", deps.court.UpdateStatus)
	admin.PATCH("/infrastructure-reports/:id/status", deps.reports.UpdateStatus)
	admin.PATCH("/project-proposals/:id/status", deps.proposals.UpdateStatus)

	admin.GET("/residents", deps.residents.List)
	admin.GET("/residents/:id", deps.residents.Get)
	admin.PATCH("/residents/:id/verification", deps.residents.SetVerification)

	admin.POST("/uploads", deps.uploads.Upload)
	admin.POST("/announcements", deps.announcement.Create)
	admin.PUT("/announcements/:id", deps.announcement.Update)
	admin.DELETE("/announcements/:id", deps.announcement.Delete)
	admin.PUT("/homepage", deps.homepage.Update)

	return r
}
