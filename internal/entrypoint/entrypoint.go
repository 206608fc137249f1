// Package entrypoint wires the application together: database, repositories,
// import pipeline, admin sessions and the HTTP server with graceful shutdown.
package entrypoint

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comforterslodge/lodge/internal/admin"
	"github.com/comforterslodge/lodge/internal/audit"
	"github.com/comforterslodge/lodge/internal/config"
	"github.com/comforterslodge/lodge/internal/database"
	"github.com/comforterslodge/lodge/internal/database/devotionals"
	"github.com/comforterslodge/lodge/internal/database/hymns"
	"github.com/comforterslodge/lodge/internal/database/imports"
	"github.com/comforterslodge/lodge/internal/database/lessons"
	"github.com/comforterslodge/lodge/internal/demo"
	http_controllers "github.com/comforterslodge/lodge/internal/http"
	"github.com/comforterslodge/lodge/internal/services"
	"github.com/comforterslodge/lodge/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	// Wait for interrupt signal to gracefully shutdown the server with
	// the configured timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Lodge v%s", version)

	// Demo deployments serve the generated content read-only
	var demoMiddleware *demo.Middleware
	if cfg.Demo.Enabled {
		log.Printf("Demo mode enabled - write operations will be blocked")
		demoMiddleware = demo.NewMiddleware(true)
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Archiver keeps raw copies of every TSV upload; drop expired archives
	// before serving.
	archiver := audit.NewArchiver(cfg.Audit.Dir)
	if removed, err := archiver.Prune(cfg.Audit.RetentionDays); err != nil {
		log.Printf("WARNING: Failed to prune upload archive: %v", err)
	} else if removed > 0 {
		log.Printf("Pruned %d archived uploads older than %d days", removed, cfg.Audit.RetentionDays)
	}

	// Initialize task queue if enabled; retention sweeps can then also be
	// triggered through the API instead of only at startup.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewArchivePruneQueue(archiver),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	lessonRepo := lessons.NewRepository(db.DB)
	devotionalRepo := devotionals.NewRepository(db.DB)
	hymnRepo := hymns.NewRepository(db.DB)
	importRepo := imports.NewRepository(db.DB)

	importService := services.NewImportService(lessonRepo, devotionalRepo, hymnRepo, importRepo, archiver)

	// Session store backs the admin flash messages: persisted in a sessions
	// table on sqlite, in-memory on postgres.
	var sqlDB *sql.DB
	if db.IsSQLite() {
		sqlDB, err = db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}
	}

	sessionManager, err := admin.NewSessionManager(sqlDB, cfg.Admin)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	// Generate or use configured CSRF secret
	var csrfSecret []byte
	if cfg.Admin.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Admin.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Admin.SessionSecret)
		}
	} else {
		secret, err := admin.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		log.Printf("Generated session secret (set ADMIN_SESSION_SECRET to persist)")
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:           db,
		ImportService:      importService,
		LessonStore:        lessonRepo,
		DevotionalStore:    devotionalRepo,
		HymnStore:          hymnRepo,
		LessonAdmin:        lessonRepo,
		DevotionalAdmin:    devotionalRepo,
		HymnAdmin:          hymnRepo,
		ImportLog:          importRepo,
		SessionManager:     sessionManager,
		CSRFSecret:         csrfSecret,
		SecureCookies:      cfg.Admin.SecureCookies,
		TemplatesPath:      cfg.UI.TemplatesPath,
		StaticPath:         cfg.UI.StaticPath,
		AllowedOrigins:     cfg.HTTP.AllowedOrigins,
		TaskClient:         taskClient,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		DemoMiddleware:     demoMiddleware,
		Version:            version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
