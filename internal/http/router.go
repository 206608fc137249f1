package http

import (
	"html/template"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/comforterslodge/lodge/internal/admin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(admin.SecurityHeadersMiddleware())

	// Demo deployments serve generated content read-only
	if cfg.DemoMiddleware != nil && cfg.DemoMiddleware.IsEnabled() {
		router.Use(cfg.DemoMiddleware.Handler())
	}

	// CORS for the site frontend; credentials stay on so the dev origins
	// can call the API with cookies.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	// Template helpers for the admin pages
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
	}

	// Load HTML templates with custom functions
	tmpl := template.Must(template.New("").Funcs(funcMap).ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	// Serve static files
	router.Static("/static", cfg.StaticPath)

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	lessonsController := NewLessonsController(cfg.LessonStore, cfg.ImportService)
	devotionalsController := NewDevotionalsController(cfg.DevotionalStore, cfg.ImportService)
	hymnsController := NewHymnsController(cfg.HymnStore, cfg.ImportService)
	adminController := NewAdminController(
		cfg.LessonAdmin,
		cfg.DevotionalAdmin,
		cfg.HymnAdmin,
		cfg.ImportLog,
		cfg.ImportService,
		cfg.SessionManager,
	)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// JSON API
	api := router.Group("/api")
	{
		api.GET("/lessons", lessonsController.List)
		api.GET("/lessons/daily", lessonsController.Daily)
		api.GET("/lessons/weekly", lessonsController.Weekly)
		api.GET("/lessons/:id", lessonsController.Get)
		api.POST("/lessons", lessonsController.Create)
		api.PATCH("/lessons/:id", lessonsController.Update)
		api.DELETE("/lessons/:id", lessonsController.Delete)

		api.GET("/devotionals", devotionalsController.List)
		api.GET("/devotionals/daily", devotionalsController.Daily)
		api.GET("/devotionals/:id", devotionalsController.Get)
		api.POST("/devotionals", devotionalsController.Create)
		api.PATCH("/devotionals/:id", devotionalsController.Update)
		api.DELETE("/devotionals/:id", devotionalsController.Delete)

		api.GET("/hymns", hymnsController.List)
		api.GET("/hymns/grouped", hymnsController.Grouped)
		api.GET("/hymns/:id", hymnsController.Get)
		api.POST("/hymns", hymnsController.Create)
		api.PATCH("/hymns/:id", hymnsController.Update)
		api.DELETE("/hymns/:id", hymnsController.Delete)
	}

	// Task queue management, registered only when the queue is running
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.AuditRetentionDays)
		router.GET("/api/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	// Demo mode status endpoint (always available)
	demoController := NewDemoController(cfg.DemoMiddleware)
	router.GET("/api/demo/status", demoController.GetStatus)

	// Admin surface. CSRF must run before session load so the session
	// context is layered on top of CSRF's request replacement.
	adminGroup := router.Group("/admin")
	adminGroup.Use(admin.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	adminGroup.Use(cfg.SessionManager.SessionLoadSave())
	{
		adminGroup.GET("", adminController.Dashboard)
		adminGroup.GET("/lessons", adminController.LessonList)
		adminGroup.GET("/lessons/:id", adminController.LessonDetail)
		adminGroup.GET("/devotionals", adminController.DevotionalList)
		adminGroup.GET("/devotionals/:id", adminController.DevotionalDetail)
		adminGroup.GET("/hymns", adminController.HymnList)
		adminGroup.GET("/hymns/:id", adminController.HymnDetail)
		adminGroup.GET("/imports", adminController.ImportLog)
		adminGroup.GET("/import", adminController.ImportForm)
		adminGroup.POST("/import", adminController.SubmitImport)
	}

	return router
}
