package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Audit
		UI
		Admin
		Tasks
		Demo
	}

	HTTP struct {
		Port           int32
		Host           string
		AllowedOrigins []string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		URL  string // Postgres DSN; when empty the sqlite file at Path is used
		Path string
	}

	Audit struct {
		Dir           string
		RetentionDays int // Days to keep archived uploads (default: 30)
	}

	UI struct {
		TemplatesPath string
		StaticPath    string
	}

	Admin struct {
		SessionSecret   string
		SessionLifetime time.Duration
		SecureCookies   bool // Set to false for local dev without HTTPS
	}

	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}

	Demo struct {
		Enabled bool // Block write operations for public demo deployments
	}
)

// splitOrigins parses a comma-separated origin list into its entries.
func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_url", "")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_dir", DefaultAuditDir)
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")
	v.SetDefault("allowed_origins", DefaultAllowedOrigins)

	// Admin surface defaults
	v.SetDefault("admin_session_secret", "") // Auto-generated if empty
	v.SetDefault("admin_session_lifetime", "24h")
	v.SetDefault("admin_secure_cookies", true) // HTTPS-only cookies

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Demo mode defaults
	v.SetDefault("demo_mode", false)

	return &Config{
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			AllowedOrigins: splitOrigins(v.GetString("ALLOWED_ORIGINS")),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			URL:  v.GetString("DATABASE_URL"),
			Path: v.GetString("DATABASE_PATH"),
		},
		Audit: Audit{
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Admin: Admin{
			SessionSecret:   v.GetString("ADMIN_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("ADMIN_SESSION_LIFETIME"),
			SecureCookies:   v.GetBool("ADMIN_SECURE_COOKIES"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Demo: Demo{
			Enabled: v.GetBool("DEMO_MODE"),
		},
	}
}
