package admin

import (
	"context"
	"database/sql"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/comforterslodge/lodge/internal/config"
)

func setupSessionManager(t *testing.T) (*SessionManager, *sql.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get SQL DB: %v", err)
	}

	cfg := config.Admin{
		SessionLifetime: time.Hour,
		SecureCookies:   false,
	}
	sm, err := NewSessionManager(sqlDB, cfg)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm, sqlDB
}

func TestNewSessionManager_CookieConfig(t *testing.T) {
	sm, _ := setupSessionManager(t)

	if sm.Cookie.Name != "session" {
		t.Errorf("Expected cookie name 'session', got '%s'", sm.Cookie.Name)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("Cookie should be HttpOnly")
	}
	if sm.Cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("Expected SameSiteStrictMode, got %v", sm.Cookie.SameSite)
	}
	if sm.Lifetime != time.Hour {
		t.Errorf("Expected configured lifetime, got %v", sm.Lifetime)
	}
}

func TestNewSessionManager_CreatesSessionsTable(t *testing.T) {
	_, sqlDB := setupSessionManager(t)

	var name string
	err := sqlDB.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='sessions'").Scan(&name)
	if err != nil {
		t.Fatalf("sessions table missing: %v", err)
	}
}

func TestNewSessionManager_MemoryFallback(t *testing.T) {
	sm, err := NewSessionManager(nil, config.Admin{SessionLifetime: time.Hour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sm == nil || sm.SessionManager == nil {
		t.Fatal("session manager should not be nil")
	}
}

func TestSessionManager_FlashRoundTrip(t *testing.T) {
	sm, _ := setupSessionManager(t)

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)

	sm.PutFlash(req, "Imported 3 HYMN rows")
	sm.PutFlashError(req, "something went wrong")

	if got := sm.PopFlash(req); got != "Imported 3 HYMN rows" {
		t.Errorf("Expected flash message, got '%s'", got)
	}
	if got := sm.PopFlash(req); got != "" {
		t.Errorf("Flash should be one-shot, got '%s'", got)
	}
	if got := sm.PopFlashError(req); got != "something went wrong" {
		t.Errorf("Expected error flash, got '%s'", got)
	}
	if got := sm.PopFlashError(req); got != "" {
		t.Errorf("Error flash should be one-shot, got '%s'", got)
	}
}

func TestSessionLoadSave_PersistsFlashAcrossRequests(t *testing.T) {
	sm, _ := setupSessionManager(t)

	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.GET("/put", func(c *gin.Context) {
		sm.PutFlash(c.Request, "saved")
		c.Status(http.StatusOK)
	})
	router.GET("/pop", func(c *gin.Context) {
		c.String(http.StatusOK, sm.PopFlash(c.Request))
	})

	putRR := httptest.NewRecorder()
	router.ServeHTTP(putRR, httptest.NewRequest(http.MethodGet, "/put", nil))

	cookies := putRR.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie on the response")
	}

	popReq := httptest.NewRequest(http.MethodGet, "/pop", nil)
	for _, cookie := range cookies {
		popReq.AddCookie(cookie)
	}
	popRR := httptest.NewRecorder()
	router.ServeHTTP(popRR, popReq)

	if popRR.Body.String() != "saved" {
		t.Errorf("Expected flash to survive the redirect hop, got '%s'", popRR.Body.String())
	}
}

func TestGenerateSessionSecret(t *testing.T) {
	first, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := hex.DecodeString(first)
	if err != nil {
		t.Fatalf("secret is not hex: %v", err)
	}
	if len(decoded) != 32 {
		t.Errorf("Expected 32 random bytes, got %d", len(decoded))
	}

	second, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Error("Consecutive secrets should differ")
	}
}
