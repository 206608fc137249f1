// Package admin carries the browser-facing infrastructure for the
// administrative surface: session-backed flash messages, CSRF protection for
// the upload form and the security-header middleware.
package admin

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/comforterslodge/lodge/internal/config"
)

// Session data keys.
const (
	sessionKeyFlash      = "flash"
	sessionKeyFlashError = "flash_error"
)

// SessionManager wraps scs.SessionManager with the flash-message helpers the
// admin surface needs. Sessions carry nothing but transient flash data.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager. On the sqlite
// backend sessions persist in a sessions table created here; pass a nil
// sqlDB (the postgres deployment) to fall back to the in-memory store,
// which is fine for flash data.
func NewSessionManager(sqlDB *sql.DB, cfg config.Admin) (*SessionManager, error) {
	sm := scs.New()

	if sqlDB != nil {
		_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
		if err != nil {
			return nil, err
		}
		sm.Store = sqlite3store.New(sqlDB)
	}

	sm.Lifetime = cfg.SessionLifetime

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// PutFlash stores a one-shot success message for the next page render.
func (sm *SessionManager) PutFlash(r *http.Request, message string) {
	sm.Put(r.Context(), sessionKeyFlash, message)
}

// PutFlashError stores a one-shot error message for the next page render.
func (sm *SessionManager) PutFlashError(r *http.Request, message string) {
	sm.Put(r.Context(), sessionKeyFlashError, message)
}

// PopFlash retrieves and clears the success flash message, "" when none.
func (sm *SessionManager) PopFlash(r *http.Request) string {
	return sm.PopString(r.Context(), sessionKeyFlash)
}

// PopFlashError retrieves and clears the error flash message, "" when none.
func (sm *SessionManager) PopFlashError(r *http.Request) string {
	return sm.PopString(r.Context(), sessionKeyFlashError)
}

// GenerateSessionSecret creates a random 32-byte secret for CSRF signing.
func GenerateSessionSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
