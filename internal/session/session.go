// Package session manages the admin login session.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// AdminKey is the session key holding the admin login flag.
const AdminKey = "instaview-admin-auth"

// New creates a session manager. Sessions are kept in the sqlite sessions
// table when db is non-nil and in process memory otherwise.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	if db != nil {
		sm.Store = sqlite3store.New(db)
	}

	sm.Lifetime = 24 * time.Hour
	sm.IdleTimeout = 2 * time.Hour
	sm.Cookie.Name = "instaview_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	return sm
}

// Login renews the session token and marks the session as admin.
func Login(ctx context.Context, sm *scs.SessionManager) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, AdminKey, "true")
	return nil
}

// Logout destroys the session.
func Logout(ctx context.Context, sm *scs.SessionManager) error {
	return sm.Destroy(ctx)
}

// IsAdmin reports whether the session carries the admin login flag.
func IsAdmin(ctx context.Context, sm *scs.SessionManager) bool {
	return sm.GetString(ctx, AdminKey) == "true"
}
