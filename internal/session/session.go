// Package session wraps the Fiber session middleware into the per-client bag
// the auth flow needs: at most one pending registration and at most one
// authenticated identity, keyed by the opaque session cookie and dropped on
// session expiry.
package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/avelichka/skycast/internal/auth"
)

const (
	keyUserID          = "user_id"
	keyPendingUsername = "pending_username"
	keyPendingEmail    = "pending_email"
	keyPendingHash     = "pending_password_hash"
	keyPendingCode     = "pending_code"
	keyPendingAt       = "pending_created_at"
)

// Manager provides typed access to the session bag.
type Manager struct {
	store *session.Store
}

// NewManager creates a Manager with cookie-based sessions expiring after ttl.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		store: session.New(session.Config{
			Expiration:     ttl,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
		}),
	}
}

// SetPending overwrites the session's pending registration. Resubmitting
// signup replaces any earlier pending record wholesale.
func (m *Manager) SetPending(c *fiber.Ctx, p auth.PendingRegistration) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(keyPendingUsername, p.Username)
	sess.Set(keyPendingEmail, p.Email)
	sess.Set(keyPendingHash, p.PasswordHash)
	sess.Set(keyPendingCode, p.Code)
	sess.Set(keyPendingAt, p.CreatedAt.UTC().Format(time.RFC3339Nano))
	return sess.Save()
}

// Pending returns the session's pending registration, if any.
func (m *Manager) Pending(c *fiber.Ctx) (auth.PendingRegistration, bool, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return auth.PendingRegistration{}, false, err
	}

	username, ok := sess.Get(keyPendingUsername).(string)
	if !ok || username == "" {
		return auth.PendingRegistration{}, false, nil
	}

	p := auth.PendingRegistration{Username: username}
	p.Email, _ = sess.Get(keyPendingEmail).(string)
	p.PasswordHash, _ = sess.Get(keyPendingHash).(string)
	p.Code, _ = sess.Get(keyPendingCode).(string)
	if raw, ok := sess.Get(keyPendingAt).(string); ok {
		p.CreatedAt, _ = time.Parse(time.RFC3339Nano, raw)
	}
	return p, true, nil
}

// ClearPending discards the pending registration, keeping the rest of the
// session intact.
func (m *Manager) ClearPending(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	for _, key := range []string{keyPendingUsername, keyPendingEmail, keyPendingHash, keyPendingCode, keyPendingAt} {
		sess.Delete(key)
	}
	return sess.Save()
}

// LoginAs binds the session to a credential id. The session is reset first,
// which also discards any pending registration and rotates the session id.
func (m *Manager) LoginAs(c *fiber.Ctx, credentialID string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Destroy(); err != nil {
		return err
	}
	sess, err = m.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(keyUserID, credentialID)
	return sess.Save()
}

// CurrentUserID returns the authenticated credential id, if present.
func (m *Manager) CurrentUserID(c *fiber.Ctx) (string, bool, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return "", false, err
	}
	id, ok := sess.Get(keyUserID).(string)
	if !ok || id == "" {
		return "", false, nil
	}
	return id, true, nil
}

// Logout destroys the whole session.
func (m *Manager) Logout(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}
