// Package session keeps the browser identity and one-shot flash messages in
// a signed cookie (gorilla/sessions).
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/employeemgmt/empcursodemo/internal/core/domain"
	"github.com/employeemgmt/empcursodemo/internal/core/ports"
	"github.com/employeemgmt/empcursodemo/internal/infrastructure/memory"
)

const (
	cookieName = "empsession"
	maxAge     = 8 * 60 * 60

	keySessionID = "sid"
	keyUserID   = "user_id"
	keyUsername = "username"
	keyRole     = "role"

	FlashSuccess = "success"
	FlashError   = "error"
)

// Manager reads and writes the session cookie. Each login gets a random
// session id; logging out puts that id on the revoker's denylist so a copy
// of the cookie stops authenticating.
type Manager struct {
	store   sessions.Store
	revoker ports.TokenRevoker
	now     func() time.Time
}

// NewManager builds a cookie store signed with secret. secure restricts the
// cookie to HTTPS. A nil revoker falls back to an in-process denylist.
func NewManager(secret string, secure bool, revoker ports.TokenRevoker) *Manager {
	if revoker == nil {
		revoker = memory.NewTokenRevoker()
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, revoker: revoker, now: time.Now}
}

// Identity returns the identity stored in the request's session, or nil when
// the cookie is absent, tampered with, logged out or anonymous. A failed
// revocation lookup counts as logged out.
func (m *Manager) Identity(r *http.Request) *domain.Identity {
	s, err := m.store.Get(r, cookieName)
	if err != nil {
		return nil
	}

	sid := stringValue(s.Values[keySessionID])
	if sid == "" {
		return nil
	}
	if revoked, err := m.revoker.IsRevoked(r.Context(), revocationKey(sid)); err != nil || revoked {
		return nil
	}

	id, ok := s.Values[keyUserID].(int64)
	if !ok || id == 0 {
		return nil
	}
	username, _ := s.Values[keyUsername].(string)
	role := domain.Role(stringValue(s.Values[keyRole]))
	if !role.Valid() {
		return nil
	}
	return &domain.Identity{UserID: id, Username: username, Role: role}
}

// Login binds identity to the session.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, identity *domain.Identity) error {
	s, _ := m.store.Get(r, cookieName)
	s.Values[keySessionID] = uuid.NewString()
	s.Values[keyUserID] = identity.UserID
	s.Values[keyUsername] = identity.Username
	s.Values[keyRole] = string(identity.Role)
	return s.Save(r, w)
}

// Logout revokes the session id and drops the identity, keeping the cookie
// so a flash can follow.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, cookieName)
	if sid := stringValue(s.Values[keySessionID]); sid != "" {
		until := m.now().Add(maxAge * time.Second)
		if err := m.revoker.Revoke(r.Context(), revocationKey(sid), until); err != nil {
			return err
		}
	}
	delete(s.Values, keySessionID)
	delete(s.Values, keyUserID)
	delete(s.Values, keyUsername)
	delete(s.Values, keyRole)
	return s.Save(r, w)
}

// AddFlash queues msg under kind for the next rendered page.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, kind, msg string) error {
	s, _ := m.store.Get(r, cookieName)
	s.AddFlash(msg, kind)
	return s.Save(r, w)
}

// Flashes pops every queued message, grouped by kind.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) map[string][]string {
	s, err := m.store.Get(r, cookieName)
	if err != nil {
		return nil
	}

	out := make(map[string][]string)
	for _, kind := range []string{FlashSuccess, FlashError} {
		for _, f := range s.Flashes(kind) {
			if msg, ok := f.(string); ok {
				out[kind] = append(out[kind], msg)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	_ = s.Save(r, w)
	return out
}

func revocationKey(sid string) string {
	return "session:" + sid
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
