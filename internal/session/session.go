// Package session holds the authentication state the rest of the system
// consults. The login protocol itself is an external collaborator; this
// package only keeps the opaque token and user profile it produced, and
// clears them when the remote service revokes the session.
package session

import (
	"go.uber.org/zap"

	"github.com/cairnapp/cairn/internal/storage"
	"github.com/cairnapp/cairn/pkg/types"
)

// Storage keys for session state. These sit directly under the
// application namespace, outside the cache and queue buckets, so a caller
// wiping those buckets can re-seed the session afterwards.
const (
	tokenKey = "token"
	userKey  = "user_info"
)

// Session is the authentication collaborator surface consumed by the API
// client and the offline queue.
type Session interface {
	// Token returns the bearer token, or "" when signed out.
	Token() string

	// EnsureLogin reports ErrUnauthorized when no session is present.
	// Completing a login is the owning collaborator's job.
	EnsureLogin() error

	// Logout discards all session state. Idempotent.
	Logout()
}

var _ Session = (*Store)(nil)

// Store is the storage-backed Session implementation.
type Store struct {
	kv  *storage.Store
	log *zap.Logger
}

// New creates a session store. A nil logger is replaced with a no-op
// logger.
func New(kv *storage.Store, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, log: log}
}

// Token returns the stored bearer token, or "" when signed out.
func (s *Store) Token() string {
	var token string
	s.kv.Get(tokenKey, &token)
	return token
}

// EnsureLogin reports ErrUnauthorized when no token is stored.
func (s *Store) EnsureLogin() error {
	if s.Token() == "" {
		return types.ErrUnauthorized
	}
	return nil
}

// SetAuth stores the token and profile produced by a completed login.
func (s *Store) SetAuth(token string, user types.UserInfo) bool {
	return s.kv.Set(tokenKey, token) && s.kv.Set(userKey, user)
}

// User returns the stored profile. ok is false when signed out.
func (s *Store) User() (types.UserInfo, bool) {
	var u types.UserInfo
	ok := s.kv.Get(userKey, &u)
	return u, ok
}

// Logout discards the token and profile.
func (s *Store) Logout() {
	s.kv.Remove(tokenKey)
	s.kv.Remove(userKey)
	s.log.Info("session cleared")
}
