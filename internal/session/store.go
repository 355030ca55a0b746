package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/credential"
	"github.com/nhle/taskflow/internal/logging"
)

// tokenKey is the credential store entry holding the bearer token.
const tokenKey = "api-token"

// AuthAPI is the slice of the API client the session store needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.Credentials, error)
	Signup(ctx context.Context, email, password string) (*api.Credentials, error)
}

// Store owns the current session. All methods are safe for use from
// concurrent Bubble Tea commands.
type Store struct {
	mu        sync.Mutex
	auth      AuthAPI
	creds     credential.Store
	statePath string
	current   Session
}

// NewStore creates a session store persisting to statePath, restoring
// any previous session. A corrupt record or missing token degrades to
// logged out rather than failing.
func NewStore(auth AuthAPI, creds credential.Store, statePath string) *Store {
	s := &Store{
		auth:      auth,
		creds:     creds,
		statePath: statePath,
	}
	s.current = s.restore()
	return s
}

// restore loads the persisted record and pairs it with the token from
// the credential store.
func (s *Store) restore() Session {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		return Session{}
	}

	sess, err := deserialize(data)
	if err != nil {
		logger := logging.Get()
		logger.Warn().Err(err).Msg("discarding corrupt session state")
		return Session{}
	}
	if !sess.Authenticated || sess.User == nil {
		return Session{}
	}

	token, err := s.creds.Get(tokenKey)
	if err != nil || token == "" {
		logger := logging.Get()
		logger.Warn().Err(err).Msg("session state present but token missing")
		return Session{}
	}

	sess.Token = token
	return sess
}

// Login authenticates against the remote service. On success the
// session is replaced and persisted; on any failure the previous
// session state is left untouched and the error is returned.
func (s *Store) Login(ctx context.Context, email, password string) error {
	creds, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.establish(creds)
	return nil
}

// Signup creates an account and starts a session with the same
// contract as Login. An already-registered email is detectable on the
// returned error via api.IsConflict.
func (s *Store) Signup(ctx context.Context, email, password string) error {
	creds, err := s.auth.Signup(ctx, email, password)
	if err != nil {
		return err
	}
	s.establish(creds)
	return nil
}

// establish replaces the current session and persists it. Persistence
// failures are logged but do not undo the in-memory session.
func (s *Store) establish(creds *api.Credentials) {
	user := creds.User

	s.mu.Lock()
	s.current = Session{
		User:          &user,
		Token:         creds.Token,
		Authenticated: true,
	}
	sess := s.current
	s.mu.Unlock()

	if err := s.persist(sess); err != nil {
		logger := logging.Get()
		logger.Warn().Err(err).Msg("persisting session")
	}
}

// Logout clears the session and its persisted record. It never
// contacts the remote service.
func (s *Store) Logout() {
	s.mu.Lock()
	s.current = Session{}
	s.mu.Unlock()

	if err := os.Remove(s.statePath); err != nil && !os.IsNotExist(err) {
		logger := logging.Get()
		logger.Warn().Err(err).Msg("removing session state")
	}
	if err := s.creds.Delete(tokenKey); err != nil {
		logger := logging.Get()
		logger.Warn().Err(err).Msg("removing stored token")
	}
}

// Snapshot returns a copy of the current session for use outside the
// UI, e.g. by the API client.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Token returns the current bearer token, implementing
// api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Token
}

// persist writes the state file and the token entry.
func (s *Store) persist(sess Session) error {
	data, err := serialize(sess)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.statePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory %s: %w", dir, err)
	}
	if err := os.WriteFile(s.statePath, data, 0o600); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}

	if err := s.creds.Set(tokenKey, sess.Token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	return nil
}
