package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/model"
)

// fakeAuth returns canned credentials or a canned error.
type fakeAuth struct {
	creds *api.Credentials
	err   error
	calls int
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (*api.Credentials, error) {
	f.calls++
	return f.creds, f.err
}

func (f *fakeAuth) Signup(_ context.Context, _, _ string) (*api.Credentials, error) {
	f.calls++
	return f.creds, f.err
}

// memCreds is an in-memory credential.Store.
type memCreds struct {
	values map[string]string
}

func newMemCreds() *memCreds {
	return &memCreds{values: make(map[string]string)}
}

func (m *memCreds) Get(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (m *memCreds) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memCreds) Delete(key string) error {
	delete(m.values, key)
	return nil
}

func statePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func validCreds() *api.Credentials {
	return &api.Credentials{
		User:  model.User{ID: "u1", Email: "a@b.com"},
		Token: "tok-1",
	}
}

func TestStore_StartsLoggedOut(t *testing.T) {
	s := NewStore(&fakeAuth{}, newMemCreds(), statePath(t))

	sess := s.Snapshot()
	assert.False(t, sess.Authenticated)
	assert.Nil(t, sess.User)
	assert.Empty(t, s.Token())
}

func TestStore_LoginEstablishesSession(t *testing.T) {
	auth := &fakeAuth{creds: validCreds()}
	s := NewStore(auth, newMemCreds(), statePath(t))

	require.NoError(t, s.Login(context.Background(), "a@b.com", "pw"))

	sess := s.Snapshot()
	assert.True(t, sess.Authenticated)
	require.NotNil(t, sess.User)
	assert.Equal(t, "a@b.com", sess.User.Email)
	assert.Equal(t, "tok-1", s.Token())
}

func TestStore_LoginFailureLeavesStateUntouched(t *testing.T) {
	path := statePath(t)
	creds := newMemCreds()

	auth := &fakeAuth{creds: validCreds()}
	s := NewStore(auth, creds, path)
	require.NoError(t, s.Login(context.Background(), "a@b.com", "pw"))

	auth.creds = nil
	auth.err = &api.HTTPError{Status: 401, Message: "invalid credentials"}
	err := s.Login(context.Background(), "a@b.com", "wrong")

	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	sess := s.Snapshot()
	assert.True(t, sess.Authenticated, "failed login must not clear the session")
	assert.Equal(t, "tok-1", s.Token())
}

func TestStore_RestoresAcrossRestarts(t *testing.T) {
	path := statePath(t)
	creds := newMemCreds()

	first := NewStore(&fakeAuth{creds: validCreds()}, creds, path)
	require.NoError(t, first.Signup(context.Background(), "a@b.com", "pw"))

	second := NewStore(&fakeAuth{}, creds, path)
	sess := second.Snapshot()
	assert.True(t, sess.Authenticated)
	require.NotNil(t, sess.User)
	assert.Equal(t, "u1", sess.User.ID)
	assert.Equal(t, "tok-1", second.Token())
}

func TestStore_CorruptStateFileDegradesToLoggedOut(t *testing.T) {
	path := statePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewStore(&fakeAuth{}, newMemCreds(), path)
	assert.False(t, s.Snapshot().Authenticated)
}

func TestStore_MissingTokenDegradesToLoggedOut(t *testing.T) {
	path := statePath(t)
	creds := newMemCreds()

	first := NewStore(&fakeAuth{creds: validCreds()}, creds, path)
	require.NoError(t, first.Login(context.Background(), "a@b.com", "pw"))

	// Token lost from the credential store, state file still present.
	require.NoError(t, creds.Delete("api-token"))

	second := NewStore(&fakeAuth{}, creds, path)
	assert.False(t, second.Snapshot().Authenticated)
}

func TestStore_UnsupportedStateVersionDegradesToLoggedOut(t *testing.T) {
	path := statePath(t)
	require.NoError(t, os.WriteFile(path, []byte(
		`{"version": 99, "authenticated": true, "user": {"id": "u1"}}`,
	), 0o600))

	creds := newMemCreds()
	require.NoError(t, creds.Set("api-token", "tok"))

	s := NewStore(&fakeAuth{}, creds, path)
	assert.False(t, s.Snapshot().Authenticated)
}

func TestStore_LogoutClearsEverything(t *testing.T) {
	path := statePath(t)
	creds := newMemCreds()

	s := NewStore(&fakeAuth{creds: validCreds()}, creds, path)
	require.NoError(t, s.Login(context.Background(), "a@b.com", "pw"))

	s.Logout()

	assert.False(t, s.Snapshot().Authenticated)
	assert.Empty(t, s.Token())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "state file should be removed")
	_, err = creds.Get("api-token")
	assert.Error(t, err, "token should be removed")

	// Restart after logout stays logged out.
	again := NewStore(&fakeAuth{}, creds, path)
	assert.False(t, again.Snapshot().Authenticated)
}
