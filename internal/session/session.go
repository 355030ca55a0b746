// Package session holds the current authentication state and persists
// it across restarts.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/nhle/taskflow/internal/model"
)

// stateVersion is the version stamped into the persisted record.
const stateVersion = 1

// Session is a snapshot of the authentication state.
// Invariant: Authenticated is true iff both User and Token are set.
type Session struct {
	User          *model.User
	Token         string
	Authenticated bool
}

// persistedState is the on-disk session record. Only the user, the
// authenticated flag and the version are written here; the token
// lives in the credential store.
type persistedState struct {
	Version       int         `json:"version"`
	User          *model.User `json:"user"`
	Authenticated bool        `json:"authenticated"`
}

// serialize encodes the persistable part of a session.
func serialize(s Session) ([]byte, error) {
	data, err := json.MarshalIndent(persistedState{
		Version:       stateVersion,
		User:          s.User,
		Authenticated: s.Authenticated,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling session state: %w", err)
	}
	return data, nil
}

// deserialize decodes a persisted record back into a session without
// a token; the caller supplies that from the credential store.
func deserialize(data []byte) (Session, error) {
	var st persistedState
	if err := json.Unmarshal(data, &st); err != nil {
		return Session{}, fmt.Errorf("parsing session state: %w", err)
	}
	if st.Version != stateVersion {
		return Session{}, fmt.Errorf("unsupported session state version %d", st.Version)
	}
	return Session{
		User:          st.User,
		Authenticated: st.Authenticated,
	}, nil
}
