// Package credstore loads the static credential file and answers
// username lookups and password checks.  The file is the only source
// of accounts: there is no registration endpoint and the in-memory map
// is never mutated after Load returns, so reads need no locking.
package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/iliyamo/family-travel-blog/internal/model"
	"github.com/iliyamo/family-travel-blog/internal/utils"
)

// fileUser mirrors one entry of the JSON credential file.
type fileUser struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
	DisplayName  string `json:"displayName,omitempty"`
}

// dummyHash is a bcrypt hash of a random throwaway string.  When a
// login names an unknown user we still run a bcrypt compare against
// this hash so that the response time does not reveal whether the
// username exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Store holds the loaded users keyed by lowercased username.
type Store struct {
	users map[string]model.User
}

// Load reads and validates the credential file at path.  Duplicate
// usernames (case-insensitive) and unknown roles are configuration
// errors and abort startup.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("credstore: read %s: %w", path, err)
	}
	var entries []fileUser
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("credstore: parse %s: %w", path, err)
	}
	s := &Store{users: make(map[string]model.User, len(entries))}
	for _, e := range entries {
		name := strings.ToLower(strings.TrimSpace(e.Username))
		if name == "" || e.PasswordHash == "" {
			return nil, fmt.Errorf("credstore: entry with empty username or passwordHash in %s", path)
		}
		if !model.ValidRole(e.Role) {
			return nil, fmt.Errorf("credstore: unknown role %q for user %q", e.Role, e.Username)
		}
		if _, dup := s.users[name]; dup {
			return nil, fmt.Errorf("credstore: duplicate username %q", name)
		}
		s.users[name] = model.User{
			Username:     name,
			PasswordHash: e.PasswordHash,
			Role:         e.Role,
			DisplayName:  e.DisplayName,
		}
	}
	return s, nil
}

// NewFromUsers builds a store directly from user records.  Used by
// tests; production code goes through Load.
func NewFromUsers(users ...model.User) *Store {
	s := &Store{users: make(map[string]model.User, len(users))}
	for _, u := range users {
		s.users[strings.ToLower(u.Username)] = u
	}
	return s
}

// Lookup returns the user for a case-insensitive username.
func (s *Store) Lookup(username string) (model.User, bool) {
	u, ok := s.users[strings.ToLower(strings.TrimSpace(username))]
	return u, ok
}

// Authenticate verifies a username/password pair.  Unknown user and
// wrong password take the same code path: a bcrypt compare always
// runs (against dummyHash when the user is absent) and both failures
// report the same result, so callers cannot distinguish the cause.
func (s *Store) Authenticate(username, password string) (model.User, bool) {
	u, found := s.Lookup(username)
	hash := u.PasswordHash
	if !found {
		hash = dummyHash
	}
	if !utils.VerifyPassword(hash, password) || !found {
		return model.User{}, false
	}
	return u, true
}

// Len reports the number of loaded accounts.  Logged once at startup.
func (s *Store) Len() int { return len(s.users) }
