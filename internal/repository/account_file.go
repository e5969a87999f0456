package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sb "smart_budget"
)

// ErrUsernameTaken is returned by Create when the username already exists.
var ErrUsernameTaken = errors.New("username already exists")

// accountRecord is the persisted shape of one users.json entry.
type accountRecord struct {
	Password  string `json:"password"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// AccountFileStore persists all accounts in a single users.json document
// keyed by username. A mutex serializes the read-check-write cycle so two
// concurrent signups cannot both claim a username.
type AccountFileStore struct {
	mu   sync.Mutex
	path string
}

func NewAccountFileStore(dir string) *AccountFileStore {
	return &AccountFileStore{path: filepath.Join(dir, "users.json")}
}

var _ Accounts = (*AccountFileStore)(nil)

// Create inserts a new account. Fails with ErrUsernameTaken on duplicates;
// the existing record is left untouched.
func (s *AccountFileStore) Create(user sb.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := users[user.Username]; ok {
		return ErrUsernameTaken
	}
	users[user.Username] = accountRecord{
		Password:  user.PasswordHash,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
	return s.save(users)
}

// GetByUsername fetches an account. Returns (nil, nil) if not found.
func (s *AccountFileStore) GetByUsername(username string) (*sb.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}
	rec, ok := users[username]
	if !ok {
		return nil, nil
	}
	return &sb.User{
		Username:     username,
		PasswordHash: rec.Password,
		Email:        rec.Email,
		CreatedAt:    rec.CreatedAt,
	}, nil
}

// load reads users.json; a missing file means no accounts yet.
func (s *AccountFileStore) load() (map[string]accountRecord, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]accountRecord{}, nil
		}
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var users map[string]accountRecord
	if err := json.Unmarshal(b, &users); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	if users == nil {
		users = map[string]accountRecord{}
	}
	return users, nil
}

// save rewrites users.json atomically via temp file + rename.
func (s *AccountFileStore) save(users map[string]accountRecord) error {
	b, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "users_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp users file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp users file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace users file: %w", err)
	}
	return nil
}
