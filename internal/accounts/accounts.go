// Package accounts manages the global user-account list: one JSON file of
// (name, email, password hash) records, separate from the per-user
// documents.
package accounts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
	"golang.org/x/crypto/bcrypt"
)

// Account is one registered user. Password holds the bcrypt hash, never
// the plaintext.
type Account struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registry errors.
var (
	// ErrMissingFields rejects registration with a blank name, email, or
	// password.
	ErrMissingFields = errors.New("missing fields")

	// ErrUserExists rejects registration for an email already on file.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password; callers cannot distinguish the two.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Registry reads and writes the account list file. Access is serialized so
// concurrent registrations cannot lose entries.
type Registry struct {
	mu   sync.Mutex
	path string
}

// NewRegistry returns a registry backed by the given file. The file is
// created lazily on first registration.
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// Register adds a new account with a bcrypt-hashed password. The email is
// lower-cased so it matches the key resolver's normalization.
func (r *Registry) Register(name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return ErrMissingFields
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.loadLocked()

	for _, u := range users {
		if u.Email == email {
			return ErrUserExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	users = append(users, Account{Name: name, Email: email, Password: string(hash)})

	return r.saveLocked(users)
}

// Authenticate checks an email/password pair and returns the matching
// account.
func (r *Registry) Authenticate(email, password string) (Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	r.mu.Lock()
	users := r.loadLocked()
	r.mu.Unlock()

	for _, u := range users {
		if u.Email != email {
			continue
		}

		err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
		if err != nil {
			return Account{}, ErrInvalidCredentials
		}

		return u, nil
	}

	return Account{}, ErrInvalidCredentials
}

// Accounts returns every registered account, for operator tooling.
func (r *Registry) Accounts() []Account {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadLocked()
}

// loadLocked reads the account list. A missing or unreadable file yields an
// empty list: the account file is bootstrap data, not user documents, and
// losing it only costs re-registration.
func (r *Registry) loadLocked() []Account {
	data, err := os.ReadFile(r.path) //nolint:gosec // path comes from config
	if err != nil {
		return []Account{}
	}

	var users []Account

	err = json.Unmarshal(data, &users)
	if err != nil {
		return []Account{}
	}

	return users
}

func (r *Registry) saveLocked(users []Account) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding accounts: %w", err)
	}

	writeErr := atomic.WriteFile(r.path, bytes.NewReader(data))
	if writeErr != nil {
		return fmt.Errorf("writing accounts: %w", writeErr)
	}

	return nil
}
