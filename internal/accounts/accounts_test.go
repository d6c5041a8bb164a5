package accounts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	return NewRegistry(filepath.Join(t.TempDir(), "users.json"))
}

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)

	err := registry.Register("Alice", "Alice@Example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Email lookup is case-insensitive via lower-casing.
	account, err := registry.Authenticate("alice@example.COM", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	if account.Name != "Alice" || account.Email != "alice@example.com" {
		t.Errorf("account = %+v", account)
	}

	if account.Password == "hunter2" {
		t.Error("password must be stored hashed, not plaintext")
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"blank name", "", "a@b.com", "pw"},
		{"blank email", "A", "", "pw"},
		{"blank password", "A", "a@b.com", ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := registry.Register(testCase.userName, testCase.email, testCase.password)
			if !errors.Is(err, ErrMissingFields) {
				t.Errorf("error = %v, want ErrMissingFields", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)

	err := registry.Register("Alice", "alice@example.com", "pw1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err = registry.Register("Other Alice", "ALICE@example.com", "pw2")
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate register error = %v, want ErrUserExists", err)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)

	err := registry.Register("Alice", "alice@example.com", "correct")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err = registry.Authenticate("alice@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}

	_, err = registry.Authenticate("nobody@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestUnreadableFileYieldsEmptyList(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.json")

	err := os.WriteFile(path, []byte("not json"), 0o600)
	if err != nil {
		t.Fatalf("writing file: %v", err)
	}

	registry := NewRegistry(path)

	if got := registry.Accounts(); len(got) != 0 {
		t.Errorf("Accounts on unreadable file = %v, want empty", got)
	}
}
