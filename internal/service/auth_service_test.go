package service

import (
	"context"
	"errors"
	"testing"

	sb "smart_budget"
	"smart_budget/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// mockAccounts is a lightweight in-test mock for repository.Accounts.
type mockAccounts struct {
	users       map[string]sb.User
	createCalls int
}

func newMockAccounts() *mockAccounts {
	return &mockAccounts{users: map[string]sb.User{}}
}

func (m *mockAccounts) Create(user sb.User) error {
	m.createCalls++
	if _, ok := m.users[user.Username]; ok {
		return repository.ErrUsernameTaken
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockAccounts) GetByUsername(username string) (*sb.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func newAuthFixture() (*AuthService, *mockAccounts, *fakeLedgerStore, *fakeActivityRepo) {
	accounts := newMockAccounts()
	ledgers := newFakeLedgerStore()
	activity := &fakeActivityRepo{}
	svc := NewAuthService(accounts, ledgers, activity, AuthConfig{SigningKey: "test-key"})
	return svc, accounts, ledgers, activity
}

// --- SignUp ---

func TestAuthService_SignUpRejectsShortPassword(t *testing.T) {
	svc, accounts, _, _ := newAuthFixture()

	err := svc.SignUp(context.Background(), "alice", "12345", "")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort for 5 chars, got %v", err)
	}
	if accounts.createCalls != 0 {
		t.Fatalf("Create must not be called for a short password")
	}
}

func TestAuthService_SignUpAcceptsSixCharPassword(t *testing.T) {
	svc, accounts, ledgers, activity := newAuthFixture()

	if err := svc.SignUp(context.Background(), "alice", "123456", "alice@example.com"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	u := accounts.users["alice"]
	if u.PasswordHash == "123456" {
		t.Fatal("password stored in the clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("123456")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email not stored: %+v", u)
	}

	// Signup seeds the user's empty ledger.
	l, ok := ledgers.ledgers["alice"]
	if !ok {
		t.Fatal("ledger not seeded on signup")
	}
	if len(l.Months) != 0 || len(l.Categories) != len(sb.DefaultCategories) {
		t.Fatalf("unexpected seeded ledger: %+v", l)
	}

	if len(activity.events) != 1 || activity.events[0].Type != sb.ActivitySignUp {
		t.Fatalf("expected SIGNUP activity, got %+v", activity.events)
	}
}

func TestAuthService_SignUpDuplicateKeepsFirstHash(t *testing.T) {
	svc, accounts, _, _ := newAuthFixture()
	ctx := context.Background()

	if err := svc.SignUp(ctx, "bob", "first-pass", ""); err != nil {
		t.Fatalf("first SignUp: %v", err)
	}
	firstHash := accounts.users["bob"].PasswordHash

	err := svc.SignUp(ctx, "bob", "second-pass", "")
	if !errors.Is(err, repository.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if accounts.users["bob"].PasswordHash != firstHash {
		t.Fatal("first account's hash changed after duplicate signup")
	}
}

func TestAuthService_SignUpRejectsEmptyUsername(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	if err := svc.SignUp(context.Background(), "   ", "123456", ""); !errors.Is(err, ErrEmptyUsername) {
		t.Fatalf("expected ErrEmptyUsername, got %v", err)
	}
}

// --- GenerateToken / ParseToken ---

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	if err := svc.SignUp(ctx, "carol", "secret6", ""); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	token, err := svc.GenerateToken(ctx, "carol", "secret6")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	username, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if username != "carol" {
		t.Fatalf("expected carol, got %q", username)
	}
}

func TestAuthService_BadCredentialsAreIndistinguishable(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	if err := svc.SignUp(ctx, "dave", "secret6", ""); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	_, errUnknown := svc.GenerateToken(ctx, "nobody", "secret6")
	_, errWrongPass := svc.GenerateToken(ctx, "dave", "wrong-pass")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPass)
	}
	// Same error for both, so the API cannot leak which usernames exist.
	if errUnknown.Error() != errWrongPass.Error() {
		t.Fatalf("errors differ: %q vs %q", errUnknown, errWrongPass)
	}
}

func TestAuthService_ParseTokenRejectsGarbage(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	if _, err := svc.ParseToken("not-a-jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestAuthService_ParseTokenRejectsForeignKey(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()
	if err := svc.SignUp(ctx, "erin", "secret6", ""); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	token, err := svc.GenerateToken(ctx, "erin", "secret6")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	other := NewAuthService(newMockAccounts(), newFakeLedgerStore(), &fakeActivityRepo{}, AuthConfig{SigningKey: "different-key"})
	if _, err := other.ParseToken(token); err == nil {
		t.Fatal("expected token signed with another key to be rejected")
	}
}
