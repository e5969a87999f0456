package repository

import (
	"errors"
	"testing"

	sb "smart_budget"
)

func newAccountStore(t *testing.T) *AccountFileStore {
	t.Helper()
	return NewAccountFileStore(t.TempDir())
}

func TestAccountFileStore_CreateAndGet(t *testing.T) {
	store := newAccountStore(t)

	err := store.Create(sb.User{
		Username:     "alice",
		PasswordHash: "h123",
		Email:        "alice@example.com",
		CreatedAt:    "2025-08-28 10:00:00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	u, err := store.GetByUsername("alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.Username != "alice" || u.PasswordHash != "h123" || u.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestAccountFileStore_GetMissingReturnsNilNil(t *testing.T) {
	store := newAccountStore(t)

	u, err := store.GetByUsername("ghost")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil for missing user, got %+v", u)
	}
}

func TestAccountFileStore_DuplicateUsernameKeepsFirstHash(t *testing.T) {
	store := newAccountStore(t)

	if err := store.Create(sb.User{Username: "bob", PasswordHash: "first"}); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	err := store.Create(sb.User{Username: "bob", PasswordHash: "second"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	u, err := store.GetByUsername("bob")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if u.PasswordHash != "first" {
		t.Fatalf("first account's hash changed: got %q", u.PasswordHash)
	}
}

func TestAccountFileStore_MultipleAccounts(t *testing.T) {
	store := newAccountStore(t)

	for _, name := range []string{"alice", "bob", "carol"} {
		if err := store.Create(sb.User{Username: name, PasswordHash: "h-" + name}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}
	for _, name := range []string{"alice", "bob", "carol"} {
		u, err := store.GetByUsername(name)
		if err != nil || u == nil {
			t.Fatalf("GetByUsername %s: user=%v err=%v", name, u, err)
		}
		if u.PasswordHash != "h-"+name {
			t.Fatalf("wrong hash for %s: %q", name, u.PasswordHash)
		}
	}
}
