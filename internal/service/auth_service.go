package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sb "smart_budget"
	"smart_budget/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// Domain errors for auth flows.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", minPasswordLen)
	ErrEmptyUsername      = errors.New("username is empty")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService handles signup, signin and token parsing. On signup it also
// seeds the user's empty ledger document so the first login finds a file.
type AuthService struct {
	accounts repository.Accounts
	ledgers  repository.LedgerStore
	activity repository.ActivityRepo
	cfg      AuthConfig
}

func NewAuthService(accounts repository.Accounts, ledgers repository.LedgerStore, activity repository.ActivityRepo, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	return &AuthService{accounts: accounts, ledgers: ledgers, activity: activity, cfg: cfg}
}

// SignUp validates the credentials, stores a bcrypt hash and creates the
// user's empty ledger. Duplicate usernames are rejected by the account
// store without touching the existing record.
func (s *AuthService) SignUp(ctx context.Context, username, password, email string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.accounts.Create(sb.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(email),
		CreatedAt:    time.Now().UTC().Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return err
	}

	// Seed the per-user document with the default category set.
	if err := s.ledgers.Save(username, sb.NewLedger()); err != nil {
		return fmt.Errorf("seed ledger for %q: %w", username, err)
	}

	return s.activity.Append(ctx, sb.ActivityEvent{
		Username:    username,
		Type:        sb.ActivitySignUp,
		Description: "Account created",
	})
}

// Claims defines JWT claims; identity is the username, which is also the
// ledger file selector.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// GenerateToken validates credentials and returns a signed JWT. Unknown
// usernames and wrong passwords yield the same error so the API does not
// leak which usernames exist.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	u, err := s.accounts.GetByUsername(username)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.issueToken(u.Username)
	if err != nil {
		return "", err
	}

	_ = s.activity.Append(ctx, sb.ActivityEvent{
		Username:    u.Username,
		Type:        sb.ActivitySignIn,
		Description: "Signed in",
	})
	return token, nil
}

// ParseToken parses the JWT and returns the username it was issued for.
func (s *AuthService) ParseToken(accessToken string) (string, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SigningKey), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" {
		return "", ErrInvalidToken
	}
	return claims.Username, nil
}

func (s *AuthService) issueToken(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: username,
	})
	return token.SignedString([]byte(s.cfg.SigningKey))
}
