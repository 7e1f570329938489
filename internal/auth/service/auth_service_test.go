package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/AlibekovAA/myflix/internal/common/clock"
	"github.com/AlibekovAA/myflix/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/myflix/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/myflix/internal/common/errors"
	"github.com/AlibekovAA/myflix/internal/common/jwtverify"
	"github.com/AlibekovAA/myflix/internal/common/logger"
	userdomain "github.com/AlibekovAA/myflix/internal/user/domain"
	userrepo "github.com/AlibekovAA/myflix/internal/user/repository"
)

const testSecret = "test-secret-key-must-be-at-least-32-bytes-long"

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type mockUserFinder struct {
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
}

func (m *mockUserFinder) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type countingHasher struct {
	commoncrypto.PasswordHasher
	compares []string
}

func (c *countingHasher) Compare(hash, password string) error {
	c.compares = append(c.compares, hash)
	return c.PasswordHasher.Compare(hash, password)
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "auth-test", "ERROR")
}

func setupAuthService(t *testing.T) (*AuthService, *userrepo.MemoryRepository, *countingHasher) {
	t.Helper()
	hasher := &countingHasher{PasswordHasher: commoncrypto.NewBcryptHasher(bcrypt.MinCost)}

	repo := userrepo.NewMemoryRepository()
	hash, err := hasher.Hash("correcthorse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := repo.Create(context.Background(), userdomain.User{
		ID:           "user-123",
		Username:     "alice",
		PasswordHash: hash,
		CreatedAt:    testNow,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	authenticator, err := NewPasswordAuthenticator(repo, hasher, testLogger())
	if err != nil {
		t.Fatalf("authenticator: %v", err)
	}
	issuer := NewTokenIssuer(testSecret, constants.DefaultTokenTTL, clock.NewMockClock(testNow))
	return NewAuthService(authenticator, issuer, testLogger()), repo, hasher
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	result, err := svc.Login(context.Background(), Credentials{Username: "alice", Password: "correcthorse"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !result.ExpiresAt.Equal(testNow.Add(7 * 24 * time.Hour)) {
		t.Errorf("expected 7 day expiry, got %v", result.ExpiresAt)
	}

	verifier := jwtverify.NewVerifier([]byte(testSecret), clock.NewMockClock(testNow.Add(time.Hour)))
	identity, err := verifier.ParseToken(result.Token)
	if err != nil {
		t.Fatalf("issued token must verify: %v", err)
	}
	if identity.Username != "alice" || identity.UserID != "user-123" {
		t.Errorf("unexpected identity %+v", identity)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	result, err := svc.Login(context.Background(), Credentials{Username: "alice", Password: "wrong"})
	if !errors.Is(err, commonerrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if result.Token != "" {
		t.Error("no token may be issued on failure")
	}
}

func TestAuthService_Login_UnknownUserRunsDummyCompare(t *testing.T) {
	svc, _, hasher := setupAuthService(t)

	_, err := svc.Login(context.Background(), Credentials{Username: "ghost", Password: "correcthorse"})
	if !errors.Is(err, commonerrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(hasher.compares) != 1 {
		t.Fatalf("expected exactly one compare for an absent user, got %d", len(hasher.compares))
	}
}

func TestAuthService_Login_SameErrorForBothFailures(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	_, unknown := svc.Login(context.Background(), Credentials{Username: "ghost", Password: "x"})
	_, wrong := svc.Login(context.Background(), Credentials{Username: "alice", Password: "x"})

	if unknown.Error() != wrong.Error() {
		t.Errorf("failures must be indistinguishable: %q vs %q", unknown, wrong)
	}
}

func TestPasswordAuthenticator_StoreUnavailable(t *testing.T) {
	finder := &mockUserFinder{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			return userdomain.User{}, errors.New("connection refused")
		},
	}
	authenticator, err := NewPasswordAuthenticator(finder, commoncrypto.NewBcryptHasher(bcrypt.MinCost), testLogger())
	if err != nil {
		t.Fatalf("authenticator: %v", err)
	}

	_, err = authenticator.Authenticate(context.Background(), Credentials{Username: "alice", Password: "correcthorse"})
	if !errors.Is(err, commonerrors.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if errors.Is(err, commonerrors.ErrInvalidCredentials) {
		t.Error("store failure must not be reported as bad credentials")
	}
}

func TestPasswordAuthenticator_CircuitOpen(t *testing.T) {
	finder := &mockUserFinder{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			return userdomain.User{}, commonerrors.ErrCircuitOpen
		},
	}
	authenticator, err := NewPasswordAuthenticator(finder, commoncrypto.NewBcryptHasher(bcrypt.MinCost), testLogger())
	if err != nil {
		t.Fatalf("authenticator: %v", err)
	}

	_, err = authenticator.Authenticate(context.Background(), Credentials{Username: "alice", Password: "x"})
	if !errors.Is(err, commonerrors.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestPasswordAuthenticator_CorruptArgon2DigestIsInternal(t *testing.T) {
	hasher := commoncrypto.NewArgon2Hasher(commoncrypto.Argon2Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	users := &mockUserFinder{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			return userdomain.User{
				ID:           "user-123",
				Username:     username,
				PasswordHash: "$argon2id$v=19$m=65536,t=0,p=2$c29tZXNhbHRzb21lc2FsdA$a2V5a2V5a2V5a2V5",
			}, nil
		},
	}
	authenticator, err := NewPasswordAuthenticator(users, hasher, testLogger())
	if err != nil {
		t.Fatalf("authenticator: %v", err)
	}

	_, err = authenticator.Authenticate(context.Background(), Credentials{Username: "alice", Password: "correcthorse"})
	if !errors.Is(err, commonerrors.ErrInternalError) {
		t.Fatalf("expected ErrInternalError, got %v", err)
	}
	if errors.Is(err, commonerrors.ErrInvalidCredentials) {
		t.Error("corrupt digest must not read as bad credentials")
	}
}

func TestTokenIssuer_Issue(t *testing.T) {
	mockClock := clock.NewMockClock(testNow)
	issuer := NewTokenIssuer(testSecret, time.Minute, mockClock)

	if _, _, err := issuer.Issue(jwtverify.Identity{}); !errors.Is(err, ErrEmptySubject) {
		t.Fatalf("expected ErrEmptySubject, got %v", err)
	}

	token, expiresAt, err := issuer.Issue(jwtverify.Identity{UserID: "u1", Username: "alice"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.Equal(testNow.Add(time.Minute)) {
		t.Errorf("unexpected expiry %v", expiresAt)
	}

	mockClock.Advance(2 * time.Minute)
	verifier := jwtverify.NewVerifier([]byte(testSecret), mockClock)
	if _, err := verifier.ParseToken(token); err == nil {
		t.Error("token must be rejected after expiry")
	}

	otherVerifier := jwtverify.NewVerifier([]byte("a-different-secret-of-at-least-32-bytes"), clock.NewMockClock(testNow))
	if _, err := otherVerifier.ParseToken(token); err == nil {
		t.Error("token must be rejected under another secret")
	}
}
