package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	commoncrypto "github.com/AlibekovAA/myflix/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/myflix/internal/common/errors"
	"github.com/AlibekovAA/myflix/internal/common/jwtverify"
	"github.com/AlibekovAA/myflix/internal/user/domain"
	userrepo "github.com/AlibekovAA/myflix/internal/user/repository"
)

var alice = jwtverify.Identity{UserID: "user-123", Username: "alice"}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username: "alice1",
		Password: "correcthorse",
		Email:    "alice@example.com",
		Birthday: "1990-04-12",
	}
}

func TestUserService_Register_Success(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	var created domain.User
	repo.createFunc = func(ctx context.Context, user domain.User) error {
		created = user
		return nil
	}

	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.ID != "user-123" || created.Username != "alice1" {
		t.Errorf("unexpected user %+v", user)
	}
	if created.PasswordHash != "hashed:correcthorse" {
		t.Errorf("password must be stored hashed, got %q", created.PasswordHash)
	}
	if created.Birthday == nil || created.Birthday.Format(domain.BirthdayLayout) != "1990-04-12" {
		t.Errorf("unexpected birthday %v", created.Birthday)
	}
	if !created.CreatedAt.Equal(testNow) {
		t.Errorf("expected created_at from clock, got %v", created.CreatedAt)
	}
	if created.FavoriteMovies == nil || len(created.FavoriteMovies) != 0 {
		t.Errorf("expected empty favorites, got %v", created.FavoriteMovies)
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"short username", func(in *RegisterInput) { in.Username = "bob" }},
		{"non alphanumeric username", func(in *RegisterInput) { in.Username = "alice!x" }},
		{"missing password", func(in *RegisterInput) { in.Password = "" }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"bad birthday", func(in *RegisterInput) { in.Birthday = "12/04/1990" }},
		{"password over 72 bytes in 60 runes", func(in *RegisterInput) { in.Password = strings.Repeat("é", 60) }},
		{"password over 72 ascii bytes", func(in *RegisterInput) { in.Password = strings.Repeat("x", 73) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := setupUserService(t)
			input := validRegisterInput()
			tt.mutate(&input)

			_, err := svc.Register(context.Background(), input)
			if !errors.Is(err, commonerrors.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if repo.calls != 0 {
				t.Errorf("store must not be touched on invalid input, got %d calls", repo.calls)
			}
		})
	}
}

func TestUserService_Register_Conflict(t *testing.T) {
	svc, repo, _ := setupUserService(t)
	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{Username: username}, nil
	}
	repo.createFunc = func(ctx context.Context, user domain.User) error {
		t.Fatal("create must not be called when the username exists")
		return nil
	}

	_, err := svc.Register(context.Background(), validRegisterInput())
	if !errors.Is(err, commonerrors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUserService_Register_RaceOnCreate(t *testing.T) {
	svc, repo, _ := setupUserService(t)
	repo.createFunc = func(ctx context.Context, user domain.User) error {
		return userrepo.ErrUsernameAlreadyExists
	}

	_, err := svc.Register(context.Background(), validRegisterInput())
	if !errors.Is(err, commonerrors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUserService_Register_StoreDown(t *testing.T) {
	svc, repo, _ := setupUserService(t)
	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{}, errors.New("connection refused")
	}

	_, err := svc.Register(context.Background(), validRegisterInput())
	if !errors.Is(err, commonerrors.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestUserService_AddFavorite(t *testing.T) {
	tests := []struct {
		name     string
		caller   jwtverify.Identity
		username string
		repoErr  error
		wantErr  error
		wantCall bool
	}{
		{name: "owner", caller: alice, username: "alice", wantCall: true},
		{name: "other user", caller: alice, username: "bob", wantErr: commonerrors.ErrForbidden},
		{name: "anonymous", caller: jwtverify.Identity{}, username: "alice", wantErr: commonerrors.ErrUnauthorized},
		{name: "user gone", caller: alice, username: "alice", repoErr: userrepo.ErrUserNotFound, wantErr: commonerrors.ErrUserNotFound, wantCall: true},
		{name: "store down", caller: alice, username: "alice", repoErr: errors.New("timeout"), wantErr: commonerrors.ErrStoreUnavailable, wantCall: true},
		{name: "circuit open", caller: alice, username: "alice", repoErr: commonerrors.ErrCircuitOpen, wantErr: commonerrors.ErrStoreUnavailable, wantCall: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := setupUserService(t)
			called := false
			repo.addFavoriteFunc = func(ctx context.Context, username, movieID string) (domain.User, error) {
				called = true
				if tt.repoErr != nil {
					return domain.User{}, tt.repoErr
				}
				return domain.User{Username: username, FavoriteMovies: []string{movieID}}, nil
			}

			user, err := svc.AddFavorite(context.Background(), tt.caller, tt.username, "m42")

			if called != tt.wantCall {
				t.Errorf("store called = %v, want %v", called, tt.wantCall)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(user.FavoriteMovies) != 1 || user.FavoriteMovies[0] != "m42" {
				t.Errorf("expected snapshot with m42, got %v", user.FavoriteMovies)
			}
		})
	}
}

func TestUserService_RemoveFavorite_Forbidden(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	_, err := svc.RemoveFavorite(context.Background(), alice, "bob", "m42")
	if !errors.Is(err, commonerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.calls != 0 {
		t.Error("store must not be touched for a forbidden caller")
	}
}

func TestUserService_RemoveFavorite_ReturnsSnapshot(t *testing.T) {
	svc, repo, _ := setupUserService(t)
	repo.removeFavoriteFunc = func(ctx context.Context, username, movieID string) (domain.User, error) {
		return domain.User{Username: username, FavoriteMovies: []string{"m1"}}, nil
	}

	user, err := svc.RemoveFavorite(context.Background(), alice, "alice", "m42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(user.FavoriteMovies) != 1 || user.FavoriteMovies[0] != "m1" {
		t.Errorf("unexpected favorites %v", user.FavoriteMovies)
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.deleteFunc = func(ctx context.Context, username string) (bool, error) {
		return false, nil
	}
	if err := svc.Delete(context.Background(), alice, "alice"); !errors.Is(err, commonerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for a missing account, got %v", err)
	}

	repo.deleteFunc = func(ctx context.Context, username string) (bool, error) {
		return true, nil
	}
	if err := svc.Delete(context.Background(), alice, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(context.Background(), alice, "bob"); !errors.Is(err, commonerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_UpdateProfile_RehashesPassword(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	var got domain.ProfileUpdate
	repo.updateProfileFunc = func(ctx context.Context, username string, update domain.ProfileUpdate) (domain.User, error) {
		got = update
		return domain.User{Username: username}, nil
	}

	password := "newsecret"
	email := "alice@new.example.com"
	_, err := svc.UpdateProfile(context.Background(), alice, "alice", UpdateProfileInput{Password: &password, Email: &email})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.PasswordHash == nil || *got.PasswordHash != "hashed:newsecret" {
		t.Errorf("expected hashed password in update, got %v", got.PasswordHash)
	}
	if got.Email == nil || *got.Email != email {
		t.Errorf("expected email in update")
	}
	if got.Birthday != nil {
		t.Error("birthday must stay unchanged")
	}
}

func TestUserService_UpdateProfile_InvalidEmail(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	email := "nope"
	_, err := svc.UpdateProfile(context.Background(), alice, "alice", UpdateProfileInput{Email: &email})
	if !errors.Is(err, commonerrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if repo.calls != 0 {
		t.Error("store must not be touched on invalid input")
	}
}

func TestUserService_Register_PasswordAtByteLimit(t *testing.T) {
	svc, _, _ := setupUserService(t)
	input := validRegisterInput()
	input.Password = strings.Repeat("é", 36)

	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("72-byte password must be accepted, got %v", err)
	}
}

func TestUserService_UpdateProfile_PasswordTooManyBytes(t *testing.T) {
	svc, repo, hasher := setupUserService(t)
	hasher.hashFunc = func(password string) (string, error) {
		t.Fatal("hasher must not run for an oversized password")
		return "", nil
	}

	password := strings.Repeat("é", 60)
	_, err := svc.UpdateProfile(context.Background(), alice, "alice", UpdateProfileInput{Password: &password})
	if !errors.Is(err, commonerrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if repo.calls != 0 {
		t.Error("store must not be touched on invalid input")
	}
}

func TestClassifyHashError(t *testing.T) {
	if err := classifyHashError(commoncrypto.ErrPasswordTooLong); !errors.Is(err, commonerrors.ErrValidation) {
		t.Errorf("too long password: expected ErrValidation, got %v", err)
	}
	if err := classifyHashError(errors.New("entropy exhausted")); !errors.Is(err, commonerrors.ErrInternalError) {
		t.Errorf("other hash failure: expected ErrInternalError, got %v", err)
	}
}

func TestUserService_Get_NotFound(t *testing.T) {
	svc, _, _ := setupUserService(t)

	_, err := svc.Get(context.Background(), "ghost")
	if !errors.Is(err, commonerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
