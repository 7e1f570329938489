package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/AlibekovAA/myflix/internal/common/clock"
	"github.com/AlibekovAA/myflix/internal/common/logger"
	"github.com/AlibekovAA/myflix/internal/user/domain"
	userrepo "github.com/AlibekovAA/myflix/internal/user/repository"
)

type mockUserRepo struct {
	findByUsernameFunc func(ctx context.Context, username string) (domain.User, error)
	listFunc           func(ctx context.Context) ([]domain.User, error)
	createFunc         func(ctx context.Context, user domain.User) error
	updateProfileFunc  func(ctx context.Context, username string, update domain.ProfileUpdate) (domain.User, error)
	deleteFunc         func(ctx context.Context, username string) (bool, error)
	addFavoriteFunc    func(ctx context.Context, username, movieID string) (domain.User, error)
	removeFavoriteFunc func(ctx context.Context, username, movieID string) (domain.User, error)
	calls              int
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	m.calls++
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	m.calls++
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) error {
	m.calls++
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, username string, update domain.ProfileUpdate) (domain.User, error) {
	m.calls++
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, username, update)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) Delete(ctx context.Context, username string) (bool, error) {
	m.calls++
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepo) AddFavorite(ctx context.Context, username, movieID string) (domain.User, error) {
	m.calls++
	if m.addFavoriteFunc != nil {
		return m.addFavoriteFunc(ctx, username, movieID)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) RemoveFavorite(ctx context.Context, username, movieID string) (domain.User, error) {
	m.calls++
	if m.removeFavoriteFunc != nil {
		return m.removeFavoriteFunc(ctx, username, movieID)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	return nil
}

type mockIDGenerator struct {
	id string
}

func (m *mockIDGenerator) NewID() (string, error) {
	return m.id, nil
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func setupUserService(t *testing.T) (*UserService, *mockUserRepo, *mockHasher) {
	t.Helper()
	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	log := logger.NewWithWriter(io.Discard, "user-test", "ERROR")
	svc := NewUserService(repo, hasher, &mockIDGenerator{id: "user-123"}, clock.NewMockClock(testNow), log)
	return svc, repo, hasher
}
