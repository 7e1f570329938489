package repository

import (
	"context"

	commonerrors "github.com/AlibekovAA/myflix/internal/common/errors"
	"github.com/AlibekovAA/myflix/internal/user/domain"
)

var (
	ErrUserNotFound          = commonerrors.ErrUserNotFound
	ErrUsernameAlreadyExists = commonerrors.ErrConflict
)

// Repository is the credential store. Favorites mutations are atomic per
// call and idempotent: adding a present id or removing an absent one
// returns the unchanged user.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user domain.User) error
	UpdateProfile(ctx context.Context, username string, update domain.ProfileUpdate) (domain.User, error)
	Delete(ctx context.Context, username string) (bool, error)
	AddFavorite(ctx context.Context, username, movieID string) (domain.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (domain.User, error)
}
