package service

import (
	"context"
	"errors"
	"fmt"

	commoncrypto "github.com/AlibekovAA/myflix/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/myflix/internal/common/errors"
	"github.com/AlibekovAA/myflix/internal/common/jwtverify"
	"github.com/AlibekovAA/myflix/internal/common/logger"
	userdomain "github.com/AlibekovAA/myflix/internal/user/domain"
	userrepo "github.com/AlibekovAA/myflix/internal/user/repository"
)

type Credentials struct {
	Username string
	Password string
}

// Authenticator turns presented credentials into an identity. Further
// strategies plug in beside PasswordAuthenticator.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (jwtverify.Identity, error)
}

type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (userdomain.User, error)
}

const dummyPassword = "myflix-timing-equalizer"

type PasswordAuthenticator struct {
	users     UserFinder
	hasher    commoncrypto.PasswordHasher
	dummyHash string
	log       *logger.Logger
}

// NewPasswordAuthenticator precomputes a digest that absent usernames are
// compared against, so both failure paths cost one hash comparison.
func NewPasswordAuthenticator(users UserFinder, hasher commoncrypto.PasswordHasher, log *logger.Logger) (*PasswordAuthenticator, error) {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy digest: %w", err)
	}
	return &PasswordAuthenticator{
		users:     users,
		hasher:    hasher,
		dummyHash: dummyHash,
		log:       log,
	}, nil
}

func (a *PasswordAuthenticator) Authenticate(ctx context.Context, creds Credentials) (jwtverify.Identity, error) {
	user, err := a.users.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			_ = a.hasher.Compare(a.dummyHash, creds.Password)
			a.log.WithFields(ctx, logger.Fields{
				"username": creds.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			return jwtverify.Identity{}, commonerrors.ErrInvalidCredentials
		}
		a.log.WithFields(ctx, logger.Fields{
			"username": creds.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return jwtverify.Identity{}, commonerrors.ErrStoreUnavailable.WithCause(err)
	}

	if err := a.hasher.Compare(user.PasswordHash, creds.Password); err != nil {
		if errors.Is(err, commoncrypto.ErrPasswordMismatch) {
			a.log.WithFields(ctx, logger.Fields{
				"username": creds.Username,
				"action":   "login_invalid_password",
			}).Warn("login failed: invalid password")
			return jwtverify.Identity{}, commonerrors.ErrInvalidCredentials
		}
		a.log.WithFields(ctx, logger.Fields{
			"username": creds.Username,
			"user_id":  string(user.ID),
			"action":   "login_digest_unusable",
		}).Errorf("login failed: stored digest unusable: %v", err)
		return jwtverify.Identity{}, commonerrors.ErrInternalError.WithCause(err)
	}

	return jwtverify.Identity{
		UserID:   string(user.ID),
		Username: user.Username,
	}, nil
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
