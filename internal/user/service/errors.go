package service

import (
	"context"
	"errors"

	commoncrypto "github.com/AlibekovAA/myflix/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/myflix/internal/common/errors"
	userrepo "github.com/AlibekovAA/myflix/internal/user/repository"
)

// classifyStoreError keeps not-found and conflict outcomes and reports
// everything else, including an open circuit, as an unavailable store.
func classifyStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, userrepo.ErrUserNotFound):
		return commonerrors.ErrUserNotFound
	case errors.Is(err, userrepo.ErrUsernameAlreadyExists):
		return commonerrors.ErrConflict
	case errors.Is(err, context.Canceled):
		return err
	default:
		return commonerrors.ErrStoreUnavailable.WithCause(err)
	}
}

func classifyHashError(err error) error {
	if errors.Is(err, commoncrypto.ErrPasswordTooLong) {
		return commonerrors.ErrValidation.WithCause(err)
	}
	return commonerrors.ErrInternalError.WithCause(err)
}
