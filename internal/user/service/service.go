package service

import (
	"context"
	"errors"

	"github.com/AlibekovAA/myflix/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/myflix/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/myflix/internal/common/errors"
	"github.com/AlibekovAA/myflix/internal/common/jwtverify"
	"github.com/AlibekovAA/myflix/internal/common/logger"
	"github.com/AlibekovAA/myflix/internal/observability/metrics"
	"github.com/AlibekovAA/myflix/internal/user/domain"
	userrepo "github.com/AlibekovAA/myflix/internal/user/repository"
)

type UserService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewUserService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	clock clock.Clock,
	log *logger.Logger,
) *UserService {
	return &UserService{
		repo:        repo,
		hasher:      hasher,
		idGenerator: idGenerator,
		clock:       clock,
		log:         log,
	}
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if err := validateInput(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return domain.User{}, err
	}

	birthday, err := parseBirthday(input.Birthday)
	if err != nil {
		return domain.User{}, err
	}

	_, err = s.repo.FindByUsername(ctx, input.Username)
	switch {
	case err == nil:
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_username_exists",
		}).Warn("register failed: already exists")
		return domain.User{}, commonerrors.ErrConflict
	case !errors.Is(err, userrepo.ErrUserNotFound):
		return domain.User{}, s.storeFailure(ctx, "register_lookup_failed", input.Username, err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return domain.User{}, classifyHashError(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user := domain.User{
		ID:             domain.ID(id),
		Username:       input.Username,
		PasswordHash:   hash,
		Email:          input.Email,
		Birthday:       birthday,
		FavoriteMovies: []string{},
		CreatedAt:      s.clock.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			return domain.User{}, commonerrors.ErrConflict
		}
		return domain.User{}, s.storeFailure(ctx, "register_create_failed", input.Username, err)
	}

	metrics.UsersRegisteredTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	return user, nil
}

func (s *UserService) Get(ctx context.Context, username string) (domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return domain.User{}, classifyStoreError(err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return users, nil
}

// UpdateProfile changes email, birthday or password. Username never
// changes; a new password is stored hashed.
func (s *UserService) UpdateProfile(ctx context.Context, caller jwtverify.Identity, username string, input UpdateProfileInput) (domain.User, error) {
	if err := s.authorize(ctx, caller, username, "update_profile"); err != nil {
		return domain.User{}, err
	}
	if err := validateInput(input); err != nil {
		return domain.User{}, err
	}

	var update domain.ProfileUpdate
	update.Email = input.Email
	if input.Birthday != nil {
		birthday, err := parseBirthday(*input.Birthday)
		if err != nil {
			return domain.User{}, err
		}
		update.Birthday = birthday
	}
	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return domain.User{}, classifyHashError(err)
		}
		update.PasswordHash = &hash
	}

	user, err := s.repo.UpdateProfile(ctx, username, update)
	if err != nil {
		return domain.User{}, classifyStoreError(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username":         username,
		"action":           "profile_updated",
		"password_changed": input.Password != nil,
	}).Info("profile updated")

	return user, nil
}

func (s *UserService) Delete(ctx context.Context, caller jwtverify.Identity, username string) error {
	if err := s.authorize(ctx, caller, username, "delete_user"); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, username)
	if err != nil {
		return classifyStoreError(err)
	}
	if !deleted {
		return commonerrors.ErrUserNotFound
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"action":   "user_deleted",
	}).Info("user deleted")
	return nil
}

func (s *UserService) AddFavorite(ctx context.Context, caller jwtverify.Identity, username, movieID string) (domain.User, error) {
	return s.mutateFavorites(ctx, caller, username, movieID, "add_favorite", s.repo.AddFavorite)
}

func (s *UserService) RemoveFavorite(ctx context.Context, caller jwtverify.Identity, username, movieID string) (domain.User, error) {
	return s.mutateFavorites(ctx, caller, username, movieID, "remove_favorite", s.repo.RemoveFavorite)
}

func (s *UserService) mutateFavorites(
	ctx context.Context,
	caller jwtverify.Identity,
	username, movieID, operation string,
	mutate func(ctx context.Context, username, movieID string) (domain.User, error),
) (domain.User, error) {
	if err := s.authorize(ctx, caller, username, operation); err != nil {
		metrics.FavoritesMutationsTotal.WithLabelValues(operation, "forbidden").Inc()
		return domain.User{}, err
	}
	if movieID == "" {
		return domain.User{}, commonerrors.ErrValidation
	}

	user, err := mutate(ctx, username, movieID)
	if err != nil {
		classified := classifyStoreError(err)
		result := "store_error"
		if errors.Is(classified, commonerrors.ErrUserNotFound) {
			result = "not_found"
		} else {
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"movie_id": movieID,
				"action":   operation + "_failed",
			}).Errorf("favorites mutation failed: %v", err)
		}
		metrics.FavoritesMutationsTotal.WithLabelValues(operation, result).Inc()
		return domain.User{}, classified
	}

	metrics.FavoritesMutationsTotal.WithLabelValues(operation, "success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username":  username,
		"movie_id":  movieID,
		"action":    operation,
		"favorites": len(user.FavoriteMovies),
	}).Debug("favorites updated")

	return user, nil
}

func (s *UserService) authorize(ctx context.Context, caller jwtverify.Identity, username, operation string) error {
	if caller.Username == "" {
		return commonerrors.ErrUnauthorized
	}
	if caller.Username != username {
		metrics.OwnershipDeniedTotal.WithLabelValues(operation).Inc()
		s.log.WithFields(ctx, logger.Fields{
			"caller": caller.Username,
			"target": username,
			"action": operation + "_forbidden",
		}).Warn("caller does not own the account")
		return commonerrors.ErrForbidden
	}
	return nil
}

func (s *UserService) storeFailure(ctx context.Context, action, username string, err error) error {
	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"action":   action,
	}).Errorf("store failure: %v", err)
	return classifyStoreError(err)
}
