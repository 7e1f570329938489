package service

import (
	"context"
	"time"

	commonerrors "github.com/AlibekovAA/myflix/internal/common/errors"
	"github.com/AlibekovAA/myflix/internal/common/jwtverify"
	"github.com/AlibekovAA/myflix/internal/common/logger"
	"github.com/AlibekovAA/myflix/internal/observability/metrics"
)

type AuthService struct {
	authenticator Authenticator
	issuer        *TokenIssuer
	log           *logger.Logger
}

func NewAuthService(authenticator Authenticator, issuer *TokenIssuer, log *logger.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		issuer:        issuer,
		log:           log,
	}
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  jwtverify.Identity
}

func (s *AuthService) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": creds.Username,
		"action":   "login_attempt",
	}).Debug("login attempt")

	identity, err := s.authenticator.Authenticate(ctx, creds)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
		return LoginResult{}, err
	}

	token, expiresAt, err := s.issuer.Issue(identity)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": identity.Username,
			"user_id":  identity.UserID,
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return LoginResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": identity.Username,
		"user_id":  identity.UserID,
		"action":   "login_success",
	}).Info("login success")

	return LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  identity,
	}, nil
}

func loginResult(err error) string {
	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok {
		return "error"
	}
	switch domainErr.Category() {
	case commonerrors.CategoryUnauthorized:
		return "invalid_credentials"
	case commonerrors.CategoryExternal:
		return "store_unavailable"
	default:
		return "error"
	}
}
