package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/myflix/internal/common/clock"
	commonerrors "github.com/AlibekovAA/myflix/internal/common/errors"
	commonhttp "github.com/AlibekovAA/myflix/internal/common/http"
	"github.com/AlibekovAA/myflix/internal/common/logger"
	"github.com/AlibekovAA/myflix/internal/observability/metrics"
)

var (
	ErrMissingToken   = errors.New("missing bearer token")
	ErrMissingSubject = errors.New("token has no subject")
)

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID   string
	Username string
}

// Claims is the signed payload shared by the issuer and the verifier.
type Claims struct {
	UserID string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

type contextKey string

const identityKey contextKey = "jwt_identity"

type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret []byte, c clock.Clock) *Verifier {
	if c == nil {
		c = clock.NewRealClock()
	}
	return &Verifier{
		secret: secret,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(c.Now),
		),
	}
}

// ParseToken fails closed: any parse, signature, algorithm or expiry problem
// is an error and no partial identity is returned.
func (v *Verifier) ParseToken(tokenString string) (Identity, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, err
	}

	if claims.Subject == "" {
		return Identity{}, ErrMissingSubject
	}

	return Identity{
		UserID:   claims.UserID,
		Username: claims.Subject,
	}, nil
}

func Middleware(verifier *Verifier, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.JWTValidationsTotal.Inc()

			tokenString, err := bearerToken(r)
			if err == nil {
				var identity Identity
				identity, err = verifier.ParseToken(tokenString)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
					return
				}
			}

			reason := failureReason(err)
			metrics.JWTValidationsFailed.WithLabelValues(reason).Inc()
			log.WithFields(r.Context(), logger.Fields{
				"action": "jwt_rejected",
				"reason": reason,
				"path":   r.URL.Path,
			}).Warn("request rejected by auth gate")

			commonhttp.WriteErrorEnvelope(
				w,
				commonerrors.ErrUnauthorized.HTTPStatus(),
				commonerrors.ErrUnauthorized.Code(),
				commonerrors.ErrUnauthorized.Message(),
				nil,
				commonhttp.TraceIDFromContext(r.Context()),
			)
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	raw := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(raw, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return "missing"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "algorithm"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing), errors.Is(err, ErrMissingSubject):
		return "claims"
	default:
		return "malformed"
	}
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
