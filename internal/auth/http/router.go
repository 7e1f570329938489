package http

import (
	"net/http"
	"time"

	"github.com/AlibekovAA/myflix/internal/auth/service"
	commonhttp "github.com/AlibekovAA/myflix/internal/common/http"
	"github.com/AlibekovAA/myflix/internal/common/logger"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}

type Handler struct {
	auth         *service.AuthService
	errorHandler *commonhttp.ErrorHandler
	log          *logger.Logger
}

func NewHandler(auth *service.AuthService, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:         auth,
		errorHandler: commonhttp.NewErrorHandler(log),
		log:          log,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", h.login)
	return mux
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "login_invalid_json",
		}).Warnf("login failed: invalid json: %v", err)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), service.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Username:  result.Identity.Username,
	})
}
