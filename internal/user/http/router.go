package http

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/myflix/internal/common/errors"
	commonhttp "github.com/AlibekovAA/myflix/internal/common/http"
	"github.com/AlibekovAA/myflix/internal/common/jwtverify"
	"github.com/AlibekovAA/myflix/internal/common/logger"
	"github.com/AlibekovAA/myflix/internal/user/domain"
	"github.com/AlibekovAA/myflix/internal/user/service"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Birthday string `json:"birthday"`
}

type updateRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
	Birthday *string `json:"birthday"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	users        *service.UserService
	errorHandler *commonhttp.ErrorHandler
	log          *logger.Logger
}

// NewHandler mounts the account and favorites routes. Everything except
// registration sits behind gate.
func NewHandler(users *service.UserService, gate func(http.Handler) http.Handler, log *logger.Logger) http.Handler {
	h := &Handler{
		users:        users,
		errorHandler: commonhttp.NewErrorHandler(log),
		log:          log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users", h.register)
	mux.Handle("GET /users", gate(http.HandlerFunc(h.list)))
	mux.Handle("GET /users/{username}", gate(http.HandlerFunc(h.get)))
	mux.Handle("PUT /users/{username}", gate(http.HandlerFunc(h.update)))
	mux.Handle("DELETE /users/{username}", gate(http.HandlerFunc(h.delete)))
	mux.Handle("POST /users/{username}/movies/{movieID}", gate(http.HandlerFunc(h.addFavorite)))
	mux.Handle("DELETE /users/{username}/movies/{movieID}", gate(http.HandlerFunc(h.removeFavorite)))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Birthday: req.Birthday,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, user.Public())
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	out := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), r.PathValue("username"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, user.Public())
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	username := r.PathValue("username")
	if req.Username != nil && *req.Username != username {
		h.errorHandler.HandleError(w, r, commonerrors.ErrValidation)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), caller, username, service.UpdateProfileInput{
		Email:    req.Email,
		Password: req.Password,
		Birthday: req.Birthday,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, user.Public())
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	username := r.PathValue("username")
	if err := h.users.Delete(r.Context(), caller, username); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, messageResponse{Message: username + " was deleted"})
}

func (h *Handler) addFavorite(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	user, err := h.users.AddFavorite(r.Context(), caller, r.PathValue("username"), r.PathValue("movieID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, user.Public())
}

func (h *Handler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	user, err := h.users.RemoveFavorite(r.Context(), caller, r.PathValue("username"), r.PathValue("movieID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, user.Public())
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (jwtverify.Identity, bool) {
	identity, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, commonerrors.ErrUnauthorized)
		return jwtverify.Identity{}, false
	}
	return identity, true
}
