package http

import (
	"net/http"

	"github.com/AlibekovAA/myflix/internal/catalog/service"
	commonhttp "github.com/AlibekovAA/myflix/internal/common/http"
	"github.com/AlibekovAA/myflix/internal/common/logger"
)

type Handler struct {
	catalog      *service.CatalogService
	errorHandler *commonhttp.ErrorHandler
}

func NewHandler(catalog *service.CatalogService, gate func(http.Handler) http.Handler, log *logger.Logger) http.Handler {
	h := &Handler{
		catalog:      catalog,
		errorHandler: commonhttp.NewErrorHandler(log),
	}

	mux := http.NewServeMux()
	mux.Handle("GET /movies", gate(http.HandlerFunc(h.listMovies)))
	mux.Handle("GET /movies/{title}", gate(http.HandlerFunc(h.movie)))
	mux.Handle("GET /genres/{name}", gate(http.HandlerFunc(h.genre)))
	mux.Handle("GET /directors/{name}", gate(http.HandlerFunc(h.director)))
	mux.Handle("GET /director/{name}", gate(http.HandlerFunc(h.director)))
	return mux
}

func (h *Handler) listMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.ListMovies(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, movies)
}

func (h *Handler) movie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.catalog.MovieByTitle(r.Context(), r.PathValue("title"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, movie)
}

func (h *Handler) genre(w http.ResponseWriter, r *http.Request) {
	genre, err := h.catalog.Genre(r.Context(), r.PathValue("name"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, genre)
}

func (h *Handler) director(w http.ResponseWriter, r *http.Request) {
	director, err := h.catalog.Director(r.Context(), r.PathValue("name"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, director)
}
