package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlibekovAA/myflix/internal/catalog/domain"
	catalogrepo "github.com/AlibekovAA/myflix/internal/catalog/repository"
	"github.com/AlibekovAA/myflix/internal/catalog/service"
	commonerrors "github.com/AlibekovAA/myflix/internal/common/errors"
	commonhttp "github.com/AlibekovAA/myflix/internal/common/http"
	"github.com/AlibekovAA/myflix/internal/common/jwtverify"
	"github.com/AlibekovAA/myflix/internal/common/logger"
)

type stubRepo struct{}

func (stubRepo) ListMovies(context.Context) ([]domain.Movie, error) {
	return []domain.Movie{{ID: "m1", Title: "Alien"}}, nil
}

func (stubRepo) FindMovieByTitle(_ context.Context, title string) (domain.Movie, error) {
	if title == "Alien" {
		return domain.Movie{ID: "m1", Title: "Alien"}, nil
	}
	return domain.Movie{}, catalogrepo.ErrMovieNotFound
}

func (stubRepo) FindGenre(_ context.Context, name string) (domain.Genre, error) {
	return domain.Genre{Name: name, Description: "desc"}, nil
}

func (stubRepo) FindDirector(_ context.Context, name string) (domain.Director, error) {
	return domain.Director{Name: name}, nil
}

// allowGate stands in for the JWT middleware.
func allowGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			commonhttp.WriteError(w, http.StatusUnauthorized, commonerrors.ErrUnauthorized.Code(), "unauthorized")
			return
		}
		ctx := jwtverify.WithIdentity(r.Context(), jwtverify.Identity{Username: "alice"})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func setupHandler() http.Handler {
	log := logger.NewWithWriter(io.Discard, "catalog-http-test", "ERROR")
	return NewHandler(service.NewCatalogService(stubRepo{}, nil, log), allowGate, log)
}

func TestCatalogRoutes(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		auth       bool
		wantStatus int
	}{
		{name: "movies", path: "/movies", auth: true, wantStatus: http.StatusOK},
		{name: "movie by title", path: "/movies/Alien", auth: true, wantStatus: http.StatusOK},
		{name: "unknown movie", path: "/movies/Nope", auth: true, wantStatus: http.StatusNotFound},
		{name: "genre", path: "/genres/Drama", auth: true, wantStatus: http.StatusOK},
		{name: "director", path: "/directors/Ridley%20Scott", auth: true, wantStatus: http.StatusOK},
		{name: "director alias", path: "/director/Ridley%20Scott", auth: true, wantStatus: http.StatusOK},
		{name: "gated", path: "/movies", auth: false, wantStatus: http.StatusUnauthorized},
	}

	h := setupHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.auth {
				req.Header.Set("Authorization", "Bearer test")
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestDirectorRoute_DecodesName(t *testing.T) {
	h := setupHandler()
	req := httptest.NewRequest(http.MethodGet, "/directors/Ridley%20Scott", nil)
	req.Header.Set("Authorization", "Bearer test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var director domain.Director
	if err := json.NewDecoder(rec.Body).Decode(&director); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if director.Name != "Ridley Scott" {
		t.Errorf("expected decoded name, got %q", director.Name)
	}
}
