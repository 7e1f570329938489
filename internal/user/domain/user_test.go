package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestPublic_OmitsPasswordHash(t *testing.T) {
	birthday := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)
	u := User{
		ID:           "id-1",
		Username:     "alice",
		PasswordHash: "$2a$12$secretdigest",
		Email:        "alice@example.com",
		Birthday:     &birthday,
	}

	body, err := json.Marshal(u.Public())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if strings.Contains(string(body), "secretdigest") || strings.Contains(string(body), "password") {
		t.Errorf("public document leaks password data: %s", body)
	}
	if !strings.Contains(string(body), `"birthday":"1990-04-12"`) {
		t.Errorf("expected formatted birthday in %s", body)
	}
	if !strings.Contains(string(body), `"favorite_movies":[]`) {
		t.Errorf("expected empty favorites array in %s", body)
	}
}

func TestHasFavorite(t *testing.T) {
	u := User{FavoriteMovies: []string{"m1", "m2"}}
	if !u.HasFavorite("m2") || u.HasFavorite("m3") {
		t.Error("unexpected membership result")
	}
}
