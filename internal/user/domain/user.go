package domain

import (
	"slices"
	"time"
)

const BirthdayLayout = "2006-01-02"

type ID string

type User struct {
	ID             ID
	Username       string
	PasswordHash   string
	Email          string
	Birthday       *time.Time
	FavoriteMovies []string
	CreatedAt      time.Time
}

func (u User) HasFavorite(movieID string) bool {
	return slices.Contains(u.FavoriteMovies, movieID)
}

// ProfileUpdate carries the mutable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Email        *string
	Birthday     *time.Time
	PasswordHash *string
}

func (p ProfileUpdate) Empty() bool {
	return p.Email == nil && p.Birthday == nil && p.PasswordHash == nil
}

// PublicUser is the client-facing document. It has no password field.
type PublicUser struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Birthday       string    `json:"birthday,omitempty"`
	FavoriteMovies []string  `json:"favorite_movies"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u User) Public() PublicUser {
	favorites := u.FavoriteMovies
	if favorites == nil {
		favorites = []string{}
	}

	var birthday string
	if u.Birthday != nil {
		birthday = u.Birthday.Format(BirthdayLayout)
	}

	return PublicUser{
		ID:             string(u.ID),
		Username:       u.Username,
		Email:          u.Email,
		Birthday:       birthday,
		FavoriteMovies: favorites,
		CreatedAt:      u.CreatedAt,
	}
}
