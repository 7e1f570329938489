package service

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AlibekovAA/myflix/internal/common/constants"
	commonerrors "github.com/AlibekovAA/myflix/internal/common/errors"
	"github.com/AlibekovAA/myflix/internal/user/domain"
)

type RegisterInput struct {
	Username string `validate:"required,min=5,max=64,alphanum"`
	Password string `validate:"required,password_bytes"`
	Email    string `validate:"required,email"`
	Birthday string `validate:"omitempty,datetime=2006-01-02"`
}

type UpdateProfileInput struct {
	Email    *string `validate:"omitempty,email"`
	Password *string `validate:"omitempty,min=1,password_bytes"`
	Birthday *string `validate:"omitempty,datetime=2006-01-02"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// bcrypt reads at most 72 bytes; max= would count runes.
	_ = v.RegisterValidation("password_bytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= constants.PasswordMaxBytes
	})
	return v
}

func validateInput(input any) error {
	if err := validate.Struct(input); err != nil {
		return commonerrors.ErrValidation.WithCause(err)
	}
	return nil
}

func parseBirthday(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.BirthdayLayout, value)
	if err != nil {
		return nil, commonerrors.ErrValidation.WithCause(err)
	}
	return &t, nil
}
