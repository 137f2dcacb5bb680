package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is returned by local form checks. Requests that fail them
// are never sent.
var ErrInvalidInput = errors.New("invalid input")

type loginForm struct {
	Username string `label:"username" validate:"required"`
	Password string `label:"password" validate:"required"`
}

type registrationForm struct {
	Username string `label:"username" validate:"required,min=3,max=20"`
	Email    string `label:"email" validate:"required,email"`
	Password string `label:"password" validate:"required,min=6,max=50"`
	Confirm  string `label:"password confirmation" validate:"eqfield=Password"`
}

type profileForm struct {
	Username string `label:"username" validate:"required,min=3,max=20"`
	Email    string `label:"email" validate:"omitempty,email"`
}

type passwordChangeForm struct {
	OldPassword string `label:"current password" validate:"required"`
	NewPassword string `label:"new password" validate:"required,min=6,max=20"`
	Confirm     string `label:"password confirmation" validate:"eqfield=NewPassword"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// check validates form and reports the first failing field as ErrInvalidInput.
func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, fieldMessage(fields[0]))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%q is not a valid email address", fe.Value())
	case "eqfield":
		return "passwords do not match"
	default:
		return fe.Field() + " is invalid"
	}
}

func ValidateLogin(username, password string) error {
	return check(loginForm{Username: strings.TrimSpace(username), Password: password})
}

func ValidateRegistration(username, email, password, confirm string) error {
	return check(registrationForm{Username: username, Email: email, Password: password, Confirm: confirm})
}

func ValidateProfile(username, email string) error {
	return check(profileForm{Username: username, Email: email})
}

func ValidatePasswordChange(oldPassword, newPassword, confirm string) error {
	return check(passwordChangeForm{OldPassword: oldPassword, NewPassword: newPassword, Confirm: confirm})
}
