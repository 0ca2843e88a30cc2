package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("User already exists.")
	ErrInvalidCredentials = errors.New("Invalid email or password.")

	ErrEmailRequired   = errors.New("Email is required.")
	ErrEmailInvalid    = errors.New("Email is invalid.")
	ErrPasswordMissing = errors.New("Password is required.")
	ErrPasswordShort   = errors.New("Password has to be at least 8 characters long.")
)

// IsValidationError reports whether err is a credential-shape error the
// caller can fix by resubmitting.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmailRequired) ||
		errors.Is(err, ErrEmailInvalid) ||
		errors.Is(err, ErrPasswordMissing) ||
		errors.Is(err, ErrPasswordShort)
}
