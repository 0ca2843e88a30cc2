package user

import "time"

// User is an account. Password holds the bcrypt hash, never plaintext.
type User struct {
	ID        int64
	Email     string
	Password  string
	CreatedAt time.Time
}
