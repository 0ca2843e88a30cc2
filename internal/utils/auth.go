package utils

import (
	"context"

	"bookstore-be/internal/logger"
)

// SetUserContext sets the authenticated user into context (called by middleware)
func SetUserContext(ctx context.Context, id int64, email string) context.Context {
	ctx = logger.WithUserID(ctx, id)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	return ctx
}

// GetUserIDFromContext retrieves userID safely
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	return logger.UserIDFrom(ctx)
}

func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}
