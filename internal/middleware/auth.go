package middleware

import (
	"net/http"

	"bookstore-be/internal/auth"
	"bookstore-be/internal/logger"
	"bookstore-be/internal/user"
	"bookstore-be/internal/utils"

	"go.uber.org/zap"
)

const (
	MsgMissingToken = "Missing bearer token from request header"
	MsgUnauthorized = "User is unauthorized"
)

// AuthMiddleware rejects requests without a valid bearer token signed with
// secret, and puts the token's user into the request context otherwise.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := auth.ExtractAccessToken(r)
			if !ok {
				utils.WriteJSONMessage(w, http.StatusUnauthorized, MsgMissingToken)
				return
			}

			claims, err := user.ParseJWT(secret, tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("rejected bearer token", zap.Error(err))
				utils.WriteJSONMessage(w, http.StatusUnauthorized, MsgUnauthorized)
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
