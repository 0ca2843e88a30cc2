package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore-be/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext(t *testing.T) {
	t.Run("SetUserContext and GetUserIDFromContext", func(t *testing.T) {
		ctx := SetUserContext(context.Background(), 100, "user@example.com")

		id, ok := GetUserIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, int64(100), id)
		assert.Equal(t, "user@example.com", GetUserEmailFromContext(ctx))
	})

	t.Run("GetUserIDFromContext with empty context", func(t *testing.T) {
		_, ok := GetUserIDFromContext(context.Background())
		assert.False(t, ok)
		assert.Equal(t, "", GetUserEmailFromContext(context.Background()))
	})

	t.Run("Plain string key is not the user id", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), contextKey("user_id"), int64(42))
		_, ok := GetUserIDFromContext(ctx)
		assert.False(t, ok)
	})

	t.Run("User id is visible to request logging", func(t *testing.T) {
		ctx := SetUserContext(logger.WithRequestID(context.Background(), "req-7"), 7, "reader@example.com")

		id, ok := logger.UserIDFrom(ctx)
		assert.True(t, ok)
		assert.Equal(t, int64(7), id)
		assert.Equal(t, "req-7", logger.RequestIDFrom(ctx))
	})
}

func TestWriteJSONMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONMessage(w, http.StatusBadRequest, "error message")

	resp := w.Result()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "error message", body["message"])
}

func TestWriteJSONData(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONData(w, http.StatusOK, map[string]string{"token": "abc"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"token":"abc"}}`, w.Body.String())
}
