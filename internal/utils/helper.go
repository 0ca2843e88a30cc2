package utils

import (
	"encoding/json"
	"net/http"

	"bookstore-be/internal/logger"

	"go.uber.org/zap"
)

type messageBody struct {
	Message string `json:"message"`
}

type dataBody struct {
	Data any `json:"data"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L().Error("failed to encode response", zap.Error(err))
	}
}

// WriteJSONData writes {"data": v}.
func WriteJSONData(w http.ResponseWriter, code int, v any) {
	WriteJSON(w, code, dataBody{Data: v})
}

// WriteJSONMessage writes {"message": message}. It is used for errors and
// for responses that carry no data.
func WriteJSONMessage(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, messageBody{Message: message})
}
