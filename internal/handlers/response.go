package handlers

import (
	"encoding/json"
	"net/http"
	"tasksAPI/internal/logger"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func responseWithJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("HTTP: failed to write response", err)
	}
}

// responseWithFields writes a JSON object built from the payloads.
func responseWithFields(w http.ResponseWriter, code int, payload ...Payload) {
	storage := make(map[string]any, len(payload))
	for _, pl := range payload {
		storage[pl.Key] = pl.Payload
	}
	responseWithJSON(w, code, storage)
}

func responseWithError(w http.ResponseWriter, code int, errCode, message string) {
	responseWithFields(w, code,
		toPayload("error", errCode),
		toPayload("message", message),
	)
}

func responseNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
