package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"sentra-labs/sentra/pkg/extract"
	"sentra-labs/sentra/pkg/governance"
	"sentra-labs/sentra/pkg/policy/manager"
)

// PolicyUploader is the interface for publishing policy documents.
type PolicyUploader interface {
	Upload(ctx context.Context, content []byte, filename string, declaredType extract.DeclaredType) (*manager.UploadResult, error)
}

// Decider is the interface for evaluating action requests.
type Decider interface {
	Decide(ctx context.Context, userID, action string, parameters map[string]any) (*governance.Decision, error)
}

// errorBody is the JSON error envelope for all API errors.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes the standard error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}
