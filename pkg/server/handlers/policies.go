package handlers

import (
	"io"
	"net/http"

	"sentra-labs/sentra/pkg/extract"
)

// PolicyHandler accepts policy document uploads and publishes the
// resulting rule set.
type PolicyHandler struct {
	uploader PolicyUploader
	maxBytes int64
}

// NewPolicyHandler creates a new policy upload handler. maxBytes bounds
// the request body; zero disables the bound.
func NewPolicyHandler(uploader PolicyUploader, maxBytes int64) *PolicyHandler {
	return &PolicyHandler{uploader: uploader, maxBytes: maxBytes}
}

// ServeHTTP handles POST /v1/policies. The request body is the document
// content; filename and declared type come from query parameters.
//
// A document rejected at the extraction boundary yields 422 with the
// upload result carrying the diagnostic; nothing is published. A
// successful publish yields 201 with the rule summary.
func (h *PolicyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "upload.txt"
	}

	declaredType := extract.DeclaredType(r.URL.Query().Get("type"))
	if declaredType == "" {
		declaredType = extract.TypeText
	}

	body := r.Body
	if h.maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	content, err := io.ReadAll(body)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body exceeds the document size limit")
		return
	}

	result, err := h.uploader.Upload(r.Context(), content, filename, declaredType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upload_failed", err.Error())
		return
	}

	if result.RuleSetID == "" {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
