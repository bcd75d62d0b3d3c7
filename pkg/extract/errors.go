package extract

import "fmt"

// ExtractionError reports a document that could not be normalized into
// text. It is recovered at the upload boundary and never propagates into
// the parsing pipeline.
type ExtractionError struct {
	Filename     string
	DeclaredType DeclaredType
	Message      string
	Cause        error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("extraction error [file=%s, type=%s]: %s", e.Filename, e.DeclaredType, e.Message)
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error.
func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(filename string, declaredType DeclaredType, message string, cause error) *ExtractionError {
	return &ExtractionError{
		Filename:     filename,
		DeclaredType: declaredType,
		Message:      message,
		Cause:        cause,
	}
}
