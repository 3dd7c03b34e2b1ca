package httpkit

import (
	"errors"
	"net/http"

	apperrors "pptgen/internal/pkg/errors"
)

// WriteAppErr writes a coded application error with its mapped HTTP status.
// Non-coded errors fall back to a generic 500 envelope.
func WriteAppErr(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := apperrors.GetHTTPStatus(err)

	msg := err.Error()
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	var details map[string]any
	if fields := apperrors.GetFields(err); len(fields) > 0 {
		details = fields
	}

	WriteErr(w, status, string(code), msg, details)
}
