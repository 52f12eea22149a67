package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"talentgate/pkg/domerrors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// statusFor maps a domain error code to an HTTP status.
func statusFor(code domerrors.Code) int {
	switch code {
	case domerrors.CodeValidation:
		return http.StatusBadRequest
	case domerrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case domerrors.CodeForbidden:
		return http.StatusForbidden
	case domerrors.CodeNotFound:
		return http.StatusNotFound
	case domerrors.CodeConflict:
		return http.StatusConflict
	case domerrors.CodeInvalidTransition:
		return http.StatusUnprocessableEntity
	case domerrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError renders a coded error. Internal causes are logged, not leaked.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := domerrors.CodeOf(err)
	status := statusFor(code)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal error"
	}
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: string(code), Message: message}})
}
