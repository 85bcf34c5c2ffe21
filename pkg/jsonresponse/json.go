package jsonresponse

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

var (
	ErrInvalidInput  = errors.New("invalid input provided")
	ErrUpstream      = errors.New("upstream data unavailable")
	ErrInternalError = errors.New("internal server error")
)

type AppError struct {
	Code    int    `json:"-"`     // HTTP status code
	Message string `json:"error"` // user-facing message
	Err     error  `json:"-"`     // internal cause, logged only
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError attaches a user-facing message and status code to err.
func WrapError(err error, message string, code int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WriteResponse sends data as JSON with the given status code.
// Optional headers are set before the status line is written.
func WriteResponse(w http.ResponseWriter, statusCode int, data any, headers ...map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header().Set(key, value)
		}
	}

	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteError maps err to a JSON error body. Errors that are not an
// *AppError become a 500 without leaking the cause.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *AppError

	if errors.As(err, &appErr) {
		slog.Warn("Error handling request", slog.Any("error", appErr.Err), slog.String("message", appErr.Message))
		WriteResponse(w, appErr.Code, map[string]string{"error": appErr.Message})
		return
	}

	slog.Error("Unknown error occurred", slog.Any("error", err))
	internal := WrapError(ErrInternalError, "Internal Server Error", http.StatusInternalServerError)
	WriteResponse(w, internal.Code, map[string]string{"error": internal.Message})
}
