package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/netprobe/netprobe-ui/internal/apperrors"
	"github.com/netprobe/netprobe-ui/internal/logger"
)

type ErrorResponse struct {
	StatusCode int                 `json:"-"`
	ErrorCode  apperrors.ErrorCode `json:"error_code"`
	Message    string              `json:"message"`
}

// RespondWithError writes a json response containing an error code and message and adds both to the request log.
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, errorCode apperrors.ErrorCode, message string) {
	logger.ContextWithLogAttrs(r.Context(),
		slog.String("error_code", string(errorCode)),
		slog.String("error_message", message),
	)

	errResponse := ErrorResponse{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}

	dat, err := json.Marshal(errResponse)
	if err != nil {
		logger.ContextRequestLogger(r.Context()).Error("error marshaling error response", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error_code":"internal_error","message":"Internal Server Error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(dat)
}

// RespondWithRawJSON writes a payload that is already encoded. An empty payload is written without a content type.
func RespondWithRawJSON(w http.ResponseWriter, status int, payload json.RawMessage) {
	if status == http.StatusNoContent || len(payload) == 0 {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
