package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/netprobe/netprobe-ui/internal/apiclient"
	"github.com/netprobe/netprobe-ui/internal/apperrors"
	"github.com/netprobe/netprobe-ui/internal/logger"
	"github.com/netprobe/netprobe-ui/internal/response"
)

// MaxRequestBodySize caps the JSON body forwarded by the ui-api endpoint.
const MaxRequestBodySize = 1 << 20

type HandlerService struct {
	ApiClient *apiclient.Client
}

// LivenessHandler reports that the process is serving requests.
func (h *HandlerService) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// UIAPIHandler forwards /ui-api/<path> to the remote API through the shared client.
//
// The method, query and JSON body of the browser request are passed on unchanged.
// Success returns the upstream payload with the upstream 2xx status. Failures return the upstream status
// (502 when there was no response) and {"error_code": "...", "message": "<normalized message>"}.
func (h *HandlerService) UIAPIHandler(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	path := chi.URLParam(r, "*")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.RespondWithError(w, r, http.StatusRequestEntityTooLarge, apperrors.ErrCodeRequestTooLarge, "request body too large")
			return
		}
		reqLogger.Error("failed to read request body", slog.String("error", err.Error()))
		response.RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest, "failed to read request body")
		return
	}

	req := apiclient.Request{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.Query(),
	}
	if len(body) > 0 {
		if !json.Valid(body) {
			response.RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeMalformedBody, "request body must be valid JSON")
			return
		}
		req.Body = json.RawMessage(body)
	}

	res, err := h.ApiClient.Do(req)
	if err != nil {
		upstreamStatus := 0
		var te *apiclient.TransportError
		if errors.As(err, &te) {
			upstreamStatus = te.StatusCode
		}

		status := http.StatusBadGateway
		if upstreamStatus >= 400 {
			status = upstreamStatus
		}

		logger.ContextWithLogAttrs(r.Context(),
			slog.String("upstream_path", path),
			slog.Int("upstream_status", upstreamStatus),
		)

		message, _ := apiclient.Message(err)
		response.RespondWithError(w, r, status, apperrors.CodeForStatus(upstreamStatus), message)
		return
	}

	response.RespondWithRawJSON(w, res.StatusCode, res.Body)
}
