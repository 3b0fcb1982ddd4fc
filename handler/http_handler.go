package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"genreserver/backend"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

// Pool limits how many inference calls run at the same time.
type Pool interface {
	Acquire(ctx context.Context) (func(), error)
}

// HTTPHandler serves POST /infer-genre.
type HTTPHandler struct {
	Inferrer backend.Inferrer
	Pool     Pool
	// Debug adds the collaborator's error text to 500 responses.
	Debug bool
}

// NewHTTPHandler creates a new instance of HTTPHandler. pool may be nil.
func NewHTTPHandler(inferrer backend.Inferrer, pool Pool, debug bool) *HTTPHandler {
	return &HTTPHandler{
		Inferrer: inferrer,
		Pool:     pool,
		Debug:    debug,
	}
}

// ServeHTTP implements the http.Handler interface for HTTPHandler.
func (h *HTTPHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	started := time.Now()

	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	rw.Header().Set(requestIDHeader, requestID)
	entry := requestLogger(r, requestID)

	w := &statusRecorder{ResponseWriter: rw}
	if h.serve(w, r, entry) {
		logRequest(entry, r, w.status, started)
	}
}

// serve reports whether a response was written.
func (h *HTTPHandler) serve(w http.ResponseWriter, r *http.Request, entry *logrus.Entry) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		logAndReturnError(entry, w, msgMethodNotAllowed, http.StatusMethodNotAllowed)
		return true
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logAndReturnError(entry, w, msgInvalidJSON, http.StatusBadRequest, "Error reading body: "+err.Error())
		return true
	}

	filePath, err := parseFilePath(body)
	if err != nil {
		logAndReturnError(entry, w, err.Error(), http.StatusBadRequest)
		return true
	}
	entry = entry.WithField("file_path", filePath)

	ctx := r.Context()
	if h.Pool != nil {
		release, err := h.Pool.Acquire(ctx)
		if err != nil {
			entry.Debugf("Client disconnected while waiting for an inference slot: %v", err)
			return false
		}
		defer release()
	}

	result, err := h.Inferrer.InferGenre(ctx, filePath)
	if err != nil {
		if ctx.Err() != nil {
			entry.Debugf("Client disconnected during inference: %v", err)
			return false
		}
		entry.Errorf("Genre inference failed: %v", err)
		resp := ErrorResponse{Error: msgInternalError}
		if h.Debug {
			resp.Details = err.Error()
		}
		returnError(w, http.StatusInternalServerError, resp)
		return true
	}

	writeJSON(w, http.StatusOK, result)
	return true
}
