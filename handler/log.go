package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func requestLogger(req *http.Request, requestID string) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"request_id": requestID,
		"remote":     req.RemoteAddr,
	})
}

func logRequest(entry *logrus.Entry, req *http.Request, status int, started time.Time) {
	entry.Infof("%s -- %s -- %d -- %s", req.Method, req.URL.Path, status, time.Since(started).Round(time.Millisecond))
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Debugf("Error writing response: %v", err)
	}
}

func returnError(w http.ResponseWriter, code int, resp ErrorResponse) {
	body, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, resp.Error, code)
		return
	}
	writeJSON(w, code, body)
}

func logAndReturnError(entry *logrus.Entry, w http.ResponseWriter, httpResponseStr string, code int, consoleStr ...string) {
	// consoleStr is optional.
	if len(consoleStr) > 0 {
		entry.Errorln(consoleStr[0])
	} else {
		entry.Warnln(httpResponseStr)
	}
	returnError(w, code, ErrorResponse{Error: httpResponseStr})
}
