package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer so
// websocket upgrades can hijack the connection.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// LogMiddleware logs each HTTP request with its method, path, status and duration.
func LogMiddleware(logger *logrus.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
			"remote":   r.RemoteAddr,
		}).Info("http request")
	})
}

// LogWebSocketConnect logs a successful websocket upgrade for a lobby.
func LogWebSocketConnect(logger *logrus.Logger, lobbyID, player string) {
	logger.WithFields(logrus.Fields{
		"lobby_id": lobbyID,
		"player":   player,
	}).Info("websocket connected")
}

// LogWebSocketDisconnect logs a websocket teardown for a lobby.
func LogWebSocketDisconnect(logger *logrus.Logger, lobbyID, player string, err error) {
	fields := logrus.Fields{
		"lobby_id": lobbyID,
		"player":   player,
	}
	if err != nil {
		fields["reason"] = err.Error()
	}
	logger.WithFields(fields).Info("websocket disconnected")
}
