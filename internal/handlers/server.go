package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/mkrench/ratscrew/internal/service"
	"github.com/mkrench/ratscrew/internal/ws"
)

// Server bundles the dependencies shared by all HTTP and websocket handlers.
type Server struct {
	Logger   *logrus.Logger
	Service  *service.GameService
	Registry *ws.Registry
}

func NewServer(logger *logrus.Logger) *Server {
	return &Server{
		Logger:   logger,
		Service:  service.New(logger),
		Registry: ws.NewRegistry(logger),
	}
}

// HandlePing is a health endpoint clients hit before opening a socket.
func (s *Server) HandlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "ERS Game Server"})
}
