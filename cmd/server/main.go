package main

import (
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/mkrench/ratscrew/internal/auth"
	"github.com/mkrench/ratscrew/internal/cache"
	"github.com/mkrench/ratscrew/internal/handlers"
	"github.com/mkrench/ratscrew/internal/middleware"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	auth.Init()
	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("redis unavailable, action history disabled: %v", err)
	}

	srv := handlers.NewServer(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.HandlePing)
	mux.HandleFunc("/ws/{lobby_id}/{player_name}", srv.HandleWS)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Infof("listening on :%s", port)
	if err := http.ListenAndServe(":"+port, middleware.LogMiddleware(logger, mux)); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
