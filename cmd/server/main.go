package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/veilbox/veilbox/internal/api"
	"github.com/veilbox/veilbox/internal/api/handlers"
	"github.com/veilbox/veilbox/internal/api/services"
	"github.com/veilbox/veilbox/internal/config"
	"github.com/veilbox/veilbox/internal/repositories"
)

func main() {
	cfg := config.Load()

	db, err := repositories.Connect(cfg.DB_URL)
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Successfully connected to database")

	users := repositories.NewUserStore(db)
	sessionRows := repositories.NewSessionStore(db)

	isProd := cfg.Environment == "production"
	sessions := services.NewSessionManager(sessionRows, users, cfg.SessionTTL, isProd)
	local := services.NewLocalAuth(users)
	google := services.NewGoogleAuth(cfg.Google, users)

	h := handlers.New(local, google, sessions, users, isProd)
	router := api.NewRouter(h, sessions, cfg.CorsConfig)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting Veilbox server on port: %s", cfg.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", cfg.Port, err)
	}
}
