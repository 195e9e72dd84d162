package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"

	"github.com/cardforge/cardforge/internal/config"
	"github.com/cardforge/cardforge/internal/pdfsource"
	"github.com/cardforge/cardforge/internal/server"
	"github.com/cardforge/cardforge/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	flag.Parse()

	log := logger.New(logger.WithPrefix("[cardforge-server] "))
	log.SetVerbose(*verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatal("Error loading config: %v", err)
		}
		cfg = config.Default()
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	extractor := pdfsource.NewExtractor(cfg.Limits.MaxPDFBytes, log)
	srv := server.New(extractor, cfg, log)

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handlers.LoggingHandler(os.Stdout, cors(srv.Router())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Listening on %s", cfg.Server.Addr)
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatal("Server error: %v", err)
	}
}
