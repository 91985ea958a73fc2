package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/openequity/rsutax/backend/internal/config"
	"github.com/openequity/rsutax/backend/internal/pricing"
	"github.com/openequity/rsutax/backend/internal/service"
	"github.com/openequity/rsutax/backend/internal/store"
)

func main() {
	cfg := config.Load()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.Pretty {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Market data collaborators behind a shared TTL cache.
	market := pricing.NewService(
		pricing.NewYahooClient(log),
		pricing.NewExchangeRateClient(log),
		cfg.MarketCacheTTL,
		log,
	)

	// Scenarios are session-scoped; the in-memory store is the only backend.
	calculator := service.New(store.NewMemoryStore(), market, log)

	mux := chi.NewRouter()
	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Mount("/", calculator.Routes())

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"User-Agent",
		},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: h2c.NewHandler(c.Handler(mux), &http2.Server{}),
	}

	log.Info().Str("port", cfg.Port).Msg("Starting RSU tax calculator server")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
