package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"isochrone-map-service/internal/adapters/isochrone"
	"isochrone-map-service/internal/api"
	"isochrone-map-service/internal/config"
	"isochrone-map-service/internal/ratelimit"
	"isochrone-map-service/internal/services"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires the local approximator, the remote providers and the rate
// limiter behind the gateway and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	maxRange := config.GetInt("MAX_RANGE_MINUTES", 60)
	quota := config.GetInt("RATE_LIMIT_MAX_CALLS", 10)
	window := time.Duration(config.GetInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second
	timeout := time.Duration(config.GetInt("PROVIDER_TIMEOUT_SECONDS", 5)) * time.Second

	// Credentials are optional: a provider without one always serves the
	// local approximation instead.
	orsKey := os.Getenv("ORS_API_KEY")
	if strings.TrimSpace(orsKey) == "" {
		log.Println("ORS_API_KEY not set; ors requests will use the local approximation")
	}
	mapboxToken := os.Getenv("MAPBOX_ACCESS_TOKEN")
	if strings.TrimSpace(mapboxToken) == "" {
		log.Println("MAPBOX_ACCESS_TOKEN not set; mapbox requests will use the local approximation")
	}

	local := isochrone.NewLocalProvider()
	limiter := ratelimit.NewSlidingWindow(quota, window)

	gateway := services.NewGateway(
		limiter,
		local,
		isochrone.NewORSProvider(orsKey, timeout, local),
		isochrone.NewMapboxProvider(mapboxToken, timeout, local),
		maxRange,
	)

	router := api.NewRouter(gateway)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
