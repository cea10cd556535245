package api

import (
	"net/http"

	"isochrone-map-service/internal/api/handlers"
	"isochrone-map-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(gateway *services.Gateway) http.Handler {
	mux := http.NewServeMux()

	isoHandler := &handlers.IsochroneHandler{Gateway: gateway}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/isochrones", isoHandler.Isochrones)

	return requestIDMiddleware(loggingMiddleware(mux))
}
