package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes. The admin subrouter is
// protected by the API-key middleware when a key is configured.
func SetupRoutes(handler *Handler, apiKey string) *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Price series routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/quote/{symbol}", handler.GetQuote).Methods("GET")
	api.HandleFunc("/chart/{symbol}", handler.GetChart).Methods("GET")
	api.HandleFunc("/candles/{symbol}", handler.GetCandles).Methods("GET")
	api.HandleFunc("/simulate/{symbol}", handler.GetSimulated).Methods("GET")
	api.HandleFunc("/intraday/{symbol}/{date}", handler.GetIntraday).Methods("GET")

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware(apiKey))
	admin.HandleFunc("/random-prices", handler.GetRandomPrices).Methods("GET")
	admin.HandleFunc("/random-prices", handler.SetRandomPrices).Methods("POST")

	return r
}
