package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func NewRouter(h *Handler, metrics *Metrics, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(RequestID, Logging)
	if metrics != nil {
		r.Use(metrics.Instrument)
		r.Handle("/metrics", metrics.Handler()).Methods("GET")
	}
	h.RegisterRoutes(r)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return c.Handler(r)
}
