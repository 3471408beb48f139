package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the campus front ends to call the API from the browser. The
// surface only uses GET/POST/PUT, and credentials stay off since auth rides
// in the Authorization header.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		MaxAge:           600,
		AllowCredentials: false,
	})

	return handler.Handler
}
