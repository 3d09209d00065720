package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/rs/cors"
)

// CORS creates a CORS middleware handler for the viewer's GET-only
// surface (/, /public/*, /guide), configured from an environment
// variable so a guide published behind a different origin can still
// load its own viewer's /guide endpoint cross-origin.
func CORS() func(http.Handler) http.Handler {
	allowedOrigins := os.Getenv("CODASAI_CORS_ALLOWED_ORIGINS")
	var origins []string

	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
	} else {
		origins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
		},
		MaxAge: 300,
	})

	return c.Handler
}
