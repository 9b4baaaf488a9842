package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// devOrigins are the local frontend dev servers allowed outside production
var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// CORS returns a credentialed CORS middleware for the given origins
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// FrontendCORS allows the comma separated origins in frontendURL. Local dev
// servers are added unless production is set.
func FrontendCORS(frontendURL string, production bool) func(http.Handler) http.Handler {
	return CORS(AllowedOrigins(frontendURL, production))
}

// AllowedOrigins expands the configured frontend origins
func AllowedOrigins(frontendURL string, production bool) []string {
	seen := make(map[string]bool)
	var origins []string
	add := func(o string) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			return
		}
		seen[o] = true
		origins = append(origins, o)
	}

	for _, o := range strings.Split(frontendURL, ",") {
		add(o)
	}
	if !production {
		for _, o := range devOrigins {
			add(o)
		}
	}
	return origins
}
