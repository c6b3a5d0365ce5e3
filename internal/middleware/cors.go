package middleware

import (
	"net/http"
)

type corsMiddleware struct {
	origin string
}

// NewCORSMiddleware allows credentialed requests from a single origin.
func NewCORSMiddleware(origin string) *corsMiddleware {
	return &corsMiddleware{origin: origin}
}

func (m *corsMiddleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", m.origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
