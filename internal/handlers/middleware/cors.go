package middleware

import "net/http"

// CORSMiddleware answers preflight requests and stamps permissive CORS
// headers so browser clients can call the API from any origin
func CORSMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
