package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"
)

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// kidIDFromRequest reads the kid identity from the `kid` query or form value.
func kidIDFromRequest(r *http.Request) (int64, bool) {
	raw := r.FormValue("kid")
	if raw == "" {
		return 0, false
	}
	kidID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || kidID <= 0 {
		return 0, false
	}
	return kidID, true
}

// pathID parses an int64 path parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
