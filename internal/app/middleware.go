package app

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/schoolcal/schoolcal/internal/config"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Request logging and cache control. API responses must never be cached:
	// the row set is replaced wholesale in the background and clients poll it.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			log.Debugf("%s %s", req.Method, req.URL.Path)

			if strings.HasPrefix(req.URL.Path, "/api/") {
				w.Header().Set("Cache-Control", "no-store")
			}
			next.ServeHTTP(w, req)
		})
	})
}
