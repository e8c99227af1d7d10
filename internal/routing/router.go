// internal/routing/router.go
//
// Router assembly.
//
// Build produces the portal's single chi router: the shared middleware
// chain first, then every registered component's routes, then ops modules
// and the Prometheus scrape endpoint.  Any path no component claims is redirected
// to the landing page rather than 404'd, so stale bookmarks and mistyped
// URLs land somewhere useful.

package routing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nwatch/portal/internal/component"
	"github.com/nwatch/portal/internal/module"
)

// Build assembles the router.  The caller supplies the shared middleware
// chain (session attach, request enrichment, security headers, and any
// optional layers) already ordered.
func Build(mws ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	for _, mw := range mws {
		r.Use(mw)
	}

	for _, c := range component.All() {
		c.Routes(r)
	}

	for path, h := range module.All() {
		r.Get(path, h)
	}

	r.Handle("/metrics", promhttp.Handler())

	// Unknown paths fall back to the landing page.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/", http.StatusSeeOther)
	})

	return r
}
