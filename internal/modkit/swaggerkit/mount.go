// Package swaggerkit serves the api docs and the ui that renders them
package swaggerkit

import (
	"net/http"

	phttp "rephraser/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Options controls the docs routes
type Options struct {
	Enabled bool
	// BasePath is the server url written into the spec, /api/v1 when empty
	BasePath    string
	TitleSuffix string
}

func (o Options) basePath() string {
	if o.BasePath == "" {
		return "/api/v1"
	}
	return o.BasePath
}

// Mount serves the ui under /api/docs/ and the spec at /api/docs/doc.json
func Mount(r phttp.Router, o Options) {
	if !o.Enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(o))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
