package http

import "net/http"

// Handler is the handler type modules register
type Handler = func(http.ResponseWriter, *http.Request)

// Router is what modules mount their routes on
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Method(method, path string, h Handler)

	Handle(pattern string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Route(prefix string, fn func(Router))

	// Mux is the handler serving this router's routes
	Mux() http.Handler
}
