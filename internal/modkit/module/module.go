// Package module is the contract the api mounts and the lookup modules use to find each other's ports
package module

import (
	phttp "rephraser/internal/platform/net/http"
)

// Module is mounted by the api; Ports is whatever the module offers other modules
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
