// Package module is the contract API modules satisfy plus the boot time port registry
package module

import (
	phttp "dap/internal/platform/net/http"
)

// Module is kept apart from modkit so service ports types can import it without a cycle
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
