package module

import (
	"dap/internal/services/catalog/domain"
	changesdom "dap/internal/services/changes/domain"
)

// Ports is what other modules may consume from the catalog
type Ports struct {
	Entities changesdom.EntityPort
	Service  domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
