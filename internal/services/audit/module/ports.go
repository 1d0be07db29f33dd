package module

import "dap/internal/services/audit/domain"

// Ports is what other modules may consume from audit
type Ports struct {
	Sink domain.Sink
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
