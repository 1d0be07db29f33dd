package module

import "dap/internal/services/actors/domain"

// Ports is what other modules may consume from actors
type Ports struct {
	Directory domain.Directory
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
