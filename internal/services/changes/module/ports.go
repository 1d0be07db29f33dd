package module

import "dap/internal/services/changes/domain"

// EntityBinder late binds the entity port once its owner is built
type EntityBinder interface {
	BindEntities(p domain.EntityPort)
}

// Ports is what other modules may consume from changes
type Ports struct {
	Recorder domain.Recorder
	Service  domain.ServicePort
	Binder   EntityBinder
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
