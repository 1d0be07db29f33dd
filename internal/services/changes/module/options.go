package module

import (
	"dap/internal/platform/config"
	"dap/internal/services/changes/service"
)

// FromConfig reads CHANGES_* values
func FromConfig(cfg config.Conf) service.Options {
	c := cfg.Prefix("CHANGES_")
	return service.Options{
		ListDefault: c.MayInt("LIST_DEFAULT", 50),
		ListMax:     c.MayInt("LIST_MAX", 200),
	}
}
