package module

import (
	"dap/internal/core/paging"
	"dap/internal/platform/config"
	"dap/internal/services/catalog/service"
)

// FromConfig reads CATALOG_* values
func FromConfig(cfg config.Conf) service.Options {
	c := cfg.Prefix("CATALOG_")
	return service.Options{
		Page: paging.Options{
			DefaultLimit: c.MayInt("PAGE_DEFAULT", 25),
			MaxLimit:     c.MayInt("PAGE_MAX", 100),
		},
		AtomicChanges: c.MayBool("ATOMIC_CHANGES", false),
	}
}
