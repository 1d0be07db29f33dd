package modkit

import (
	"net/http"
	"strings"

	"dap/internal/modkit/httpkit"
)

// Option adjusts a Base before the module finishes construction
type Option func(*Base)

// WithName overrides the registry name
func WithName(name string) Option { return func(b *Base) { b.name = name } }

// WithPrefix overrides the route prefix, "" mounts at the api root
func WithPrefix(prefix string) Option { return func(b *Base) { b.prefix = prefix } }

// WithMiddlewares runs mw on the module's routes only
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Base) { b.mw = append(b.mw, mw...) }
}

// WithPorts hands the module the ports it consumes from others, read back with NeedsOf
func WithPorts[T any](p T) Option { return func(b *Base) { b.needs = p } }

// WithRoutes registers extra routes next to the module's own
func WithRoutes(fn func(httpkit.Router)) Option {
	return func(b *Base) { b.extra = append(b.extra, fn) }
}

// Base carries the built options, modules embed it for Name and MountRoutes
type Base struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler
	needs  any
	routes func(httpkit.Router)
	extra  []func(httpkit.Router)
}

// Build applies opts over the defaults, it panics on an empty name
func Build(name, prefix string, opts ...Option) Base {
	b := Base{name: name, prefix: prefix}
	for _, o := range opts {
		o(&b)
	}
	if strings.TrimSpace(b.name) == "" {
		panic("modkit: module name is required")
	}
	if p := strings.Trim(b.prefix, " /"); p != "" {
		b.prefix = "/" + p
	} else {
		b.prefix = ""
	}
	return b
}

// NeedsOf returns the ports passed with WithPorts, zero when none or of another type
func NeedsOf[T any](b Base) T {
	v, _ := b.needs.(T)
	return v
}

func (b Base) Name() string   { return b.name }
func (b Base) Prefix() string { return b.prefix }

// Routes sets the module's own route registration
func (b *Base) Routes(fn func(httpkit.Router)) { b.routes = fn }

// MountRoutes registers the module under its prefix, or in a group when it has none
func (b Base) MountRoutes(r httpkit.Router) {
	mount := func(rr httpkit.Router) {
		if len(b.mw) > 0 {
			rr.Use(b.mw...)
		}
		if b.routes != nil {
			b.routes(rr)
		}
		for _, fn := range b.extra {
			fn(rr)
		}
	}
	if b.prefix == "" {
		r.Group(mount)
		return
	}
	r.Route(b.prefix, mount)
}
