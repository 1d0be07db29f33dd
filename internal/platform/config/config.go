// Package config reads typed settings from prefixed environment variables
// required values panic through the logger, optional ones fall back to a default and warn when malformed
package config

import (
	"strconv"
	"strings"
	"time"

	"dap/internal/platform/config/raw"
	"dap/internal/platform/logger"
)

// Conf is a prefixed view, e.g. New().Prefix("SERVICE_PGSQL_")
type Conf struct{ env raw.Conf }

func New() Conf { return Conf{env: raw.New()} }

// Prefix nests p under the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{env: c.env.Prefix(p)} }

// MustString panics when key is unset or blank
func (c Conf) MustString(key string) string {
	v, ok := c.env.Lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.env.Key(key)).Msg("missing required env")
	}
	return v
}

func (c Conf) MayString(key, def string) string { return c.env.Get(key, def) }

func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration parses Go duration syntax, e.g. 250ms or 2s
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayCSV splits a comma separated list and drops blank items
func (c Conf) MayCSV(key string, def []string) []string {
	return may(c, key, def, func(s string) ([]string, error) {
		var out []string
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		if len(out) == 0 {
			return def, nil
		}
		return out, nil
	})
}

func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s, ok := c.env.Lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().
			Str("key", c.env.Key(key)).
			Str("value", s).
			Interface("default", def).
			Msg("invalid env value, using default")
		return def
	}
	return v
}
