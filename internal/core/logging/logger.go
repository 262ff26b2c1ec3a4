// Package logging holds zerolog helpers shared by curator components.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger tagged with a component name under the "cmp" key.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// Scoped creates a component logger carrying additional string pairs.
// A trailing key without a value is ignored.
func Scoped(name string, kv ...string) zerolog.Logger {
	c := log.With().Str("cmp", name)
	for i := 0; i+1 < len(kv); i += 2 {
		c = c.Str(kv[i], kv[i+1])
	}
	return c.Logger()
}
