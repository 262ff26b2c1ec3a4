package logging

import (
	"github.com/rs/zerolog"
)

// ContextHook copies the request id and field stored by WithRequestID and
// WithField onto events logged with .Ctx(ctx).
type ContextHook struct{}

// Run implements zerolog.Hook.
func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}
	if id := GetRequestID(ctx); id != "" {
		e.Str("request_id", id)
	}
	if f := GetField(ctx); f != "" {
		e.Str("field", f)
	}
}
