package observe

import (
	"context"
	"log/slog"

	"github.com/vk/wireflow/internal/ctxlog"
)

// SlogObserver emits events through the context's slog.Logger. The event
// type becomes the log message, and Data keys are flattened as attributes.
type SlogObserver struct{}

// NewSlogObserver creates a SlogObserver.
func NewSlogObserver() *SlogObserver {
	return &SlogObserver{}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	attrs := make([]slog.Attr, 0, len(event.Data)+2)
	attrs = append(attrs, slog.String("run", event.RunID))
	if event.Node != "" {
		attrs = append(attrs, slog.String("node", event.Node))
	}
	for k, v := range event.Data {
		attrs = append(attrs, slog.Any(k, v))
	}
	ctxlog.FromContext(ctx).LogAttrs(ctx, event.Level, string(event.Type), attrs...)
}
