package observe

import "context"

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnEvent(ctx context.Context, event Event) {}
