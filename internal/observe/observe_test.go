package observe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type capture struct {
	events []Event
}

func (c *capture) OnEvent(ctx context.Context, event Event) {
	c.events = append(c.events, event)
}

func TestMultiObserverFansOut(t *testing.T) {
	a := &capture{}
	b := &capture{}
	m := NewMultiObserver(a, NoopObserver{}, b)

	m.OnEvent(context.Background(), Event{Type: EventRunStarted, RunID: "r1"})
	m.OnEvent(context.Background(), Event{Type: EventRunFinished, RunID: "r1"})

	assert.Len(t, a.events, 2)
	assert.Len(t, b.events, 2)
	assert.Equal(t, EventRunStarted, a.events[0].Type)
	assert.Equal(t, "r1", b.events[1].RunID)
}
