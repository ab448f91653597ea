package bus

import (
	"context"

	"github.com/yungbote/relation-engine/internal/realtime"
)

// NoopBus swallows every event. Used when REDIS_ADDR is unset so the
// pipeline runs identically with or without a broker.
type noopBus struct{}

func NewNoopBus() Bus { return noopBus{} }

func (noopBus) Publish(ctx context.Context, evt realtime.Event) error { return nil }
func (noopBus) StartForwarder(ctx context.Context, onEvent func(evt realtime.Event)) error {
	return nil
}
func (noopBus) Close() error { return nil }
