package bus

import (
	"context"

	"github.com/yungbote/relation-engine/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, evt realtime.Event) error
	StartForwarder(ctx context.Context, onEvent func(evt realtime.Event)) error
	Close() error
}
