package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"quizroom-service/domain"
)

// EventPublisher delivers room events to an external sink.
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.RoomEvent) error
}

// Emitter accepts room events without blocking the caller.
type Emitter interface {
	Emit(evt domain.RoomEvent)
}

type nopEmitter struct{}

func (nopEmitter) Emit(domain.RoomEvent) {}

// EventDispatcher queues events emitted under room locks and publishes them
// from a single goroutine, in emission order, to every publisher.
type EventDispatcher struct {
	events     chan domain.RoomEvent
	publishers []EventPublisher
	timeout    time.Duration
	log        *zap.Logger
}

func NewEventDispatcher(buffer int, timeout time.Duration, log *zap.Logger, publishers ...EventPublisher) *EventDispatcher {
	if buffer <= 0 {
		buffer = 1
	}
	return &EventDispatcher{
		events:     make(chan domain.RoomEvent, buffer),
		publishers: publishers,
		timeout:    timeout,
		log:        log,
	}
}

// Emit drops the event when the buffer is full.
func (d *EventDispatcher) Emit(evt domain.RoomEvent) {
	if len(d.publishers) == 0 {
		return
	}
	select {
	case d.events <- evt:
	default:
		d.log.Warn("room event buffer full, dropping event",
			zap.String("event", evt.Type), zap.String("room_code", evt.RoomCode))
	}
}

func (d *EventDispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-d.events:
			d.publish(ctx, evt)
		}
	}
}

func (d *EventDispatcher) publish(ctx context.Context, evt domain.RoomEvent) {
	for _, publisher := range d.publishers {
		pubCtx, cancel := context.WithTimeout(ctx, d.timeout)
		if err := publisher.Publish(pubCtx, evt); err != nil {
			d.log.Error("failed to publish room event",
				zap.String("event", evt.Type), zap.String("room_code", evt.RoomCode), zap.Error(err))
		}
		cancel()
	}
}
