package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Bus is the group-broadcast primitive: a named group is a pub/sub topic,
// membership is a cancellable subscription. Publishing is fire-and-forget;
// every current member gets its own copy of the payload.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates an in-process bus.
func NewBus(log *slog.Logger) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: sendBufferSize},
			watermill.NewSlogLogger(log),
		),
	}
}

// Publish marshals v and broadcasts it to all current members of group.
func (b *Bus) Publish(group string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("bus: marshal for %s: %w", group, err)
	}
	return b.pubsub.Publish(group, message.NewMessage(watermill.NewUUID(), payload))
}

// Join adds deliver as a member of group and returns the leave function.
// Leaving blocks until the member's delivery goroutine has drained, so a
// caller that leaves after loop shutdown never races a late broadcast.
// Leave is safe to call more than once.
func (b *Bus) Join(group string, deliver func([]byte)) (leave func(), err error) {
	ctx, cancel := context.WithCancel(context.Background())
	msgs, err := b.pubsub.Subscribe(ctx, group)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("bus: join %s: %w", group, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			deliver(msg.Payload)
			msg.Ack()
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}

// Close shuts the bus down, ending all memberships.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
