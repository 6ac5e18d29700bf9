package service

import (
	"context"

	"food-ordering/pkg/tracking"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// StatusStore keeps the latest snapshot per order. Set reports false when
// the stored snapshot is newer than snap.
type StatusStore interface {
	Set(ctx context.Context, snap tracking.Snapshot) (bool, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	Process(ctx context.Context, event tracking.Event) error
}

var (
	_ MessageReader     = (*kafka.Reader)(nil)
	_ StatusStore       = (*tracking.RedisStatusCache)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
