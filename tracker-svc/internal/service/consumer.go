package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"food-ordering/pkg/tracking"

	"github.com/segmentio/kafka-go"
)

const (
	ResultApplied = "applied"
	ResultStale   = "stale"
	ResultIgnored = "ignored"
	ResultInvalid = "invalid"
	ResultFailed  = "failed"
)

type Consumer struct {
	Reader  MessageReader
	Store   StatusStore
	Metrics *Metrics
	// RetryDelay is the pause after a failed read.
	RetryDelay time.Duration
}

func NewConsumer(reader MessageReader, store StatusStore, metrics *Metrics) *Consumer {
	return &Consumer{
		Reader:     reader,
		Store:      store,
		Metrics:    metrics,
		RetryDelay: time.Second,
	}
}

// Start reads order events until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	slog.InfoContext(ctx, "Starting status tracker consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if ctx.Err() != nil {
			slog.InfoContext(ctx, "Status tracker consumer stopped")
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "Error reading message", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.RetryDelay):
			}
			continue
		}
		c.Handle(ctx, message)
	}
}

// Handle decodes one Kafka message and applies it. Errors are logged and
// counted; the message is never retried.
func (c *Consumer) Handle(ctx context.Context, message kafka.Message) {
	var event tracking.Event
	if err := json.Unmarshal(message.Value, &event); err != nil {
		slog.WarnContext(ctx, "Error unmarshaling order event",
			"partition", message.Partition, "offset", message.Offset, "error", err)
		c.Metrics.observe("", ResultInvalid)
		return
	}
	if err := c.Process(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Error processing order event",
			"order_id", event.OrderID, "type", event.Type, "error", err)
	}
}

func (c *Consumer) Process(ctx context.Context, event tracking.Event) error {
	if !event.Known() {
		c.Metrics.observe(event.Type, ResultIgnored)
		return nil
	}
	if event.OrderID <= 0 || event.Status == "" {
		c.Metrics.observe(event.Type, ResultInvalid)
		return fmt.Errorf("event %s: missing order id or status", event.ID)
	}

	stored, err := c.Store.Set(ctx, event.Snapshot())
	if err != nil {
		c.Metrics.observe(event.Type, ResultFailed)
		return fmt.Errorf("store status of order %d: %w", event.OrderID, err)
	}
	if !stored {
		slog.DebugContext(ctx, "Skipped stale order event", "order_id", event.OrderID, "status", event.Status)
		c.Metrics.observe(event.Type, ResultStale)
		return nil
	}

	slog.InfoContext(ctx, "Order status tracked", "order_id", event.OrderID, "status", event.Status)
	c.Metrics.observe(event.Type, ResultApplied)
	return nil
}
