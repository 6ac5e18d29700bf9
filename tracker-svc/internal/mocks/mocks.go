package mocks

import (
	"context"

	"food-ordering/pkg/tracking"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type StatusStore struct {
	mock.Mock
}

func NewStatusStore(t testingT) *StatusStore {
	m := &StatusStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StatusStore) Set(ctx context.Context, snap tracking.Snapshot) (bool, error) {
	args := m.Called(ctx, snap)
	return args.Bool(0), args.Error(1)
}

// MessageReader replays queued messages, then blocks until the context ends.
type MessageReader struct {
	Messages chan kafka.Message
	Errors   chan error
}

func NewMessageReader(messages ...kafka.Message) *MessageReader {
	r := &MessageReader{
		Messages: make(chan kafka.Message, len(messages)),
		Errors:   make(chan error, 1),
	}
	for _, msg := range messages {
		r.Messages <- msg
	}
	return r
}

func (r *MessageReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case msg := <-r.Messages:
		return msg, nil
	case err := <-r.Errors:
		return kafka.Message{}, err
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}
