package service

import (
	"context"
	"sync"

	"github.com/yourorg/moving-portal/internal/kafka"
	"github.com/yourorg/moving-portal/internal/model"
)

// fakeMoves implements moveLookup with a fixed set of moves.
type fakeMoves struct {
	moves map[string]*model.Move
	err   error
}

func (f *fakeMoves) GetByID(ctx context.Context, id string) (*model.Move, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.moves[id], nil
}

// fakeActivityLog records appended activity entries.
type fakeActivityLog struct {
	mu      sync.Mutex
	actions []string
	err     error
}

func (f *fakeActivityLog) AppendActivity(ctx context.Context, clientID, action, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.actions = append(f.actions, action)
	return nil
}

// fakePublisher counts published Kafka messages.
type fakePublisher struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, topic string, msg kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}
