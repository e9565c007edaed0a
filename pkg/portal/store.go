package portal

import (
	"context"
	"errors"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Store owns the notification mirror for one authenticated session. All
// mutation goes through the store; consumers read snapshots. The mirror is
// authoritative only between reloads: a reload overwrites any local state
// with what the server returned.
type Store struct {
	backend Backend
	logger  *zap.Logger

	mu      sync.Mutex
	mirror  []Notification
	nextSeq uint64
	applied uint64
}

// NewStore creates a store around a backend. The mirror starts empty; call
// Load to populate it.
func NewStore(backend Backend, logger *zap.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
	}
}

// Load replaces the mirror with the server's rows. Each load carries a
// monotonic sequence number; a slow load finishing after a newer one is
// discarded so stale data never overwrites fresh data. On fetch failure the
// mirror resets to empty and the error is returned for the caller to surface.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.nextSeq++
	seq := s.nextSeq
	s.mu.Unlock()

	rows, err := s.backend.ListNotifications(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.applied {
		// A newer load already finished.
		return nil
	}
	s.applied = seq

	if err != nil {
		s.mirror = nil
		return err
	}

	s.mirror = rows
	return nil
}

// Notifications returns a snapshot of the mirror, newest first.
func (s *Store) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]Notification, len(s.mirror))
	copy(snapshot, s.mirror)
	return snapshot
}

// UnreadCount is derived from the mirror on every call, never stored.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.mirror {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead marks one notification read. Unknown ids are a no-op without an
// error. The local row flips immediately and rolls back to its prior value
// if the server write fails.
func (s *Store) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	prev := s.mirror[idx].Read
	s.mirror[idx].Read = true
	s.mu.Unlock()

	if err := s.backend.MarkRead(ctx, id); err != nil {
		s.mu.Lock()
		if idx := s.indexOf(id); idx >= 0 {
			s.mirror[idx].Read = prev
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// MarkAllRead marks every unread mirror entry read with one batched server
// call. Zero unread entries means success without touching the network. On
// failure the flipped rows roll back.
func (s *Store) MarkAllRead(ctx context.Context) error {
	s.mu.Lock()
	var ids []string
	for i := range s.mirror {
		if !s.mirror[i].Read {
			ids = append(ids, s.mirror[i].ID)
			s.mirror[i].Read = true
		}
	}
	s.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}

	if err := s.backend.MarkReadBatch(ctx, ids); err != nil {
		s.mu.Lock()
		for _, id := range ids {
			if idx := s.indexOf(id); idx >= 0 {
				s.mirror[idx].Read = false
			}
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// indexOf requires s.mu to be held.
func (s *Store) indexOf(id string) int {
	for i := range s.mirror {
		if s.mirror[i].ID == id {
			return i
		}
	}
	return -1
}

// Subscription is a handle on a running realtime subscription. Cancel stops
// the stream and waits for its goroutine to exit.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel tears the subscription down.
func (sub *Subscription) Cancel() {
	sub.cancel()
	<-sub.done
}

// Subscribe starts listening for change events. Every event triggers a full
// reload of the mirror. Dropped connections reconnect with exponential
// backoff until the subscription is cancelled.
func (s *Store) Subscribe(ctx context.Context) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run(ctx, sub)
	return sub
}

func (s *Store) run(ctx context.Context, sub *Subscription) {
	defer close(sub.done)

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 0

	err := backoff.Retry(func() error {
		err := s.backend.Subscribe(ctx, func(Event) {
			policy.Reset()
			if err := s.Load(ctx); err != nil {
				s.logger.Warn("reload after change event failed", zap.Error(err))
			}
		})
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if err == nil {
			err = errors.New("subscription stream closed")
		}
		s.logger.Warn("realtime subscription dropped, reconnecting", zap.Error(err))
		return err
	}, backoff.WithContext(policy, ctx))

	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("realtime subscription stopped", zap.Error(err))
	}
}
