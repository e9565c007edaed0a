package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yourorg/moving-portal/internal/repository"

	"go.uber.org/zap"
)

// Poller tails outbox_events after a persisted offset and broadcasts each
// event through the hub. Delivery is at-least-once: a crash between broadcast
// and offset update replays events, and consumers reload rather than patch.
type Poller struct {
	outboxRepo *repository.OutboxRepository
	hub        *Hub
	interval   time.Duration
	batchSize  int
	logger     *zap.Logger
}

// NewPoller creates a new outbox poller
func NewPoller(outboxRepo *repository.OutboxRepository, hub *Hub, interval time.Duration, batchSize int, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{
		outboxRepo: outboxRepo,
		hub:        hub,
		interval:   interval,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	offset, err := p.outboxRepo.GetOffset(ctx)
	if err != nil {
		p.logger.Error("Failed to load outbox offset, starting from zero", zap.Error(err))
	}
	if offset.LastEventTime.IsZero() {
		offset.LastEventTime = time.Unix(0, 0).UTC()
	}
	if offset.LastEventID == "" {
		offset.LastEventID = "00000000-0000-0000-0000-000000000000"
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			offset = p.drain(ctx, offset)
		}
	}
}

func (p *Poller) drain(ctx context.Context, offset repository.OutboxOffset) repository.OutboxOffset {
	pollCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	events, err := p.outboxRepo.ListEventsAfter(pollCtx, offset, p.batchSize)
	if err != nil {
		return offset
	}
	if len(events) == 0 {
		return offset
	}

	for _, event := range events {
		offset.LastEventTime = event.CreatedAt
		offset.LastEventID = event.ID

		payload, err := json.Marshal(event.Envelope())
		if err != nil {
			p.logger.Error("Failed to marshal change event", zap.Error(err), zap.String("id", event.ID))
			continue
		}
		p.hub.Broadcast(payload, event.ClientID)
	}

	if err := p.outboxRepo.UpdateOffset(pollCtx, offset); err != nil {
		p.logger.Error("Failed to persist outbox offset", zap.Error(err))
		return offset
	}

	// Delivered events older than an hour are of no further use.
	cutoff := offset.LastEventTime.Add(-time.Hour)
	if err := p.outboxRepo.CleanupBefore(pollCtx, cutoff); err != nil {
		p.logger.Error("Failed to clean up outbox", zap.Error(err))
	}

	return offset
}
