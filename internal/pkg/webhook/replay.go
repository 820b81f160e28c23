package webhook

import (
	"context"
	"log"
	"time"
)

// DefaultReplayWindow bounds both timestamp skew and the dedupe marker TTL.
const DefaultReplayWindow = 300 * time.Second

// releaseTimeout bounds marker deletion, which runs detached from the
// request deadline.
const releaseTimeout = time.Second

// ReplayStore is a key-value store with expiring entries. SetIfAbsent must be
// atomic per key: of two concurrent calls for one key at most one returns true.
type ReplayStore interface {
	SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// ReplayGuard rejects stale events and event ids seen within the window.
type ReplayGuard struct {
	store  ReplayStore
	window time.Duration
}

func NewReplayGuard(store ReplayStore, window time.Duration) *ReplayGuard {
	if window <= 0 {
		window = DefaultReplayWindow
	}
	return &ReplayGuard{store: store, window: window}
}

func (g *ReplayGuard) Window() time.Duration { return g.window }

// IsFresh reports whether |now - ts| is within the window.
func (g *ReplayGuard) IsFresh(ts int64, now time.Time) bool {
	diff := now.Sub(time.Unix(ts, 0))
	if diff < 0 {
		diff = -diff
	}
	return diff <= g.window
}

// Check runs the freshness and dedupe guards in that order. The id is marked
// only once the event is known to be fresh. When the store is unreachable the
// event is let through and the database unique index decides.
func (g *ReplayGuard) Check(ctx context.Context, eventID string, ts int64, now time.Time) error {
	if !g.IsFresh(ts, now) {
		return newError(KindStaleEvent, FieldTimestamp, nil)
	}

	marked, err := g.store.SetIfAbsent(ctx, eventID, g.window)
	if err != nil {
		log.Printf("replay guard: store unavailable, relying on unique index: %v", err)
		return nil
	}
	if !marked {
		return newError(KindDuplicateEvent, FieldID, nil)
	}
	return nil
}

// Release drops the marker for eventID so a redelivery is not mistaken for a
// replay. Used after a storage failure, which is often the request deadline
// running out, so the delete keeps ctx values but not its cancellation.
func (g *ReplayGuard) Release(ctx context.Context, eventID string) {
	relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := g.store.Delete(relCtx, eventID); err != nil {
		log.Printf("replay guard: failed to release marker: %v", err)
	}
}
