package webhook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ManuelReschke/YayaHook/app/models"
)

// TransactionStore persists transactions under a unique transaction_id.
// created is false when a row with the same id already exists.
type TransactionStore interface {
	CreateIfNotExists(ctx context.Context, tx *models.Transaction) (created bool, err error)
}

// Pipeline runs one request through signature, replay and storage checks.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	verifier *Verifier
	guard    *ReplayGuard
	store    TransactionStore
	now      func() time.Time
}

func NewPipeline(verifier *Verifier, guard *ReplayGuard, store TransactionStore) *Pipeline {
	return &Pipeline{
		verifier: verifier,
		guard:    guard,
		store:    store,
		now:      time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	cp := *p
	cp.now = now
	return &cp
}

// Ingest validates and stores one event. Every failure is a *Error.
func (p *Pipeline) Ingest(ctx context.Context, signature string, body []byte) (*models.Transaction, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, newError(KindMissingSignature, "", nil)
	}

	fields, err := ParseFields(body)
	if err != nil {
		return nil, err
	}
	ev, err := fields.Validate()
	if err != nil {
		return nil, err
	}

	if !p.verifier.Verify(fields, signature) {
		return nil, newError(KindInvalidSignature, "", nil)
	}

	if err := p.guard.Check(ctx, ev.ID, ev.Timestamp, p.now()); err != nil {
		return nil, err
	}

	tx, err := ev.Transaction()
	if err != nil {
		p.guard.Release(ctx, ev.ID)
		return nil, err
	}

	created, err := p.store.CreateIfNotExists(ctx, tx)
	if err != nil {
		p.guard.Release(ctx, ev.ID)
		return nil, newError(KindStorage, "", fmt.Errorf("persist transaction: %w", err))
	}
	if !created {
		return nil, newError(KindDuplicateTransaction, FieldID, nil)
	}
	return tx, nil
}
