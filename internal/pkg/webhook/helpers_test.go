package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/YayaHook/app/models"
)

const testSecret = "test-secret"

// memoryReplayStore is an in-process ReplayStore with the same
// check-and-set contract as the Redis one.
type memoryReplayStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
	failing error
	sets    int
}

func newMemoryReplayStore() *memoryReplayStore {
	return &memoryReplayStore{entries: map[string]time.Time{}, now: time.Now}
}

func (s *memoryReplayStore) SetIfAbsent(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing != nil {
		return false, s.failing
	}
	if exp, ok := s.entries[key]; ok && s.now().Before(exp) {
		return false, nil
	}
	s.entries[key] = s.now().Add(ttl)
	s.sets++
	return true, nil
}

func (s *memoryReplayStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *memoryReplayStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.entries[key]
	return ok && s.now().Before(exp)
}

// memoryTransactionStore enforces transaction_id uniqueness like the DB index.
type memoryTransactionStore struct {
	mu   sync.Mutex
	rows map[string]*models.Transaction
	err  error
}

func newMemoryTransactionStore() *memoryTransactionStore {
	return &memoryTransactionStore{rows: map[string]*models.Transaction{}}
}

func (s *memoryTransactionStore) CreateIfNotExists(_ context.Context, tx *models.Transaction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.rows[tx.TransactionID]; ok {
		return false, nil
	}
	s.rows[tx.TransactionID] = tx
	return true, nil
}

func (s *memoryTransactionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

var errStoreDown = errors.New("connection refused")

func validPayload(ts int64) map[string]any {
	return map[string]any{
		"id":              "1dd2854e-3a79-4548-ae36-97e4a18ebf81",
		"amount":          100,
		"currency":        "ETB",
		"created_at_time": 1673381836,
		"timestamp":       ts,
		"cause":           "Testing",
		"full_name":       "Abebe Kebede",
		"account_name":    "abebekebede1",
		"invoice_url":     "https://yayawallet.com/en/invoice/xxxx",
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// signBody computes the signature independently of Verifier.
func signBody(t *testing.T, body []byte, secret string) string {
	t.Helper()
	fields, err := ParseFields(body)
	require.NoError(t, err)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(Canonicalize(fields)))
	return hex.EncodeToString(mac.Sum(nil))
}
