package orderstore

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/betbot/tradegate/clob/types"
	"github.com/betbot/tradegate/pkg/cache"
)

// Record is what the gateway remembers about a submitted order. Purely
// informational; the venue is the source of truth for live state.
type Record struct {
	ID          string          `json:"id"`      // venue order ID, or a local uuid when the ack had none
	LocalID     string          `json:"localId"` // always set, generated at submission
	TokenID     string          `json:"tokenId"`
	Side        types.Side      `json:"side"`
	Price       decimal.Decimal `json:"price"`
	Size        decimal.Decimal `json:"size"`
	NegRisk     bool            `json:"negRisk"`
	Status      string          `json:"status"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

// Store keeps submitted order records in memory with time-based eviction.
type Store struct {
	records *cache.InMemoryCache[string, Record]
	ttl     time.Duration
}

// New creates a store; records older than ttl are evicted.
func New(ttl time.Duration) *Store {
	return &Store{
		records: cache.NewInMemoryCache[string, Record](ttl),
		ttl:     ttl,
	}
}

// Put records a submitted order. When the venue acknowledgment carried no
// order ID, the local uuid doubles as the record key.
func (s *Store) Put(rec Record) Record {
	if rec.LocalID == "" {
		rec.LocalID = uuid.NewString()
	}
	if rec.ID == "" {
		rec.ID = rec.LocalID
	}
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = time.Now()
	}
	s.records.Set(rec.ID, rec, s.ttl)
	return rec
}

// Get looks up a record by venue order ID.
func (s *Store) Get(id string) (Record, bool) {
	return s.records.Get(id)
}

// Delete drops a record (after a cancel).
func (s *Store) Delete(id string) {
	s.records.Delete(id)
}

// List returns all live records, newest first.
func (s *Store) List() []Record {
	items := s.records.Items()
	out := make([]Record, 0, len(items))
	for _, rec := range items {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}

// SetStatus updates the tracked status of a record if present.
func (s *Store) SetStatus(id, status string) {
	if rec, ok := s.records.Get(id); ok {
		rec.Status = status
		s.records.Set(id, rec, s.ttl)
	}
}
