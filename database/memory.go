package database

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"demandforecast/models"
)

type memoryKey struct {
	role      models.EntityRole
	entityID  string
	productID string
}

// MemoryStore keeps events in memory. It backs the offline predict command and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[memoryKey][]models.RawEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[memoryKey][]models.RawEvent)}
}

func (m *MemoryStore) Add(role models.EntityRole, events ...models.RawEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range events {
		k := memoryKey{role, e.EntityID, e.ProductID}
		m.events[k] = append(m.events[k], e)
	}
}

func (m *MemoryStore) FetchEvents(_ context.Context, role models.EntityRole, entityID, productID string) ([]models.RawEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.events[memoryKey{role, entityID, productID}]
	out := make([]models.RawEvent, len(stored))
	copy(out, stored)
	return out, nil
}

type eventRecord struct {
	Role      string    `json:"role"`
	EntityID  string    `json:"entityId"`
	ProductID string    `json:"productId"`
	Date      time.Time `json:"date"`
	Quantity  int64     `json:"quantity"`
}

// LoadMemoryStore reads a JSON array of {role, entityId, productId, date, quantity} records.
func LoadMemoryStore(r io.Reader) (*MemoryStore, error) {
	var records []eventRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	store := NewMemoryStore()
	for i, rec := range records {
		role, err := models.ParseEntityRole(rec.Role)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if rec.Quantity < 0 {
			return nil, fmt.Errorf("event %d: negative quantity %d", i, rec.Quantity)
		}
		store.Add(role, models.RawEvent{
			EntityID:  rec.EntityID,
			ProductID: rec.ProductID,
			Date:      rec.Date,
			Quantity:  rec.Quantity,
		})
	}
	return store, nil
}
