package catalog

import (
	"context"

	"github.com/skiguide/backend/internal/domain"
)

// MemoryStore serves a fixed record slice. Used when the catalog comes
// straight from a CSV export without a database, and by tests.
type MemoryStore struct {
	records []domain.ProductRecord
}

// NewMemoryStore creates a store over the given records. The slice is not
// copied; callers hand over ownership.
func NewMemoryStore(records []domain.ProductRecord) *MemoryStore {
	return &MemoryStore{records: records}
}

// All returns the stored records.
func (s *MemoryStore) All(ctx context.Context) ([]domain.ProductRecord, error) {
	return s.records, nil
}
