package session

import (
	"sync"

	"github.com/lox/habitatshift/internal/metrics"
	"github.com/lox/habitatshift/internal/models"
)

// TableGenerator builds observation tables.
type TableGenerator interface {
	Generate() *models.Table
}

// Memo generates a table on first use and returns that same table for the
// rest of its life. There is no invalidation.
//
// A Memo created with NewRegenerating skips the cache and builds a new table
// on every call.
type Memo struct {
	gen        TableGenerator
	regenerate bool

	once  sync.Once
	table *models.Table
}

func NewMemo(gen TableGenerator) *Memo {
	return &Memo{gen: gen}
}

// NewRegenerating returns a Memo that never caches.
func NewRegenerating(gen TableGenerator) *Memo {
	return &Memo{gen: gen, regenerate: true}
}

// Table returns the session's table.
func (m *Memo) Table() *models.Table {
	if m.regenerate {
		return m.gen.Generate()
	}

	hit := true
	m.once.Do(func() {
		hit = false
		m.table = m.gen.Generate()
	})
	if hit {
		metrics.MemoHits.Inc()
	}
	return m.table
}
