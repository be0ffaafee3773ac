// internal/scan/board.go
package scan

import (
	"sync"

	"porecat-core/adapter"
)

// Board aggregates best scores per adapter name across reads. It is safe for
// concurrent use.
type Board struct {
	mu     sync.Mutex
	scores map[string]adapter.Score
	reads  int
	hits   map[string]int
}

func NewBoard() *Board {
	return &Board{
		scores: make(map[string]adapter.Score),
		hits:   make(map[string]int),
	}
}

// Add merges one read's scores with keep-max semantics.
func (b *Board) Add(r ReadResult) {
	scores := r.Scores()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reads++
	for name, s := range scores {
		b.scores[name] = b.scores[name].Max(s)
		b.hits[name]++
	}
}

// Score returns the best score recorded for name.
func (b *Board) Score(name string) adapter.Score {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scores[name]
}

// Reads returns how many reads were added.
func (b *Board) Reads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reads
}

// ReadsWith returns how many reads had at least one hit for name.
func (b *Board) ReadsWith(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[name]
}

// Apply merges the aggregated scores into the matching adapter records. Call
// it after all workers are done.
func (b *Board) Apply(adapters []*adapter.Adapter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range adapters {
		if s, ok := b.scores[a.Name]; ok {
			a.Merge(s)
		}
	}
}
