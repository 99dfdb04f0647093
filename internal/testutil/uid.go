package testutil

import (
	"fmt"
	"sync"
)

// SequenceGenerator returns predictable UUID-shaped identifiers:
// 00000000-0000-7000-8000-000000000001, ...000002, and so on.
//
// It stands in for the UUIDv7 generator so encoded calendars are
// byte-stable across runs.
//
// Thread-safety: SequenceGenerator is safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu  sync.Mutex
	seq int64
}

// NewSequenceGenerator creates a generator whose first value ends in 1.
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{}
}

// Generate returns the next identifier.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("00000000-0000-7000-8000-%012d", g.seq)
}

// Reset restarts the sequence. After Reset(), the next call to Generate()
// ends in 1 again.
func (g *SequenceGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
