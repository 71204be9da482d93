package id

import (
	"sync"
	"time"
)

// Generator issues millisecond timestamps that strictly increase within a
// process, so two records created in the same millisecond still differ.
type Generator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Next returns max(now in ms, previous+1).
func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return ms
}

// Observe makes later ids larger than n; used after loading stored ids.
func (g *Generator) Observe(n int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n > g.last {
		g.last = n
	}
}
