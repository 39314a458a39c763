// Package history keeps the rolling, in-memory conversation buffer.
package history

import (
	"sync"

	"github.com/diogo/nearbychat/internal/models"
)

const (
	// Limit is the maximum number of turns retained (five exchanges)
	Limit = 10
	// RequestWindow is how many recent turns accompany each request
	RequestWindow = 5
)

// Buffer is an ordered, bounded sequence of chat turns. When it grows past
// its limit the oldest turns are dropped first.
type Buffer struct {
	mu    sync.RWMutex
	limit int
	turns []models.ChatTurn
}

// NewBuffer creates a buffer holding at most Limit turns
func NewBuffer() *Buffer {
	return NewBufferWithLimit(Limit)
}

// NewBufferWithLimit creates a buffer with a custom bound. Non-positive
// limits fall back to Limit.
func NewBufferWithLimit(limit int) *Buffer {
	if limit <= 0 {
		limit = Limit
	}
	return &Buffer{
		limit: limit,
		turns: make([]models.ChatTurn, 0, limit+2),
	}
}

// Append adds turns in order, then truncates to the most recent limit entries
func (b *Buffer) Append(turns ...models.ChatTurn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.turns = append(b.turns, turns...)
	if over := len(b.turns) - b.limit; over > 0 {
		kept := make([]models.ChatTurn, b.limit, b.limit+2)
		copy(kept, b.turns[over:])
		b.turns = kept
	}
}

// Recent returns a copy of the last n turns, or all of them when fewer exist
func (b *Buffer) Recent(n int) []models.ChatTurn {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n <= 0 {
		return []models.ChatTurn{}
	}
	start := len(b.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]models.ChatTurn, len(b.turns)-start)
	copy(out, b.turns[start:])
	return out
}

// Turns returns a copy of every retained turn, oldest first
func (b *Buffer) Turns() []models.ChatTurn {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.ChatTurn, len(b.turns))
	copy(out, b.turns)
	return out
}

// Len returns the number of retained turns
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.turns)
}

// Limit returns the buffer bound
func (b *Buffer) Limit() int {
	return b.limit
}

// Reset drops every turn
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.turns = b.turns[:0]
}
