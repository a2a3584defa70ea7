// Package ring keeps a bounded in-memory tail of recent events for
// end-of-session aggregation. It is not a persistence or replay mechanism;
// the CSV sink is the durable record.
package ring

import "behaviord/internal/event"

// DefaultCapacity is the high-water mark before the oldest half is dropped.
const DefaultCapacity = 50000

// Buffer is a bounded append-only tail. It is intentionally unsynchronized:
// during a session only the hook callback thread appends, and readers run
// after the hooks are removed. Concurrent mid-session reads need external
// synchronization.
type Buffer struct {
	capacity int
	records  []event.Record
	trims    int
}

// New returns a buffer with the given capacity; non-positive capacities
// fall back to DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity}
}

// Append adds a record to the tail. When the size would exceed capacity the
// oldest half is dropped in one operation, so steady-state appends stay
// amortized O(1).
func (b *Buffer) Append(r event.Record) {
	if len(b.records) >= b.capacity {
		keep := len(b.records) / 2
		copy(b.records, b.records[len(b.records)-keep:])
		b.records = b.records[:keep]
		b.trims++
	}
	b.records = append(b.records, r)
}

// Len returns the number of retained records.
func (b *Buffer) Len() int {
	return len(b.records)
}

// Trims returns how many half-drops have occurred.
func (b *Buffer) Trims() int {
	return b.trims
}

// Snapshot returns a copy of the retained records in append order. The
// caller owns the returned slice.
func (b *Buffer) Snapshot() []event.Record {
	out := make([]event.Record, len(b.records))
	copy(out, b.records)
	return out
}
