package logs

import (
	"github.com/charliek/logdash/internal/constants"
	"github.com/charliek/logdash/internal/domain"
)

// Buffer is a fixed-size circular buffer of log records ordered newest first,
// paired with an optional selection cursor.
//
// Logical index 0 is always the most recently added record. The selection is
// kept pointing at the same logical record across inserts; once that record is
// evicted it clamps to the oldest remaining record.
//
// Buffer is not safe for concurrent use. dashboard.State guards it.
type Buffer struct {
	entries  []domain.LogRecord
	head     int // next write position
	count    int // current number of entries
	capacity int // max entries

	selected    int
	hasSelected bool
}

// NewBuffer creates a new buffer with the given capacity
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = constants.MaxLogs
	}
	return &Buffer{
		entries:  make([]domain.LogRecord, capacity),
		capacity: capacity,
	}
}

// Add inserts record at the front. When the buffer is full the oldest record
// is overwritten.
func (b *Buffer) Add(record domain.LogRecord) {
	b.entries[b.head] = record
	b.head = (b.head + 1) % b.capacity

	// The selected record moved one step further from the front.
	if b.hasSelected {
		b.selected++
	}

	if b.count < b.capacity {
		b.count++
		return
	}

	// Full: the write above evicted the oldest record.
	if b.hasSelected && b.selected >= b.count {
		b.selected = b.count - 1
	}
}

// SelectNext moves the selection one step toward older records, selecting the
// newest record if nothing is selected yet.
func (b *Buffer) SelectNext() {
	if b.count == 0 {
		return
	}
	if !b.hasSelected {
		b.selected = 0
		b.hasSelected = true
		return
	}
	if b.selected < b.count-1 {
		b.selected++
	}
}

// SelectPrevious moves the selection one step toward newer records
func (b *Buffer) SelectPrevious() {
	if b.count == 0 || !b.hasSelected {
		return
	}
	if b.selected > 0 {
		b.selected--
	}
}

// Unselect clears the selection so the view follows the newest record again
func (b *Buffer) Unselect() {
	b.selected = 0
	b.hasSelected = false
}

// Selected returns the selection index, if any
func (b *Buffer) Selected() (int, bool) {
	return b.selected, b.hasSelected
}

// SelectedRecord returns the record under the selection, if any
func (b *Buffer) SelectedRecord() (domain.LogRecord, bool) {
	if !b.hasSelected {
		return domain.LogRecord{}, false
	}
	return b.At(b.selected)
}

// At returns the record at logical index i (0 = newest)
func (b *Buffer) At(i int) (domain.LogRecord, bool) {
	if i < 0 || i >= b.count {
		return domain.LogRecord{}, false
	}
	return b.entries[b.arenaIndex(i)], true
}

// Records returns a copy of all records, newest first
func (b *Buffer) Records() []domain.LogRecord {
	if b.count == 0 {
		return nil
	}

	result := make([]domain.LogRecord, b.count)
	for i := 0; i < b.count; i++ {
		result[i] = b.entries[b.arenaIndex(i)]
	}
	return result
}

// Len returns the current number of records in the buffer
func (b *Buffer) Len() int {
	return b.count
}

// Capacity returns the maximum capacity of the buffer
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Clear removes all records and the selection
func (b *Buffer) Clear() {
	clear(b.entries)
	b.head = 0
	b.count = 0
	b.Unselect()
}

// arenaIndex maps a logical index to its slot in the backing array
func (b *Buffer) arenaIndex(i int) int {
	return (b.head - 1 - i + 2*b.capacity) % b.capacity
}
