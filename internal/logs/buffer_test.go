package logs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/logdash/internal/constants"
	"github.com/charliek/logdash/internal/domain"
)

func makeRecord(message string) domain.LogRecord {
	return domain.LogRecord{
		Timestamp: "2024-01-01T00:00:00",
		Level:     domain.LevelInfo,
		Service:   "test-service",
		Message:   message,
	}
}

func messages(b *Buffer) []string {
	var out []string
	for _, r := range b.Records() {
		out = append(out, r.Message)
	}
	return out
}

func selectedMessage(t *testing.T, b *Buffer) string {
	t.Helper()
	r, ok := b.SelectedRecord()
	require.True(t, ok, "expected a selection")
	return r.Message
}

func TestBuffer_AddNewestFirst(t *testing.T) {
	b := NewBuffer(5)

	b.Add(makeRecord("1"))
	b.Add(makeRecord("2"))
	b.Add(makeRecord("3"))

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []string{"3", "2", "1"}, messages(b))
}

func TestBuffer_OverflowEvictsOldest(t *testing.T) {
	b := NewBuffer(3)

	b.Add(makeRecord("1"))
	b.Add(makeRecord("2"))
	b.Add(makeRecord("3"))
	b.Add(makeRecord("4")) // evicts "1"

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []string{"4", "3", "2"}, messages(b))
}

func TestBuffer_OverflowMultiple(t *testing.T) {
	b := NewBuffer(3)

	for i := 1; i <= 10; i++ {
		b.Add(makeRecord(fmt.Sprint(i)))
		assert.LessOrEqual(t, b.Len(), 3)
	}

	assert.Equal(t, []string{"10", "9", "8"}, messages(b))
}

func TestBuffer_SelectionShiftsOnInsert(t *testing.T) {
	b := NewBuffer(constants.MaxLogs)

	b.Add(makeRecord("X"))
	b.Add(makeRecord("Y"))
	assert.Equal(t, []string{"Y", "X"}, messages(b))

	b.SelectNext()
	idx, ok := b.Selected()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "Y", selectedMessage(t, b))

	b.Add(makeRecord("Z"))
	assert.Equal(t, []string{"Z", "Y", "X"}, messages(b))
	idx, _ = b.Selected()
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Y", selectedMessage(t, b))
}

func TestBuffer_FullBufferEvictsOldestAndClampsSelection(t *testing.T) {
	b := NewBuffer(constants.MaxLogs)
	for i := 0; i < constants.MaxLogs; i++ {
		b.Add(makeRecord(fmt.Sprintf("msg-%d", i)))
	}
	require.Equal(t, constants.MaxLogs, b.Len())

	oldest, ok := b.At(constants.MaxLogs - 1)
	require.True(t, ok)
	assert.Equal(t, "msg-0", oldest.Message)

	b.Add(makeRecord("one-more"))

	assert.Equal(t, constants.MaxLogs, b.Len())
	assert.NotContains(t, messages(b), oldest.Message)
	assert.Equal(t, "one-more", messages(b)[0])
}

func TestBuffer_SelectionStableUntilEvicted(t *testing.T) {
	b := NewBuffer(4)
	b.Add(makeRecord("target"))
	b.SelectNext()

	for i := 0; i < 3; i++ {
		b.Add(makeRecord(fmt.Sprintf("other-%d", i)))
		assert.Equal(t, "target", selectedMessage(t, b))
	}

	idx, _ := b.Selected()
	assert.Equal(t, 3, idx)

	// The next insert evicts "target"; selection clamps to the new last index.
	b.Add(makeRecord("evictor"))
	idx, ok := b.Selected()
	require.True(t, ok)
	assert.Equal(t, b.Len()-1, idx)
	assert.Equal(t, "other-0", selectedMessage(t, b))

	// Further inserts keep the selection clamped at the oldest slot.
	b.Add(makeRecord("again"))
	idx, _ = b.Selected()
	assert.Equal(t, 3, idx)
	assert.Equal(t, "other-1", selectedMessage(t, b))
}

func TestBuffer_NavigationBounds(t *testing.T) {
	t.Run("empty buffer is a no-op", func(t *testing.T) {
		b := NewBuffer(3)
		b.SelectNext()
		_, ok := b.Selected()
		assert.False(t, ok)

		b.SelectPrevious()
		_, ok = b.Selected()
		assert.False(t, ok)
	})

	t.Run("select previous without selection is a no-op", func(t *testing.T) {
		b := NewBuffer(3)
		b.Add(makeRecord("a"))
		b.SelectPrevious()
		_, ok := b.Selected()
		assert.False(t, ok)
	})

	t.Run("select next clamps at the oldest record", func(t *testing.T) {
		b := NewBuffer(5)
		b.Add(makeRecord("a"))
		b.Add(makeRecord("b"))
		b.Add(makeRecord("c"))

		for i := 0; i < 10; i++ {
			b.SelectNext()
		}
		idx, _ := b.Selected()
		assert.Equal(t, 2, idx)
		assert.Equal(t, "a", selectedMessage(t, b))
	})

	t.Run("select previous saturates at zero", func(t *testing.T) {
		b := NewBuffer(5)
		b.Add(makeRecord("a"))
		b.Add(makeRecord("b"))
		b.SelectNext()
		b.SelectNext()

		for i := 0; i < 10; i++ {
			b.SelectPrevious()
		}
		idx, ok := b.Selected()
		assert.True(t, ok)
		assert.Equal(t, 0, idx)
	})
}

func TestBuffer_Unselect(t *testing.T) {
	b := NewBuffer(3)
	b.Add(makeRecord("a"))
	b.SelectNext()

	b.Unselect()
	_, ok := b.Selected()
	assert.False(t, ok)

	// Inserts do not create a selection.
	b.Add(makeRecord("b"))
	_, ok = b.Selected()
	assert.False(t, ok)

	// Unselect with nothing selected is harmless.
	b.Unselect()
	_, ok = b.SelectedRecord()
	assert.False(t, ok)
}

func TestBuffer_At(t *testing.T) {
	b := NewBuffer(3)
	b.Add(makeRecord("a"))
	b.Add(makeRecord("b"))

	r, ok := b.At(0)
	require.True(t, ok)
	assert.Equal(t, "b", r.Message)

	_, ok = b.At(2)
	assert.False(t, ok)
	_, ok = b.At(-1)
	assert.False(t, ok)
}

func TestBuffer_Empty(t *testing.T) {
	b := NewBuffer(5)

	assert.Nil(t, b.Records())
	assert.Equal(t, 0, b.Len())
}

func TestBuffer_Clear(t *testing.T) {
	b := NewBuffer(5)

	b.Add(makeRecord("1"))
	b.Add(makeRecord("2"))
	b.SelectNext()
	b.Clear()

	assert.Nil(t, b.Records())
	assert.Equal(t, 0, b.Len())
	_, ok := b.Selected()
	assert.False(t, ok)
}

func TestBuffer_DefaultCapacity(t *testing.T) {
	b := NewBuffer(0)
	assert.Equal(t, constants.MaxLogs, b.Capacity())

	b2 := NewBuffer(-5)
	assert.Equal(t, constants.MaxLogs, b2.Capacity())
}

// Cross-check against a naive slice model for a long interleaving of operations.
func TestBuffer_MatchesSliceModel(t *testing.T) {
	const capacity = 7
	b := NewBuffer(capacity)

	var model []string
	sel, hasSel := 0, false

	for step := 0; step < 300; step++ {
		switch step % 5 {
		case 0, 1, 3:
			msg := fmt.Sprint(step)
			b.Add(makeRecord(msg))
			model = append([]string{msg}, model...)
			if hasSel {
				sel++
			}
			if len(model) > capacity {
				model = model[:capacity]
				if hasSel && sel >= len(model) {
					sel = len(model) - 1
				}
			}
		case 2:
			b.SelectNext()
			if !hasSel {
				sel, hasSel = 0, true
			} else if sel < len(model)-1 {
				sel++
			}
		case 4:
			if step%15 == 4 {
				b.Unselect()
				hasSel = false
			} else {
				b.SelectPrevious()
				if hasSel && sel > 0 {
					sel--
				}
			}
		}

		require.Equal(t, model, messages(b), "step %d", step)
		got, ok := b.Selected()
		require.Equal(t, hasSel, ok, "step %d", step)
		if ok {
			require.Equal(t, sel, got, "step %d", step)
		}
	}
}
