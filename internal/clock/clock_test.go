package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock(t *testing.T) {
	before := time.Now()
	got := Real.Now()
	after := time.Now()
	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))

	d := Real.Since(time.Now().Add(-time.Hour))
	assert.InDelta(t, time.Hour.Seconds(), d.Seconds(), 1)
}

func TestMockClock(t *testing.T) {
	start := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	mock := NewMockClock(start)

	assert.True(t, mock.Now().Equal(start))
	assert.True(t, mock.Now().Equal(start), "no auto step by default")

	mock.Advance(time.Hour)
	assert.Equal(t, time.Hour, mock.Since(start))

	later := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.Set(later)
	assert.True(t, mock.Now().Equal(later))
}

func TestMockClock_AutoAdvance(t *testing.T) {
	start := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	mock := NewMockClock(start)
	mock.AutoAdvance(250 * time.Millisecond)

	first := mock.Now()
	assert.Equal(t, 250*time.Millisecond, mock.Since(first))
	assert.True(t, mock.Now().Equal(start.Add(250*time.Millisecond)))
}

func TestOr(t *testing.T) {
	assert.Equal(t, Real, Or(nil))
	mock := NewMockClock(time.Time{})
	assert.Same(t, mock, Or(mock))
}
