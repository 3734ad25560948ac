package realty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
}

func newTestBook() *Book {
	return NewBook(func(o *BookOptions) { o.Now = fixedNow })
}

func TestBookSchedule(t *testing.T) {
	book := newTestBook()
	at := time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC)

	apt, err := book.Schedule("PROP002", "Alice Smith", "+15551234567", at, "prefers mornings")
	require.NoError(t, err)
	assert.Equal(t, "APT0001", apt.ID)
	assert.Equal(t, StatusScheduled, apt.Status)
	assert.Equal(t, at, apt.Time)

	second, err := book.Schedule("PROP003", "Bob", "+15559990000", at, "")
	require.NoError(t, err)
	assert.Equal(t, "APT0002", second.ID, "different property at the same time is fine")
}

func TestBookScheduleRejectsPast(t *testing.T) {
	book := newTestBook()
	_, err := book.Schedule("PROP001", "Alice", "+1555", fixedNow().Add(-time.Hour), "")
	assert.ErrorIs(t, err, ErrPastAppointment)
}

func TestBookScheduleConflict(t *testing.T) {
	book := newTestBook()
	at := time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC)
	_, err := book.Schedule("PROP002", "Alice", "+1555", at, "")
	require.NoError(t, err)

	_, err = book.Schedule("PROP002", "Bob", "+1666", at.Add(30*time.Minute), "")
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Suggested, 3)
	assert.Equal(t, at.Add(90*time.Minute), conflict.Suggested[0])

	// A cancelled viewing frees the slot.
	cancelled, ok := book.Cancel("APT0001")
	require.True(t, ok)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	_, err = book.Schedule("PROP002", "Bob", "+1666", at.Add(30*time.Minute), "")
	assert.NoError(t, err)
}

func TestBookAvailableSlots(t *testing.T) {
	book := newTestBook()
	day := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)

	slots := book.AvailableSlots("PROP001", day)
	require.Len(t, slots, 9)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "17:00", slots[8])

	_, err := book.Schedule("PROP001", "Alice", "+1555", day.Add(10*time.Hour), "")
	require.NoError(t, err)

	slots = book.AvailableSlots("PROP001", day)
	require.Len(t, slots, 8)
	assert.NotContains(t, slots, "10:00")

	// Same day as "now": morning slots already past are excluded.
	today := fixedNow()
	slots = book.AvailableSlots("PROP001", today)
	assert.Equal(t, "09:00", slots[0], "09:00 is still ahead of 08:00")
}

func TestBookCancelUnknown(t *testing.T) {
	book := newTestBook()
	_, ok := book.Cancel("APT9999")
	assert.False(t, ok)
}

func TestBookByClient(t *testing.T) {
	book := newTestBook()
	base := time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC)

	_, err := book.Schedule("PROP001", "Alice", "+1555", base.Add(4*time.Hour), "")
	require.NoError(t, err)
	_, err = book.Schedule("PROP002", "Alice", "+1555", base, "")
	require.NoError(t, err)
	_, err = book.Schedule("PROP003", "Bob", "+1666", base, "")
	require.NoError(t, err)

	appointments := book.ByClient("+1555")
	require.Len(t, appointments, 2)
	assert.True(t, appointments[0].Time.Before(appointments[1].Time), "ordered by time")

	_, ok := book.Cancel(appointments[0].ID)
	require.True(t, ok)
	assert.Len(t, book.ByClient("+1555"), 1, "cancelled viewings drop out")
}
