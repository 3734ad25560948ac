package realty

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusCancelled = "cancelled"
)

// ErrPastAppointment rejects viewings scheduled before the current time.
var ErrPastAppointment = errors.New("cannot schedule appointments in the past")

// ConflictError reports a slot collision together with alternative times.
type ConflictError struct {
	Suggested []time.Time
}

func (e *ConflictError) Error() string {
	return "time slot is already booked"
}

// Appointment is a scheduled property viewing.
type Appointment struct {
	ID          string     `json:"appointment_id"`
	PropertyID  string     `json:"property_id"`
	ClientName  string     `json:"client_name"`
	ClientPhone string     `json:"client_phone"`
	Time        time.Time  `json:"datetime"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// BookOptions configures a Book.
type BookOptions struct {
	// Now supplies the current time; defaults to time.Now.
	Now func() time.Time
}

// Book is an in-memory appointment register. Safe for concurrent use.
type Book struct {
	mu           sync.Mutex
	appointments []*Appointment
	now          func() time.Time
}

// NewBook constructs an empty appointment book.
func NewBook(optFns ...func(o *BookOptions)) *Book {
	opts := BookOptions{Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Book{now: opts.Now}
}

// Schedule books a viewing at the given time. It refuses past times and, when
// another viewing of the same property sits within an hour of the requested
// slot, returns a ConflictError carrying the next three hourly alternatives.
func (b *Book) Schedule(propertyID, clientName, clientPhone string, at time.Time, notes string) (Appointment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if at.Before(now) {
		return Appointment{}, ErrPastAppointment
	}

	for _, apt := range b.appointments {
		if apt.PropertyID != propertyID || apt.Status != StatusScheduled {
			continue
		}
		diff := apt.Time.Sub(at)
		if diff < 0 {
			diff = -diff
		}
		if diff < time.Hour {
			return Appointment{}, &ConflictError{Suggested: []time.Time{
				at.Add(1 * time.Hour),
				at.Add(2 * time.Hour),
				at.Add(3 * time.Hour),
			}}
		}
	}

	apt := &Appointment{
		ID:          fmt.Sprintf("APT%04d", len(b.appointments)+1),
		PropertyID:  propertyID,
		ClientName:  clientName,
		ClientPhone: clientPhone,
		Time:        at,
		Status:      StatusScheduled,
		Notes:       notes,
		CreatedAt:   now,
	}
	b.appointments = append(b.appointments, apt)
	return *apt, nil
}

// AvailableSlots returns the free hourly viewing slots for a property on the
// given day, formatted HH:MM. Viewings run 09:00 through 17:00; slots already
// past are excluded.
func (b *Book) AvailableSlots(propertyID string, day time.Time) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	booked := make(map[time.Time]bool)
	for _, apt := range b.appointments {
		if apt.PropertyID == propertyID && sameDay(apt.Time, day) {
			booked[apt.Time] = true
		}
	}

	now := b.now()
	slots := make([]string, 0, 9)
	for hour := 9; hour < 18; hour++ {
		slot := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
		if booked[slot] || !slot.After(now) {
			continue
		}
		slots = append(slots, slot.Format("15:04"))
	}
	return slots
}

// Cancel marks an appointment cancelled. The second return reports whether
// the id was known.
func (b *Book) Cancel(appointmentID string) (Appointment, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, apt := range b.appointments {
		if apt.ID == appointmentID {
			apt.Status = StatusCancelled
			cancelled := b.now()
			apt.CancelledAt = &cancelled
			return *apt, true
		}
	}
	return Appointment{}, false
}

// Get looks up an appointment by id.
func (b *Book) Get(appointmentID string) (Appointment, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, apt := range b.appointments {
		if apt.ID == appointmentID {
			return *apt, true
		}
	}
	return Appointment{}, false
}

// ByClient returns a client's scheduled appointments ordered by time.
func (b *Book) ByClient(clientPhone string) []Appointment {
	b.mu.Lock()
	defer b.mu.Unlock()

	appointments := make([]Appointment, 0)
	for _, apt := range b.appointments {
		if apt.ClientPhone == clientPhone && apt.Status == StatusScheduled {
			appointments = append(appointments, *apt)
		}
	}
	sort.Slice(appointments, func(i, j int) bool {
		return appointments[i].Time.Before(appointments[j].Time)
	})
	return appointments
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
