package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"caresched/internal/domain"
)

type AppointmentFilter struct {
	ProviderID string
	PatientID  string
	Date       *time.Time
	Status     domain.AppointmentStatus
}

type AppointmentRepository interface {
	// Insert persists a new appointment. The storage layer is the arbiter
	// of the double-booking invariant: a second non-cancelled row for the
	// same (provider, date, start) fails with ErrSlotConflict even when a
	// FindConflict pre-check saw the slot free.
	Insert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)

	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	FindConflict(ctx context.Context, providerID string, date time.Time, start domain.TimeOfDay) (domain.Appointment, error)
	ListBookedStarts(ctx context.Context, providerID string, date time.Time) ([]domain.TimeOfDay, error)
	List(ctx context.Context, f AppointmentFilter) ([]domain.Appointment, error)

	// Reschedule moves a scheduled appointment to a new (date, start) in
	// place. ErrInvalidState when the row is no longer scheduled,
	// ErrSlotConflict when the new tuple is taken.
	Reschedule(ctx context.Context, id uuid.UUID, date time.Time, start domain.TimeOfDay) (domain.Appointment, error)

	// Cancel transitions a scheduled appointment to cancelled, recording
	// reason, actor and timestamp.
	Cancel(ctx context.Context, id uuid.UUID, reason, actor string, at time.Time) (domain.Appointment, error)

	// Transition moves a scheduled appointment to the given terminal
	// status (completed or no_show).
	Transition(ctx context.Context, id uuid.UUID, to domain.AppointmentStatus) (domain.Appointment, error)
}
