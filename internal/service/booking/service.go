package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"caresched/internal/domain"
	"caresched/internal/identity"
	"caresched/internal/store"
)

const minDurationMinutes = 15

var (
	ErrAlreadyCancelled  = errors.New("appointment already cancelled")
	ErrAlreadyCompleted  = errors.New("appointment already completed")
	ErrInvalidTransition = errors.New("invalid appointment state transition")
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// SlotCache is an optional read-path accelerator for OpenSlots. A stale
// entry is harmless: the ledger's unique index corrects any stale "slot
// looks open" answer at insert time.
type SlotCache interface {
	Get(ctx context.Context, providerID string, date time.Time) ([]domain.Slot, bool)
	Set(ctx context.Context, providerID string, date time.Time, slots []domain.Slot)
	Invalidate(ctx context.Context, providerID string, date time.Time)
}

type Service struct {
	appts store.AppointmentRepository
	avail store.AvailabilityRepository
	slots SlotCache
	now   func() time.Time
}

// NewService wires the booking façade. slots may be nil (no caching); now
// may be nil (wall clock). Tests inject a fixed clock for deterministic
// past-date and transition checks.
func NewService(appts store.AppointmentRepository, avail store.AvailabilityRepository, slots SlotCache, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		appts: appts,
		avail: avail,
		slots: slots,
		now:   now,
	}
}

// OpenSlots returns the slots for providerID on date that are actually
// bookable right now: the generated enumeration minus starts already held
// by a non-cancelled appointment.
func (s *Service) OpenSlots(ctx context.Context, providerID string, date time.Time) ([]domain.Slot, error) {
	if strings.TrimSpace(providerID) == "" {
		return nil, validationError("provider_id is required")
	}
	if date.IsZero() {
		return nil, validationError("date is required")
	}
	day := domain.DateOnly(date)

	if s.slots != nil {
		if cached, ok := s.slots.Get(ctx, providerID, day); ok {
			return cached, nil
		}
	}

	windows, err := s.avail.ListActive(ctx, providerID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	generated := domain.GenerateSlots(windows)

	booked, err := s.appts.ListBookedStarts(ctx, providerID, day)
	if err != nil {
		return nil, err
	}
	taken := make(map[domain.TimeOfDay]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}

	open := make([]domain.Slot, 0, len(generated))
	for _, slot := range generated {
		if _, ok := taken[slot.Start]; ok {
			continue
		}
		open = append(open, slot)
	}

	if s.slots != nil {
		s.slots.Set(ctx, providerID, day, open)
	}
	return open, nil
}

type BookInput struct {
	PatientID       string
	ProviderID      string
	Date            time.Time
	Start           domain.TimeOfDay
	DurationMinutes int
	Reason          string
}

func (s *Service) Book(ctx context.Context, in BookInput, actor identity.Claims) (domain.Appointment, error) {
	patientID := strings.TrimSpace(in.PatientID)
	providerID := strings.TrimSpace(in.ProviderID)
	if patientID == "" {
		return domain.Appointment{}, validationError("patient_id is required")
	}
	if providerID == "" {
		return domain.Appointment{}, validationError("provider_id is required")
	}

	switch actor.Role {
	case identity.RolePatient:
		if actor.Subject != patientID {
			return domain.Appointment{}, identity.ErrForbidden
		}
	case identity.RoleStaff, identity.RoleAdmin:
	default:
		return domain.Appointment{}, identity.ErrForbidden
	}

	date, err := s.validateSlotTarget(in.Date, in.Start)
	if err != nil {
		return domain.Appointment{}, err
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = domain.DefaultSlotMinutes
	}
	if duration < minDurationMinutes {
		return domain.Appointment{}, validationError("duration_minutes must be at least 15")
	}

	// Fast, friendly pre-check. The insert below is the authority: two
	// callers can both pass this check, but only one insert commits.
	if _, err := s.appts.FindConflict(ctx, providerID, date, in.Start); err == nil {
		return domain.Appointment{}, store.ErrSlotConflict
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Appointment{}, err
	}

	appt, err := s.appts.Insert(ctx, domain.Appointment{
		PatientID:       patientID,
		ProviderID:      providerID,
		Date:            date,
		Start:           in.Start,
		DurationMinutes: duration,
		Status:          domain.AppointmentScheduled,
		Reason:          strings.TrimSpace(in.Reason),
	})
	if err != nil {
		return domain.Appointment{}, err
	}

	s.invalidateSlots(ctx, providerID, date)
	return appt, nil
}

func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newDate time.Time, newStart domain.TimeOfDay, actor identity.Claims) (domain.Appointment, error) {
	appt, err := s.getOwned(ctx, id, actor)
	if err != nil {
		return domain.Appointment{}, err
	}
	if appt.Status != domain.AppointmentScheduled {
		return domain.Appointment{}, stateError(appt.Status)
	}

	date, err := s.validateSlotTarget(newDate, newStart)
	if err != nil {
		return domain.Appointment{}, err
	}

	if existing, err := s.appts.FindConflict(ctx, appt.ProviderID, date, newStart); err == nil {
		if existing.ID != id {
			return domain.Appointment{}, store.ErrSlotConflict
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Appointment{}, err
	}

	updated, err := s.appts.Reschedule(ctx, id, date, newStart)
	if err != nil {
		if errors.Is(err, store.ErrInvalidState) {
			return domain.Appointment{}, ErrInvalidTransition
		}
		return domain.Appointment{}, err
	}

	s.invalidateSlots(ctx, appt.ProviderID, appt.Date)
	s.invalidateSlots(ctx, appt.ProviderID, date)
	return updated, nil
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string, actor identity.Claims) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return validationError("cancellation reason is required")
	}

	appt, err := s.appts.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := allowCancel(appt, actor); err != nil {
		return err
	}
	switch appt.Status {
	case domain.AppointmentCancelled:
		return ErrAlreadyCancelled
	case domain.AppointmentScheduled:
	default:
		return ErrInvalidTransition
	}

	if _, err := s.appts.Cancel(ctx, id, reason, actor.Subject, s.now().UTC()); err != nil {
		if errors.Is(err, store.ErrInvalidState) {
			return ErrInvalidTransition
		}
		return err
	}

	// The unique index excludes cancelled rows, so the tuple is free again.
	s.invalidateSlots(ctx, appt.ProviderID, appt.Date)
	return nil
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID, actor identity.Claims) error {
	appt, err := s.getProviderOwned(ctx, id, actor)
	if err != nil {
		return err
	}
	switch appt.Status {
	case domain.AppointmentCompleted:
		return ErrAlreadyCompleted
	case domain.AppointmentScheduled:
	default:
		return ErrInvalidTransition
	}

	if _, err := s.appts.Transition(ctx, id, domain.AppointmentCompleted); err != nil {
		if errors.Is(err, store.ErrInvalidState) {
			return ErrInvalidTransition
		}
		return err
	}
	return nil
}

// MarkNoShow records that the patient did not turn up. Provider or staff
// only, and only once the appointment's start time has passed.
func (s *Service) MarkNoShow(ctx context.Context, id uuid.UUID, actor identity.Claims) error {
	appt, err := s.getProviderOwned(ctx, id, actor)
	if err != nil {
		return err
	}
	if appt.Status != domain.AppointmentScheduled {
		return stateError(appt.Status)
	}
	if !appt.Start.At(appt.Date).Before(s.now().UTC()) {
		return validationError("appointment has not started yet")
	}

	if _, err := s.appts.Transition(ctx, id, domain.AppointmentNoShow); err != nil {
		if errors.Is(err, store.ErrInvalidState) {
			return ErrInvalidTransition
		}
		return err
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID, actor identity.Claims) (domain.Appointment, error) {
	appt, err := s.appts.Get(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if err := allowRead(appt, actor); err != nil {
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (s *Service) List(ctx context.Context, f store.AppointmentFilter, actor identity.Claims) ([]domain.Appointment, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, validationError("unknown status filter")
	}

	// Patients and providers are scoped to their own records regardless of
	// the requested filter.
	switch actor.Role {
	case identity.RolePatient:
		f.PatientID = actor.Subject
	case identity.RoleProvider:
		f.ProviderID = actor.Subject
	}

	return s.appts.List(ctx, f)
}

// TodayForProvider is the provider's work list: today's scheduled
// appointments in time order.
func (s *Service) TodayForProvider(ctx context.Context, providerID string, actor identity.Claims) ([]domain.Appointment, error) {
	if strings.TrimSpace(providerID) == "" {
		return nil, validationError("provider_id is required")
	}
	if actor.Role == identity.RoleProvider && actor.Subject != providerID {
		return nil, identity.ErrForbidden
	}
	if actor.Role == identity.RolePatient {
		return nil, identity.ErrForbidden
	}

	today := domain.DateOnly(s.now())
	return s.appts.List(ctx, store.AppointmentFilter{
		ProviderID: providerID,
		Date:       &today,
		Status:     domain.AppointmentScheduled,
	})
}

func (s *Service) validateSlotTarget(date time.Time, start domain.TimeOfDay) (time.Time, error) {
	if date.IsZero() {
		return time.Time{}, validationError("appointment_date is required")
	}
	if !start.Valid() {
		return time.Time{}, validationError("appointment_time must be within the day")
	}
	day := domain.DateOnly(date)
	if day.Before(domain.DateOnly(s.now())) {
		return time.Time{}, validationError("appointment_date must be today or later")
	}
	return day, nil
}

func (s *Service) invalidateSlots(ctx context.Context, providerID string, date time.Time) {
	if s.slots == nil {
		return
	}
	s.slots.Invalidate(ctx, providerID, domain.DateOnly(date))
}

func (s *Service) getOwned(ctx context.Context, id uuid.UUID, actor identity.Claims) (domain.Appointment, error) {
	appt, err := s.appts.Get(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	switch actor.Role {
	case identity.RolePatient:
		if actor.Subject != appt.PatientID {
			return domain.Appointment{}, identity.ErrForbidden
		}
	case identity.RoleStaff, identity.RoleAdmin:
	default:
		return domain.Appointment{}, identity.ErrForbidden
	}
	return appt, nil
}

func (s *Service) getProviderOwned(ctx context.Context, id uuid.UUID, actor identity.Claims) (domain.Appointment, error) {
	appt, err := s.appts.Get(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	switch actor.Role {
	case identity.RoleProvider:
		if actor.Subject != appt.ProviderID {
			return domain.Appointment{}, identity.ErrForbidden
		}
	case identity.RoleStaff, identity.RoleAdmin:
	default:
		return domain.Appointment{}, identity.ErrForbidden
	}
	return appt, nil
}

func allowCancel(appt domain.Appointment, actor identity.Claims) error {
	switch actor.Role {
	case identity.RolePatient:
		if actor.Subject != appt.PatientID {
			return identity.ErrForbidden
		}
	case identity.RoleProvider:
		if actor.Subject != appt.ProviderID {
			return identity.ErrForbidden
		}
	case identity.RoleStaff, identity.RoleAdmin:
	default:
		return identity.ErrForbidden
	}
	return nil
}

func allowRead(appt domain.Appointment, actor identity.Claims) error {
	return allowCancel(appt, actor)
}

func stateError(current domain.AppointmentStatus) error {
	if current == domain.AppointmentCancelled {
		return ErrAlreadyCancelled
	}
	return ErrInvalidTransition
}
