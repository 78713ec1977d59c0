package availability

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"caresched/internal/domain"
	"caresched/internal/identity"
	"caresched/internal/store"
)

const minSlotMinutes = 5

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type Service struct {
	repo store.AvailabilityRepository
}

func NewService(repo store.AvailabilityRepository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	ProviderID  string
	DayOfWeek   int
	Start       domain.TimeOfDay
	End         domain.TimeOfDay
	SlotMinutes int
}

func (s *Service) Create(ctx context.Context, in CreateInput, actor identity.Claims) (domain.AvailabilityWindow, error) {
	providerID := strings.TrimSpace(in.ProviderID)
	if providerID == "" {
		return domain.AvailabilityWindow{}, validationError("provider_id is required")
	}
	if actor.Role == identity.RoleProvider && actor.Subject != providerID {
		return domain.AvailabilityWindow{}, identity.ErrForbidden
	}
	if actor.Role == identity.RolePatient {
		return domain.AvailabilityWindow{}, identity.ErrForbidden
	}

	slotMinutes := in.SlotMinutes
	if slotMinutes == 0 {
		slotMinutes = domain.DefaultSlotMinutes
	}

	w := domain.AvailabilityWindow{
		ProviderID:  providerID,
		DayOfWeek:   in.DayOfWeek,
		Start:       in.Start,
		End:         in.End,
		SlotMinutes: slotMinutes,
		Active:      true,
	}
	if err := validateWindow(w); err != nil {
		return domain.AvailabilityWindow{}, err
	}

	return s.repo.Create(ctx, w)
}

type UpdateInput struct {
	DayOfWeek   *int
	Start       *domain.TimeOfDay
	End         *domain.TimeOfDay
	SlotMinutes *int
	Active      *bool
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput, actor identity.Claims) (domain.AvailabilityWindow, error) {
	if id == uuid.Nil {
		return domain.AvailabilityWindow{}, validationError("window id is required")
	}

	w, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}
	if err := requireOwner(w, actor); err != nil {
		return domain.AvailabilityWindow{}, err
	}

	if in.DayOfWeek != nil {
		w.DayOfWeek = *in.DayOfWeek
	}
	if in.Start != nil {
		w.Start = *in.Start
	}
	if in.End != nil {
		w.End = *in.End
	}
	if in.SlotMinutes != nil {
		w.SlotMinutes = *in.SlotMinutes
	}
	if in.Active != nil {
		w.Active = *in.Active
	}
	if err := validateWindow(w); err != nil {
		return domain.AvailabilityWindow{}, err
	}

	return s.repo.Update(ctx, w)
}

// Deactivate is the preferred way to retire a window: appointments already
// booked against its slots stay valid, since an appointment does not
// reference the window it came from.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID, actor identity.Claims) error {
	w, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(w, actor); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor identity.Claims) error {
	w, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(w, actor); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.AvailabilityWindow, error) {
	if id == uuid.Nil {
		return domain.AvailabilityWindow{}, validationError("window id is required")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, providerID string) ([]domain.AvailabilityWindow, error) {
	if strings.TrimSpace(providerID) == "" {
		return nil, validationError("provider_id is required")
	}
	return s.repo.List(ctx, providerID)
}

func requireOwner(w domain.AvailabilityWindow, actor identity.Claims) error {
	switch actor.Role {
	case identity.RoleProvider:
		if actor.Subject != w.ProviderID {
			return identity.ErrForbidden
		}
		return nil
	case identity.RoleStaff, identity.RoleAdmin:
		return nil
	default:
		return identity.ErrForbidden
	}
}

func validateWindow(w domain.AvailabilityWindow) error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return validationError("day_of_week must be between 0 and 6")
	}
	if !w.Start.Valid() || !w.End.Valid() {
		return validationError("start and end must be within the day")
	}
	if w.Start >= w.End {
		return validationError("end must be after start")
	}
	if w.SlotMinutes < minSlotMinutes {
		return validationError("slot_minutes must be at least 5")
	}
	return nil
}
