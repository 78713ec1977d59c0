package store

import (
	"context"

	"github.com/google/uuid"

	"caresched/internal/domain"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error)
	Update(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (domain.AvailabilityWindow, error)
	List(ctx context.Context, providerID string) ([]domain.AvailabilityWindow, error)
	ListActive(ctx context.Context, providerID string, dayOfWeek int) ([]domain.AvailabilityWindow, error)
}
