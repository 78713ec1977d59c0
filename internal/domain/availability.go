package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const DefaultSlotMinutes = 30

type AvailabilityWindow struct {
	bun.BaseModel `bun:"table:availability_windows"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	ProviderID  string    `bun:"provider_id,notnull"`
	DayOfWeek   int       `bun:"day_of_week,notnull"`
	Start       TimeOfDay `bun:"start_minute,notnull"`
	End         TimeOfDay `bun:"end_minute,notnull"`
	SlotMinutes int       `bun:"slot_minutes,notnull"`
	Active      bool      `bun:"active,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

func (w *AvailabilityWindow) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if w.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			w.ID = id
		}
		if w.CreatedAt.IsZero() {
			w.CreatedAt = now
		}
		if w.UpdatedAt.IsZero() {
			w.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		w.UpdatedAt = now
	}
	return nil
}

// Overlaps reports whether the half-open ranges [w.Start,w.End) and
// [other.Start,other.End) intersect. Day-of-week and provider scoping is
// the caller's concern.
func (w AvailabilityWindow) Overlaps(other AvailabilityWindow) bool {
	return w.Start < other.End && other.Start < w.End
}
