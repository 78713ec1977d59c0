package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"caresched/internal/domain"
	"caresched/internal/store"
)

type AvailabilityRepo struct {
	db *bun.DB
}

func NewAvailabilityRepo(db *bun.DB) *AvailabilityRepo {
	return &AvailabilityRepo{db: db}
}

func (r *AvailabilityRepo) Create(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	var out domain.AvailabilityWindow
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockProviderDay(ctx, tx, w.ProviderID, w.DayOfWeek); err != nil {
			return err
		}
		if err := ensureNoWindowOverlap(ctx, tx, w, uuid.Nil); err != nil {
			return err
		}

		m := w
		m.Active = true
		if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}
	return out, nil
}

func (r *AvailabilityRepo) Update(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	var out domain.AvailabilityWindow
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockProviderDay(ctx, tx, w.ProviderID, w.DayOfWeek); err != nil {
			return err
		}
		if w.Active {
			if err := ensureNoWindowOverlap(ctx, tx, w, w.ID); err != nil {
				return err
			}
		}

		m := w
		res, err := tx.NewUpdate().
			Model(&m).
			Column("day_of_week", "start_minute", "end_minute", "slot_minutes", "active", "updated_at").
			WherePK().
			Where("provider_id = ?", w.ProviderID).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return store.ErrNotFound
		}
		out = m
		return nil
	})
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}
	return out, nil
}

func (r *AvailabilityRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewUpdate().
		Model((*domain.AvailabilityWindow)(nil)).
		Set("active = FALSE").
		Set("updated_at = now()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *AvailabilityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.AvailabilityWindow)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *AvailabilityRepo) Get(ctx context.Context, id uuid.UUID) (domain.AvailabilityWindow, error) {
	var w domain.AvailabilityWindow
	err := r.db.NewSelect().
		Model(&w).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AvailabilityWindow{}, store.ErrNotFound
		}
		return domain.AvailabilityWindow{}, err
	}
	return w, nil
}

func (r *AvailabilityRepo) List(ctx context.Context, providerID string) ([]domain.AvailabilityWindow, error) {
	var rows []domain.AvailabilityWindow
	err := r.db.NewSelect().
		Model(&rows).
		Where("provider_id = ?", providerID).
		OrderExpr("day_of_week ASC, start_minute ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AvailabilityRepo) ListActive(ctx context.Context, providerID string, dayOfWeek int) ([]domain.AvailabilityWindow, error) {
	var rows []domain.AvailabilityWindow
	err := r.db.NewSelect().
		Model(&rows).
		Where("provider_id = ?", providerID).
		Where("day_of_week = ?", dayOfWeek).
		Where("active").
		OrderExpr("start_minute ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// lockProviderDay serializes window writes per (provider, day) so the
// overlap check below cannot race a concurrent insert for the same day.
func lockProviderDay(ctx context.Context, tx bun.Tx, providerID string, dayOfWeek int) error {
	key := fmt.Sprintf("availability:%s:%d", providerID, dayOfWeek)
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", key).Exec(ctx)
	return err
}

func ensureNoWindowOverlap(ctx context.Context, tx bun.Tx, w domain.AvailabilityWindow, excludeID uuid.UUID) error {
	var others []domain.AvailabilityWindow
	q := tx.NewSelect().
		Model(&others).
		Where("provider_id = ?", w.ProviderID).
		Where("day_of_week = ?", w.DayOfWeek).
		Where("active")
	if excludeID != uuid.Nil {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Scan(ctx); err != nil {
		return err
	}

	for _, o := range others {
		if w.Overlaps(o) {
			return store.ErrWindowOverlap
		}
	}
	return nil
}
