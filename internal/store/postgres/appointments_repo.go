package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"caresched/internal/domain"
	"caresched/internal/store"
)

// slotTakenConstraint is the partial unique index over
// (provider_id, appointment_date, start_minute) WHERE status <> 'cancelled'.
// It is the authoritative double-booking guard: under concurrency exactly
// one insert for a tuple commits and the rest surface ErrSlotConflict.
const slotTakenConstraint = "appointments_slot_taken"

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) Insert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Appointment{}, mapSlotConflict(err)
	}
	return m, nil
}

func (r *AppointmentRepo) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var a domain.Appointment
	err := r.db.NewSelect().
		Model(&a).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentRepo) FindConflict(ctx context.Context, providerID string, date time.Time, start domain.TimeOfDay) (domain.Appointment, error) {
	var a domain.Appointment
	err := r.db.NewSelect().
		Model(&a).
		Where("provider_id = ?", providerID).
		Where("appointment_date = ?", domain.DateOnly(date)).
		Where("start_minute = ?", start).
		Where("status != ?", domain.AppointmentCancelled).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentRepo) ListBookedStarts(ctx context.Context, providerID string, date time.Time) ([]domain.TimeOfDay, error) {
	var minutes []int
	err := r.db.NewSelect().
		Model((*domain.Appointment)(nil)).
		Column("start_minute").
		Where("provider_id = ?", providerID).
		Where("appointment_date = ?", domain.DateOnly(date)).
		Where("status != ?", domain.AppointmentCancelled).
		OrderExpr("start_minute ASC").
		Scan(ctx, &minutes)
	if err != nil {
		return nil, err
	}

	out := make([]domain.TimeOfDay, 0, len(minutes))
	for _, m := range minutes {
		out = append(out, domain.TimeOfDay(m))
	}
	return out, nil
}

func (r *AppointmentRepo) List(ctx context.Context, f store.AppointmentFilter) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	q := r.db.NewSelect().Model(&rows)
	if f.ProviderID != "" {
		q = q.Where("provider_id = ?", f.ProviderID)
	}
	if f.PatientID != "" {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.Date != nil {
		q = q.Where("appointment_date = ?", domain.DateOnly(*f.Date))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	err := q.OrderExpr("appointment_date ASC, start_minute ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) Reschedule(ctx context.Context, id uuid.UUID, date time.Time, start domain.TimeOfDay) (domain.Appointment, error) {
	res, err := r.db.NewUpdate().
		Model((*domain.Appointment)(nil)).
		Set("appointment_date = ?", domain.DateOnly(date)).
		Set("start_minute = ?", start).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("status = ?", domain.AppointmentScheduled).
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, mapSlotConflict(err)
	}
	return r.afterGuardedUpdate(ctx, id, res)
}

func (r *AppointmentRepo) Cancel(ctx context.Context, id uuid.UUID, reason, actor string, at time.Time) (domain.Appointment, error) {
	res, err := r.db.NewUpdate().
		Model((*domain.Appointment)(nil)).
		Set("status = ?", domain.AppointmentCancelled).
		Set("cancellation_reason = ?", reason).
		Set("cancelled_by = ?", actor).
		Set("cancelled_at = ?", at.UTC()).
		Set("updated_at = ?", at.UTC()).
		Where("id = ?", id).
		Where("status = ?", domain.AppointmentScheduled).
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	return r.afterGuardedUpdate(ctx, id, res)
}

func (r *AppointmentRepo) Transition(ctx context.Context, id uuid.UUID, to domain.AppointmentStatus) (domain.Appointment, error) {
	res, err := r.db.NewUpdate().
		Model((*domain.Appointment)(nil)).
		Set("status = ?", to).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("status = ?", domain.AppointmentScheduled).
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	return r.afterGuardedUpdate(ctx, id, res)
}

// afterGuardedUpdate resolves the outcome of an UPDATE guarded by
// status = 'scheduled'. Zero affected rows means the row is gone or a
// concurrent transition won; the re-read tells the two apart.
func (r *AppointmentRepo) afterGuardedUpdate(ctx context.Context, id uuid.UUID, res sql.Result) (domain.Appointment, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return domain.Appointment{}, err
		}
		return domain.Appointment{}, store.ErrInvalidState
	}
	return r.Get(ctx, id)
}

func mapSlotConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == slotTakenConstraint {
		return store.ErrSlotConflict
	}
	return err
}
