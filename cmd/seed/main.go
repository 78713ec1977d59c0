package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"caresched/internal/domain"
	"caresched/internal/store/postgres"
)

const (
	providerCount        = 20
	appointmentsPerDay   = 4
	appointmentDaysAhead = 5
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("CARESCHED_DATABASE_URL")
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		log.Fatal("CARESCHED_DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, dsn, postgres.PoolConfig{})
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer db.Close()

	gofakeit.Seed(time.Now().UnixNano())

	providers, err := seedAvailability(context.Background(), db, providerCount)
	if err != nil {
		log.Fatalf("seed availability: %v", err)
	}
	if err := seedAppointments(context.Background(), db, providers); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

// seedAvailability gives each synthetic provider a Monday-to-Friday
// morning and afternoon window and returns the provider ids.
func seedAvailability(ctx context.Context, db *bun.DB, count int) ([]string, error) {
	log.Printf("seeding availability for %d providers", count)

	morningStart := domain.NewTimeOfDay(9, 0)
	morningEnd := domain.NewTimeOfDay(12, 0)
	afternoonStart := domain.NewTimeOfDay(13, 0)
	afternoonEnd := domain.NewTimeOfDay(17, 0)

	providers := make([]string, 0, count)
	windows := make([]domain.AvailabilityWindow, 0, count*10)

	for i := 0; i < count; i++ {
		providerID := uuid.New().String()
		providers = append(providers, providerID)

		for day := 1; day <= 5; day++ {
			windows = append(windows,
				domain.AvailabilityWindow{
					ProviderID:  providerID,
					DayOfWeek:   day,
					Start:       morningStart,
					End:         morningEnd,
					SlotMinutes: domain.DefaultSlotMinutes,
					Active:      true,
				},
				domain.AvailabilityWindow{
					ProviderID:  providerID,
					DayOfWeek:   day,
					Start:       afternoonStart,
					End:         afternoonEnd,
					SlotMinutes: domain.DefaultSlotMinutes,
					Active:      true,
				},
			)
		}
	}

	if _, err := db.NewInsert().Model(&windows).Exec(ctx); err != nil {
		return nil, err
	}

	log.Println("availability seeded")
	return providers, nil
}

// seedAppointments books a handful of upcoming slots per provider so
// slot listings show realistic gaps.
func seedAppointments(ctx context.Context, db *bun.DB, providers []string) error {
	log.Printf("seeding appointments for %d providers", len(providers))

	reasons := []string{
		"Annual checkup",
		"Follow-up visit",
		"Lab results review",
		"Persistent headache",
		"Back pain",
		"Prescription renewal",
		"Skin rash",
		"Flu symptoms",
	}

	appts := make([]domain.Appointment, 0, len(providers)*appointmentsPerDay*appointmentDaysAhead)
	today := domain.DateOnly(time.Now())

	for _, providerID := range providers {
		for dayOffset := 1; dayOffset <= appointmentDaysAhead; dayOffset++ {
			date := today.AddDate(0, 0, dayOffset)
			if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}

			taken := make(map[domain.TimeOfDay]struct{}, appointmentsPerDay)
			for len(taken) < appointmentsPerDay {
				hour := gofakeit.Number(9, 16)
				if hour == 12 {
					continue
				}
				minute := 0
				if gofakeit.Bool() {
					minute = 30
				}
				start := domain.NewTimeOfDay(hour, minute)
				if _, dup := taken[start]; dup {
					continue
				}
				taken[start] = struct{}{}

				appts = append(appts, domain.Appointment{
					PatientID:       uuid.New().String(),
					ProviderID:      providerID,
					Date:            date,
					Start:           start,
					DurationMinutes: domain.DefaultSlotMinutes,
					Status:          domain.AppointmentScheduled,
					Reason:          reasons[gofakeit.Number(0, len(reasons)-1)],
				})
			}
		}
	}

	if _, err := db.NewInsert().Model(&appts).Exec(ctx); err != nil {
		return err
	}

	log.Println("appointments seeded")
	return nil
}
