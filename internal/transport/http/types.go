package http

import (
	"time"

	"caresched/internal/domain"
)

const dateLayout = "2006-01-02"

type createWindowRequest struct {
	ProviderID  string           `json:"provider_id"`
	DayOfWeek   int              `json:"day_of_week"`
	Start       domain.TimeOfDay `json:"start"`
	End         domain.TimeOfDay `json:"end"`
	SlotMinutes int              `json:"slot_minutes"`
}

type updateWindowRequest struct {
	DayOfWeek   *int              `json:"day_of_week"`
	Start       *domain.TimeOfDay `json:"start"`
	End         *domain.TimeOfDay `json:"end"`
	SlotMinutes *int              `json:"slot_minutes"`
	Active      *bool             `json:"active"`
}

type windowResponse struct {
	ID          string           `json:"id"`
	ProviderID  string           `json:"provider_id"`
	DayOfWeek   int              `json:"day_of_week"`
	Start       domain.TimeOfDay `json:"start"`
	End         domain.TimeOfDay `json:"end"`
	SlotMinutes int              `json:"slot_minutes"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func toWindowResponse(w domain.AvailabilityWindow) windowResponse {
	return windowResponse{
		ID:          w.ID.String(),
		ProviderID:  w.ProviderID,
		DayOfWeek:   w.DayOfWeek,
		Start:       w.Start,
		End:         w.End,
		SlotMinutes: w.SlotMinutes,
		Active:      w.Active,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func toWindowResponses(ws []domain.AvailabilityWindow) []windowResponse {
	out := make([]windowResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, toWindowResponse(w))
	}
	return out
}

type slotResponse struct {
	Start           domain.TimeOfDay `json:"start"`
	DurationMinutes int              `json:"duration_minutes"`
}

type openSlotsResponse struct {
	ProviderID string         `json:"provider_id"`
	Date       string         `json:"date"`
	Slots      []slotResponse `json:"slots"`
}

type bookRequest struct {
	PatientID       string           `json:"patient_id"`
	ProviderID      string           `json:"provider_id"`
	Date            string           `json:"appointment_date"`
	Start           domain.TimeOfDay `json:"appointment_time"`
	DurationMinutes int              `json:"duration_minutes"`
	Reason          string           `json:"reason"`
}

type rescheduleRequest struct {
	Date  string           `json:"appointment_date"`
	Start domain.TimeOfDay `json:"appointment_time"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type appointmentResponse struct {
	ID                 string           `json:"id"`
	PatientID          string           `json:"patient_id"`
	ProviderID         string           `json:"provider_id"`
	Date               string           `json:"appointment_date"`
	Start              domain.TimeOfDay `json:"appointment_time"`
	DurationMinutes    int              `json:"duration_minutes"`
	Status             string           `json:"status"`
	Reason             string           `json:"reason,omitempty"`
	CancellationReason string           `json:"cancellation_reason,omitempty"`
	CancelledBy        string           `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time       `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func toAppointmentResponse(a domain.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:                 a.ID.String(),
		PatientID:          a.PatientID,
		ProviderID:         a.ProviderID,
		Date:               a.Date.Format(dateLayout),
		Start:              a.Start,
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		Reason:             a.Reason,
		CancellationReason: a.CancellationReason,
		CancelledBy:        a.CancelledBy,
		CancelledAt:        a.CancelledAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func toAppointmentResponses(as []domain.Appointment) []appointmentResponse {
	out := make([]appointmentResponse, 0, len(as))
	for _, a := range as {
		out = append(out, toAppointmentResponse(a))
	}
	return out
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
