package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"caresched/internal/domain"
	"caresched/internal/identity"
	"caresched/internal/service/booking"
	"caresched/internal/store"
)

// BookingService is the slice of the booking façade the transport needs.
type BookingService interface {
	OpenSlots(ctx context.Context, providerID string, date time.Time) ([]domain.Slot, error)
	Book(ctx context.Context, in booking.BookInput, actor identity.Claims) (domain.Appointment, error)
	Reschedule(ctx context.Context, id uuid.UUID, newDate time.Time, newStart domain.TimeOfDay, actor identity.Claims) (domain.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string, actor identity.Claims) error
	Complete(ctx context.Context, id uuid.UUID, actor identity.Claims) error
	MarkNoShow(ctx context.Context, id uuid.UUID, actor identity.Claims) error
	Get(ctx context.Context, id uuid.UUID, actor identity.Claims) (domain.Appointment, error)
	List(ctx context.Context, f store.AppointmentFilter, actor identity.Claims) ([]domain.Appointment, error)
	TodayForProvider(ctx context.Context, providerID string, actor identity.Claims) ([]domain.Appointment, error)
}

func openSlotsHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID := chi.URLParam(r, "providerID")
		date, ok := parseDate(r.URL.Query().Get("date"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_date", "date query parameter must be YYYY-MM-DD")
			return
		}

		slots, err := svc.OpenSlots(r.Context(), providerID, date)
		if err != nil {
			respondError(w, err)
			return
		}

		out := make([]slotResponse, 0, len(slots))
		for _, s := range slots {
			out = append(out, slotResponse{Start: s.Start, DurationMinutes: s.DurationMinutes})
		}
		writeJSON(w, http.StatusOK, openSlotsResponse{
			ProviderID: providerID,
			Date:       date.Format(dateLayout),
			Slots:      out,
		})
	}
}

func bookAppointmentHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
			return
		}
		date, ok := parseDate(req.Date)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_date", "appointment_date must be YYYY-MM-DD")
			return
		}

		appt, err := svc.Book(r.Context(), booking.BookInput{
			PatientID:       req.PatientID,
			ProviderID:      req.ProviderID,
			Date:            date,
			Start:           req.Start,
			DurationMinutes: req.DurationMinutes,
			Reason:          req.Reason,
		}, claimsFromContext(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func rescheduleAppointmentHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req rescheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
			return
		}
		date, ok := parseDate(req.Date)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_date", "appointment_date must be YYYY-MM-DD")
			return
		}

		appt, err := svc.Reschedule(r.Context(), id, date, req.Start, claimsFromContext(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func cancelAppointmentHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req cancelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
			return
		}
		if err := svc.Cancel(r.Context(), id, req.Reason, claimsFromContext(r.Context())); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func completeAppointmentHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := svc.Complete(r.Context(), id, claimsFromContext(r.Context())); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func noShowAppointmentHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := svc.MarkNoShow(r.Context(), id, claimsFromContext(r.Context())); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func getAppointmentHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		appt, err := svc.Get(r.Context(), id, claimsFromContext(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func listAppointmentsHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := store.AppointmentFilter{
			ProviderID: q.Get("provider_id"),
			PatientID:  q.Get("patient_id"),
			Status:     domain.AppointmentStatus(q.Get("status")),
		}
		if raw := q.Get("date"); raw != "" {
			date, ok := parseDate(raw)
			if !ok {
				writeError(w, http.StatusBadRequest, "invalid_date", "date query parameter must be YYYY-MM-DD")
				return
			}
			filter.Date = &date
		}

		appts, err := svc.List(r.Context(), filter, claimsFromContext(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func providerTodayHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID := chi.URLParam(r, "providerID")
		appts, err := svc.TodayForProvider(r.Context(), providerID, claimsFromContext(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
	}
}
