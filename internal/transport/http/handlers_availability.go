package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"caresched/internal/domain"
	"caresched/internal/identity"
	"caresched/internal/service/availability"
)

// AvailabilityService is the slice of the availability façade the transport
// needs. Tests substitute a fake.
type AvailabilityService interface {
	Create(ctx context.Context, in availability.CreateInput, actor identity.Claims) (domain.AvailabilityWindow, error)
	Update(ctx context.Context, id uuid.UUID, in availability.UpdateInput, actor identity.Claims) (domain.AvailabilityWindow, error)
	Deactivate(ctx context.Context, id uuid.UUID, actor identity.Claims) error
	Delete(ctx context.Context, id uuid.UUID, actor identity.Claims) error
	Get(ctx context.Context, id uuid.UUID) (domain.AvailabilityWindow, error)
	List(ctx context.Context, providerID string) ([]domain.AvailabilityWindow, error)
}

func createWindowHandler(svc AvailabilityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createWindowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
			return
		}

		window, err := svc.Create(r.Context(), availability.CreateInput{
			ProviderID:  req.ProviderID,
			DayOfWeek:   req.DayOfWeek,
			Start:       req.Start,
			End:         req.End,
			SlotMinutes: req.SlotMinutes,
		}, claimsFromContext(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toWindowResponse(window))
	}
}

func updateWindowHandler(svc AvailabilityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		var req updateWindowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
			return
		}

		window, err := svc.Update(r.Context(), id, availability.UpdateInput{
			DayOfWeek:   req.DayOfWeek,
			Start:       req.Start,
			End:         req.End,
			SlotMinutes: req.SlotMinutes,
			Active:      req.Active,
		}, claimsFromContext(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWindowResponse(window))
	}
}

func deactivateWindowHandler(svc AvailabilityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := svc.Deactivate(r.Context(), id, claimsFromContext(r.Context())); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteWindowHandler(svc AvailabilityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), id, claimsFromContext(r.Context())); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func getWindowHandler(svc AvailabilityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		window, err := svc.Get(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWindowResponse(window))
	}
}

func listWindowsHandler(svc AvailabilityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID := chi.URLParam(r, "providerID")
		windows, err := svc.List(r.Context(), providerID)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWindowResponses(windows))
	}
}

// pathID parses the {id} route param, answering 400 itself on bad input.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
