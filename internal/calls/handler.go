package calls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/voxlane/voxlane-platform/internal/assign"
	"github.com/voxlane/voxlane-platform/internal/calendar"
	"github.com/voxlane/voxlane-platform/pkg/logging"
)

// Resolver routes a topic to a responder profile.
type Resolver interface {
	Assign(topic string, rctx assign.Context) assign.Assignment
}

// CompletionScheduler lets the submission path cancel or force the pending
// dwell completion owned by the sweep.
type CompletionScheduler interface {
	Complete(ctx context.Context, callID string) error
	Cancel(callID string)
}

// Handler handles HTTP requests for scheduled calls
type Handler struct {
	store       *Store
	resolver    Resolver
	completions CompletionScheduler
	logger      *logging.Logger
}

// NewHandler creates a new calls handler
func NewHandler(store *Store, resolver Resolver, completions CompletionScheduler, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:       store,
		resolver:    resolver,
		completions: completions,
		logger:      logger,
	}
}

// CreateCallResponse is the response for scheduling a call.
type CreateCallResponse struct {
	Call     ScheduledCall          `json:"call"`
	Reason   string                 `json:"assignment_reason"`
	Calendar calendar.ProviderLinks `json:"calendar"`
}

// CreateCall handles POST /calls requests
func (h *Handler) CreateCall(w http.ResponseWriter, r *http.Request) {
	var req CreateCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	assignment := h.resolver.Assign(req.Topic, assign.Context{Company: req.Company, Name: req.Name})

	now := time.Now()
	call := ScheduledCall{
		ID:            NewCallID(now),
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Company:       req.Company,
		Topic:         req.Topic,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Timezone:      req.Timezone,
		AssignedAgent: &AssignedAgent{ID: assignment.ID, Name: assignment.Name, Type: assignment.Type},
		Status:        StatusScheduled,
		ScheduledAt:   now.UTC(),
	}

	if err := h.appendCall(r.Context(), call); err != nil {
		h.logger.Error("failed to save call", "error", err)
		http.Error(w, "failed to schedule call", http.StatusInternalServerError)
		return
	}

	h.logger.Info("call scheduled",
		"id", call.ID,
		"agent", assignment.Name,
		"agent_type", assignment.Type,
		"preferred_date", call.PreferredDate,
		"preferred_time", call.PreferredTime,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateCallResponse{
		Call:     call,
		Reason:   assignment.Reason,
		Calendar: calendar.Links(callEvent(&call)),
	})
}

// ListCallsResponse is the response for listing scheduled calls
type ListCallsResponse struct {
	Calls []ScheduledCall `json:"calls"`
	Count int             `json:"count"`
}

// ListCalls handles GET /calls requests
func (h *Handler) ListCalls(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.LoadAll(r.Context())
	if err != nil {
		h.logger.Error("failed to load calls", "error", err)
		http.Error(w, "failed to list calls", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListCallsResponse{Calls: records, Count: len(records)})
}

// ListCallLogs handles GET /calls/logs requests
func (h *Handler) ListCallLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.LoadAllLogs(r.Context())
	if err != nil {
		h.logger.Error("failed to load call logs", "error", err)
		http.Error(w, "failed to list call logs", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"logs": entries, "count": len(entries)})
}

// DeleteCall handles DELETE /calls/{id} requests. Removing a call also
// disarms any pending dwell completion for it.
func (h *Handler) DeleteCall(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.removeCall(r.Context(), id); err != nil {
		if errors.Is(err, ErrCallNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete call", "error", err)
		http.Error(w, "failed to delete call", http.StatusInternalServerError)
		return
	}
	if h.completions != nil {
		h.completions.Cancel(id)
	}

	h.logger.Info("call deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// CompleteCall handles POST /calls/{id}/complete requests (manual completion).
func (h *Handler) CompleteCall(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	call, err := h.findCall(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCallNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load calls", "error", err)
		http.Error(w, "failed to complete call", http.StatusInternalServerError)
		return
	}

	if h.completions != nil {
		if err := h.completions.Complete(r.Context(), id); err != nil {
			h.logger.Error("failed to complete call", "error", err, "id", id)
			http.Error(w, "failed to complete call", http.StatusInternalServerError)
			return
		}
	}

	// Re-read so the response reflects the applied transition.
	if updated, err := h.findCall(r.Context(), id); err == nil {
		call = updated
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(call)
}

// DownloadCalendar handles GET /calls/{id}/calendar.ics requests, streaming
// the iCalendar artifact for the call's scheduled slot.
func (h *Handler) DownloadCalendar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	call, err := h.findCall(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCallNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load calls", "error", err)
		http.Error(w, "failed to export calendar", http.StatusInternalServerError)
		return
	}

	evt := callEvent(call)
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", calendar.FileName(evt)))
	_, _ = w.Write([]byte(calendar.Encode(evt)))
}

// appendCall adds a record under the store's read-modify-write lock so the
// wholesale save cannot overwrite a transition persisted by the sweep.
func (h *Handler) appendCall(ctx context.Context, call ScheduledCall) error {
	mu := h.store.Mutex()
	mu.Lock()
	defer mu.Unlock()

	records, err := h.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	return h.store.SaveAll(ctx, append(records, call))
}

// removeCall deletes a record under the same lock.
func (h *Handler) removeCall(ctx context.Context, id string) error {
	mu := h.store.Mutex()
	mu.Lock()
	defer mu.Unlock()

	records, err := h.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	kept := records[:0]
	found := false
	for _, c := range records {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return ErrCallNotFound
	}
	return h.store.SaveAll(ctx, kept)
}

func (h *Handler) findCall(ctx context.Context, id string) (*ScheduledCall, error) {
	records, err := h.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, ErrCallNotFound
}

// callEvent maps a scheduled call onto the calendar codec's abstract event.
func callEvent(call *ScheduledCall) calendar.Event {
	agent := "a Voxlane agent"
	if call.AssignedAgent != nil && call.AssignedAgent.Name != "" {
		agent = call.AssignedAgent.Name
	}
	return calendar.Event{
		Title:         fmt.Sprintf("Voxlane call with %s", agent),
		Description:   call.Topic,
		Location:      "Phone: " + call.Phone,
		StartDate:     call.PreferredDate,
		StartTime:     call.PreferredTime,
		Timezone:      call.Timezone,
		AttendeeEmail: call.Email,
		Organizer:     "Voxlane Scheduling",
	}
}
