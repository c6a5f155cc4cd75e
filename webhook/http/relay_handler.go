package http

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/benjination/portfolio-blog/blog/domain"
	"github.com/benjination/portfolio-blog/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	RegeneratePath    = "/regenerate-blog-pages"
	regenerateMessage = "Blog post updated, regenerating static pages"
)

type errorResponse struct {
	Error string `json:"error"`
}

type upstreamErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RelayHandler authenticates regenerate requests and forwards them as a
// repository dispatch.
type RelayHandler struct {
	expectedAuth []byte
	dispatcher   domain.Dispatcher
	eventType    string
	recorder     metrics.Recorder
	now          func() time.Time
}

func NewRelayHandler(secret string, eventType string, dispatcher domain.Dispatcher, recorder metrics.Recorder) *RelayHandler {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	return &RelayHandler{
		expectedAuth: []byte("Bearer " + secret),
		dispatcher:   dispatcher,
		eventType:    eventType,
		recorder:     recorder,
		now:          time.Now,
	}
}

// HandleRegenerate answers POST /regenerate-blog-pages.
func (h *RelayHandler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	if err := h.authenticate(r); err != nil {
		h.recorder.IncAuthFailure()
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("Rejected regenerate request")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}

	evt := domain.DispatchEvent{
		EventType: h.eventType,
		Message:   regenerateMessage,
		Timestamp: h.now(),
	}

	start := time.Now()
	result, err := h.dispatcher.Dispatch(r.Context(), evt)
	h.recorder.ObserveDispatchDuration(time.Since(start))

	if err != nil {
		h.recorder.IncDispatch(metrics.OutcomeNetworkError)
		log.Error().Err(err).Str("repo", h.dispatcher.GetRepoFullName()).Msg("Request error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Network error"})
		return
	}

	if result.StatusCode != http.StatusNoContent {
		h.recorder.IncDispatch(metrics.OutcomeUpstreamError)
		log.Error().
			Int("status", result.StatusCode).
			Str("body", result.Body).
			Str("repo", h.dispatcher.GetRepoFullName()).
			Msg("GitHub API error")
		writeJSON(w, http.StatusInternalServerError, upstreamErrorResponse{
			Error:   "Failed to trigger regeneration",
			Details: result.Body,
		})
		return
	}

	h.recorder.IncDispatch(metrics.OutcomeSuccess)
	log.Info().Str("repo", h.dispatcher.GetRepoFullName()).Str("eventType", h.eventType).Msg("Triggered static page regeneration")
	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Static page regeneration triggered successfully",
	})
}

func (h *RelayHandler) authenticate(r *http.Request) error {
	got := r.Header.Get("Authorization")
	if got == "" {
		return fmt.Errorf("%w: missing authorization header", domain.ErrUnauthorized)
	}
	if subtle.ConstantTimeCompare([]byte(got), h.expectedAuth) != 1 {
		return fmt.Errorf("%w: secret mismatch", domain.ErrUnauthorized)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}
