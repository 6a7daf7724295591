package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ai-dinner-planner/internal/history"
	"ai-dinner-planner/internal/menu"
	"ai-dinner-planner/internal/metrics"
	"ai-dinner-planner/internal/ratelimit"
	"ai-dinner-planner/internal/shared"
)

// MenuGenerator produces a validated 7-day menu from a prompt.
type MenuGenerator interface {
	Generate(ctx context.Context, prompt string) ([]menu.MenuItem, shared.GenerationMeta, error)
}

// Limiter decides whether a client identifier may make another request.
type Limiter interface {
	Allow(id string, now time.Time) ratelimit.Decision
	Limit() int
}

// GenerationRecorder persists metadata about each model call.
type GenerationRecorder interface {
	RecordMeta(ctx context.Context, meta shared.GenerationMeta, status string) error
}

// MenuSaver persists generated menus for later retrieval.
type MenuSaver interface {
	Save(ctx context.Context, m history.SavedMenu) error
}

func (s *Server) handleGenerateMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := clientIP(r)
	decision := s.limiter.Allow(id, time.Now())
	if !decision.Allowed {
		rateLimitRejects.Inc()
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(decision.RetryAfter)))
		writeError(w, http.StatusTooManyRequests, errTooManyRequests,
			"Please wait a moment before requesting another menu")
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(s.limiter.Limit()))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

	var req GenerateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidRequest, "Request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, errPromptRequired, "Include a prompt describing the menu to generate")
		return
	}
	if s.generator == nil {
		writeError(w, http.StatusInternalServerError, errConfiguration, "The AI service credential is not configured")
		return
	}

	items, meta, err := s.generator.Generate(ctx, req.Prompt)
	if err != nil {
		s.recordGeneration(ctx, meta, metrics.StatusError)
		status, resp := mapGenerationError(err, s.production)
		generationErrors.WithLabelValues(resp.Error).Inc()
		slog.Error("menu generation failed",
			"error", err,
			"status", status,
			"client_ip", id,
			"request_id", RequestID(ctx),
		)
		writeJSON(w, status, resp)
		return
	}

	s.recordGeneration(ctx, meta, metrics.StatusOK)
	s.saveMenu(ctx, id, req, items, meta)

	restrictions := req.Restrictions
	if restrictions == nil {
		restrictions = []string{}
	}
	writeJSON(w, http.StatusOK, GenerateMenuResponse{
		Success: true,
		Menu:    items,
		Metadata: MenuMetadata{
			GeneratedAt:  time.Now().UTC(),
			TimeToMake:   req.TimeToMake,
			PriceRange:   req.PriceRange,
			Restrictions: restrictions,
			Model:        meta.Usage.Model,
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// handlePreflight answers OPTIONS requests that carry no
// Access-Control-Request-Method header and therefore bypass the CORS
// middleware's preflight handling.
func (s *Server) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) recordGeneration(ctx context.Context, meta shared.GenerationMeta, status string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordMeta(ctx, meta, status); err != nil {
		slog.Warn("failed to record generation metric", "error", err)
	}
}

func (s *Server) saveMenu(ctx context.Context, clientID string, req GenerateMenuRequest, items []menu.MenuItem, meta shared.GenerationMeta) {
	if s.saver == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		slog.Warn("failed to encode menu for history", "error", err)
		return
	}
	saved := history.SavedMenu{
		ClientID:     clientID,
		TimeToMake:   req.TimeToMake,
		PriceRange:   req.PriceRange,
		Restrictions: req.Restrictions,
		Model:        meta.Usage.Model,
		MenuData:     data,
	}
	if err := s.saver.Save(ctx, saved); err != nil {
		slog.Warn("failed to save menu to history", "error", err)
	}
}

// retryAfterSeconds converts a wait duration to whole seconds for the
// Retry-After header, never less than one.
func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
