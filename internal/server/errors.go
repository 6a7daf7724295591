package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ai-dinner-planner/internal/menu"
)

// Client-facing error strings. The web UI matches on the error field, so
// these are part of the endpoint contract.
const (
	errNotFound             = "Not found"
	errMethodNotAllowed     = "Method not allowed"
	errTooManyRequests      = "Too many requests"
	errInvalidRequest       = "Invalid request"
	errPromptRequired       = "Prompt is required"
	errConfiguration        = "Configuration error"
	errServiceBusy          = "Service busy"
	errContentFiltered      = "Content filtered"
	errInvalidAIResponse    = "Invalid AI response"
	errInvalidMenuStructure = "Invalid menu structure"
	errInvalidMenuItem      = "Invalid menu item"
	errGenerationFailed     = "Failed to generate menu"
	errInternal             = "Internal server error"
)

// Upstream error markers, matched as substrings of the provider error.
const (
	markerAPIKeyInvalid     = "API_KEY_INVALID"
	markerRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	markerSafety            = "SAFETY"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, errStr, message string) {
	writeJSON(w, status, ErrorResponse{Error: errStr, Message: message})
}

// mapGenerationError translates a failed generation into a status code and
// client envelope. Parse and validation failures are matched as typed
// errors; provider failures are matched on the markers Gemini embeds in its
// error messages. The raw upstream message is only exposed outside
// production.
func mapGenerationError(err error, production bool) (int, ErrorResponse) {
	switch {
	case errors.Is(err, menu.ErrInvalidStructure):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   errInvalidMenuStructure,
			Message: "The AI response did not contain exactly 7 menu items",
		}
	case errors.Is(err, menu.ErrInvalidItem):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   errInvalidMenuItem,
			Message: "A menu item is missing one of its required fields",
		}
	case errors.Is(err, menu.ErrNoJSONArray), errors.Is(err, menu.ErrMalformedJSON):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   errInvalidAIResponse,
			Message: "The AI response did not contain a readable menu",
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, markerAPIKeyInvalid):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   errConfiguration,
			Message: "The AI service credential is not valid",
		}
	case strings.Contains(msg, markerRateLimitExceeded):
		return http.StatusTooManyRequests, ErrorResponse{
			Error:   errServiceBusy,
			Message: "The AI service is handling too many requests. Please try again shortly.",
		}
	case strings.Contains(msg, markerSafety):
		return http.StatusBadRequest, ErrorResponse{
			Error:   errContentFiltered,
			Message: "The request was blocked by the AI provider's content filters",
		}
	}

	resp := ErrorResponse{
		Error:   errGenerationFailed,
		Message: "An unexpected error occurred while generating the menu",
	}
	if !production {
		resp.Message = msg
	}
	return http.StatusInternalServerError, resp
}
