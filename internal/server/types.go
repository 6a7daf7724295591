package server

import (
	"time"

	"ai-dinner-planner/internal/menu"
)

// GenerateMenuRequest is the body of POST /api/generate-menu. The prompt is
// built client-side from the preferences; the preference fields ride along
// so the response can echo them.
type GenerateMenuRequest struct {
	Prompt       string   `json:"prompt"`
	TimeToMake   string   `json:"timeToMake"`
	PriceRange   string   `json:"priceRange"`
	Restrictions []string `json:"restrictions"`
}

// MenuMetadata echoes the request preferences together with generation
// details.
type MenuMetadata struct {
	GeneratedAt  time.Time `json:"generatedAt"`
	TimeToMake   string    `json:"timeToMake"`
	PriceRange   string    `json:"priceRange"`
	Restrictions []string  `json:"restrictions"`
	Model        string    `json:"model,omitempty"`
}

// GenerateMenuResponse is the success envelope for a generated menu.
type GenerateMenuResponse struct {
	Success  bool            `json:"success"`
	Menu     []menu.MenuItem `json:"menu"`
	Metadata MenuMetadata    `json:"metadata"`
}

// ErrorResponse is the error envelope for every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}
