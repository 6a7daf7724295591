package menu

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed menu_prompt.md
var menuPrompt string

// Preferences are the user's menu constraints as selected in the UI.
type Preferences struct {
	TimeToMake   string   `json:"timeToMake"`
	PriceRange   string   `json:"priceRange"`
	Restrictions []string `json:"restrictions"`
}

// BuildPrompt renders the menu prompt template with the given preferences.
// The web UI builds an equivalent prompt client-side; this one serves the
// CLI and tests.
func BuildPrompt(prefs Preferences) (string, error) {
	tmpl, err := template.New("Menu").Parse(menuPrompt)
	if err != nil {
		return "", fmt.Errorf("failed to parse menu prompt template: %w", err)
	}

	data := struct {
		TimeToMake   string
		PriceRange   string
		Restrictions string
	}{
		TimeToMake:   prefs.TimeToMake,
		PriceRange:   prefs.PriceRange,
		Restrictions: strings.Join(prefs.Restrictions, ", "),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render menu prompt: %w", err)
	}

	return buf.String(), nil
}
