package menu

import (
	"errors"
	"strings"
)

// Extraction errors for model output that carries no usable JSON array.
var (
	ErrNoJSONArray   = errors.New("no JSON array in model output")
	ErrMalformedJSON = errors.New("malformed JSON array in model output")
)

// StripMarkdownFences removes a leading ```json (or bare ```) fence and a
// trailing ``` fence. Models regularly wrap JSON output in fences even when
// told not to.
func StripMarkdownFences(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// ExtractJSONArray returns the substring from the first '[' to the last ']'
// of text. It does not parse the contents; the caller decides what the
// array means.
func ExtractJSONArray(text string) (string, error) {
	start := strings.Index(text, "[")
	if start == -1 {
		return "", ErrNoJSONArray
	}
	end := strings.LastIndex(text, "]")
	if end < start {
		return "", ErrNoJSONArray
	}
	return text[start : end+1], nil
}
