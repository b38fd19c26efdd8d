package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gohan-planner/internal/apperr"
	"gohan-planner/internal/mealplan"
)

var errJSONNotFound = errors.New("JSON not found in response")

// extractJSON returns the span from the first '{' to the last '}' of the
// trimmed text. Prose or code fences around the object are dropped.
func extractJSON(text string) (string, bool) {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// ParsePlan extracts the JSON object from a model answer and decodes it into
// a normalized plan.
func ParsePlan(text string) (*mealplan.WeeklyPlan, error) {
	raw, ok := extractJSON(text)
	if !ok {
		return nil, apperr.Parse("", errJSONNotFound)
	}

	plan := &mealplan.WeeklyPlan{}
	if err := json.Unmarshal([]byte(raw), plan); err != nil {
		return nil, apperr.Parse("", fmt.Errorf("invalid plan JSON: %w", err))
	}
	plan.Normalize()

	return plan, nil
}
