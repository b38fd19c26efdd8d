package mealplan

import (
	"fmt"
	"slices"
)

// Validate checks a plan against the data-model invariants and returns one
// message per violation. It does not modify the plan and an empty result
// means the plan is well-formed.
func Validate(p *WeeklyPlan) []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(p.Meals) != len(Weekdays) {
		add("expected %d meals, got %d", len(Weekdays), len(p.Meals))
	}

	ids := make(map[string]bool, len(p.Meals))
	days := make(map[int]bool, len(p.Meals))
	for i, m := range p.Meals {
		if m.ID == "" {
			add("meal %d: missing id", i)
		} else if ids[m.ID] {
			add("meal %d: duplicate id %q", i, m.ID)
		}
		ids[m.ID] = true

		if m.DayIndex < 0 || m.DayIndex >= len(Weekdays) {
			add("meal %q: dayIndex %d out of range", m.ID, m.DayIndex)
		} else {
			if DayLabel(m.DayIndex) != m.Day {
				add("meal %q: day %q does not match dayIndex %d", m.ID, m.Day, m.DayIndex)
			}
			if days[m.DayIndex] {
				add("meal %q: dayIndex %d used twice", m.ID, m.DayIndex)
			}
			days[m.DayIndex] = true
		}

		if m.CookingTime <= 0 {
			add("meal %q: cookingTime must be positive", m.ID)
		}
		if m.Calories <= 0 {
			add("meal %q: calories must be positive", m.ID)
		}
		if len(m.Tags) < 2 || len(m.Tags) > 3 {
			add("meal %q: expected 2-3 tags, got %d", m.ID, len(m.Tags))
		}
		for _, tag := range m.Tags {
			if !slices.Contains(Tags, tag) {
				add("meal %q: tag %q outside vocabulary", m.ID, tag)
			}
		}
		if len(m.Steps) == 0 {
			add("meal %q: no steps", m.ID)
		}
	}

	for i, item := range p.ShoppingList {
		if !slices.Contains(Categories, item.Category) {
			add("shopping item %d (%s): unknown category %q", i, item.Name, item.Category)
		}
		switch item.StorageMethod {
		case "", StorageRefrigerate, StorageFreeze, StorageRoomTemp:
		default:
			add("shopping item %d (%s): unknown storage method %q", i, item.Name, item.StorageMethod)
		}
	}

	return problems
}
