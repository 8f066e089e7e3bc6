package models

import (
	"fmt"
	"strings"
)

// PriorityLevel is one of the priority names a ClickUp workspace uses.
type PriorityLevel string

const (
	PriorityUrgent PriorityLevel = "urgent"
	PriorityHigh   PriorityLevel = "high"
	PriorityNormal PriorityLevel = "normal"
	PriorityLow    PriorityLevel = "low"
)

// priorityLevels is ordered from most to least pressing.
var priorityLevels = []PriorityLevel{
	PriorityUrgent,
	PriorityHigh,
	PriorityNormal,
	PriorityLow,
}

func IsValidPriority(level PriorityLevel) bool {
	for _, candidate := range priorityLevels {
		if candidate == level {
			return true
		}
	}
	return false
}

func ParsePriority(raw string) (PriorityLevel, error) {
	value := PriorityLevel(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("priority is required")
	}
	if !IsValidPriority(value) {
		return "", fmt.Errorf("invalid priority: %s", value)
	}
	return value, nil
}

// PriorityLevels returns the known levels, most pressing first.
func PriorityLevels() []PriorityLevel {
	out := make([]PriorityLevel, len(priorityLevels))
	copy(out, priorityLevels)
	return out
}

func PriorityLevelStrings() []string {
	out := make([]string, 0, len(priorityLevels))
	for _, value := range priorityLevels {
		out = append(out, string(value))
	}
	return out
}
