// Package model defines the core data types shared across static-review.
package model

import (
	"fmt"
	"strings"
)

// Level is the severity of a review issue.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// Levels lists every level from least to most severe.
var Levels = []Level{LevelInfo, LevelWarning, LevelError}

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	return l >= LevelInfo && l <= LevelError
}

// ParseLevel converts a level name such as "warning" into a Level.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown level %q", s)
}
