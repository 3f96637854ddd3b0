package preferences

import (
	"fmt"
	"strings"
)

// Value is an ordinal evaluation of an item on one criterion.
type Value int

const (
	VeryBad Value = iota
	Bad
	Average
	Good
	VeryGood
)

// valueLevels is the number of distinct values; it is also the base used to
// weight criteria by rank in Score.
const valueLevels = 5

var valueNames = map[Value]string{
	VeryBad:  "VERY_BAD",
	Bad:      "BAD",
	Average:  "AVERAGE",
	Good:     "GOOD",
	VeryGood: "VERY_GOOD",
}

func (v Value) String() string {
	if name, ok := valueNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Value(%d)", int(v))
}

// Weight returns the numeric weight used for scoring, 0 for VeryBad up to 4
// for VeryGood.
func (v Value) Weight() int { return int(v) }

// IsGood reports whether v supports an item (Good or VeryGood).
func (v Value) IsGood() bool { return v == Good || v == VeryGood }

// IsBad reports whether v attacks an item (Bad or VeryBad).
func (v Value) IsBad() bool { return v == Bad || v == VeryBad }

// Valid reports whether v is one of the five known values.
func (v Value) Valid() bool { return v >= VeryBad && v <= VeryGood }

// ParseValue parses a value name such as "VERY_GOOD" (case-insensitive,
// dashes and spaces accepted in place of underscores).
func ParseValue(s string) (Value, error) {
	norm := normalizeName(s)
	for v, name := range valueNames {
		if name == norm {
			return v, nil
		}
	}
	return 0, fmt.Errorf("preferences: unknown value %q", s)
}

// AllValues returns every value from best to worst.
func AllValues() []Value {
	return []Value{VeryGood, Good, Average, Bad, VeryBad}
}

func normalizeName(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}
