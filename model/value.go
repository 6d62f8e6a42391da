package model

import (
	"slices"
	"strconv"
	"strings"
)

// Range is an inclusive integer interval.
type Range struct {
	Low  int
	High int
}

// Contains reports whether s parses as an integer inside the range.
// A non-integer s is simply not contained.
func (r Range) Contains(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return n >= r.Low && n <= r.High
}

// Value is a literal a component value must equal.
type Value struct {
	Value string
}

// NotValue is a literal a component value must not equal.
type NotValue struct {
	Value string
}

func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	return &Value{Value: v.Value}
}

func (v *NotValue) Clone() *NotValue {
	if v == nil {
		return nil
	}
	return &NotValue{Value: v.Value}
}

func inRanges(s string, ranges []Range) bool {
	for _, r := range ranges {
		if r.Contains(s) {
			return true
		}
	}
	return false
}

func cloneRanges(in []Range) []Range {
	return slices.Clone(in)
}
