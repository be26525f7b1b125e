// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"strconv"
	"strings"
)

// ISBN length bounds shared by the body rules and the route parameter.
const (
	ISBNMinLength = 10
	ISBNMaxLength = 20
)

// ID parses a route parameter that must be a positive integer.
func ID(field, raw string) (int64, error) {
	v := &Validator{}
	id := parseInt(v, field, raw, 1, "ID must be a positive integer")
	return id, v.Err()
}

// ISBN checks the isbn route parameter and returns it trimmed.
func ISBN(field, raw string) (string, error) {
	isbn := strings.TrimSpace(raw)

	v := &Validator{}
	v.Required(field, isbn, "ISBN is required")
	if !v.HasErrors() {
		v.Length(field, isbn, ISBNMinLength, ISBNMaxLength, lengthMessage("ISBN", ISBNMinLength, ISBNMaxLength))
	}
	return isbn, v.Err()
}

// OptionalPositive parses an optional query parameter that must be a positive
// integer when present. ok is false when the parameter is absent.
func OptionalPositive(field, raw string) (value int64, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}

	v := &Validator{}
	value = parseInt(v, field, raw, 1, "Must be a positive integer")
	if err := v.Err(); err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// NonNegative parses an optional non-negative integer query parameter,
// falling back to def when it is absent.
func NonNegative(field, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	v := &Validator{}
	value := parseInt(v, field, raw, 0, "Must be a non-negative integer")
	return int(value), v.Err()
}

// parseInt reads raw as an integer of at least min. Failures are recorded on
// v once, under message, and yield 0.
func parseInt(v *Validator, field, raw string, min int64, message string) int64 {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	v.Custom(field, err != nil, message)
	if v.HasErrors() {
		return 0
	}

	v.MinInt(field, value, min, message)
	if v.HasErrors() {
		return 0
	}
	return value
}
