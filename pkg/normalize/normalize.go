// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package normalize cleans free-text input before it is validated or stored.
//
// # Usage
//
// Names, titles and search terms arrive from clients in arbitrary Unicode
// forms. Normalizing to NFC keeps "é" typed as one code point and "e" plus a
// combining accent equal, so length rules count characters the same way and
// uniqueness checks compare the same bytes.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// likeEscaper escapes the LIKE metacharacters of a PostgreSQL pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Text trims surrounding whitespace and converts s to Unicode NFC.
func Text(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// OptionalText applies [Text] to a present value. Nil stays nil.
func OptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := Text(*s)
	return &cleaned
}

// Email trims and lowercases an address.
func Email(s string) string {
	return strings.ToLower(Text(s))
}

// OptionalEmail applies [Email] to a present value. Nil stays nil.
func OptionalEmail(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := Email(*s)
	return &cleaned
}

// Contains builds a "%term%" pattern for ILIKE with the term's own
// metacharacters escaped, so "50%" matches literally.
func Contains(term string) string {
	return "%" + likeEscaper.Replace(Text(term)) + "%"
}
