// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"fmt"
	"strings"
)

// Assignments collects the SET clause of a partial UPDATE.
//
// Column names must come from the schema package; values are always bound
// as positional parameters starting at $1.
type Assignments struct {
	columns []string
	args    []any
}

// Set appends "column = $n" bound to value.
func (a *Assignments) Set(column string, value any) {
	a.args = append(a.args, value)
	a.columns = append(a.columns, fmt.Sprintf("%s = $%d", column, len(a.args)))
}

// Len reports how many columns are assigned.
func (a *Assignments) Len() int {
	return len(a.columns)
}

// SQL renders the comma separated assignments.
func (a *Assignments) SQL() string {
	return strings.Join(a.columns, ", ")
}

// Args returns the bound values followed by extra trailing arguments, e.g.
// the id of the WHERE clause. The next placeholder is $[Assignments.Next].
func (a *Assignments) Args(extra ...any) []any {
	return append(append(make([]any, 0, len(a.args)+len(extra)), a.args...), extra...)
}

// Next is the index of the first placeholder after the assignments.
func (a *Assignments) Next() int {
	return len(a.args) + 1
}
