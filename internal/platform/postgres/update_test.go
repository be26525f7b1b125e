// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignments(t *testing.T) {
	var set Assignments
	assert.Zero(t, set.Len())
	assert.Equal(t, 1, set.Next())

	set.Set("title", "Dune")
	set.Set("pages", 412)

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, "title = $1, pages = $2", set.SQL())
	assert.Equal(t, 3, set.Next())
	assert.Equal(t, []any{"Dune", 412, int64(7)}, set.Args(int64(7)))
}
