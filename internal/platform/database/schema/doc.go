// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds the table and column identifiers of the database.
//
// Repositories format these names into SQL text; values are always bound as
// parameters. Only identifiers declared here ever reach a query string.
package schema
