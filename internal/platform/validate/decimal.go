// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"encoding/json"
	"reflect"

	"github.com/shopspring/decimal"
)

// Decimal is a request body amount. It accepts a JSON number or a numeric
// string. Anything else fails as a [*json.UnmarshalTypeError], which lets the
// decoder name the offending field.
type Decimal struct {
	decimal.Decimal
}

// UnmarshalJSON implements [json.Unmarshaler].
func (d *Decimal) UnmarshalJSON(data []byte) error {
	if err := d.Decimal.UnmarshalJSON(data); err != nil {
		return &json.UnmarshalTypeError{Value: "value " + string(data), Type: reflect.TypeFor[Decimal]()}
	}
	return nil
}

// Amount returns the parsed value, or nil when the field was absent.
func (d *Decimal) Amount() *decimal.Decimal {
	if d == nil {
		return nil
	}
	amount := d.Decimal
	return &amount
}
