// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"errors"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/taibuivan/library-api/internal/platform/apperr"
)

// DateLayout is the ISO calendar date accepted for date fields.
const DateLayout = "2006-01-02"

// Struct runs an ozzo-validation rule set and converts the outcome into a
// VALIDATION_ERROR with one [apperr.FieldError] per failed field, sorted by field.
func Struct(structPtr any, fields ...*validation.FieldRules) error {
	return FromRules(validation.ValidateStruct(structPtr, fields...))
}

// FromRules converts an ozzo-validation error into an [apperr.AppError].
func FromRules(err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return apperr.Internal(internal)
	}

	var ruleErrors validation.Errors
	if !errors.As(err, &ruleErrors) {
		return apperr.ValidationError(err.Error())
	}

	fields := make([]string, 0, len(ruleErrors))
	for field := range ruleErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]apperr.FieldError, 0, len(fields))
	for _, field := range fields {
		details = append(details, apperr.FieldError{Field: field, Message: ruleErrors[field].Error()})
	}

	return apperr.ValidationError("Validation failed", details...)
}

// Length is [validation.Length] that also rejects present-but-blank values
// and carries the API's "between" message.
func Length(label string, min, max int) []validation.Rule {
	message := lengthMessage(label, min, max)
	return []validation.Rule{
		validation.NilOrNotEmpty.Error(message),
		validation.RuneLength(min, max).Error(message),
	}
}

// PositiveInt fails unless the (possibly pointer) integer is at least 1.
// Nil pointers pass; zero does not.
func PositiveInt(message string) validation.Rule {
	return validation.By(func(value any) error {
		raw, isNil := validation.Indirect(value)
		if isNil {
			return nil
		}
		number, err := validation.ToInt(raw)
		if err != nil || number < 1 {
			return errors.New(message)
		}
		return nil
	})
}

// NonNegativeInt fails if the (possibly pointer) integer is negative.
func NonNegativeInt(message string) validation.Rule {
	return validation.By(func(value any) error {
		raw, isNil := validation.Indirect(value)
		if isNil {
			return nil
		}
		number, err := validation.ToInt(raw)
		if err != nil || number < 0 {
			return errors.New(message)
		}
		return nil
	})
}

// Money checks a *[Decimal] or *decimal.Decimal for at most maxScale
// fractional digits and maxIntDigits integer digits, and rejects negative amounts.
func Money(maxIntDigits int, maxScale int32, message string) validation.Rule {
	limit := decimal.New(1, int32(maxIntDigits))
	return validation.By(func(value any) error {
		var amount *decimal.Decimal
		switch typed := value.(type) {
		case *Decimal:
			amount = typed.Amount()
		case *decimal.Decimal:
			amount = typed
		}
		if amount == nil {
			return nil
		}
		if amount.IsNegative() || !amount.Equal(amount.Truncate(maxScale)) || amount.GreaterThanOrEqual(limit) {
			return errors.New(message)
		}
		return nil
	})
}

// ParseDate turns an already validated YYYY-MM-DD string into a DATE value.
// Nil and unparsable input yield nil.
func ParseDate(raw *string) *pgtype.Date {
	if raw == nil {
		return nil
	}
	parsed, err := time.Parse(DateLayout, *raw)
	if err != nil {
		return nil
	}
	return &pgtype.Date{Time: parsed, Valid: true}
}
