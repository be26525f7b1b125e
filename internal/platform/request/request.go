// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/library-api/internal/platform/apperr"
	"github.com/taibuivan/library-api/internal/platform/constants"
	"github.com/taibuivan/library-api/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Unknown keys are rejected so only allow-listed fields can reach the data
layer. Type mismatches and unknown keys are reported per field. The body must
hold exactly one JSON value; trailing data is refused.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: a VALIDATION_ERROR if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, constants.MaxRequestBodyBytes))
	decoder.DisallowUnknownFields()

	err := decoder.Decode(target)
	if err == nil {
		if !errors.Is(decoder.Decode(&json.RawMessage{}), io.EOF) {
			return errTrailingData
		}
		return nil
	}

	// Empty body
	if errors.Is(err, io.EOF) {
		return apperr.ValidationError("Request body is required")
	}

	// Wrong JSON type for a known field
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return validate.FieldError(typeErr.Field, typeMessage(typeErr.Type))
	}

	// encoding/json reports unknown keys only through the message text.
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return validate.FieldError(strings.Trim(field, `"`), "Unknown field")
	}

	return validate.ErrInvalidJSON
}

var errTrailingData = apperr.ValidationError("Request body must contain a single JSON value")

// typeMessage describes the expected JSON type without leaking Go type names.
func typeMessage(expected reflect.Type) string {
	if expected == reflect.TypeFor[validate.Decimal]() {
		return "Must be a decimal number"
	}

	switch expected.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "Must be an integer"
	case reflect.Float32, reflect.Float64:
		return "Must be a number"
	case reflect.String:
		return "Must be a string"
	case reflect.Bool:
		return "Must be a boolean"
	case reflect.Slice, reflect.Array:
		return "Must be an array"
	case reflect.Map, reflect.Struct:
		return "Must be an object"
	}
	return "Has an invalid type"
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Query retrieves a trimmed query string parameter.
*/
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}
