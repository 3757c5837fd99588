// Package jsonx provides strict JSON decoding for low-trust HTTP bodies.
package jsonx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

var (
	ErrEmptyBody    = errors.New("empty body")
	ErrTrailingJSON = errors.New("trailing data")
)

// maxBodyBytes caps how much of a request body the strict parser reads.
const maxBodyBytes = 1 << 20

// ParseStrictJSONBody decodes exactly one JSON value from an HTTP request
// body into dst. Unknown fields, empty bodies, and trailing data are all
// rejected; every failure maps to 400 Bad Request at the handler. Shape
// checks only: required fields and business rules stay with the caller.
func ParseStrictJSONBody[T any](r *http.Request, dst *T) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return ErrTrailingJSON
	}
	return nil
}
