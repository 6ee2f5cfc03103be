package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

var (
	ErrEmptyBody    = errors.New("empty request body")
	ErrBodyTooLarge = errors.New("request body too large")
)

// DecodeJSONRequest reads exactly one JSON value into dst. Unknown fields,
// trailing data and bodies over 1 MiB are rejected.
func DecodeJSONRequest(r *http.Request, dst any) error {
	defer r.Body.Close()

	limited := &io.LimitedReader{R: r.Body, N: maxBodyBytes + 1}
	decoder := json.NewDecoder(limited)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		case limited.N <= 0:
			return ErrBodyTooLarge
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if decoder.More() {
		return fmt.Errorf("invalid JSON: trailing data after value")
	}
	if limited.N <= 0 {
		return ErrBodyTooLarge
	}
	return nil
}
