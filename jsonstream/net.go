// Package jsonstream pulls scalar fields out of a JSON object without decoding the whole document.
package jsonstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

type Net struct {
	dec  *json.Decoder
	want map[string]struct{}
}

var ErrNotObject = errors.New("JSON document is not an object")

func IsObjectStart(t json.Token) bool {
	if d, ok := t.(json.Delim); ok && d == '{' {
		return true
	}

	return false
}

func IsStartingDelim(t json.Token) bool {
	if d, ok := t.(json.Delim); ok && (d == '{' || d == '[') {
		return true
	}

	return false
}

func IsEndingDelim(t json.Token) bool {
	if d, ok := t.(json.Delim); ok && (d == '}' || d == ']') {
		return true
	}

	return false
}

// NewNet prepares to collect the given top-level keys from stream.
func NewNet(stream io.Reader, keys ...string) (*Net, error) {
	if len(keys) == 0 {
		return nil, errors.New("at least one key is required")
	}

	want := make(map[string]struct{}, len(keys))

	for _, key := range keys {
		want[key] = struct{}{}
	}

	dec := json.NewDecoder(stream)
	dec.UseNumber()

	return &Net{dec: dec, want: want}, nil
}

// Haul walks the top-level object once and returns the scalar values of the wanted keys.
// Keys absent from the document are absent from the result. A wanted key holding an object
// or array is an error.
func (n *Net) Haul(ctx context.Context) (catch map[string]any, err error) {
	var t json.Token

	if t, err = n.dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read the first token: %w", err)
	} else if !IsObjectStart(t) {
		return nil, ErrNotObject
	}

	catch = make(map[string]any, len(n.want))

	done := ctx.Done()

	for n.dec.More() {
		select {
		case <-done:
			return nil, fmt.Errorf("stopped before the end of the object: %w", context.Cause(ctx))
		default:
		}

		// keys of an object are always strings
		if t, err = n.dec.Token(); err != nil {
			return nil, fmt.Errorf("failed to read object key: %w", err)
		}

		key, _ := t.(string)

		if t, err = n.dec.Token(); err != nil {
			return nil, fmt.Errorf("failed to read the value of %q: %w", key, err)
		}

		_, wanted := n.want[key]

		if IsStartingDelim(t) {
			if wanted {
				return nil, fmt.Errorf("the value of %q is the delimiter %v, not a scalar", key, t)
			}

			if err = n.skip(); err != nil {
				return nil, fmt.Errorf("failed to skip the value of %q: %w", key, err)
			}

			continue
		}

		if wanted {
			catch[key] = t
		}
	}

	return catch, nil
}

// skip consumes tokens until the composite value just opened is closed.
func (n *Net) skip() error {
	level := 1

	for level > 0 {
		t, err := n.dec.Token()
		if err != nil {
			return err
		}

		switch {
		case IsStartingDelim(t):
			level += 1
		case IsEndingDelim(t):
			level -= 1
		}
	}

	return nil
}

// Int returns the catch value at key as an int.
func Int(catch map[string]any, key string) (int, error) {
	v, ok := catch[key]
	if !ok {
		return 0, fmt.Errorf("key %q is missing", key)
	}

	num, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("the value of %q is not a number", key)
	}

	i, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("the value of %q is not an integer: %w", key, err)
	}

	return int(i), nil
}

// String returns the catch value at key as a string.
func String(catch map[string]any, key string) (string, error) {
	v, ok := catch[key]
	if !ok {
		return "", fmt.Errorf("key %q is missing", key)
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("the value of %q is not a string", key)
	}

	return s, nil
}
