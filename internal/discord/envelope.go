package discord

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

var (
	// ErrMissingField is returned when a required envelope field is absent or null.
	ErrMissingField = errors.New("missing field")
	// ErrFieldType is returned when an envelope field holds an unexpected type.
	ErrFieldType = errors.New("unexpected field type")
)

// FieldError describes a failed envelope field access.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Key, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Envelope is the decoded payload of a single gateway event.
// Values are whatever a JSON decoder produces: nil, bool, float64 (or
// json.Number), string, []any and map[string]any.
type Envelope map[string]any

// ParseEnvelope decodes a raw gateway payload. The payload must be a JSON object.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if env == nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", ErrFieldType)
	}
	return env, nil
}

// Has reports whether key is present and not null.
func (e Envelope) Has(key string) bool {
	v, ok := e[key]
	return ok && v != nil
}

// Contains reports whether key is present, even if null.
func (e Envelope) Contains(key string) bool {
	_, ok := e[key]
	return ok
}

func (e Envelope) require(key string) (any, error) {
	v, ok := e[key]
	if !ok || v == nil {
		return nil, &FieldError{Key: key, Err: ErrMissingField}
	}
	return v, nil
}

// Snowflake returns the identifier stored under key. Identifiers are
// normally strings on the wire, but numbers are accepted too.
func (e Envelope) Snowflake(key string) (snowflake.ID, error) {
	v, err := e.require(key)
	if err != nil {
		return 0, err
	}
	id, err := toSnowflake(v)
	if err != nil {
		return 0, &FieldError{Key: key, Err: err}
	}
	return id, nil
}

// OptionalSnowflake is like Snowflake but reports false instead of an error
// when the field is absent or null.
func (e Envelope) OptionalSnowflake(key string) (snowflake.ID, bool, error) {
	if !e.Has(key) {
		return 0, false, nil
	}
	id, err := e.Snowflake(key)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// Snowflakes returns a list of identifiers.
func (e Envelope) Snowflakes(key string) ([]snowflake.ID, error) {
	v, err := e.require(key)
	if err != nil {
		return nil, err
	}
	items, ok := v.([]any)
	if !ok {
		return nil, &FieldError{Key: key, Err: ErrFieldType}
	}
	ids := make([]snowflake.ID, 0, len(items))
	for i, item := range items {
		id, err := toSnowflake(item)
		if err != nil {
			return nil, &FieldError{Key: key + "." + strconv.Itoa(i), Err: err}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Int returns an integral number.
func (e Envelope) Int(key string) (int, error) {
	v, err := e.require(key)
	if err != nil {
		return 0, err
	}
	n, err := toInt(v)
	if err != nil {
		return 0, &FieldError{Key: key, Err: err}
	}
	return n, nil
}

// String returns a string field.
func (e Envelope) String(key string) (string, error) {
	v, err := e.require(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &FieldError{Key: key, Err: ErrFieldType}
	}
	return s, nil
}

// Bool returns a boolean field.
func (e Envelope) Bool(key string) (bool, error) {
	v, err := e.require(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, &FieldError{Key: key, Err: ErrFieldType}
	}
	return b, nil
}

// Object returns a nested object.
func (e Envelope) Object(key string) (Envelope, error) {
	v, err := e.require(key)
	if err != nil {
		return nil, err
	}
	obj, ok := toEnvelope(v)
	if !ok {
		return nil, &FieldError{Key: key, Err: ErrFieldType}
	}
	return obj, nil
}

// Objects returns a list of nested objects. An absent or null list is
// reported as ErrMissingField.
func (e Envelope) Objects(key string) ([]Envelope, error) {
	v, err := e.require(key)
	if err != nil {
		return nil, err
	}
	items, ok := v.([]any)
	if !ok {
		return nil, &FieldError{Key: key, Err: ErrFieldType}
	}
	objs := make([]Envelope, 0, len(items))
	for i, item := range items {
		obj, ok := toEnvelope(item)
		if !ok {
			return nil, &FieldError{Key: key + "." + strconv.Itoa(i), Err: ErrFieldType}
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

// OptionalObjects is like Objects but returns an empty list when the field
// is absent or null.
func (e Envelope) OptionalObjects(key string) ([]Envelope, error) {
	if !e.Has(key) {
		return nil, nil
	}
	return e.Objects(key)
}

// Timestamp parses an ISO8601 timestamp. Absent or null values report false.
func (e Envelope) Timestamp(key string) (time.Time, bool, error) {
	if !e.Has(key) {
		return time.Time{}, false, nil
	}
	s, err := e.String(key)
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, &FieldError{Key: key, Err: err}
	}
	return t, true, nil
}

// UnixTime returns a timestamp encoded as seconds since the epoch. Both
// integral and fractional encodings are accepted.
func (e Envelope) UnixTime(key string) (time.Time, error) {
	v, err := e.require(key)
	if err != nil {
		return time.Time{}, err
	}
	var secs float64
	switch n := v.(type) {
	case float64:
		secs = n
	case float32:
		secs = float64(n)
	case int:
		return time.Unix(int64(n), 0), nil
	case int64:
		return time.Unix(n, 0), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return time.Unix(i, 0), nil
		}
		f, err := n.Float64()
		if err != nil {
			return time.Time{}, &FieldError{Key: key, Err: ErrFieldType}
		}
		secs = f
	default:
		return time.Time{}, &FieldError{Key: key, Err: ErrFieldType}
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(math.Round(frac*1e9))), nil
}

func toEnvelope(v any) (Envelope, bool) {
	switch obj := v.(type) {
	case Envelope:
		return obj, true
	case map[string]any:
		return Envelope(obj), true
	default:
		return nil, false
	}
}

func toSnowflake(v any) (snowflake.ID, error) {
	switch id := v.(type) {
	case string:
		parsed, err := snowflake.Parse(id)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrFieldType, err)
		}
		return parsed, nil
	case snowflake.ID:
		return id, nil
	default:
		n, err := toInt(v)
		if err != nil || n < 0 {
			return 0, ErrFieldType
		}
		return snowflake.ID(n), nil
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, ErrFieldType
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, ErrFieldType
		}
		return int(i), nil
	default:
		return 0, ErrFieldType
	}
}
