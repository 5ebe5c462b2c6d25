package discord

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/mitchellh/mapstructure"
)

var snowflakeType = reflect.TypeOf(snowflake.ID(0))

// Decode copies the envelope into out, a pointer to a struct tagged with
// `json` field names. Fields missing from the envelope are left untouched,
// which is what in-place updates rely on. Fields whose key is present with a
// null value are reset to their zero value.
func (e Envelope) Decode(out any) error {
	clearNullFields(e, out)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			stringToSnowflakeHook,
		),
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(e))
}

// clearNullFields zeroes the fields of the struct out points to whose json
// key is present in e with a null value.
func clearNullFields(e Envelope, out any) {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		if raw, ok := e[name]; ok && raw == nil {
			v.Field(i).SetZero()
		}
	}
}

// stringToSnowflakeHook turns wire identifiers into snowflake.ID. Empty
// strings decode to zero.
func stringToSnowflakeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != snowflakeType || from.Kind() != reflect.String {
		return data, nil
	}
	s := reflect.ValueOf(data).String()
	if s == "" {
		return snowflake.ID(0), nil
	}
	id, err := snowflake.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFieldType, err)
	}
	return id, nil
}

func decodeInto[T any](env Envelope, kind string) (*T, error) {
	var v T
	if err := env.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	return &v, nil
}
