package canonical

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
)

// FromAny converts a Go value into a Value. Scalars, json.Number, []any and
// map[string]any are converted directly; anything else goes through a JSON
// round trip so struct tags are honoured.
func FromAny(value any) (Value, error) {
	converter := &converter{active: map[visitKey]struct{}{}}
	return converter.convert(value)
}

// ParseJSON decodes JSON text into a Value. Numbers are read exactly as
// written and converted to float64.
func ParseJSON(data []byte) (Value, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var parsed any
	if err := decoder.Decode(&parsed); err != nil {
		return nil, &EncodingError{Path: "$", Reason: ReasonInvalidJSON, Err: err}
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, &EncodingError{Path: "$", Reason: ReasonInvalidJSON, Err: fmt.Errorf("trailing data after JSON value")}
	}

	return FromAny(parsed)
}

// Records converts a list of Go values, reporting the index of the first
// value that fails.
func Records(values []any) ([]Value, error) {
	records := make([]Value, len(values))
	for index, value := range values {
		converted, err := FromAny(value)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", index, err)
		}
		records[index] = converted
	}
	return records, nil
}

type converter struct {
	path   pathStack
	active map[visitKey]struct{}
}

func (c *converter) fail(reason string, err error) error {
	return &EncodingError{Path: c.path.String(), Reason: reason, Err: err}
}

func (c *converter) number(value float64) (Value, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, c.fail(ReasonNonFinite, nil)
	}
	return Number(value), nil
}

func (c *converter) convert(value any) (Value, error) {
	switch typed := value.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return c.convertValue(typed)
	case bool:
		return Bool(typed), nil
	case string:
		return String(typed), nil
	case json.Number:
		parsed, err := strconv.ParseFloat(typed.String(), 64)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
				return nil, c.fail(ReasonNonFinite, err)
			}
			return nil, c.fail(ReasonInvalidNumber, err)
		}
		return c.number(parsed)
	case float32:
		return c.number(float64(typed))
	case float64:
		return c.number(typed)
	case int:
		return Number(typed), nil
	case int8:
		return Number(typed), nil
	case int16:
		return Number(typed), nil
	case int32:
		return Number(typed), nil
	case int64:
		return Number(typed), nil
	case uint:
		return Number(typed), nil
	case uint8:
		return Number(typed), nil
	case uint16:
		return Number(typed), nil
	case uint32:
		return Number(typed), nil
	case uint64:
		return Number(typed), nil
	case json.RawMessage:
		return c.convertRaw(typed)
	case []any:
		return c.convertSlice(typed)
	case map[string]any:
		return c.convertMap(typed)
	default:
		payload, err := json.Marshal(typed)
		if err != nil {
			var unsupported *json.UnsupportedValueError
			if errors.As(err, &unsupported) {
				return nil, c.fail(ReasonNonFinite+" or "+ReasonCycle, err)
			}
			return nil, c.fail(ReasonUnsupported, err)
		}
		return c.convertRaw(payload)
	}
}

func (c *converter) convertRaw(payload []byte) (Value, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var parsed any
	if err := decoder.Decode(&parsed); err != nil {
		return nil, c.fail(ReasonInvalidJSON, err)
	}
	return c.convert(parsed)
}

func (c *converter) convertSlice(items []any) (Value, error) {
	if len(items) > 0 {
		key := visitKey{pointer: reflect.ValueOf(items).Pointer(), length: len(items)}
		if _, cyclic := c.active[key]; cyclic {
			return nil, c.fail(ReasonCycle, nil)
		}
		c.active[key] = struct{}{}
		defer delete(c.active, key)
	}

	result := make(Array, 0, len(items))
	for index, item := range items {
		c.path.pushIndex(index)
		converted, err := c.convert(item)
		if err != nil {
			return nil, err
		}
		c.path.pop()
		result = append(result, converted)
	}
	return result, nil
}

func (c *converter) convertMap(fields map[string]any) (Value, error) {
	if fields != nil {
		key := visitKey{pointer: reflect.ValueOf(fields).Pointer(), length: -1}
		if _, cyclic := c.active[key]; cyclic {
			return nil, c.fail(ReasonCycle, nil)
		}
		c.active[key] = struct{}{}
		defer delete(c.active, key)
	}

	result := make(Object, len(fields))
	for name, item := range fields {
		c.path.pushKey(name)
		converted, err := c.convert(item)
		if err != nil {
			return nil, err
		}
		c.path.pop()
		result[name] = converted
	}
	return result, nil
}

// convertValue re-checks an already typed Value for non-finite numbers and
// cycles so FromAny never returns something Canonicalize would reject for
// those reasons.
func (c *converter) convertValue(value Value) (Value, error) {
	switch typed := value.(type) {
	case Number:
		return c.number(float64(typed))
	case Array:
		items := make([]any, len(typed))
		for index, item := range typed {
			items[index] = item
		}
		if len(typed) > 0 {
			key := visitKey{pointer: reflect.ValueOf(typed).Pointer(), length: len(typed)}
			if _, cyclic := c.active[key]; cyclic {
				return nil, c.fail(ReasonCycle, nil)
			}
			c.active[key] = struct{}{}
			defer delete(c.active, key)
		}
		return c.convertSlice(items)
	case Object:
		fields := make(map[string]any, len(typed))
		for name, item := range typed {
			fields[name] = item
		}
		if typed != nil {
			key := visitKey{pointer: reflect.ValueOf(typed).Pointer(), length: -1}
			if _, cyclic := c.active[key]; cyclic {
				return nil, c.fail(ReasonCycle, nil)
			}
			c.active[key] = struct{}{}
			defer delete(c.active, key)
		}
		return c.convertMap(fields)
	default:
		return typed, nil
	}
}
