package canonical

import (
	"bytes"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// Canonicalize returns the canonical byte form of value.
func Canonicalize(value Value) ([]byte, error) {
	encoder := newEncoder()
	if err := encoder.encode(value); err != nil {
		return nil, err
	}
	return encoder.buffer.Bytes(), nil
}

// CanonicalizeAny converts a Go value with FromAny and canonicalizes it.
func CanonicalizeAny(value any) ([]byte, error) {
	converted, err := FromAny(value)
	if err != nil {
		return nil, err
	}
	return Canonicalize(converted)
}

type encoder struct {
	buffer bytes.Buffer
	path   pathStack
	active map[visitKey]struct{}
}

func newEncoder() *encoder {
	return &encoder{active: map[visitKey]struct{}{}}
}

func (e *encoder) fail(reason string, err error) error {
	return &EncodingError{Path: e.path.String(), Reason: reason, Err: err}
}

func (e *encoder) encode(value Value) error {
	switch typed := value.(type) {
	case nil, Null:
		e.buffer.WriteString("null")
	case Bool:
		if typed {
			e.buffer.WriteString("true")
		} else {
			e.buffer.WriteString("false")
		}
	case String:
		if !utf8.ValidString(string(typed)) {
			return e.fail(ReasonInvalidUTF8, nil)
		}
		writeString(&e.buffer, string(typed))
	case Number:
		formatted, ok := FormatNumber(float64(typed))
		if !ok {
			return e.fail(ReasonNonFinite, nil)
		}
		e.buffer.WriteString(formatted)
	case Array:
		return e.encodeArray(typed)
	case Object:
		return e.encodeObject(typed)
	default:
		return e.fail(ReasonUnsupported, nil)
	}
	return nil
}

func (e *encoder) encodeArray(items Array) error {
	if len(items) > 0 {
		key := visitKey{pointer: reflect.ValueOf(items).Pointer(), length: len(items)}
		if _, cyclic := e.active[key]; cyclic {
			return e.fail(ReasonCycle, nil)
		}
		e.active[key] = struct{}{}
		defer delete(e.active, key)
	}

	e.buffer.WriteByte('[')
	for index, item := range items {
		if index > 0 {
			e.buffer.WriteByte(',')
		}
		e.path.pushIndex(index)
		if err := e.encode(item); err != nil {
			return err
		}
		e.path.pop()
	}
	e.buffer.WriteByte(']')
	return nil
}

func (e *encoder) encodeObject(fields Object) error {
	if fields != nil {
		key := visitKey{pointer: reflect.ValueOf(fields).Pointer(), length: -1}
		if _, cyclic := e.active[key]; cyclic {
			return e.fail(ReasonCycle, nil)
		}
		e.active[key] = struct{}{}
		defer delete(e.active, key)
	}

	keys := make([]string, 0, len(fields))
	for name := range fields {
		if !utf8.ValidString(name) {
			e.path.pushKey(name)
			return e.fail(ReasonInvalidUTF8, nil)
		}
		keys = append(keys, name)
	}
	sort.Strings(keys)

	e.buffer.WriteByte('{')
	for index, name := range keys {
		if index > 0 {
			e.buffer.WriteByte(',')
		}
		writeString(&e.buffer, name)
		e.buffer.WriteByte(':')

		e.path.pushKey(name)
		if err := e.encode(fields[name]); err != nil {
			return err
		}
		e.path.pop()
	}
	e.buffer.WriteByte('}')
	return nil
}

// FormatNumber renders value the way ECMAScript's Number::toString does for
// finite doubles. The second result is false for NaN and infinities.
func FormatNumber(value float64) (string, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", false
	}
	if value == 0 {
		return "0", true
	}

	format := byte('f')
	if magnitude := math.Abs(value); magnitude < 1e-6 || magnitude >= 1e21 {
		format = 'e'
	}
	formatted := strconv.FormatFloat(value, format, -1, 64)
	if format == 'e' {
		// e-07 -> e-7
		n := len(formatted)
		if n >= 4 && formatted[n-4] == 'e' && formatted[n-3] == '-' && formatted[n-2] == '0' {
			formatted = formatted[:n-2] + formatted[n-1:]
		}
	}
	return formatted, true
}

func writeString(buffer *bytes.Buffer, value string) {
	buffer.WriteByte('"')
	start := 0
	for index := 0; index < len(value); index++ {
		character := value[index]
		if character >= 0x20 && character != '"' && character != '\\' {
			continue
		}
		buffer.WriteString(value[start:index])
		switch character {
		case '"':
			buffer.WriteString(`\"`)
		case '\\':
			buffer.WriteString(`\\`)
		case '\b':
			buffer.WriteString(`\b`)
		case '\f':
			buffer.WriteString(`\f`)
		case '\n':
			buffer.WriteString(`\n`)
		case '\r':
			buffer.WriteString(`\r`)
		case '\t':
			buffer.WriteString(`\t`)
		default:
			buffer.WriteString(`\u00`)
			buffer.WriteByte(hexDigits[character>>4])
			buffer.WriteByte(hexDigits[character&0xF])
		}
		start = index + 1
	}
	buffer.WriteString(value[start:])
	buffer.WriteByte('"')
}

type visitKey struct {
	pointer uintptr
	length  int
}

type pathStack []string

func (p *pathStack) pushKey(name string) {
	*p = append(*p, "."+name)
}

func (p *pathStack) pushIndex(index int) {
	*p = append(*p, "["+strconv.Itoa(index)+"]")
}

func (p *pathStack) pop() {
	*p = (*p)[:len(*p)-1]
}

func (p pathStack) String() string {
	return "$" + strings.Join(p, "")
}
