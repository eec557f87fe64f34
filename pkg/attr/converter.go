package attr

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"slices"
	"strconv"
)

// ErrUnsupportedValue is returned when a converter receives a value of the wrong type.
var ErrUnsupportedValue = stderrors.New("attr: unsupported value type")

// Converter translates between a property value and its attribute string.
type Converter interface {
	// ToAttribute serializes value. ok is false when the attribute should be absent.
	ToAttribute(value any) (raw string, ok bool)
	// FromAttribute parses raw. present is false when the attribute is absent.
	FromAttribute(raw string, present bool) (any, error)
}

// For returns the default converter for the dynamic type of value, or nil
// when the type has no default.
func For(value any) Converter {
	switch value.(type) {
	case string:
		return String
	case int:
		return Int
	case bool:
		return Bool
	case float64:
		return Float
	default:
		return nil
	}
}

// String reflects string properties verbatim. An absent attribute reads as "".
var String Converter = stringConverter{}

type stringConverter struct{}

func (stringConverter) ToAttribute(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

func (stringConverter) FromAttribute(raw string, present bool) (any, error) {
	if !present {
		return "", nil
	}
	return raw, nil
}

// Int reflects int properties in base 10. An absent attribute reads as 0.
var Int Converter = intConverter{}

type intConverter struct{}

func (intConverter) ToAttribute(value any) (string, bool) {
	n, ok := value.(int)
	if !ok {
		return "", false
	}
	return strconv.Itoa(n), true
}

func (intConverter) FromAttribute(raw string, present bool) (any, error) {
	if !present {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("parse int: %w", err)
	}
	return n, nil
}

// Float reflects float64 properties using the shortest exact representation.
var Float Converter = floatConverter{}

type floatConverter struct{}

func (floatConverter) ToAttribute(value any) (string, bool) {
	f, ok := value.(float64)
	if !ok {
		return "", false
	}
	return strconv.FormatFloat(f, 'g', -1, 64), true
}

func (floatConverter) FromAttribute(raw string, present bool) (any, error) {
	if !present {
		return 0.0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("parse float: %w", err)
	}
	return f, nil
}

// Bool reflects true as a present, empty attribute and false as absence.
var Bool Converter = boolConverter{}

type boolConverter struct{}

func (boolConverter) ToAttribute(value any) (string, bool) {
	b, ok := value.(bool)
	if !ok || !b {
		return "", false
	}
	return "", true
}

func (boolConverter) FromAttribute(_ string, present bool) (any, error) {
	return present, nil
}

// Enum returns a converter for string-like enumerations. The zero value of T
// reflects as an absent attribute; any other value must be one of values.
func Enum[T ~string](values ...T) Converter {
	return enumConverter[T]{values: slices.Clone(values)}
}

type enumConverter[T ~string] struct {
	values []T
}

func (c enumConverter[T]) ToAttribute(value any) (string, bool) {
	v, ok := value.(T)
	if !ok || v == "" {
		return "", false
	}
	return string(v), true
}

func (c enumConverter[T]) FromAttribute(raw string, present bool) (any, error) {
	var zero T
	if !present {
		return zero, nil
	}
	v := T(raw)
	if !slices.Contains(c.values, v) {
		return nil, fmt.Errorf("%q is not one of %v", raw, c.values)
	}
	return v, nil
}

// JSON returns a converter that reflects structured values as JSON text.
// The zero value of T is not special: it is encoded like any other value.
func JSON[T any]() Converter {
	return jsonConverter[T]{}
}

type jsonConverter[T any] struct{}

func (jsonConverter[T]) ToAttribute(value any) (string, bool) {
	v, ok := value.(T)
	if !ok {
		return "", false
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (jsonConverter[T]) FromAttribute(raw string, present bool) (any, error) {
	var v T
	if !present {
		return v, nil
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return v, nil
}
