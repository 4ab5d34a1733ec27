package criteria

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Admit reports whether the subject satisfies every criterion. A field
// absent from the subject fails its criterion. A declared-type mismatch on a
// range criterion warns and fails; a value no range pair can be compared
// with fails that pair with a warning while the rest of the batch continues.
func (f *Filter) Admit(s Subject) bool {
	for _, c := range f.lists {
		if !f.admitList(c, s) {
			return false
		}
	}
	for _, c := range f.ranges {
		if !f.admitRange(c, s) {
			return false
		}
	}
	return true
}

func (f *Filter) admitList(c listCriterion, s Subject) bool {
	v, ok := s.Lookup(c.field)
	if !ok {
		return false
	}
	if c.dtype != "" && !typeOK(v, c.dtype) {
		return false
	}
	for _, want := range c.allowed {
		if valuesEqual(v, want) {
			return true
		}
	}
	return false
}

func (f *Filter) admitRange(c rangeCriterion, s Subject) bool {
	v, ok := s.Lookup(c.field)
	if !ok {
		return false
	}
	if c.dtype != "" && !typeOK(v, c.dtype) {
		f.log.Warn("field value does not match declared type",
			zap.String("field", c.field),
			zap.String("data_type", c.dtype),
			zap.Any("value", v))
		return false
	}
	for _, p := range c.pairs {
		lo, err1 := compareValues(p[0], v)
		hi, err2 := compareValues(v, p[1])
		if err1 != nil || err2 != nil {
			f.log.Warn("range bounds not comparable with field value",
				zap.String("field", c.field),
				zap.Any("value", v))
			continue
		}
		if lo <= 0 && hi <= 0 {
			return true
		}
	}
	return false
}

// typeOK applies the loose dynamic guard: int, float and numeric accept any
// value castable to a number, numeric-looking strings included.
func typeOK(v any, dtype string) bool {
	switch dtype {
	case TypeDatetime:
		_, ok := v.(time.Time)
		return ok
	case TypeInt, TypeFloat, TypeNumeric:
		_, ok := toFloat(v)
		return ok
	case TypeString:
		_, ok := v.(string)
		return ok
	default:
		return true
	}
}

// toFloat widens numeric values, booleans and numeric-looking strings to
// float64.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// numeric is toFloat without the string case: equality and ordering never
// cross the string/number boundary even though the type guard lets numeric
// strings through.
func numeric(v any) (float64, bool) {
	if _, isString := v.(string); isString {
		return 0, false
	}
	return toFloat(v)
}

// valuesEqual compares across numeric types by value, times with Equal and
// strings byte for byte. Strings never equal numbers.
func valuesEqual(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok2 := b.(time.Time)
		return ok2 && ta.Equal(tb)
	}
	if na, ok := numeric(a); ok {
		nb, ok2 := numeric(b)
		return ok2 && na == nb
	}
	if sa, ok := a.(string); ok {
		sb, ok2 := b.(string)
		return ok2 && sa == sb
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values of compatible kinds, returning an error
// when the kinds cannot be ordered against each other.
func compareValues(a, b any) (int, error) {
	if ta, ok := a.(time.Time); ok {
		if tb, ok2 := b.(time.Time); ok2 {
			return ta.Compare(tb), nil
		}
		return 0, fmt.Errorf("cannot compare %T with %T", a, b)
	}
	if na, ok := numeric(a); ok {
		if nb, ok2 := numeric(b); ok2 {
			switch {
			case na < nb:
				return -1, nil
			case na > nb:
				return 1, nil
			}
			return 0, nil
		}
		return 0, fmt.Errorf("cannot compare %T with %T", a, b)
	}
	if sa, ok := a.(string); ok {
		if sb, ok2 := b.(string); ok2 {
			return strings.Compare(sa, sb), nil
		}
		return 0, fmt.Errorf("cannot compare %T with %T", a, b)
	}
	return 0, fmt.Errorf("cannot compare %T with %T", a, b)
}
