// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package renderer

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// toNumber coerces a value to a decimal number. nil is zero, numeric types
// pass through, strings are parsed. An unparsable value returns an error.
func toNumber(v interface{}) (decimal.Decimal, error) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return n, nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int8:
		return decimal.NewFromInt(int64(n)), nil
	case int16:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case uint:
		return decimal.NewFromInt(int64(n)), nil
	case uint8:
		return decimal.NewFromInt(int64(n)), nil
	case uint16:
		return decimal.NewFromInt(int64(n)), nil
	case uint32:
		return decimal.NewFromInt(int64(n)), nil
	case uint64:
		return decimal.NewFromInt(int64(n)), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case bool:
		if n {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero, fmt.Errorf("cannot convert %q to number", n)
		}
		return d, nil
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		return decimal.NewFromFloat(f), nil
	}
	return decimal.Zero, fmt.Errorf("cannot convert %v (type %T) to number", v, v)
}

// falseStrings are the strings that are false as a condition, compared case
// insensitively.
var falseStrings = map[string]bool{
	"":      true,
	"false": true,
	"0":     true,
	"no":    true,
	"null":  true,
	"none":  true,
}

// ToBool coerces a value to a condition result. nil is false, booleans pass
// through, numbers are true when non zero, strings are true unless they read
// as empty or negative ("false", "0", "no", "null", "none"), sequences and
// maps are true when non empty.
func ToBool(v interface{}) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case decimal.Decimal:
		return !b.IsZero()
	case string:
		return !falseStrings[strings.ToLower(strings.TrimSpace(b))]
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		return f != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len() > 0
	}
	return true
}

// ToString returns the rendered form of a value. nil renders as the empty
// string.
func ToString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case decimal.Decimal:
		return s.String()
	case bool:
		if s {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case time.Time:
		return s.Format(time.RFC3339)
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// resolvePath resolves the remaining segments of a dotted path against a
// value. Maps resolve by key and sequences by numeric segment, or by
// broadcasting the segment over every element. Resolution never fails: any
// mismatch resolves to nil.
func resolvePath(v interface{}, path []string) interface{} {
	for i, segment := range path {
		if v == nil {
			return nil
		}
		if m, ok := v.(map[string]interface{}); ok {
			v = m[segment]
			continue
		}
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Map:
			if rv.Type().Key().Kind() != reflect.String {
				return nil
			}
			mv := rv.MapIndex(reflect.ValueOf(segment))
			if !mv.IsValid() {
				return nil
			}
			v = mv.Interface()
		case reflect.Slice, reflect.Array:
			if n, err := strconv.Atoi(segment); err == nil {
				if n < 0 || n >= rv.Len() {
					return nil
				}
				v = rv.Index(n).Interface()
				continue
			}
			// Broadcast the rest of the path over every element.
			out := make([]interface{}, rv.Len())
			for j := 0; j < rv.Len(); j++ {
				out[j] = resolvePath(rv.Index(j).Interface(), path[i:])
			}
			return out
		default:
			return nil
		}
	}
	return v
}

// itemAt returns the element of a sequence at index i, or nil if v is not a
// sequence or i is out of range.
func itemAt(v interface{}, i int) interface{} {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if i < 0 || i >= rv.Len() {
			return nil
		}
		return rv.Index(i).Interface()
	}
	return nil
}

// equalValues reports whether two values are equal without coercion. It is
// the fallback for == and != when the operands are not both numbers.
func equalValues(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}
