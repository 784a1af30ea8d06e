// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package function

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var builtin = []Func{
	{Name: "ROUND", MinArgs: 1, MaxArgs: 2, Fn: round},
	{Name: "ABS", MinArgs: 1, MaxArgs: 1, Fn: absFn},
	{Name: "MIN", MinArgs: 1, MaxArgs: -1, Fn: foldNumbers(func(a, b decimal.Decimal) decimal.Decimal {
		if b.LessThan(a) {
			return b
		}
		return a
	})},
	{Name: "MAX", MinArgs: 1, MaxArgs: -1, Fn: foldNumbers(func(a, b decimal.Decimal) decimal.Decimal {
		if b.GreaterThan(a) {
			return b
		}
		return a
	})},
	{Name: "SUM", MinArgs: 1, MaxArgs: -1, Fn: sum},
	{Name: "AVG", MinArgs: 1, MaxArgs: -1, Fn: avg},
	{Name: "IF", MinArgs: 3, MaxArgs: 3, Fn: ifFn},
	{Name: "LEN", MinArgs: 1, MaxArgs: 1, Fn: lenFn},
	{Name: "UPPER", MinArgs: 1, MaxArgs: 1, Fn: upperFn},
	{Name: "LOWER", MinArgs: 1, MaxArgs: 1, Fn: lowerFn},
	{Name: "CONCAT", MinArgs: 1, MaxArgs: -1, Fn: concatFn},
}

func toNumber(v interface{}) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero, fmt.Errorf("cannot convert %q to number", n)
		}
		return d, nil
	case nil:
		return decimal.Zero, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot convert %v (type %T) to number", v, v)
	}
	return decimal.NewFromFloat(f), nil
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case decimal.Decimal:
		return s.String()
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// flatten expands sequence arguments, so SUM(items.price) sums the
// broadcasted values.
func flatten(args []interface{}) []interface{} {
	var out []interface{}
	for _, arg := range args {
		if items, ok := arg.([]interface{}); ok {
			out = append(out, items...)
			continue
		}
		out = append(out, arg)
	}
	return out
}

func round(args []interface{}) (interface{}, error) {
	d, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	places := 0
	if len(args) == 2 {
		p, err := toNumber(args[1])
		if err != nil {
			return nil, err
		}
		places = int(p.IntPart())
	}
	return d.Round(int32(places)), nil
}

func absFn(args []interface{}) (interface{}, error) {
	d, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	return d.Abs(), nil
}

func foldNumbers(fold func(a, b decimal.Decimal) decimal.Decimal) Fn {
	return func(args []interface{}) (interface{}, error) {
		args = flatten(args)
		if len(args) == 0 {
			return nil, fmt.Errorf("empty sequence")
		}
		acc, err := toNumber(args[0])
		if err != nil {
			return nil, err
		}
		for _, arg := range args[1:] {
			d, err := toNumber(arg)
			if err != nil {
				return nil, err
			}
			acc = fold(acc, d)
		}
		return acc, nil
	}
}

func sum(args []interface{}) (interface{}, error) {
	acc := decimal.Zero
	for _, arg := range flatten(args) {
		d, err := toNumber(arg)
		if err != nil {
			return nil, err
		}
		acc = acc.Add(d)
	}
	return acc, nil
}

func avg(args []interface{}) (interface{}, error) {
	args = flatten(args)
	if len(args) == 0 {
		return nil, fmt.Errorf("empty sequence")
	}
	acc := decimal.Zero
	for _, arg := range args {
		d, err := toNumber(arg)
		if err != nil {
			return nil, err
		}
		acc = acc.Add(d)
	}
	return acc.DivRound(decimal.NewFromInt(int64(len(args))), 20), nil
}

func ifFn(args []interface{}) (interface{}, error) {
	if truthy(args[0]) {
		return args[1], nil
	}
	return args[2], nil
}

func truthy(v interface{}) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case decimal.Decimal:
		return !b.IsZero()
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "", "false", "0", "no", "null", "none":
			return false
		}
		return true
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		return f != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	}
	return true
}

func lenFn(args []interface{}) (interface{}, error) {
	switch v := args[0].(type) {
	case nil:
		return decimal.Zero, nil
	case string:
		return decimal.NewFromInt(int64(len([]rune(v)))), nil
	}
	rv := reflect.ValueOf(args[0])
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return decimal.NewFromInt(int64(rv.Len())), nil
	}
	return nil, fmt.Errorf("cannot take the length of %T", args[0])
}

func upperFn(args []interface{}) (interface{}, error) {
	return strings.ToUpper(toString(args[0])), nil
}

func lowerFn(args []interface{}) (interface{}, error) {
	return strings.ToLower(toString(args[0])), nil
}

func concatFn(args []interface{}) (interface{}, error) {
	var b strings.Builder
	for _, arg := range args {
		b.WriteString(toString(arg))
	}
	return b.String(), nil
}
