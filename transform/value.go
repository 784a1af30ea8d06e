// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// builtin holds the built in transforms, collected by the init functions of
// the package files.
var builtin []Transform

var hundred = decimal.NewFromInt(100)

// str returns the string form of a value, as it would render.
func str(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case decimal.Decimal:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// num coerces a value to a decimal number.
func num(v interface{}) (decimal.Decimal, error) {
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

// intParam parses the parameter at index i as an integer, returning def if
// the parameter is missing.
func intParam(params []string, i, def int) (int, error) {
	if i >= len(params) {
		return def, nil
	}
	n, err := strconv.Atoi(params[i])
	if err != nil {
		return 0, fmt.Errorf("invalid parameter %q, expecting integer", params[i])
	}
	return n, nil
}

// strParam returns the parameter at index i, or def if it is missing.
func strParam(params []string, i int, def string) string {
	if i >= len(params) {
		return def
	}
	return params[i]
}
