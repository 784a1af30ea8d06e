// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transform

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

func init() {
	builtin = append(builtin,
		Transform{Name: "upper", Aliases: []string{"uppercase"}, Fn: upper},
		Transform{Name: "lower", Aliases: []string{"lowercase"}, Fn: lower},
		Transform{Name: "capitalize", Fn: capitalize},
		Transform{Name: "title", Fn: title},
		Transform{Name: "trim", Fn: trim},
		Transform{Name: "truncate", Fn: truncate},
		Transform{Name: "concat", Aliases: []string{"append"}, Fn: concat},
		Transform{Name: "prepend", Fn: prepend},
		Transform{Name: "replace", Fn: replace},
		Transform{Name: "default", Aliases: []string{"fallback"}, Fn: defaultValue},
		Transform{Name: "padleft", Fn: padLeft},
		Transform{Name: "padright", Fn: padRight},
		Transform{Name: "split", Fn: split},
		Transform{Name: "join", Fn: join},
	)
}

func upper(v interface{}, params []string, env *Env) (interface{}, error) {
	return strings.ToUpper(str(v)), nil
}

func lower(v interface{}, params []string, env *Env) (interface{}, error) {
	return strings.ToLower(str(v)), nil
}

// capitalize upper cases the first rune and lower cases the rest.
func capitalize(v interface{}, params []string, env *Env) (interface{}, error) {
	s := str(v)
	if s == "" {
		return s, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:]), nil
}

// title upper cases the first rune of every word.
func title(v interface{}, params []string, env *Env) (interface{}, error) {
	prev := ' '
	return strings.Map(func(r rune) rune {
		if prev == ' ' {
			prev = r
			return unicode.ToUpper(r)
		}
		prev = r
		return r
	}, str(v)), nil
}

func trim(v interface{}, params []string, env *Env) (interface{}, error) {
	return strings.TrimSpace(str(v)), nil
}

// truncate cuts a string to a maximum length in runes, appending a suffix
// when something was cut. The default suffix is "...".
func truncate(v interface{}, params []string, env *Env) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("missing length parameter")
	}
	max, err := intParam(params, 0, 0)
	if err != nil {
		return nil, err
	}
	if max < 0 {
		return nil, fmt.Errorf("invalid length %d", max)
	}
	suffix := strParam(params, 1, "...")
	s := str(v)
	runes := []rune(s)
	if len(runes) <= max {
		return s, nil
	}
	return string(runes[:max]) + suffix, nil
}

func concat(v interface{}, params []string, env *Env) (interface{}, error) {
	return str(v) + strings.Join(params, ""), nil
}

func prepend(v interface{}, params []string, env *Env) (interface{}, error) {
	return strings.Join(params, "") + str(v), nil
}

func replace(v interface{}, params []string, env *Env) (interface{}, error) {
	if len(params) < 1 {
		return nil, fmt.Errorf("missing parameters, expecting old and new")
	}
	return strings.ReplaceAll(str(v), params[0], strParam(params, 1, "")), nil
}

// defaultValue replaces a nil or empty value with the parameter.
func defaultValue(v interface{}, params []string, env *Env) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("missing default parameter")
	}
	if v == nil || str(v) == "" {
		return params[0], nil
	}
	return v, nil
}

func padLeft(v interface{}, params []string, env *Env) (interface{}, error) {
	return pad(v, params, true)
}

func padRight(v interface{}, params []string, env *Env) (interface{}, error) {
	return pad(v, params, false)
}

func pad(v interface{}, params []string, left bool) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("missing length parameter")
	}
	width, err := intParam(params, 0, 0)
	if err != nil {
		return nil, err
	}
	fill := strParam(params, 1, " ")
	if utf8.RuneCountInString(fill) != 1 {
		return nil, fmt.Errorf("invalid fill %q, expecting one character", fill)
	}
	s := str(v)
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s, nil
	}
	if left {
		return strings.Repeat(fill, n) + s, nil
	}
	return s + strings.Repeat(fill, n), nil
}

func split(v interface{}, params []string, env *Env) (interface{}, error) {
	sep := strParam(params, 0, ",")
	parts := strings.Split(str(v), sep)
	out := make([]interface{}, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out, nil
}

func join(v interface{}, params []string, env *Env) (interface{}, error) {
	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("cannot join %T, expecting a sequence", v)
	}
	sep := strParam(params, 0, ", ")
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = str(item)
	}
	return strings.Join(parts, sep), nil
}
