// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transform

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/documotor/tagscript/locales"
)

func init() {
	builtin = append(builtin,
		Transform{Name: "format", Aliases: []string{"date", "date_format"}, Fn: formatDate},
		Transform{Name: "relative", Fn: relative},
		Transform{Name: "add_minutes", Fn: addDuration(time.Minute)},
		Transform{Name: "add_hours", Fn: addDuration(time.Hour)},
		Transform{Name: "add_days", Fn: addDate(0, 0, 1)},
		Transform{Name: "add_weeks", Fn: addDate(0, 0, 7)},
		Transform{Name: "add_months", Fn: addDate(0, 1, 0)},
		Transform{Name: "add_years", Fn: addDate(1, 0, 0)},
	)
}

// dateLayouts are the layouts tried, in order, when parsing a date string.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// parseTime parses a value as a time. Strings are tried against the known
// layouts and then against the heuristic parser. Numbers are Unix timestamps,
// in milliseconds when the magnitude says so.
func parseTime(v interface{}) (time.Time, bool) {
	if v == nil {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		if parsed, err := dateparse.ParseAny(s); err == nil {
			return parsed, true
		}
		return time.Time{}, false
	}
	if d, err := num(v); err == nil {
		ts := d.IntPart()
		if ts > 1e11 || ts < -1e11 {
			return time.UnixMilli(ts), true
		}
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// dateTokens are the tokens of a format pattern, tried longest first.
var dateTokens = []struct {
	tok string
	fn  func(t time.Time, lt *locales.Table) string
}{
	{"YYYY", func(t time.Time, lt *locales.Table) string { return t.Format("2006") }},
	{"YY", func(t time.Time, lt *locales.Table) string { return t.Format("06") }},
	{"MMMM", func(t time.Time, lt *locales.Table) string { return lt.Month(t.Month()) }},
	{"MM", func(t time.Time, lt *locales.Table) string { return t.Format("01") }},
	{"DD", func(t time.Time, lt *locales.Table) string { return t.Format("02") }},
	{"dddd", func(t time.Time, lt *locales.Table) string { return lt.Weekday(t.Weekday()) }},
	{"HH", func(t time.Time, lt *locales.Table) string { return t.Format("15") }},
	{"mm", func(t time.Time, lt *locales.Table) string { return t.Format("04") }},
	{"ss", func(t time.Time, lt *locales.Table) string { return t.Format("05") }},
}

func formatPattern(t time.Time, pattern string, lt *locales.Table) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		matched := false
		for _, tk := range dateTokens {
			if strings.HasPrefix(pattern[i:], tk.tok) {
				b.WriteString(tk.fn(t, lt))
				i += len(tk.tok)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String()
}

// formatDate formats a date with a pattern of YYYY, YY, MMMM, MM, DD, dddd,
// HH, mm and ss tokens, as "DD/MM/YYYY". Month and weekday names follow the
// locale, which can be overridden with a second parameter. A value that does
// not parse as a date passes through unchanged.
func formatDate(v interface{}, params []string, env *Env) (interface{}, error) {
	t, ok := parseTime(v)
	if !ok {
		return v, nil
	}
	pattern := strParam(params, 0, "YYYY-MM-DD")
	lt := locales.Get(strParam(params, 1, env.Locale))
	return formatPattern(t, pattern, lt), nil
}

// relative renders a date as a distance from now, as "2 days ago" or, in
// pt-BR, "há 2 dias".
func relative(v interface{}, params []string, env *Env) (interface{}, error) {
	t, ok := parseTime(v)
	if !ok {
		return v, nil
	}
	lt := locales.Get(strParam(params, 0, env.Locale))
	d := time.Since(t)
	future := d < 0
	if future {
		d = -d
	}
	var n, unit int
	switch {
	case d < time.Minute:
		return lt.JustNow, nil
	case d < time.Hour:
		n, unit = int(d/time.Minute), 0
	case d < 24*time.Hour:
		n, unit = int(d/time.Hour), 1
	case d < 30*24*time.Hour:
		n, unit = int(d/(24*time.Hour)), 2
	case d < 365*24*time.Hour:
		n, unit = int(d/(30*24*time.Hour)), 3
	default:
		n, unit = int(d/(365*24*time.Hour)), 4
	}
	quantity := fmt.Sprintf("%d %s", n, lt.Unit(unit, n))
	if future {
		return fmt.Sprintf(lt.Future, quantity), nil
	}
	return fmt.Sprintf(lt.Past, quantity), nil
}

// addDate returns a transform that shifts a date by n times the given years,
// months and days.
func addDate(years, months, days int) Func {
	return func(v interface{}, params []string, env *Env) (interface{}, error) {
		t, ok := parseTime(v)
		if !ok {
			return v, nil
		}
		n, err := intParam(params, 0, 1)
		if err != nil {
			return nil, err
		}
		return t.AddDate(years*n, months*n, days*n), nil
	}
}

// addDuration returns a transform that shifts a date by n times the given
// duration.
func addDuration(unit time.Duration) Func {
	return func(v interface{}, params []string, env *Env) (interface{}, error) {
		t, ok := parseTime(v)
		if !ok {
			return v, nil
		}
		n, err := intParam(params, 0, 1)
		if err != nil {
			return nil, err
		}
		return t.Add(time.Duration(n) * unit), nil
	}
}
