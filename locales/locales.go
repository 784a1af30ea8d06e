// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package locales holds the locale tables used by date transforms and
// globals.
package locales

import (
	"time"

	"golang.org/x/text/language"
)

// Table is the table of a locale.
type Table struct {
	// Tag is the language tag of the locale.
	Tag language.Tag
	// Months are the month names, January first.
	Months [12]string
	// Weekdays are the weekday names, Sunday first.
	Weekdays [7]string
	// JustNow is the relative form of a time less than a minute away.
	JustNow string
	// Past and Future format a relative quantity, as "%s ago" and
	// "in %s".
	Past   string
	Future string
	// Units are the singular and plural unit names used by relative
	// times, in order minute, hour, day, month, year.
	Units [5][2]string
}

// Month returns the name of m in the locale.
func (t *Table) Month(m time.Month) string {
	return t.Months[m-1]
}

// Weekday returns the name of d in the locale.
func (t *Table) Weekday(d time.Weekday) string {
	return t.Weekdays[d]
}

// Unit returns the unit name at index i, pluralized for n.
func (t *Table) Unit(i int, n int) string {
	if n == 1 {
		return t.Units[i][0]
	}
	return t.Units[i][1]
}

var enUS = &Table{
	Tag: language.AmericanEnglish,
	Months: [12]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	Weekdays: [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday",
		"Friday", "Saturday"},
	JustNow: "just now",
	Past:    "%s ago",
	Future:  "in %s",
	Units: [5][2]string{
		{"minute", "minutes"},
		{"hour", "hours"},
		{"day", "days"},
		{"month", "months"},
		{"year", "years"},
	},
}

var ptBR = &Table{
	Tag: language.BrazilianPortuguese,
	Months: [12]string{"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
	Weekdays: [7]string{"domingo", "segunda-feira", "terça-feira", "quarta-feira",
		"quinta-feira", "sexta-feira", "sábado"},
	JustNow: "agora mesmo",
	Past:    "há %s",
	Future:  "em %s",
	Units: [5][2]string{
		{"minuto", "minutos"},
		{"hora", "horas"},
		{"dia", "dias"},
		{"mês", "meses"},
		{"ano", "anos"},
	},
}

var tables = []*Table{enUS, ptBR}

var matcher language.Matcher

func init() {
	tags := make([]language.Tag, len(tables))
	for i, t := range tables {
		tags[i] = t.Tag
	}
	matcher = language.NewMatcher(tags)
}

// Get returns the table of a locale, as "pt-BR". An unknown or empty locale
// returns the en-US table.
func Get(locale string) *Table {
	if locale == "" {
		return enUS
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return enUS
	}
	_, i, _ := matcher.Match(tag)
	return tables[i]
}
