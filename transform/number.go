// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transform

import (
	"fmt"
	"strings"

	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/documotor/tagscript/locales"
)

func init() {
	builtin = append(builtin,
		Transform{Name: "currency", Fn: currency},
		Transform{Name: "number", Fn: formatNumber},
		Transform{Name: "round", Fn: round},
		Transform{Name: "percent", Fn: percent},
		Transform{Name: "abs", Fn: abs},
	)
}

// currencyFormat describes how a currency is written.
type currencyFormat struct {
	symbol   string
	thousand string
	decimal  string
	suffix   bool
	space    bool
}

var currencies = map[string]currencyFormat{
	"BRL": {symbol: "R$", thousand: ".", decimal: ",", space: true},
	"USD": {symbol: "$", thousand: ",", decimal: "."},
	"EUR": {symbol: "€", thousand: ".", decimal: ",", suffix: true, space: true},
	"GBP": {symbol: "£", thousand: ",", decimal: "."},
}

// groupDigits inserts sep every three digits from the right.
func groupDigits(digits, sep string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	first := n % 3
	if first > 0 {
		b.WriteString(digits[:first])
	}
	for i := first; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// currency formats a number as a currency amount, as "R$ 1.500,50" for
// "currency:BRL". The currency code decides the symbol, its position and the
// separators.
func currency(v interface{}, params []string, env *Env) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("missing currency code parameter")
	}
	code := strings.ToUpper(params[0])
	format, ok := currencies[code]
	if !ok {
		return nil, fmt.Errorf("unknown currency code %q", code)
	}
	d, err := num(v)
	if err != nil {
		return nil, err
	}
	s := d.StringFixed(2)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, fracPart, _ := strings.Cut(s, ".")
	amount := groupDigits(intPart, format.thousand) + format.decimal + fracPart
	if negative {
		amount = "-" + amount
	}
	sep := ""
	if format.space {
		sep = " "
	}
	if format.suffix {
		return amount + sep + format.symbol, nil
	}
	return format.symbol + sep + amount, nil
}

// formatNumber formats a number with the grouping and decimal separator of
// the locale, with the number of decimals given by the parameter.
func formatNumber(v interface{}, params []string, env *Env) (interface{}, error) {
	d, err := num(v)
	if err != nil {
		return nil, err
	}
	decimals, err := intParam(params, 0, 2)
	if err != nil {
		return nil, err
	}
	if decimals < 0 {
		return nil, fmt.Errorf("invalid decimals %d", decimals)
	}
	lt := locales.Get(strParam(params, 1, env.Locale))
	f, _ := d.Float64()
	p := message.NewPrinter(lt.Tag)
	return p.Sprint(number.Decimal(f,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals))), nil
}

func round(v interface{}, params []string, env *Env) (interface{}, error) {
	d, err := num(v)
	if err != nil {
		return nil, err
	}
	decimals, err := intParam(params, 0, 0)
	if err != nil {
		return nil, err
	}
	return d.Round(int32(decimals)), nil
}

// percent formats a fraction as a percentage, as "0.155 | percent:1" renders
// "15.5%". A second parameter of "false" formats the value as it is, without
// multiplying by 100.
func percent(v interface{}, params []string, env *Env) (interface{}, error) {
	d, err := num(v)
	if err != nil {
		return nil, err
	}
	decimals, err := intParam(params, 0, 0)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strParam(params, 1, "true")) {
	case "false", "no", "0":
	default:
		d = d.Mul(hundred)
	}
	return d.StringFixed(int32(decimals)) + "%", nil
}

func abs(v interface{}, params []string, env *Env) (interface{}, error) {
	d, err := num(v)
	if err != nil {
		return nil, err
	}
	return d.Abs(), nil
}
