// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package function

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// call calls a function from the default registry, failing the test on
// error.
func call(t *testing.T, name string, args ...interface{}) interface{} {
	t.Helper()
	v, err := Default().Call(name, args)
	if err != nil {
		t.Fatalf("%s: unexpected error %s", name, err)
	}
	return v
}

func items(prices ...interface{}) []interface{} {
	return prices
}

var callTests = []struct {
	name string
	args []interface{}
	want string
}{
	{"ROUND", items(2.347, 2), "2.35"},
	{"ROUND", items(2.6), "3"},
	{"round", items("2.6"), "3"}, // names are case insensitive
	{"ABS", items(-4.2), "4.2"},
	{"MIN", items(3, 1, 2), "1"},
	{"MIN", items(items(3, 1, 2)), "1"},
	{"MAX", items(3, "9.5", 2), "9.5"},
	{"SUM", items(1, 2, 3.5), "6.5"},
	{"SUM", items(items(10, 15.5), 4.5), "30"},
	{"AVG", items(1, 2, 3), "2"},
	{"AVG", items(items(2, 4)), "3"},
	{"IF", items(true, "a", "b"), "a"},
	{"IF", items("no", "a", "b"), "b"},
	{"IF", items(1, 10, 20), "10"},
	{"LEN", items("maçã"), "4"},
	{"LEN", items(items(1, 2, 3)), "3"},
	{"LEN", items(nil), "0"},
	{"UPPER", items("abc"), "ABC"},
	{"LOWER", items("ABC"), "abc"},
	{"CONCAT", items("a", 1, "b"), "a1b"},
}

func str(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case decimal.Decimal:
		return s.String()
	}
	return cast.ToString(v)
}

func TestCall(t *testing.T) {
	for _, test := range callTests {
		v := call(t, test.name, test.args...)
		if got := str(v); got != test.want {
			t.Errorf("%s(%v): unexpected %q, expecting %q\n", test.name, test.args, got, test.want)
		}
	}
}

var callErrorTests = []struct {
	name    string
	args    []interface{}
	message string
}{
	{"NOPE", items(1), "NOPE: unknown function"},
	{"ROUND", nil, "ROUND: too few arguments, expecting at least 1"},
	{"ROUND", items(1, 2, 3), "ROUND: too many arguments, expecting at most 2"},
	{"IF", items(true, 1), "IF: too few arguments, expecting at least 3"},
	{"SUM", items(1, "abc"), `SUM: cannot convert "abc" to number`},
	{"MIN", items(items()), "MIN: empty sequence"},
	{"LEN", items(true), "LEN: cannot take the length of bool"},
}

func TestCallErrors(t *testing.T) {
	for _, test := range callErrorTests {
		_, err := Default().Call(test.name, test.args)
		if err == nil {
			t.Errorf("%s(%v): expecting error\n", test.name, test.args)
			continue
		}
		callErr, ok := err.(*Error)
		if !ok {
			t.Errorf("%s: unexpected error type %T\n", test.name, err)
			continue
		}
		if callErr.Error() != test.message {
			t.Errorf("%s: unexpected error %q, expecting %q\n", test.name, callErr, test.message)
		}
	}
}

func TestRegisterCustom(t *testing.T) {
	r := NewRegistry()
	r.Register(Func{Name: "DOUBLE", MinArgs: 1, MaxArgs: 1, Fn: func(args []interface{}) (interface{}, error) {
		d, err := toNumber(args[0])
		if err != nil {
			return nil, err
		}
		return d.Mul(decimal.NewFromInt(2)), nil
	}})
	v, err := r.Call("double", []interface{}{21})
	if err != nil {
		t.Fatal(err)
	}
	if str(v) != "42" {
		t.Errorf("unexpected %q", str(v))
	}
	if _, err := r.Call("ROUND", []interface{}{1}); err == nil {
		t.Error("expecting error for a function not in this registry")
	}
}
