// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package renderer

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/documotor/tagscript/parser"
)

// render parses and renders src, failing the test on any error.
func render(t *testing.T, src string, vars map[string]interface{}, opts Options) string {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	doc, err := parser.Parse([]byte(src))
	if err != nil {
		t.Fatalf("source: %q, parse error %s", src, err)
	}
	out, err := NewState(vars, opts).Render(doc)
	if err != nil {
		t.Fatalf("source: %q, render error %s", src, err)
	}
	return out
}

var rendererTests = []struct {
	src  string
	vars map[string]interface{}
	want string
}{
	{"no tags at all", nil, "no tags at all"},
	{"Hello {{name}}!", map[string]interface{}{"name": "Ana"}, "Hello Ana!"},
	{"{{user.address.city}}", map[string]interface{}{
		"user": map[string]interface{}{
			"address": map[string]interface{}{"city": "Recife"},
		},
	}, "Recife"},

	// Unresolved variables render as empty.
	{"Hello {{trigger.name}}", map[string]interface{}{}, "Hello "},
	{"{{a.b.c.d}}", map[string]interface{}{"a": "not a map"}, ""},

	// Index access.
	{"{{items[1]}}", map[string]interface{}{
		"items": []interface{}{"a", "b", "c"},
	}, "b"},
	{"{{items[9]}}", map[string]interface{}{
		"items": []interface{}{"a"},
	}, ""},

	// Transforms.
	{"{{name | upper}}", map[string]interface{}{"name": "ana"}, "ANA"},
	{`{{name | truncate:3:""}}`, map[string]interface{}{"name": "Amanda"}, "Ama"},
	{`{{trigger.amount | currency:"BRL"}}`, map[string]interface{}{
		"trigger": map[string]interface{}{"amount": 1500.5},
	}, "R$ 1.500,50"},
	{`{{missing | default:"n/a"}}`, map[string]interface{}{}, "n/a"},

	// A failing transform passes the value through unchanged.
	{"{{value | unknown_transform}}", map[string]interface{}{"value": "42"}, "42"},
	{"{{value | truncate:bad}}", map[string]interface{}{"value": "abc"}, "abc"},

	// Formulas.
	{"{{= 1 + 2 * 3}}", nil, "7"},
	{"{{= (8 - 2) / 3}}", nil, "2"},
	{"{{= total * 1.1}}", map[string]interface{}{"total": 100}, "110"},
	{"{{= 10 / 0}}", nil, "[Error: Division by zero]"},
	{"{{= 10 % 0}}", nil, "[Error: Division by zero]"},
	{"a {{= 1/0}} b {{= 2+2}}", nil, "a [Error: Division by zero] b 4"},
	{`{{= CONCAT("a", "b", 3)}}`, nil, "ab3"},
	{"{{= SUM(items.price)}}", map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"price": 10},
			map[string]interface{}{"price": 15.5},
		},
	}, "25.5"},
	{"{{= NO_SUCH_FN(1)}}", nil, "[Error: NO_SUCH_FN: unknown function]"},

	// Conditionals.
	{"{{IF trigger.amount > 1000}}High{{ELSE}}Low{{ENDIF}}", map[string]interface{}{
		"trigger": map[string]interface{}{"amount": 1500},
	}, "High"},
	{"{{IF trigger.amount > 1000}}High{{ELSE}}Low{{ENDIF}}", map[string]interface{}{
		"trigger": map[string]interface{}{"amount": 500},
	}, "Low"},
	{`{{IF name == "Ana"}}hi{{ENDIF}}`, map[string]interface{}{"name": "Ana"}, "hi"},
	{`{{IF name ~ "An"}}yes{{ELSE}}no{{ENDIF}}`, map[string]interface{}{"name": "Amanda"}, "yes"},
	{`{{IF missing}}yes{{ELSE}}no{{ENDIF}}`, nil, "no"},
	{`{{IF flag}}yes{{ELSE}}no{{ENDIF}}`, map[string]interface{}{"flag": "No"}, "no"},
	{`{{IF items}}some{{ELSE}}none{{ENDIF}}`, map[string]interface{}{
		"items": []interface{}{},
	}, "none"},
	{`{{IF a && !b}}1{{ELSE}}2{{ENDIF}}`, map[string]interface{}{"a": true, "b": false}, "1"},

	// Loops.
	{"{{FOR item IN items}}{{item.name}}; {{ENDFOR}}", map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"name": "pen"},
			map[string]interface{}{"name": "ink"},
		},
	}, "pen; ink; "},
	{"{{FOR n IN nums}}{{= n * 2}} {{ENDFOR}}", map[string]interface{}{
		"nums": []interface{}{1, 2, 3},
	}, "2 4 6 "},

	// Loop metadata.
	{"{{FOR n IN nums}}{{_loop.index1}}/{{_loop.length}} {{ENDFOR}}", map[string]interface{}{
		"nums": []interface{}{"a", "b"},
	}, "1/2 2/2 "},
	{"{{FOR n IN nums}}{{IF _loop.first}}[{{ENDIF}}{{n}}{{IF _loop.last}}]{{ENDIF}}{{ENDFOR}}", map[string]interface{}{
		"nums": []interface{}{1, 2, 3},
	}, "[123]"},

	// A loop over a non sequence renders as empty.
	{"{{FOR c IN name}}{{c}}{{ENDFOR}}", map[string]interface{}{"name": "abc"}, ""},
	{"{{FOR v IN user}}{{v}}{{ENDFOR}}", map[string]interface{}{
		"user": map[string]interface{}{"a": 1},
	}, ""},
	{"{{FOR v IN missing}}{{v}}{{ENDFOR}}", nil, ""},

	// Loop bindings are not visible after the loop ends.
	{"{{FOR n IN nums}}{{ENDFOR}}{{n}}{{_loop.index}}", map[string]interface{}{
		"nums": []interface{}{1},
	}, ""},

	// An outer binding shadowed in the loop is visible again after it.
	{"{{n}}{{FOR n IN nums}}{{n}}{{ENDFOR}}{{n}}", map[string]interface{}{
		"n":    "out",
		"nums": []interface{}{"in"},
	}, "outinout"},
}

func TestRender(t *testing.T) {
	for _, test := range rendererTests {
		if got := render(t, test.src, test.vars, Options{}); got != test.want {
			t.Errorf("source: %q, unexpected %q, expecting %q\n", test.src, got, test.want)
		}
	}
}

func TestRenderLoopIterationLimit(t *testing.T) {
	items := make([]interface{}, 1001)
	for i := range items {
		items[i] = i
	}
	got := render(t, "a{{FOR n IN items}}{{n}}{{ENDFOR}}b", map[string]interface{}{"items": items}, Options{})
	want := "a[Error: loop exceeds 1000 iterations]b"
	if got != want {
		t.Errorf("unexpected %q, expecting %q", got, want)
	}
}

func TestRenderLoopDepthLimit(t *testing.T) {
	one := []interface{}{1}
	vars := map[string]interface{}{"items": one}
	src := "{{FOR a IN items}}{{FOR b IN items}}{{FOR c IN items}}x{{FOR d IN items}}y{{ENDFOR}}{{ENDFOR}}{{ENDFOR}}{{ENDFOR}}"
	got := render(t, src, vars, Options{})
	want := "x[Error: maximum loop depth of 3 exceeded]"
	if got != want {
		t.Errorf("unexpected %q, expecting %q", got, want)
	}
}

// A condition that fails to evaluate aborts the whole render, unlike a
// formula tag.
func TestRenderConditionErrorPropagates(t *testing.T) {
	doc, err := parser.Parse([]byte("before {{IF 1/0 > 1}}x{{ENDIF}} after"))
	if err != nil {
		t.Fatal(err)
	}
	out, err := NewState(nil, Options{}).Render(doc)
	if err == nil {
		t.Fatalf("expecting error, got %q", out)
	}
	formulaErr, ok := err.(*FormulaError)
	if !ok {
		t.Fatalf("unexpected error type %T, expecting *FormulaError", err)
	}
	if formulaErr.Message() != "Division by zero" {
		t.Errorf("unexpected message %q", formulaErr.Message())
	}
	if out != "" {
		t.Errorf("unexpected partial output %q", out)
	}
}

func TestRenderGlobals(t *testing.T) {
	// A name in _globals wins over the provider.
	vars := map[string]interface{}{
		"_globals": map[string]interface{}{"workflow_name": "Quote Flow"},
	}
	opts := Options{
		Globals: func(name, locale string) (interface{}, bool) {
			switch name {
			case "workflow_name":
				return "from provider", true
			case "document_number":
				return "000042", true
			}
			return nil, false
		},
	}
	if got := render(t, "{{$workflow_name}}", vars, opts); got != "Quote Flow" {
		t.Errorf("unexpected %q, expecting %q", got, "Quote Flow")
	}
	if got := render(t, "{{$document_number}}", vars, opts); got != "000042" {
		t.Errorf("unexpected %q, expecting %q", got, "000042")
	}
	if got := render(t, "{{$unknown_global}}", vars, opts); got != "" {
		t.Errorf("unexpected %q, expecting empty", got)
	}
}

func TestRenderStats(t *testing.T) {
	doc, err := parser.Parse([]byte(
		"{{a}}{{missing}}{{= 1/0}}{{IF a}}{{a}}{{ENDIF}}{{FOR n IN nums}}{{n}}{{ENDFOR}}"))
	if err != nil {
		t.Fatal(err)
	}
	st := NewState(map[string]interface{}{
		"a":    "x",
		"nums": []interface{}{1, 2},
	}, Options{})
	if _, err := st.Render(doc); err != nil {
		t.Fatal(err)
	}
	stats := st.Stats()
	// a, missing, 1/0, a again, n twice.
	want := Stats{
		TagsFound:             6,
		TagsResolved:          4,
		TagsFailed:            2,
		LoopsExpanded:         1,
		ConditionalsEvaluated: 1,
	}
	if stats != want {
		t.Errorf("unexpected stats %+v, expecting %+v", stats, want)
	}
}

// A failing transform is reported on the logger.
func TestRenderTransformFailureLogged(t *testing.T) {
	var b strings.Builder
	opts := Options{Logger: slog.New(slog.NewTextHandler(&b, nil))}
	got := render(t, "{{v | no_such}}", map[string]interface{}{"v": "ok"}, opts)
	if got != "ok" {
		t.Errorf("unexpected %q, expecting %q", got, "ok")
	}
	if !strings.Contains(b.String(), "no_such") {
		t.Errorf("transform failure not logged: %q", b.String())
	}
}

func TestRenderBroadcastPath(t *testing.T) {
	vars := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"price": 10},
			map[string]interface{}{"price": 20},
		},
	}
	got := render(t, `{{items.price | join:"+"}}`, vars, Options{})
	if got != "10+20" {
		t.Errorf("unexpected %q, expecting %q", got, "10+20")
	}
}

func TestRenderConcurrent(t *testing.T) {
	doc, err := parser.Parse([]byte("{{FOR n IN nums}}{{= n + 1}}{{ENDFOR}}"))
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			vars := map[string]interface{}{"nums": []interface{}{1, 2, 3}}
			out, err := NewState(vars, Options{}).Render(doc)
			if err == nil && out != "234" {
				err = fmt.Errorf("unexpected %q", out)
			}
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}
