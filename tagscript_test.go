// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagscript

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documotor/tagscript/data"
)

func TestProcessString(t *testing.T) {
	e := New(Options{})
	ctx := data.Context{
		"trigger": map[string]interface{}{"amount": 1500.5, "name": "Ana"},
	}
	out, err := e.ProcessString(`Olá {{trigger.name}}, total {{trigger.amount | currency:"BRL"}}`, ctx, "pt-BR")
	require.NoError(t, err)
	assert.Equal(t, "Olá Ana, total R$ 1.500,50", out)
}

// Text without tags comes back unchanged, without being parsed.
func TestProcessStringNoTags(t *testing.T) {
	e := New(Options{})
	src := "no tags here, } and { included"
	out, err := e.ProcessString(src, nil, "")
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestProcessStringSyntaxError(t *testing.T) {
	e := New(Options{})
	_, err := e.ProcessString("{{IF a}}open", nil, "")
	require.Error(t, err)
}

// Process recurses over maps and sequences, preserving the shape;
// non string values pass through unchanged.
func TestProcessRecursive(t *testing.T) {
	e := New(Options{})
	ctx := data.Context{"name": "Ana", "n": 2}
	content := map[string]interface{}{
		"subject": "Hello {{name}}",
		"lines":   []interface{}{"{{name}}", "{{= n * 10}}", 42, nil},
		"nested":  map[string]interface{}{"deep": "{{name}}!"},
		"count":   7,
		"none":    nil,
	}
	out, err := e.Process(content, ctx, "")
	require.NoError(t, err)

	processed := out.(map[string]interface{})
	assert.Equal(t, "Hello Ana", processed["subject"])
	lines := processed["lines"].([]interface{})
	assert.Equal(t, []interface{}{"Ana", "20", 42, nil}, lines)
	nested := processed["nested"].(map[string]interface{})
	assert.Equal(t, "Ana!", nested["deep"])
	assert.Equal(t, 7, processed["count"])
	assert.Nil(t, processed["none"])

	// The input is not modified.
	assert.Equal(t, "Hello {{name}}", content["subject"])
}

func TestProcessWithBuiltContext(t *testing.T) {
	e := New(Options{Globals: &data.Globals{
		Now: func() time.Time { return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC) },
	}})
	ctx := BuildContext(data.BuildInput{
		Trigger: map[string]interface{}{"amount": 500},
		Source:  "generic",
		Steps: []data.StepOutput{
			{ID: "s1", Alias: "lookup", Output: map[string]interface{}{"discount": 50}},
		},
		Workflow: map[string]interface{}{"workflow_name": "Quote Flow"},
	})
	out, err := e.ProcessString(
		"{{$workflow_name}} on {{$date}}: {{= amount - step.lookup.discount}}", ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Quote Flow on 2026-03-01: 450", out)
}

// Two renders of {{$uuid}} give different identifiers, while the document
// number keeps increasing within the engine's provider.
func TestProcessGlobalsLifecycle(t *testing.T) {
	e := New(Options{})
	first, err := e.ProcessString("{{$uuid}}", data.Context{}, "")
	require.NoError(t, err)
	second, err := e.ProcessString("{{$uuid}}", data.Context{}, "")
	require.NoError(t, err)
	assert.Len(t, first, 36)
	assert.NotEqual(t, first, second)

	n1, err := e.ProcessString("{{$document_number}}", data.Context{}, "")
	require.NoError(t, err)
	n2, err := e.ProcessString("{{$document_number}}", data.Context{}, "")
	require.NoError(t, err)
	assert.Equal(t, "000001", n1)
	assert.Equal(t, "000002", n2)
}

func TestEngineStats(t *testing.T) {
	e := New(Options{})
	_, err := e.ProcessString("{{a}} {{missing}}", data.Context{"a": 1}, "")
	require.NoError(t, err)
	_, err = e.ProcessString("{{a}}", data.Context{"a": 1}, "")
	require.NoError(t, err)
	stats := e.Stats()
	assert.Equal(t, 3, stats.TagsFound)
	assert.Equal(t, 2, stats.TagsResolved)
	assert.Equal(t, 1, stats.TagsFailed)
}

func TestExtractTags(t *testing.T) {
	tags := ExtractTags("a {{one}} b {{two | upper}} c {{= 1 + 2}}")
	assert.Equal(t, []string{"{{one}}", "{{two | upper}}", "{{= 1 + 2}}"}, tags)

	assert.Empty(t, ExtractTags("no tags"))
	// An unclosed tag is not listed.
	assert.Equal(t, []string{"{{a}}"}, ExtractTags("{{a}} {{open"))
}

func TestValidateTags(t *testing.T) {
	v := ValidateTags("{{name}} and {{IF a}}x{{ENDIF}}")
	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
	assert.Len(t, v.Tags, 4)

	v = ValidateTags("{{IF a}}never closed")
	assert.False(t, v.Valid)
	require.Len(t, v.Errors, 1)
	assert.Contains(t, v.Errors[0], "ENDIF")
	// The tag listing is still returned.
	assert.Equal(t, []string{"{{IF a}}"}, v.Tags)
}

func TestPreview(t *testing.T) {
	e := New(Options{})
	ctx := data.Context{
		"name":  "Ana",
		"items": []interface{}{1, 2},
	}
	previews, sample, err := e.Preview(
		"Hi {{name}}, {{= 1/0}} {{IF name}}{{$uuid}}{{ENDIF}}{{FOR n IN items}}.{{ENDFOR}}", ctx, "")
	require.NoError(t, err)

	require.Len(t, previews, 5)
	assert.Equal(t, "variable", previews[0].Kind)
	assert.Equal(t, "name", previews[0].Tag)
	assert.Equal(t, "Ana", previews[0].Value)

	assert.Equal(t, "formula", previews[1].Kind)
	assert.Contains(t, previews[1].Error, "Division by zero")

	assert.Equal(t, "conditional", previews[2].Kind)
	assert.Equal(t, true, previews[2].Value)

	// The global inside the conditional branch is walked too.
	assert.Equal(t, "global", previews[3].Kind)

	assert.Equal(t, "loop", previews[4].Kind)
	assert.Equal(t, []interface{}{1, 2}, previews[4].Value)

	assert.Contains(t, sample, "Hi Ana")
	assert.Contains(t, sample, "[Error: Division by zero]")
	assert.Contains(t, sample, "..")
}
