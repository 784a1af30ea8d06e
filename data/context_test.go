// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	ctx := Build(BuildInput{
		Trigger: map[string]interface{}{"amount": 1500.5, "name": "Quote"},
		Source:  "generic",
		Steps: []StepOutput{
			{ID: "step_1", Alias: "lookup", Output: map[string]interface{}{"found": true}},
			{ID: "step_2", Output: map[string]interface{}{"total": 99}},
		},
		Workflow: map[string]interface{}{"workflow_name": "Quote Flow", "execution_id": "ex-1"},
		Env:      map[string]string{"REGION": "sa-east-1"},
		Locale:   "pt-BR",
		Globals:  map[string]interface{}{"company": "Acme"},
	})

	// The trigger data is addressable both nested and flattened.
	trigger := ctx["trigger"].(map[string]interface{})
	assert.Equal(t, 1500.5, trigger["amount"])
	assert.Equal(t, 1500.5, ctx["amount"])

	// Step outputs are keyed by identifier and by alias.
	step := ctx["step"].(map[string]interface{})
	assert.Equal(t, step["step_1"], step["lookup"])
	require.NotNil(t, step["step_2"])

	flow := ctx["flow"].(map[string]interface{})
	assert.Equal(t, "Quote Flow", flow["workflow_name"])

	env := ctx["env"].(map[string]interface{})
	assert.Equal(t, "sa-east-1", env["REGION"])

	globals := ctx["_globals"].(map[string]interface{})
	assert.Equal(t, "Quote Flow", globals["workflow_name"])
	assert.Equal(t, "Acme", globals["company"])

	assert.Equal(t, "pt-BR", ctx["locale"])
}

func TestMerge(t *testing.T) {
	base := Build(BuildInput{
		Trigger: map[string]interface{}{"a": 1},
		Steps:   []StepOutput{{ID: "s1", Output: map[string]interface{}{"x": 1}}},
		Globals: map[string]interface{}{"g1": "a"},
	})
	merged := base.Merge(Context{
		"step":     map[string]interface{}{"s2": map[string]interface{}{"y": 2}},
		"_globals": map[string]interface{}{"g2": "b"},
		"extra":    "value",
	})

	// Sub maps are unioned, not replaced.
	step := merged["step"].(map[string]interface{})
	assert.NotNil(t, step["s1"])
	assert.NotNil(t, step["s2"])
	globals := merged["_globals"].(map[string]interface{})
	assert.Equal(t, "a", globals["g1"])
	assert.Equal(t, "b", globals["g2"])
	assert.Equal(t, "value", merged["extra"])

	// The originals are untouched.
	baseStep := base["step"].(map[string]interface{})
	assert.Nil(t, baseStep["s2"])
}

func TestCRMNormalizer(t *testing.T) {
	raw := map[string]interface{}{
		"id": "123",
		"properties": map[string]interface{}{
			"dealname":  "Big deal",
			"amount":    "5000",
			"dealstage": "won",
		},
		"associations": map[string]interface{}{
			"contacts": map[string]interface{}{
				"results": []interface{}{
					map[string]interface{}{
						"id": "7",
						"properties": map[string]interface{}{
							"firstname": "Ana",
							"email":     "ana@example.com",
						},
					},
				},
			},
		},
	}
	n := NormalizerFor("crm")
	normalized := n.Normalize(raw)

	assert.Equal(t, "deal", normalized["object_type"])
	assert.Equal(t, "Big deal", normalized["dealname"])
	assert.Equal(t, "123", normalized["id"])
	assert.Equal(t, "crm", normalized["_source"])

	contacts := n.Associations(normalized, "contacts")
	require.Len(t, contacts, 1)
	contact := contacts[0].(map[string]interface{})
	assert.Equal(t, "contact", contact["object_type"])
	assert.Equal(t, "Ana", contact["firstname"])

	assert.Empty(t, n.Associations(normalized, "companies"))
}

func TestWebhookNormalizer(t *testing.T) {
	normalized := NormalizerFor("webhook").Normalize(map[string]interface{}{
		"body":    map[string]interface{}{"order_id": "o-9"},
		"headers": map[string]interface{}{"X-Sig": "abc"},
	})
	assert.Equal(t, "o-9", normalized["order_id"])
	assert.Equal(t, "webhook", normalized["_source"])
	headers := normalized["headers"].(map[string]interface{})
	assert.Equal(t, "abc", headers["X-Sig"])
}

func TestFormNormalizer(t *testing.T) {
	normalized := NormalizerFor("form").Normalize(map[string]interface{}{
		"form_id": "f-1",
		"fields": []interface{}{
			map[string]interface{}{"name": "email", "value": "a@b.c"},
			map[string]interface{}{"name": "age", "value": 30},
			map[string]interface{}{"value": "no name, skipped"},
		},
	})
	assert.Equal(t, "a@b.c", normalized["email"])
	assert.Equal(t, 30, normalized["age"])
	assert.Equal(t, "f-1", normalized["form_id"])
	assert.Equal(t, "form", normalized["_source"])
}

func TestPaymentNormalizer(t *testing.T) {
	normalized := NormalizerFor("payment").Normalize(map[string]interface{}{
		"type": "payment.succeeded",
		"data": map[string]interface{}{
			"object": map[string]interface{}{"amount": 1099, "currency": "brl"},
		},
	})
	assert.Equal(t, 1099, normalized["amount"])
	assert.Equal(t, "payment.succeeded", normalized["event"])
	assert.Equal(t, "payment", normalized["_source"])
}

func TestGenericNormalizerForUnknownSource(t *testing.T) {
	normalized := NormalizerFor("something-else").Normalize(map[string]interface{}{"k": "v"})
	assert.Equal(t, "v", normalized["k"])
	assert.Equal(t, "generic", normalized["_source"])
	assert.Empty(t, NormalizerFor("something-else").Associations(normalized, "any"))
}

func TestGlobals(t *testing.T) {
	fixed := time.Date(2026, time.March, 1, 15, 4, 5, 0, time.UTC)
	g := &Globals{
		Workflow: map[string]interface{}{"workflow_name": "Quote Flow"},
		Custom:   map[string]interface{}{"date": "overridden"},
		Now:      func() time.Time { return fixed },
	}

	tests := map[string]interface{}{
		"timestamp":     fixed.Unix(),
		"date":          "overridden", // custom wins over the built in
		"date_br":       "01/03/2026",
		"time":          "15:04:05",
		"datetime":      "2026-03-01 15:04:05",
		"datetime_br":   "01/03/2026 15:04:05",
		"year":          "2026",
		"month":         "03",
		"day":           "01",
		"workflow_name": "Quote Flow",
	}
	for name, want := range tests {
		v, ok := g.Resolve(name, "")
		require.True(t, ok, name)
		assert.Equal(t, want, v, name)
	}

	monthName, ok := g.Resolve("month_name", "pt-BR")
	require.True(t, ok)
	assert.Equal(t, "março", monthName)
	weekday, ok := g.Resolve("weekday", "en-US")
	require.True(t, ok)
	assert.Equal(t, "Sunday", weekday)

	id, ok := g.Resolve("uuid", "")
	require.True(t, ok)
	assert.Len(t, id, 36)

	_, ok = g.Resolve("no_such_global", "")
	assert.False(t, ok)
}

// The document number is monotonic within one provider and starts over in a
// new one.
func TestGlobalsDocumentNumber(t *testing.T) {
	g := &Globals{}
	first, _ := g.Resolve("document_number", "")
	second, _ := g.Resolve("document_number", "")
	assert.Equal(t, "000001", first)
	assert.Equal(t, "000002", second)

	fresh := &Globals{}
	again, _ := fresh.Resolve("document_number", "")
	assert.Equal(t, "000001", again)
}
