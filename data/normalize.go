// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"strings"

	"github.com/spf13/cast"
)

// A Normalizer reshapes the raw payload of a trigger source into the uniform
// addressing model templates resolve against.
type Normalizer interface {
	// Normalize returns the flat form of a raw payload, with the source
	// recorded under "_source".
	Normalize(raw map[string]interface{}) map[string]interface{}
	// Associations returns the objects associated to a normalized payload
	// for a given association type, or an empty list if the source does
	// not support associations.
	Associations(normalized map[string]interface{}, assocType string) []interface{}
}

// NormalizerFor returns the normalizer of a trigger source. An unknown
// source gets the generic normalizer.
func NormalizerFor(source string) Normalizer {
	switch strings.ToLower(source) {
	case "crm":
		return crmNormalizer{}
	case "webhook":
		return webhookNormalizer{}
	case "form":
		return formNormalizer{}
	case "payment":
		return paymentNormalizer{}
	}
	return genericNormalizer{}
}

// baseNormalizer implements the no association case.
type baseNormalizer struct{}

func (baseNormalizer) Associations(normalized map[string]interface{}, assocType string) []interface{} {
	return []interface{}{}
}

type genericNormalizer struct{ baseNormalizer }

func (genericNormalizer) Normalize(raw map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(raw)+1)
	for k, v := range raw {
		out[k] = v
	}
	out["_source"] = "generic"
	return out
}

type webhookNormalizer struct{ baseNormalizer }

// Normalize flattens the body of a webhook payload onto the root, keeping
// headers and query nested.
func (webhookNormalizer) Normalize(raw map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	if body, ok := raw["body"].(map[string]interface{}); ok {
		for k, v := range body {
			out[k] = v
		}
	} else {
		for k, v := range raw {
			out[k] = v
		}
	}
	if headers, ok := raw["headers"]; ok {
		out["headers"] = headers
	}
	if query, ok := raw["query"]; ok {
		out["query"] = query
	}
	out["_source"] = "webhook"
	return out
}

type formNormalizer struct{ baseNormalizer }

// Normalize maps the fields of a form submission onto the root by field
// name. Fields can come as a list of {name, value} entries or as a map.
func (formNormalizer) Normalize(raw map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	switch fields := raw["fields"].(type) {
	case []interface{}:
		for _, f := range fields {
			field, ok := f.(map[string]interface{})
			if !ok {
				continue
			}
			name := cast.ToString(field["name"])
			if name == "" {
				continue
			}
			out[name] = field["value"]
		}
	case map[string]interface{}:
		for k, v := range fields {
			out[k] = v
		}
	default:
		for k, v := range raw {
			out[k] = v
		}
	}
	if id, ok := raw["form_id"]; ok {
		out["form_id"] = id
	}
	if at, ok := raw["submitted_at"]; ok {
		out["submitted_at"] = at
	}
	out["_source"] = "form"
	return out
}

type paymentNormalizer struct{ baseNormalizer }

// Normalize flattens the object of a payment event onto the root, keeping
// the event type under "event".
func (paymentNormalizer) Normalize(raw map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	object := raw
	if d, ok := raw["data"].(map[string]interface{}); ok {
		if o, ok := d["object"].(map[string]interface{}); ok {
			object = o
		} else {
			object = d
		}
	}
	for k, v := range object {
		out[k] = v
	}
	if typ, ok := raw["type"]; ok {
		out["event"] = typ
	}
	out["_source"] = "payment"
	return out
}

type crmNormalizer struct{}

// crmTypeHints map a property name to the object type it suggests.
var crmTypeHints = map[string]string{
	"dealname":    "deal",
	"dealstage":   "deal",
	"amount":      "deal",
	"email":       "contact",
	"firstname":   "contact",
	"lastname":    "contact",
	"domain":      "company",
	"industry":    "company",
	"subject":     "ticket",
	"hs_pipeline": "ticket",
	"content":     "ticket",
}

// detectObjectType guesses the CRM object type from the shape of its
// properties.
func detectObjectType(properties map[string]interface{}) string {
	counts := map[string]int{}
	for name := range properties {
		if typ, ok := crmTypeHints[strings.ToLower(name)]; ok {
			counts[typ]++
		}
	}
	best, bestCount := "unknown", 0
	for typ, count := range counts {
		if count > bestCount {
			best, bestCount = typ, count
		}
	}
	return best
}

// Normalize flattens the properties of a CRM object onto the root, detects
// the object type from the property shape and groups the associated objects
// per association type under "associated".
func (n crmNormalizer) Normalize(raw map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	properties, _ := raw["properties"].(map[string]interface{})
	for k, v := range properties {
		out[k] = v
	}
	if id, ok := raw["id"]; ok {
		out["id"] = id
	}
	out["object_type"] = detectObjectType(properties)
	if associations, ok := raw["associations"].(map[string]interface{}); ok {
		associated := map[string]interface{}{}
		for assocType, group := range associations {
			associated[assocType] = n.normalizeGroup(group)
		}
		out["associated"] = associated
	}
	out["_source"] = "crm"
	return out
}

// normalizeGroup normalizes every object of an association group. A group
// can be a plain list or nested under "results".
func (n crmNormalizer) normalizeGroup(group interface{}) []interface{} {
	items, ok := group.([]interface{})
	if !ok {
		if m, isMap := group.(map[string]interface{}); isMap {
			items, _ = m["results"].([]interface{})
		}
	}
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]interface{}); ok {
			out = append(out, n.Normalize(obj))
		}
	}
	return out
}

// Associations returns the associated objects of an association type, as
// grouped by Normalize.
func (crmNormalizer) Associations(normalized map[string]interface{}, assocType string) []interface{} {
	associated, ok := normalized["associated"].(map[string]interface{})
	if !ok {
		return []interface{}{}
	}
	if items, ok := associated[assocType].([]interface{}); ok {
		return items
	}
	return []interface{}{}
}
