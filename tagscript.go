// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tagscript implements a template language for document automation.
//
// Templates embed tags between "{{" and "}}" in plain text. A tag is a
// variable with optional transforms, a global variable, a formula or a
// control structure:
//
//	Hello {{user.name | capitalize}},
//	your order of {{$date}} totals {{total | currency:"BRL"}}.
//	{{IF total > 1000}}Thank you for the large order!{{ENDIF}}
//	{{FOR item IN items}}- {{item.name}}
//	{{ENDFOR}}
//
// Process renders a template against a context built by the data package
// from a trigger payload, prior step outputs and workflow metadata. It also
// accepts maps and sequences, rendering every string in them and preserving
// the shape.
package tagscript

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/documotor/tagscript/data"
	"github.com/documotor/tagscript/function"
	"github.com/documotor/tagscript/parser"
	"github.com/documotor/tagscript/renderer"
	"github.com/documotor/tagscript/transform"
)

// Options configures an Engine.
type Options struct {
	// Transforms is the transform registry. If nil, the default registry
	// is used.
	Transforms *transform.Registry
	// Functions is the function registry. If nil, the default registry
	// is used.
	Functions *function.Registry
	// Logger receives transform failures. If nil, slog.Default() is
	// used.
	Logger *slog.Logger
	// Globals provides the built in global variables. If nil, a fresh
	// provider with no workflow metadata is used.
	Globals *data.Globals
	// MaxIterations, MaxLoopDepth and MaxDepth override the default
	// evaluation limits when positive.
	MaxIterations int
	MaxLoopDepth  int
	MaxDepth      int
}

// Engine renders templates. An Engine is safe for concurrent use: every
// render carries its own parser and evaluator state.
type Engine struct {
	opts    Options
	globals *data.Globals

	mu    sync.Mutex
	stats renderer.Stats
}

// New returns a new Engine.
func New(opts Options) *Engine {
	e := &Engine{opts: opts, globals: opts.Globals}
	if e.globals == nil {
		e.globals = &data.Globals{}
	}
	return e
}

// Process renders content against ctx. Strings are rendered as templates.
// Maps and sequences are processed recursively, value by value, preserving
// the shape. Any other value, nil included, passes through unchanged.
//
// A lex or parse error aborts the whole call.
func (e *Engine) Process(content interface{}, ctx data.Context, locale string) (interface{}, error) {
	switch c := content.(type) {
	case string:
		return e.ProcessString(c, ctx, locale)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(c))
		for k, v := range c {
			pv, err := e.Process(v, ctx, locale)
			if err != nil {
				return nil, err
			}
			out[k] = pv
		}
		return out, nil
	case data.Context:
		return e.Process(map[string]interface{}(c), ctx, locale)
	case []interface{}:
		out := make([]interface{}, len(c))
		for i, v := range c {
			pv, err := e.Process(v, ctx, locale)
			if err != nil {
				return nil, err
			}
			out[i] = pv
		}
		return out, nil
	}
	return content, nil
}

// ProcessString renders a template against ctx.
func (e *Engine) ProcessString(text string, ctx data.Context, locale string) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	doc, err := parser.Parse([]byte(text))
	if err != nil {
		return "", err
	}
	st := renderer.NewState(ctx, renderer.Options{
		Transforms:    e.opts.Transforms,
		Functions:     e.opts.Functions,
		Logger:        e.opts.Logger,
		Locale:        locale,
		Globals:       e.globals.Resolve,
		MaxIterations: e.opts.MaxIterations,
		MaxLoopDepth:  e.opts.MaxLoopDepth,
		MaxDepth:      e.opts.MaxDepth,
	})
	out, err := st.Render(doc)
	e.addStats(st.Stats())
	if err != nil {
		return "", err
	}
	return out, nil
}

func (e *Engine) addStats(s renderer.Stats) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.TagsFound += s.TagsFound
	e.stats.TagsResolved += s.TagsResolved
	e.stats.TagsFailed += s.TagsFailed
	e.stats.LoopsExpanded += s.LoopsExpanded
	e.stats.ConditionalsEvaluated += s.ConditionalsEvaluated
}

// Stats returns the counters accumulated by the renders done so far.
func (e *Engine) Stats() renderer.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// ExtractTags returns the tags of a template, in order, without parsing or
// evaluating them. It is meant for UI tooling that lists the tags of a
// document.
func ExtractTags(text string) []string {
	var tags []string
	for {
		start := strings.Index(text, "{{")
		if start == -1 {
			return tags
		}
		end := strings.Index(text[start+2:], "}}")
		if end == -1 {
			return tags
		}
		tags = append(tags, text[start:start+2+end+2])
		text = text[start+2+end+2:]
	}
}

// Validation is the result of ValidateTags.
type Validation struct {
	// Valid reports whether the template parses.
	Valid bool
	// Errors are the lex and parse error messages, empty when Valid.
	Errors []string
	// Tags are the tags of the template, as listed by ExtractTags.
	Tags []string
}

// ValidateTags parses a template and reports its syntax errors without
// evaluating anything. The tag listing is returned even when the template
// does not parse.
func ValidateTags(text string) Validation {
	v := Validation{Tags: ExtractTags(text)}
	if _, err := parser.Parse([]byte(text)); err != nil {
		v.Errors = []string{err.Error()}
		return v
	}
	v.Valid = true
	return v
}
