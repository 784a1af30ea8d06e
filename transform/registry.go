// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transform implements the transforms that can be piped to a
// variable tag, as in "{{amount | currency:BRL}}".
//
// A transform receives the value of the tag, the parameters written after the
// colons and the environment of the render, and returns the transformed
// value. Transforms are looked up by name in a Registry; the Default registry
// holds the built in text, date, number and markdown transforms.
package transform

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Env is the environment a transform runs in.
type Env struct {
	// Locale is the locale of the render, as "pt-BR".
	Locale string
	// Logger is the logger of the render.
	Logger *slog.Logger
	// Vars are the root variables of the render.
	Vars map[string]interface{}
}

// Func is a transform implementation.
type Func func(value interface{}, params []string, env *Env) (interface{}, error)

// Transform is a named transform.
type Transform struct {
	Name    string
	Aliases []string
	Fn      Func
}

// Error is an error applying a transform.
type Error struct {
	// Transform is the name of the transform.
	Transform string
	// Err is the application error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transform %q: %s", e.Transform, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Registry is a set of transforms looked up by name. Names are case
// insensitive.
type Registry struct {
	mu         sync.RWMutex
	transforms map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{transforms: map[string]Func{}}
}

// Register adds a transform to the registry, replacing a transform with the
// same name.
func (r *Registry) Register(t Transform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transforms[strings.ToLower(t.Name)] = t.Fn
	for _, alias := range t.Aliases {
		r.transforms[strings.ToLower(alias)] = t.Fn
	}
}

// Apply applies the transform with the given name to value. It returns an
// *Error if the name is unknown or the transform fails.
func (r *Registry) Apply(name string, value interface{}, params []string, env *Env) (interface{}, error) {
	r.mu.RLock()
	fn, ok := r.transforms[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, &Error{Transform: name, Err: fmt.Errorf("unknown transform")}
	}
	v, err := fn(value, params, env)
	if err != nil {
		return nil, &Error{Transform: name, Err: err}
	}
	return v, nil
}

// Has reports whether the registry has a transform with the given name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.transforms[strings.ToLower(name)]
	return ok
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of the built in transforms. The registry is
// shared: registering a transform on it makes the transform available to
// every render that does not carry its own registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, t := range builtin {
			defaultRegistry.Register(t)
		}
	})
	return defaultRegistry
}
