// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package function implements the functions that can be called in a formula,
// as in "{{= ROUND(total / 3, 2)}}".
package function

import (
	"fmt"
	"strings"
	"sync"
)

// Fn is a function implementation.
type Fn func(args []interface{}) (interface{}, error)

// Func is a named function. MinArgs and MaxArgs bound the number of
// arguments; a MaxArgs of -1 accepts any number.
type Func struct {
	Name    string
	MinArgs int
	MaxArgs int
	Fn      Fn
}

// Error is an error calling a function.
type Error struct {
	// Function is the name of the function.
	Function string
	// Err is the call error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Function, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Registry is a set of functions looked up by name. Names are case
// insensitive.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: map[string]Func{}}
}

// Register adds a function to the registry, replacing a function with the
// same name.
func (r *Registry) Register(f Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[strings.ToUpper(f.Name)] = f
}

// Call calls the function with the given name. It returns an *Error if the
// name is unknown, the number of arguments is wrong or the call fails.
func (r *Registry) Call(name string, args []interface{}) (interface{}, error) {
	r.mu.RLock()
	f, ok := r.funcs[strings.ToUpper(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, &Error{Function: name, Err: fmt.Errorf("unknown function")}
	}
	if len(args) < f.MinArgs {
		return nil, &Error{Function: name, Err: fmt.Errorf("too few arguments, expecting at least %d", f.MinArgs)}
	}
	if f.MaxArgs >= 0 && len(args) > f.MaxArgs {
		return nil, &Error{Function: name, Err: fmt.Errorf("too many arguments, expecting at most %d", f.MaxArgs)}
	}
	v, err := f.Fn(args)
	if err != nil {
		if _, ok := err.(*Error); ok {
			return nil, err
		}
		return nil, &Error{Function: name, Err: err}
	}
	return v, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of the built in functions. The registry is
// shared: registering a function on it makes the function available to every
// render that does not carry its own registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, f := range builtin {
			defaultRegistry.Register(f)
		}
	})
	return defaultRegistry
}
