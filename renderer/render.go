// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package renderer implements the evaluation of parsed document trees.
//
// A State holds the variables, the transform and function registries and the
// evaluation counters. Render walks the tree writing text nodes verbatim and
// replacing tags with their values:
//
//	doc, _ := parser.Parse([]byte("Hello {{user.name}}"))
//	st := renderer.NewState(vars, renderer.Options{})
//	out, err := st.Render(doc)
//
// A failed tag never aborts the render. An unresolved variable renders as the
// empty string, a failed formula renders its message inline and a failed
// transform passes the untransformed value through. The one exception is a
// condition that fails to evaluate, which is returned as an error.
package renderer

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/documotor/tagscript/ast"
	"github.com/documotor/tagscript/function"
	"github.com/documotor/tagscript/transform"
)

const (
	// DefaultMaxIterations is the default limit on the length of a
	// collection a loop expands.
	DefaultMaxIterations = 1000
	// DefaultMaxLoopDepth is the default limit on loop nesting.
	DefaultMaxLoopDepth = 3
	// DefaultMaxDepth is the default limit on expression nesting in a
	// formula.
	DefaultMaxDepth = 50
)

// Stats are the counters of a render.
type Stats struct {
	TagsFound             int
	TagsResolved          int
	TagsFailed            int
	LoopsExpanded         int
	ConditionalsEvaluated int
}

// Options configures a State.
type Options struct {
	// Transforms is the transform registry. If nil, the default registry
	// is used.
	Transforms *transform.Registry
	// Functions is the function registry. If nil, the default registry is
	// used.
	Functions *function.Registry
	// Logger receives transform failures. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Locale is the locale tag, as "pt-BR", used by locale aware
	// transforms and globals.
	Locale string
	// Globals resolves a $name not present in the _globals variable.
	Globals func(name, locale string) (interface{}, bool)
	// MaxIterations, MaxLoopDepth and MaxDepth override the default
	// limits when positive.
	MaxIterations int
	MaxLoopDepth  int
	MaxDepth      int
}

// scope is a layer of variables. The innermost layer is searched first.
type scope map[string]interface{}

// State is the state of a render.
type State struct {
	vars       []scope
	transforms *transform.Registry
	functions  *function.Registry
	logger     *slog.Logger
	locale     string
	globals    func(name, locale string) (interface{}, bool)

	maxIterations int
	maxLoopDepth  int
	maxDepth      int

	loopDepth int
	depth     int
	stats     Stats
}

// NewState returns a new State with the given variables.
func NewState(vars map[string]interface{}, opts Options) *State {
	s := &State{
		vars:          []scope{vars},
		transforms:    opts.Transforms,
		functions:     opts.Functions,
		logger:        opts.Logger,
		locale:        opts.Locale,
		globals:       opts.Globals,
		maxIterations: opts.MaxIterations,
		maxLoopDepth:  opts.MaxLoopDepth,
		maxDepth:      opts.MaxDepth,
	}
	if s.transforms == nil {
		s.transforms = transform.Default()
	}
	if s.functions == nil {
		s.functions = function.Default()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.maxIterations <= 0 {
		s.maxIterations = DefaultMaxIterations
	}
	if s.maxLoopDepth <= 0 {
		s.maxLoopDepth = DefaultMaxLoopDepth
	}
	if s.maxDepth <= 0 {
		s.maxDepth = DefaultMaxDepth
	}
	return s
}

// Stats returns the counters of the renders done so far.
func (s *State) Stats() Stats {
	return s.stats
}

// Render renders doc and returns the rendered document.
func (s *State) Render(doc *ast.Document) (string, error) {
	var b strings.Builder
	if err := s.render(&b, doc.Nodes); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *State) render(w *strings.Builder, nodes []ast.Node) error {
	for _, n := range nodes {
		switch node := n.(type) {
		case *ast.Text:
			w.WriteString(node.Text)
		case *ast.Variable:
			s.stats.TagsFound++
			v := s.evalVariable(node)
			if v == nil {
				s.stats.TagsFailed++
			} else {
				s.stats.TagsResolved++
			}
			w.WriteString(ToString(s.applyTransforms(node, v)))
		case *ast.GlobalVar:
			s.stats.TagsFound++
			v := s.evalGlobalVar(node)
			if v == nil {
				s.stats.TagsFailed++
			} else {
				s.stats.TagsResolved++
			}
			w.WriteString(ToString(v))
		case *ast.Formula:
			s.stats.TagsFound++
			v, err := s.EvalFormula(node.Expr)
			if err != nil {
				s.stats.TagsFailed++
				writeError(w, err)
				continue
			}
			s.stats.TagsResolved++
			w.WriteString(ToString(v))
		case *ast.Conditional:
			cond, err := s.EvalFormula(node.Condition)
			if err != nil {
				return err
			}
			s.stats.ConditionalsEvaluated++
			if ToBool(cond) {
				if err := s.render(w, node.Then); err != nil {
					return err
				}
			} else {
				if err := s.render(w, node.Else); err != nil {
					return err
				}
			}
		case *ast.Loop:
			if err := s.renderLoop(w, node); err != nil {
				return err
			}
		default:
			panic(fmt.Sprintf("unexpected node type %T", n))
		}
	}
	return nil
}

func (s *State) renderLoop(w *strings.Builder, node *ast.Loop) error {
	collection := s.evalVariable(node.Collection)
	rv := reflect.ValueOf(collection)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		// Loops only expand sequences.
		return nil
	}
	if s.loopDepth >= s.maxLoopDepth {
		fmt.Fprintf(w, "[Error: maximum loop depth of %d exceeded]", s.maxLoopDepth)
		return nil
	}
	length := rv.Len()
	if length > s.maxIterations {
		fmt.Fprintf(w, "[Error: loop exceeds %d iterations]", s.maxIterations)
		return nil
	}
	if length == 0 {
		return nil
	}
	s.stats.LoopsExpanded++
	s.loopDepth++
	s.vars = append(s.vars, nil)
	defer func() {
		s.vars = s.vars[:len(s.vars)-1]
		s.loopDepth--
	}()
	for i := 0; i < length; i++ {
		s.vars[len(s.vars)-1] = scope{
			node.Ident: rv.Index(i).Interface(),
			"_loop": map[string]interface{}{
				"index":  i,
				"index1": i + 1,
				"first":  i == 0,
				"last":   i == length-1,
				"length": length,
			},
		}
		if err := s.render(w, node.Nodes); err != nil {
			return err
		}
	}
	return nil
}

// writeError writes an evaluation error inline in the output.
func writeError(w *strings.Builder, err error) {
	msg := err.Error()
	if e, ok := err.(*FormulaError); ok {
		msg = e.Message()
	}
	w.WriteString("[Error: ")
	w.WriteString(msg)
	w.WriteString("]")
}

// applyTransforms applies the transforms of a variable tag to its value. A
// failed transform is logged and leaves the value as it was before the
// transform.
func (s *State) applyTransforms(node *ast.Variable, v interface{}) interface{} {
	if len(node.Transforms) == 0 {
		return v
	}
	env := &transform.Env{Locale: s.locale, Logger: s.logger, Vars: s.vars[0]}
	for _, t := range node.Transforms {
		tv, err := s.transforms.Apply(t.Name, v, t.Params, env)
		if err != nil {
			s.logger.Warn("transform failed",
				"transform", t.Name,
				"position", t.Pos().String(),
				"error", err)
			continue
		}
		v = tv
	}
	return v
}

// evalVariable resolves a variable tag against the variables. Resolution
// never fails: an unknown name resolves to nil. The transforms of the tag are
// not applied.
func (s *State) evalVariable(node *ast.Variable) interface{} {
	v, ok := s.lookup(node.Path[0])
	if !ok {
		return nil
	}
	v = resolvePath(v, node.Path[1:])
	if node.Index != nil {
		v = itemAt(v, *node.Index)
	}
	return v
}

// lookup searches a name in the variable scopes, from the innermost.
func (s *State) lookup(name string) (interface{}, bool) {
	for i := len(s.vars) - 1; i >= 0; i-- {
		if v, ok := s.vars[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// evalGlobalVar resolves a $name tag. A name in the _globals variable wins
// over the globals provider.
func (s *State) evalGlobalVar(node *ast.GlobalVar) interface{} {
	if g, ok := s.lookup("_globals"); ok {
		if m, ok := g.(map[string]interface{}); ok {
			if v, ok := m[node.Name]; ok {
				return v
			}
		}
	}
	if s.globals != nil {
		if v, ok := s.globals(node.Name, s.locale); ok {
			return v
		}
	}
	return nil
}

// EvalNode evaluates a single node and returns its value. It is the entry
// point for previewing a tag without rendering the whole document.
func (s *State) EvalNode(n ast.Node) (interface{}, error) {
	switch node := n.(type) {
	case *ast.Document:
		return s.Render(node)
	case *ast.Text:
		return node.Text, nil
	case *ast.Variable:
		return s.applyTransforms(node, s.evalVariable(node)), nil
	case *ast.GlobalVar:
		return s.evalGlobalVar(node), nil
	case *ast.Formula:
		return s.EvalFormula(node.Expr)
	case *ast.Conditional:
		cond, err := s.EvalFormula(node.Condition)
		if err != nil {
			return nil, err
		}
		return ToBool(cond), nil
	case *ast.Loop:
		return s.evalVariable(node.Collection), nil
	}
	if expr, ok := n.(ast.Expression); ok {
		return s.EvalFormula(expr)
	}
	return nil, fmt.Errorf("cannot evaluate node type %T", n)
}
