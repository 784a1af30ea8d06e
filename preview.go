// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagscript

import (
	"github.com/documotor/tagscript/ast"
	"github.com/documotor/tagscript/data"
	"github.com/documotor/tagscript/parser"
	"github.com/documotor/tagscript/renderer"
)

// TagPreview is the preview of one tag of a template.
type TagPreview struct {
	// Tag is the source form of the tag.
	Tag string
	// Kind is "variable", "global", "formula", "conditional" or "loop".
	Kind string
	// Value is the value the tag evaluates to. For a conditional it is
	// the condition result and for a loop the resolved collection.
	Value interface{}
	// Error is the evaluation error message, if the tag failed.
	Error string
}

// Preview evaluates every tag of a template against ctx and returns the per
// tag values together with a sample render. It is meant for preview
// services that show what each tag resolves to before a document is
// generated.
func (e *Engine) Preview(text string, ctx data.Context, locale string) ([]TagPreview, string, error) {
	doc, err := parser.Parse([]byte(text))
	if err != nil {
		return nil, "", err
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
	var previews []TagPreview
	previewNodes(st, doc.Nodes, &previews)
	sample, err := st.Render(doc)
	if err != nil {
		return previews, "", err
	}
	return previews, sample, nil
}

func previewNodes(st *renderer.State, nodes []ast.Node, previews *[]TagPreview) {
	for _, n := range nodes {
		var kind string
		var children [][]ast.Node
		switch node := n.(type) {
		case *ast.Text:
			continue
		case *ast.Variable:
			kind = "variable"
		case *ast.GlobalVar:
			kind = "global"
		case *ast.Formula:
			kind = "formula"
		case *ast.Conditional:
			kind = "conditional"
			children = [][]ast.Node{node.Then, node.Else}
		case *ast.Loop:
			kind = "loop"
			children = [][]ast.Node{node.Nodes}
		default:
			continue
		}
		p := TagPreview{Tag: n.String(), Kind: kind}
		v, err := st.EvalNode(n)
		if err != nil {
			p.Error = err.Error()
		} else {
			p.Value = v
		}
		*previews = append(*previews, p)
		for _, child := range children {
			previewNodes(st, child, previews)
		}
	}
}

// BuildContext assembles an evaluation context. It is a convenience wrapper
// over data.Build for callers that only import this package.
func BuildContext(in data.BuildInput) data.Context {
	return data.Build(in)
}
