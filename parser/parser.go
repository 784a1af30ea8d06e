// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parser implements the lexer and the recursive descent parser that
// turn a template source into a tree.
//
// The lexer scans the source in a goroutine, placing the tokens on a channel
// read by the parser, and operates in two modes: outside a tag it accumulates
// raw text, inside a tag it scans the grammar tokens up to the closing '}}'.
// The parser dispatches on the first token inside each tag: '=' starts a
// formula, '$' a global variable, 'IF' a conditional, 'FOR' a loop and
// anything else a variable with an optional transform chain.
package parser

import (
	"fmt"

	"github.com/documotor/tagscript/ast"
)

// ParseError records a parsing error with the position of the offending
// token. A parse error aborts the whole parse; no partial tree is returned.
type ParseError struct {
	Pos ast.Position
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("template: %s at %s", e.Err, e.Pos)
}

func parseError(pos *ast.Position, format string, args ...interface{}) *ParseError {
	return &ParseError{Pos: *pos, Err: fmt.Errorf(format, args...)}
}

// block is an open IF or FOR construct whose closing keyword has not been
// read yet.
type block struct {
	node   ast.Node // *ast.Conditional or *ast.Loop
	inElse bool     // for conditionals, reports whether ELSE has been read
}

// parsing is a parsing state.
type parsing struct {
	lex    *lexer
	doc    *ast.Document
	blocks []*block // open blocks, from the outermost to the innermost
}

// next returns the next token from the lexer. Panics if the lexer channel is
// closed.
func (p *parsing) next() token {
	tok, ok := <-p.lex.tokens
	if !ok {
		if p.lex.err == nil {
			panic("next called after EOF")
		}
		panic(p.lex.err)
	}
	return tok
}

// addChild adds a node as a child of the innermost open block, or of the
// document if no block is open.
func (p *parsing) addChild(child ast.Node) {
	if len(p.blocks) == 0 {
		p.doc.Nodes = append(p.doc.Nodes, child)
		return
	}
	switch parent := p.blocks[len(p.blocks)-1]; n := parent.node.(type) {
	case *ast.Conditional:
		if parent.inElse {
			n.Else = append(n.Else, child)
		} else {
			n.Then = append(n.Then, child)
		}
	case *ast.Loop:
		n.Nodes = append(n.Nodes, child)
	}
}

// Parse parses src and returns its tree. A new lexer and parser are created
// on every call; there is no caching of parsed templates.
func Parse(src []byte) (doc *ast.Document, err error) {

	p := &parsing{lex: newLexer(src), doc: ast.NewDocument(nil)}

	defer func() {
		p.lex.drain()
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *LexError:
				doc, err = nil, e
			case *ParseError:
				doc, err = nil, e
			default:
				panic(r)
			}
		}
	}()

	for tok := range p.lex.tokens {
		switch tok.typ {
		case tokenEOF:
		case tokenText:
			p.addChild(ast.NewText(tok.pos, tok.txt))
		case tokenStartTag:
			p.parseTag(tok)
		default:
			panic(parseError(tok.pos, "unexpected %s", tok))
		}
	}

	if p.lex.err != nil {
		return nil, p.lex.err
	}

	if len(p.blocks) > 0 {
		open := p.blocks[len(p.blocks)-1]
		switch open.node.(type) {
		case *ast.Conditional:
			return nil, parseError(open.node.Pos(), "unexpected EOF, expecting ENDIF")
		default:
			return nil, parseError(open.node.Pos(), "unexpected EOF, expecting ENDFOR")
		}
	}

	return p.doc, nil
}

// parseTag parses the content of a tag knowing that the start token has
// already been read. Panics on error.
func (p *parsing) parseTag(start token) {

	tok := p.next()

	switch tok.typ {

	case tokenAssignment:
		expr, tok2 := p.parseExpr(p.next())
		if tok2.typ != tokenEndTag {
			panic(parseError(tok2.pos, "unexpected %s, expecting }}", tok2))
		}
		p.addChild(ast.NewFormula(start.pos.WithEnd(tok2.pos.End), expr))

	case tokenDollar:
		name := p.next()
		if name.typ != tokenIdentifier {
			panic(parseError(name.pos, "unexpected %s, expecting identifier", name))
		}
		tok2 := p.next()
		if tok2.typ != tokenEndTag {
			panic(parseError(tok2.pos, "unexpected %s, expecting }}", tok2))
		}
		p.addChild(ast.NewGlobalVar(start.pos.WithEnd(tok2.pos.End), name.txt))

	case tokenIf:
		cond, tok2 := p.parseExpr(p.next())
		if tok2.typ != tokenEndTag {
			panic(parseError(tok2.pos, "unexpected %s, expecting }}", tok2))
		}
		node := ast.NewConditional(start.pos.WithEnd(tok2.pos.End), cond, nil, nil)
		p.addChild(node)
		p.blocks = append(p.blocks, &block{node: node})

	case tokenElse:
		p.expectEndTag()
		if len(p.blocks) == 0 {
			panic(parseError(tok.pos, "unexpected ELSE outside IF block"))
		}
		open := p.blocks[len(p.blocks)-1]
		if _, ok := open.node.(*ast.Conditional); !ok {
			panic(parseError(tok.pos, "unexpected ELSE outside IF block"))
		}
		if open.inElse {
			panic(parseError(tok.pos, "unexpected ELSE, ELSE already read"))
		}
		open.inElse = true

	case tokenEndIf:
		p.expectEndTag()
		if len(p.blocks) == 0 {
			panic(parseError(tok.pos, "unexpected ENDIF outside IF block"))
		}
		if _, ok := p.blocks[len(p.blocks)-1].node.(*ast.Conditional); !ok {
			panic(parseError(tok.pos, "unexpected ENDIF, expecting ENDFOR"))
		}
		p.blocks = p.blocks[:len(p.blocks)-1]

	case tokenFor:
		ident := p.next()
		if ident.typ != tokenIdentifier {
			panic(parseError(ident.pos, "unexpected %s, expecting identifier", ident))
		}
		in := p.next()
		if in.typ != tokenIn {
			panic(parseError(in.pos, "unexpected %s, expecting IN", in))
		}
		collection, tok2 := p.parsePath(p.next())
		if tok2.typ != tokenEndTag {
			panic(parseError(tok2.pos, "unexpected %s, expecting }}", tok2))
		}
		node := ast.NewLoop(start.pos.WithEnd(tok2.pos.End), ident.txt, collection, nil)
		p.addChild(node)
		p.blocks = append(p.blocks, &block{node: node})

	case tokenEndFor:
		p.expectEndTag()
		if len(p.blocks) == 0 {
			panic(parseError(tok.pos, "unexpected ENDFOR outside FOR block"))
		}
		if _, ok := p.blocks[len(p.blocks)-1].node.(*ast.Loop); !ok {
			panic(parseError(tok.pos, "unexpected ENDFOR, expecting ENDIF"))
		}
		p.blocks = p.blocks[:len(p.blocks)-1]

	case tokenEndTag:
		panic(parseError(tok.pos, "unexpected }}, expecting expression"))

	case tokenIdentifier:
		variable, tok2 := p.parseVariable(tok)
		if tok2.typ != tokenEndTag {
			panic(parseError(tok2.pos, "unexpected %s, expecting }}", tok2))
		}
		variable.Position = start.pos.WithEnd(tok2.pos.End)
		p.addChild(variable)

	default:
		panic(parseError(tok.pos, "unexpected %s, expecting expression", tok))
	}
}

// expectEndTag reads the next token and panics if it is not '}}'.
func (p *parsing) expectEndTag() {
	tok := p.next()
	if tok.typ != tokenEndTag {
		panic(parseError(tok.pos, "unexpected %s, expecting }}", tok))
	}
}
