// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/documotor/tagscript/ast"
)

// parseExpr parses an expression with tok as its first token and returns the
// expression and the first token that does not belong to it. Panics on
// error.
//
// The grammar, from the lowest to the highest precedence:
//
//	or:             and ( '||' and )*
//	and:            comparison ( '&&' comparison )*
//	comparison:     additive ( ( '==' | '!=' | '>' | '>=' | '<' | '<=' | '~' ) additive )*
//	additive:       multiplicative ( ( '+' | '-' ) multiplicative )*
//	multiplicative: unary ( ( '*' | '/' | '%' ) unary )*
//	unary:          ( '-' | '!' ) unary | primary
//	primary:        number | string | '$' identifier | identifier call-or-path | '(' or ')'
func (p *parsing) parseExpr(tok token) (ast.Expression, token) {
	return p.parseOr(tok)
}

func (p *parsing) parseOr(tok token) (ast.Expression, token) {
	left, tok := p.parseAnd(tok)
	for tok.typ == tokenOrOr {
		right, tok2 := p.parseAnd(p.next())
		left = ast.NewLogicalOp(left.Pos().WithEnd(right.Pos().End), ast.OperatorOr, left, right)
		tok = tok2
	}
	return left, tok
}

func (p *parsing) parseAnd(tok token) (ast.Expression, token) {
	left, tok := p.parseComparison(tok)
	for tok.typ == tokenAndAnd {
		right, tok2 := p.parseComparison(p.next())
		left = ast.NewLogicalOp(left.Pos().WithEnd(right.Pos().End), ast.OperatorAnd, left, right)
		tok = tok2
	}
	return left, tok
}

func (p *parsing) parseComparison(tok token) (ast.Expression, token) {
	left, tok := p.parseAdditive(tok)
	for {
		op, ok := operatorType(tok)
		if !ok || op.Precedence() != 3 {
			return left, tok
		}
		right, tok2 := p.parseAdditive(p.next())
		left = ast.NewBinaryOp(left.Pos().WithEnd(right.Pos().End), op, left, right)
		tok = tok2
	}
}

func (p *parsing) parseAdditive(tok token) (ast.Expression, token) {
	left, tok := p.parseMultiplicative(tok)
	for tok.typ == tokenAddition || tok.typ == tokenSubtraction {
		op, _ := operatorType(tok)
		right, tok2 := p.parseMultiplicative(p.next())
		left = ast.NewBinaryOp(left.Pos().WithEnd(right.Pos().End), op, left, right)
		tok = tok2
	}
	return left, tok
}

func (p *parsing) parseMultiplicative(tok token) (ast.Expression, token) {
	left, tok := p.parseUnary(tok)
	for tok.typ == tokenMultiplication || tok.typ == tokenDivision || tok.typ == tokenModulo {
		op, _ := operatorType(tok)
		right, tok2 := p.parseUnary(p.next())
		left = ast.NewBinaryOp(left.Pos().WithEnd(right.Pos().End), op, left, right)
		tok = tok2
	}
	return left, tok
}

func (p *parsing) parseUnary(tok token) (ast.Expression, token) {
	switch tok.typ {
	case tokenSubtraction:
		expr, tok2 := p.parseUnary(p.next())
		return ast.NewUnaryOp(tok.pos.WithEnd(expr.Pos().End), ast.OperatorSubtraction, expr), tok2
	case tokenNot:
		expr, tok2 := p.parseUnary(p.next())
		return ast.NewUnaryOp(tok.pos.WithEnd(expr.Pos().End), ast.OperatorNot, expr), tok2
	}
	return p.parsePrimary(tok)
}

func (p *parsing) parsePrimary(tok token) (ast.Expression, token) {
	switch tok.typ {

	case tokenNumber:
		value, err := decimal.NewFromString(tok.txt)
		if err != nil {
			panic(parseError(tok.pos, "invalid number literal %s", tok.txt))
		}
		return ast.NewNumber(tok.pos, value), p.next()

	case tokenString:
		return ast.NewString(tok.pos, unquoteString(tok.txt)), p.next()

	case tokenDollar:
		name := p.next()
		if name.typ != tokenIdentifier {
			panic(parseError(name.pos, "unexpected %s, expecting identifier", name))
		}
		return ast.NewGlobalVar(tok.pos.WithEnd(name.pos.End), name.txt), p.next()

	case tokenLeftParenthesis:
		expr, tok2 := p.parseExpr(p.next())
		if tok2.typ != tokenRightParenthesis {
			panic(parseError(tok2.pos, "unexpected %s, expecting )", tok2))
		}
		expr.Pos().Start = tok.pos.Start
		expr.Pos().End = tok2.pos.End
		return expr, p.next()

	case tokenIdentifier:
		tok2 := p.next()
		if tok2.typ == tokenLeftParenthesis {
			return p.parseCall(tok)
		}
		return p.parsePathRest(tok, tok2)
	}

	panic(parseError(tok.pos, "unexpected %s, expecting expression", tok))
}

// parseCall parses the arguments of a function call knowing that the name
// and the left parenthesis have already been read.
func (p *parsing) parseCall(name token) (ast.Expression, token) {
	var args []ast.Expression
	tok := p.next()
	if tok.typ != tokenRightParenthesis {
		for {
			var arg ast.Expression
			arg, tok = p.parseExpr(tok)
			args = append(args, arg)
			if tok.typ != tokenComma {
				break
			}
			tok = p.next()
		}
		if tok.typ != tokenRightParenthesis {
			panic(parseError(tok.pos, "unexpected %s, expecting , or )", tok))
		}
	}
	node := ast.NewFunctionCall(name.pos.WithEnd(tok.pos.End), strings.ToUpper(name.txt), args)
	return node, p.next()
}

// parsePath parses a dotted variable path with an optional index, with tok
// as its first token.
func (p *parsing) parsePath(tok token) (*ast.Variable, token) {
	if tok.typ != tokenIdentifier {
		panic(parseError(tok.pos, "unexpected %s, expecting identifier", tok))
	}
	return p.parsePathRest(tok, p.next())
}

// parsePathRest parses the remainder of a dotted variable path whose first
// segment and the token after it have already been read.
func (p *parsing) parsePathRest(first, tok token) (*ast.Variable, token) {
	path := []string{first.txt}
	end := first.pos.End
	for tok.typ == tokenPeriod {
		segment := p.next()
		if segment.typ != tokenIdentifier {
			panic(parseError(segment.pos, "unexpected %s, expecting identifier", segment))
		}
		path = append(path, segment.txt)
		end = segment.pos.End
		tok = p.next()
	}
	var index *int
	if tok.typ == tokenLeftBracket {
		num := p.next()
		if num.typ != tokenNumber || strings.Contains(num.txt, ".") {
			panic(parseError(num.pos, "unexpected %s, expecting integer index", num))
		}
		i, err := strconv.Atoi(num.txt)
		if err != nil {
			panic(parseError(num.pos, "invalid index %s", num.txt))
		}
		index = &i
		rb := p.next()
		if rb.typ != tokenRightBracket {
			panic(parseError(rb.pos, "unexpected %s, expecting ]", rb))
		}
		end = rb.pos.End
		tok = p.next()
	}
	return ast.NewVariable(first.pos.WithEnd(end), path, index, nil), tok
}

// parseVariable parses a variable tag: a dotted path, an optional index and
// zero or more transforms, with tok as its first token.
func (p *parsing) parseVariable(tok token) (*ast.Variable, token) {
	variable, tok := p.parsePathRest(tok, p.next())
	for tok.typ == tokenPipe {
		name := p.next()
		if name.typ != tokenIdentifier {
			panic(parseError(name.pos, "unexpected %s, expecting transform name", name))
		}
		end := name.pos.End
		var params []string
		tok = p.next()
		for tok.typ == tokenColon {
			param := p.next()
			switch param.typ {
			case tokenString:
				params = append(params, unquoteString(param.txt))
			case tokenNumber, tokenIdentifier:
				params = append(params, param.txt)
			case tokenSubtraction:
				num := p.next()
				if num.typ != tokenNumber {
					panic(parseError(num.pos, "unexpected %s, expecting number", num))
				}
				params = append(params, "-"+num.txt)
				param = num
			default:
				panic(parseError(param.pos, "unexpected %s, expecting transform parameter", param))
			}
			end = param.pos.End
			tok = p.next()
		}
		variable.Transforms = append(variable.Transforms, ast.NewTransform(name.pos.WithEnd(end), name.txt, params))
	}
	return variable, tok
}
