// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package renderer

import (
	"fmt"
	"strings"

	"github.com/documotor/tagscript/ast"
)

// FormulaError is an error evaluating a formula or a condition.
type FormulaError struct {
	// Pos is the position of the expression that failed.
	Pos ast.Position
	// Err is the evaluation error.
	Err error
}

func (e *FormulaError) Error() string {
	return fmt.Sprintf("template: %s at %s", e.Err, e.Pos)
}

func (e *FormulaError) Unwrap() error {
	return e.Err
}

// Message returns the error message without the position, as it appears
// inline in the rendered output.
func (e *FormulaError) Message() string {
	return e.Err.Error()
}

// formulaErrorf returns a formula error with position pos and message
// formatted according to format.
func formulaErrorf(pos *ast.Position, format string, args ...interface{}) *FormulaError {
	return &FormulaError{Pos: *pos, Err: fmt.Errorf(format, args...)}
}

// EvalFormula evaluates an expression and returns its value. Evaluation
// errors, as division by zero or a call to an unknown function, are returned
// as *FormulaError.
func (s *State) EvalFormula(expr ast.Expression) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*FormulaError)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()
	return s.evalExpr(expr), nil
}

// evalExpr evaluates an expression. It panics with a *FormulaError on an
// evaluation error; EvalFormula recovers it.
func (s *State) evalExpr(expr ast.Expression) interface{} {
	s.depth++
	defer func() { s.depth-- }()
	if s.depth > s.maxDepth {
		panic(formulaErrorf(expr.Pos(), "maximum recursion depth exceeded"))
	}
	switch e := expr.(type) {
	case *ast.Number:
		return e.Value
	case *ast.String:
		return e.Value
	case *ast.Variable:
		return s.evalVariable(e)
	case *ast.GlobalVar:
		return s.evalGlobalVar(e)
	case *ast.UnaryOp:
		return s.evalUnaryOp(e)
	case *ast.BinaryOp:
		return s.evalBinaryOp(e)
	case *ast.LogicalOp:
		left := ToBool(s.evalExpr(e.Left))
		if e.Op == ast.OperatorAnd {
			return left && ToBool(s.evalExpr(e.Right))
		}
		return left || ToBool(s.evalExpr(e.Right))
	case *ast.FunctionCall:
		args := make([]interface{}, len(e.Args))
		for i, arg := range e.Args {
			args[i] = s.evalExpr(arg)
		}
		v, err := s.functions.Call(e.Name, args)
		if err != nil {
			panic(&FormulaError{Pos: *e.Pos(), Err: err})
		}
		return v
	}
	panic(fmt.Sprintf("unexpected expression type %T", expr))
}

func (s *State) evalUnaryOp(e *ast.UnaryOp) interface{} {
	v := s.evalExpr(e.Expr)
	switch e.Op {
	case ast.OperatorSubtraction:
		n, err := toNumber(v)
		if err != nil {
			panic(formulaErrorf(e.Pos(), "%s", err))
		}
		return n.Neg()
	case ast.OperatorNot:
		return !ToBool(v)
	}
	panic(fmt.Sprintf("unexpected unary operator %s", e.Op))
}

func (s *State) evalBinaryOp(e *ast.BinaryOp) interface{} {
	left := s.evalExpr(e.Left)
	right := s.evalExpr(e.Right)
	switch e.Op {
	case ast.OperatorAddition, ast.OperatorSubtraction, ast.OperatorMultiplication,
		ast.OperatorDivision, ast.OperatorModulo:
		l, err := toNumber(left)
		if err != nil {
			panic(formulaErrorf(e.Left.Pos(), "%s", err))
		}
		r, err := toNumber(right)
		if err != nil {
			panic(formulaErrorf(e.Right.Pos(), "%s", err))
		}
		switch e.Op {
		case ast.OperatorAddition:
			return l.Add(r)
		case ast.OperatorSubtraction:
			return l.Sub(r)
		case ast.OperatorMultiplication:
			return l.Mul(r)
		case ast.OperatorDivision:
			if r.IsZero() {
				panic(formulaErrorf(e.Pos(), "Division by zero"))
			}
			return l.DivRound(r, 20)
		case ast.OperatorModulo:
			if r.IsZero() {
				panic(formulaErrorf(e.Pos(), "Division by zero"))
			}
			return l.Mod(r)
		}
	case ast.OperatorEqual, ast.OperatorNotEqual:
		eq := s.compareEqual(left, right)
		if e.Op == ast.OperatorNotEqual {
			return !eq
		}
		return eq
	case ast.OperatorLess, ast.OperatorLessOrEqual, ast.OperatorGreater, ast.OperatorGreaterOrEqual:
		cmp := s.compareOrder(left, right)
		switch e.Op {
		case ast.OperatorLess:
			return cmp < 0
		case ast.OperatorLessOrEqual:
			return cmp <= 0
		case ast.OperatorGreater:
			return cmp > 0
		case ast.OperatorGreaterOrEqual:
			return cmp >= 0
		}
	case ast.OperatorContains:
		return strings.Contains(ToString(left), ToString(right))
	}
	panic(fmt.Sprintf("unexpected binary operator %s", e.Op))
}

// compareEqual compares two values for equality, numerically when both
// operands coerce to numbers and by value otherwise.
func (s *State) compareEqual(left, right interface{}) bool {
	l, lerr := toNumber(left)
	r, rerr := toNumber(right)
	if lerr == nil && rerr == nil {
		return l.Cmp(r) == 0
	}
	return equalValues(left, right)
}

// compareOrder compares two values for ordering, numerically when both
// operands coerce to numbers and by string otherwise.
func (s *State) compareOrder(left, right interface{}) int {
	l, lerr := toNumber(left)
	r, rerr := toNumber(right)
	if lerr == nil && rerr == nil {
		return l.Cmp(r)
	}
	return strings.Compare(ToString(left), ToString(right))
}
