// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast declares the types used to define template trees.
//
// For example, the source in a template named "reminder.txt":
//
//	{{FOR item IN line_items}}{{item.name}}; {{ENDFOR}}
//
// is represented with the tree:
//
//	ast.NewDocument([]ast.Node{
//		ast.NewLoop(
//			&ast.Position{Line: 1, Column: 1, Start: 0, End: 51},
//			"item",
//			ast.NewVariable(&ast.Position{Line: 1, Column: 14, Start: 13, End: 22}, []string{"line_items"}, nil, nil),
//			[]ast.Node{
//				ast.NewVariable(&ast.Position{Line: 1, Column: 28, Start: 26, End: 36}, []string{"item", "name"}, nil, nil),
//				ast.NewText(&ast.Position{Line: 1, Column: 39, Start: 38, End: 39}, "; "),
//			},
//		),
//	})
package ast

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OperatorType represents an operator type in a unary, binary or logical
// expression.
type OperatorType int

const (
	OperatorEqual          OperatorType = iota // ==
	OperatorNotEqual                           // !=
	OperatorLess                               // <
	OperatorLessOrEqual                        // <=
	OperatorGreater                            // >
	OperatorGreaterOrEqual                     // >=
	OperatorContains                           // ~
	OperatorNot                                // !
	OperatorAnd                                // &&
	OperatorOr                                 // ||
	OperatorAddition                           // +
	OperatorSubtraction                        // -
	OperatorMultiplication                     // *
	OperatorDivision                           // /
	OperatorModulo                             // %
)

// String returns the string representation of the operator type.
func (op OperatorType) String() string {
	return []string{"==", "!=", "<", "<=", ">", ">=", "~", "!", "&&", "||",
		"+", "-", "*", "/", "%"}[op]
}

// Precedence returns a number that represents the precedence of the operator
// in a binary expression. A higher number binds tighter.
func (op OperatorType) Precedence() int {
	switch op {
	case OperatorMultiplication, OperatorDivision, OperatorModulo:
		return 5
	case OperatorAddition, OperatorSubtraction:
		return 4
	case OperatorEqual, OperatorNotEqual, OperatorLess, OperatorLessOrEqual,
		OperatorGreater, OperatorGreaterOrEqual, OperatorContains:
		return 3
	case OperatorAnd:
		return 2
	case OperatorOr:
		return 1
	}
	panic("invalid operator type")
}

// Node is a node of the tree.
type Node interface {
	Pos() *Position // position in the original source
	String() string
}

// Expression node represents an expression that the formula evaluator can
// evaluate to a value.
type Expression interface {
	Node
	expressionNode()
}

// Position is a position of a node in the source.
type Position struct {
	Line   int // line starting from 1
	Column int // column in characters starting from 1
	Start  int // index of the first byte
	End    int // index of the last byte
}

// Pos returns the position p.
func (p *Position) Pos() *Position {
	return p
}

// String returns the line and column separated by a colon, for example "3:7".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// WithEnd returns a copy of the position but with the given end index.
func (p *Position) WithEnd(end int) *Position {
	pp := *p
	pp.End = end
	return &pp
}

// Document node is the root of a parsed template.
type Document struct {
	Nodes []Node // children, rendered left to right.
}

// NewDocument returns a new Document node.
func NewDocument(nodes []Node) *Document {
	return &Document{Nodes: nodes}
}

// Pos returns the position of the first child or nil if the document is
// empty.
func (n *Document) Pos() *Position {
	if len(n.Nodes) == 0 {
		return nil
	}
	return n.Nodes[0].Pos()
}

// String returns the string representation of n.
func (n *Document) String() string {
	var b strings.Builder
	for _, node := range n.Nodes {
		b.WriteString(node.String())
	}
	return b.String()
}

// Text node represents raw text between tags.
type Text struct {
	*Position        // position in the source.
	Text      string // text content.
}

// NewText returns a new Text node.
func NewText(pos *Position, text string) *Text {
	return &Text{pos, text}
}

// String returns the string representation of n.
func (n *Text) String() string {
	return n.Text
}

// Variable node represents a variable tag: a dotted path, an optional index
// and a chain of transforms, as in {{trigger.deal.amount | currency:"BRL"}}.
type Variable struct {
	*Position               // position in the source.
	Path       []string     // dotted path segments.
	Index      *int         // optional [index], nil if absent.
	Transforms []*Transform // transform chain, applied left to right.
}

// NewVariable returns a new Variable node.
func NewVariable(pos *Position, path []string, index *int, transforms []*Transform) *Variable {
	return &Variable{pos, path, index, transforms}
}

// String returns the string representation of n.
func (n *Variable) String() string {
	s := strings.Join(n.Path, ".")
	if n.Index != nil {
		s += "[" + strconv.Itoa(*n.Index) + "]"
	}
	for _, t := range n.Transforms {
		s += " | " + t.String()
	}
	return s
}

func (n *Variable) expressionNode() {}

// GlobalVar node represents a global variable tag as in {{$timestamp}}.
type GlobalVar struct {
	*Position        // position in the source.
	Name      string // name, without the leading dollar.
}

// NewGlobalVar returns a new GlobalVar node.
func NewGlobalVar(pos *Position, name string) *GlobalVar {
	return &GlobalVar{pos, name}
}

// String returns the string representation of n.
func (n *GlobalVar) String() string {
	return "$" + n.Name
}

func (n *GlobalVar) expressionNode() {}

// Number node represents a number literal.
type Number struct {
	*Position                 // position in the source.
	Value     decimal.Decimal // value.
}

// NewNumber returns a new Number node.
func NewNumber(pos *Position, value decimal.Decimal) *Number {
	return &Number{pos, value}
}

// String returns the string representation of n.
func (n *Number) String() string {
	return n.Value.String()
}

func (n *Number) expressionNode() {}

// String node represents a string literal. Value holds the text with quotes
// removed and escapes interpreted.
type String struct {
	*Position        // position in the source.
	Value     string // value.
}

// NewString returns a new String node.
func NewString(pos *Position, value string) *String {
	return &String{pos, value}
}

// String returns the string representation of n.
func (n *String) String() string {
	return strconv.Quote(n.Value)
}

func (n *String) expressionNode() {}

// BinaryOp node represents a math or comparison binary expression.
type BinaryOp struct {
	*Position              // position in the source.
	Op        OperatorType // operator.
	Left      Expression   // first operand.
	Right     Expression   // second operand.
}

// NewBinaryOp returns a new BinaryOp node.
func NewBinaryOp(pos *Position, op OperatorType, left, right Expression) *BinaryOp {
	return &BinaryOp{pos, op, left, right}
}

// String returns the string representation of n.
func (n *BinaryOp) String() string {
	return n.Left.String() + " " + n.Op.String() + " " + n.Right.String()
}

func (n *BinaryOp) expressionNode() {}

// LogicalOp node represents a short-circuiting && or || expression.
type LogicalOp struct {
	*Position              // position in the source.
	Op        OperatorType // OperatorAnd or OperatorOr.
	Left      Expression   // first operand.
	Right     Expression   // second operand.
}

// NewLogicalOp returns a new LogicalOp node.
func NewLogicalOp(pos *Position, op OperatorType, left, right Expression) *LogicalOp {
	return &LogicalOp{pos, op, left, right}
}

// String returns the string representation of n.
func (n *LogicalOp) String() string {
	return n.Left.String() + " " + n.Op.String() + " " + n.Right.String()
}

func (n *LogicalOp) expressionNode() {}

// UnaryOp node represents a unary expression.
type UnaryOp struct {
	*Position              // position in the source.
	Op        OperatorType // OperatorNot or OperatorSubtraction.
	Expr      Expression   // operand.
}

// NewUnaryOp returns a new UnaryOp node.
func NewUnaryOp(pos *Position, op OperatorType, expr Expression) *UnaryOp {
	return &UnaryOp{pos, op, expr}
}

// String returns the string representation of n.
func (n *UnaryOp) String() string {
	return n.Op.String() + n.Expr.String()
}

func (n *UnaryOp) expressionNode() {}

// FunctionCall node represents a function call in a formula, as in ROUND(x, 2).
type FunctionCall struct {
	*Position              // position in the source.
	Name      string       // function name, upper case.
	Args      []Expression // arguments.
}

// NewFunctionCall returns a new FunctionCall node.
func NewFunctionCall(pos *Position, name string, args []Expression) *FunctionCall {
	return &FunctionCall{pos, name, args}
}

// String returns the string representation of n.
func (n *FunctionCall) String() string {
	s := n.Name + "("
	for i, arg := range n.Args {
		if i > 0 {
			s += ", "
		}
		s += arg.String()
	}
	return s + ")"
}

func (n *FunctionCall) expressionNode() {}

// Transform node represents one element of a pipe chain, as in
// truncate:20:"...". Params holds the parameter literals with quotes removed.
type Transform struct {
	*Position          // position in the source.
	Name      string   // transform name.
	Params    []string // parameter literals.
}

// NewTransform returns a new Transform node.
func NewTransform(pos *Position, name string, params []string) *Transform {
	return &Transform{pos, name, params}
}

// String returns the string representation of n.
func (n *Transform) String() string {
	s := n.Name
	for _, p := range n.Params {
		s += ":" + p
	}
	return s
}

// Formula node represents a formula tag as in {{= price * 1.1}}.
type Formula struct {
	*Position            // position in the source.
	Expr      Expression // expression.
}

// NewFormula returns a new Formula node.
func NewFormula(pos *Position, expr Expression) *Formula {
	return &Formula{pos, expr}
}

// String returns the string representation of n.
func (n *Formula) String() string {
	return "= " + n.Expr.String()
}

// Conditional node represents an IF block with an optional ELSE branch.
type Conditional struct {
	*Position            // position in the source.
	Condition Expression // condition.
	Then      []Node     // true branch.
	Else      []Node     // false branch, nil if there is no ELSE.
}

// NewConditional returns a new Conditional node.
func NewConditional(pos *Position, condition Expression, then, els []Node) *Conditional {
	return &Conditional{pos, condition, then, els}
}

// String returns the string representation of n.
func (n *Conditional) String() string {
	return "IF " + n.Condition.String()
}

// Loop node represents a FOR block.
type Loop struct {
	*Position            // position in the source.
	Ident      string    // name the element is bound to in the body.
	Collection *Variable // collection to iterate.
	Nodes      []Node    // body.
}

// NewLoop returns a new Loop node.
func NewLoop(pos *Position, ident string, collection *Variable, nodes []Node) *Loop {
	return &Loop{pos, ident, collection, nodes}
}

// String returns the string representation of n.
func (n *Loop) String() string {
	return "FOR " + n.Ident + " IN " + n.Collection.String()
}
