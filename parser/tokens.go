// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"fmt"

	"github.com/documotor/tagscript/ast"
)

// Token type.
type tokenTyp int

const (
	tokenText             tokenTyp = iota
	tokenStartTag                  // {{
	tokenEndTag                    // }}
	tokenIdentifier                // amount
	tokenNumber                    // 12.895
	tokenString                    // "abc"
	tokenPipe                      // |
	tokenColon                     // :
	tokenPeriod                    // .
	tokenComma                     // ,
	tokenLeftParenthesis           // (
	tokenRightParenthesis          // )
	tokenLeftBracket               // [
	tokenRightBracket              // ]
	tokenDollar                    // $
	tokenAssignment                // =
	tokenEqual                     // ==
	tokenNotEqual                  // !=
	tokenNot                       // !
	tokenLess                      // <
	tokenLessOrEqual               // <=
	tokenGreater                   // >
	tokenGreaterOrEqual            // >=
	tokenContains                  // ~
	tokenAndAnd                    // &&
	tokenOrOr                      // ||
	tokenAddition                  // +
	tokenSubtraction               // -
	tokenMultiplication            // *
	tokenDivision                  // /
	tokenModulo                    // %
	tokenIf                        // IF
	tokenElse                      // ELSE
	tokenEndIf                     // ENDIF
	tokenFor                       // FOR
	tokenIn                        // IN
	tokenEndFor                    // ENDFOR
	tokenEOF                       // eof
)

var tokenLabel = map[tokenTyp]string{
	tokenText:             "text",
	tokenStartTag:         "{{",
	tokenEndTag:           "}}",
	tokenIdentifier:       "identifier",
	tokenNumber:           "number",
	tokenString:           "string",
	tokenPipe:             "|",
	tokenColon:            ":",
	tokenPeriod:           ".",
	tokenComma:            ",",
	tokenLeftParenthesis:  "(",
	tokenRightParenthesis: ")",
	tokenLeftBracket:      "[",
	tokenRightBracket:     "]",
	tokenDollar:           "$",
	tokenAssignment:       "=",
	tokenEqual:            "==",
	tokenNotEqual:         "!=",
	tokenNot:              "!",
	tokenLess:             "<",
	tokenLessOrEqual:      "<=",
	tokenGreater:          ">",
	tokenGreaterOrEqual:   ">=",
	tokenContains:         "~",
	tokenAndAnd:           "&&",
	tokenOrOr:             "||",
	tokenAddition:         "+",
	tokenSubtraction:      "-",
	tokenMultiplication:   "*",
	tokenDivision:         "/",
	tokenModulo:           "%",
	tokenIf:               "IF",
	tokenElse:             "ELSE",
	tokenEndIf:            "ENDIF",
	tokenFor:              "FOR",
	tokenIn:               "IN",
	tokenEndFor:           "ENDFOR",
	tokenEOF:              "EOF",
}

func (tt tokenTyp) String() string {
	if s, ok := tokenLabel[tt]; ok {
		return s
	}
	panic("invalid token type")
}

// Information about a token to return.
type token struct {
	typ tokenTyp      // type
	pos *ast.Position // position in the source
	txt string        // token text
}

// String returns the string that represents the token.
func (tok token) String() string {
	switch tok.typ {
	case tokenText:
		return fmt.Sprintf("%q", tok.txt)
	case tokenIdentifier, tokenNumber, tokenString:
		return tok.txt
	}
	return tok.typ.String()
}

// operatorType returns the operator type of the token tok and true. If tok is
// not an operator token it returns 0 and false.
func operatorType(tok token) (ast.OperatorType, bool) {
	switch tok.typ {
	case tokenEqual:
		return ast.OperatorEqual, true
	case tokenNotEqual:
		return ast.OperatorNotEqual, true
	case tokenLess:
		return ast.OperatorLess, true
	case tokenLessOrEqual:
		return ast.OperatorLessOrEqual, true
	case tokenGreater:
		return ast.OperatorGreater, true
	case tokenGreaterOrEqual:
		return ast.OperatorGreaterOrEqual, true
	case tokenContains:
		return ast.OperatorContains, true
	case tokenAndAnd:
		return ast.OperatorAnd, true
	case tokenOrOr:
		return ast.OperatorOr, true
	case tokenAddition:
		return ast.OperatorAddition, true
	case tokenSubtraction:
		return ast.OperatorSubtraction, true
	case tokenMultiplication:
		return ast.OperatorMultiplication, true
	case tokenDivision:
		return ast.OperatorDivision, true
	case tokenModulo:
		return ast.OperatorModulo, true
	}
	return 0, false
}
