// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/documotor/tagscript/ast"
)

// LexError records a lexing error with the position where the error occurred.
type LexError struct {
	Pos ast.Position
	Err error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("template: %s at %s", e.Err, e.Pos)
}

// lexer maintains the scanner status.
type lexer struct {
	text   []byte     // text on which the scans are performed
	src    []byte     // slice of the text used during the scan
	line   int        // current line starting from 1
	column int        // current column starting from 1
	tokens chan token // tokens, is closed at the end of the scan
	err    error      // error, reports whether there was an error
}

// newLexer creates a new lexer and starts scanning text in a goroutine,
// placing the tokens on the tokens channel. The channel is closed at the end
// of the scan or when an error occurs.
func newLexer(text []byte) *lexer {
	tokens := make(chan token, 20)
	lex := &lexer{text: text, src: text, line: 1, column: 1, tokens: tokens}
	go lex.scan()
	return lex
}

// drain discards the remaining tokens so the scanning goroutine can exit.
func (l *lexer) drain() {
	for range l.tokens {
	}
}

func (l *lexer) errorf(format string, args ...interface{}) *LexError {
	pos := ast.Position{
		Line:   l.line,
		Column: l.column,
		Start:  len(l.text) - len(l.src),
		End:    len(l.text) - len(l.src),
	}
	return &LexError{Pos: pos, Err: fmt.Errorf(format, args...)}
}

// emit emits a token of type typ and length length at the current line and
// column.
func (l *lexer) emit(typ tokenTyp, length int) {
	var txt string
	if length > 0 {
		txt = string(l.src[:length])
	}
	start := len(l.text) - len(l.src)
	end := start + length - 1
	if length == 0 {
		end = start
	}
	l.tokens <- token{
		typ: typ,
		pos: &ast.Position{
			Line:   l.line,
			Column: l.column,
			Start:  start,
			End:    end,
		},
		txt: txt,
	}
	l.advance(length)
}

// advance consumes n bytes of the source, updating the line and the column.
// The column counts characters, not bytes.
func (l *lexer) advance(n int) {
	for i := 0; i < n; i++ {
		switch {
		case l.src[i] == '\n':
			l.line++
			l.column = 1
		case utf8.RuneStart(l.src[i]):
			l.column++
		}
	}
	l.src = l.src[n:]
}

// scan scans the text by placing the tokens on the tokens channel. If an
// error occurs, it puts the error in err, closes the channel and returns.
func (l *lexer) scan() {

	var p = 0

	for p+1 < len(l.src) {
		if l.src[p] == '{' && l.src[p+1] == '{' {
			if p > 0 {
				l.emit(tokenText, p)
			}
			err := l.lexTag()
			if err != nil {
				l.err = err
				l.src = nil
				break
			}
			p = 0
			continue
		}
		p++
	}

	if l.err == nil {
		if len(l.src) > 0 {
			l.emit(tokenText, len(l.src))
		}
		l.emit(tokenEOF, 0)
	}

	close(l.tokens)
}

// lexTag reads a tag knowing that src starts with '{{'.
func (l *lexer) lexTag() error {
	l.emit(tokenStartTag, 2)
	err := l.lexCode()
	if err != nil {
		return err
	}
	if len(l.src) < 2 {
		return l.errorf("unexpected EOF, expecting }}")
	}
	l.emit(tokenEndTag, 2)
	return nil
}

// lexCode reads the content of a tag up to, but not including, the closing
// '}}'.
func (l *lexer) lexCode() error {
LOOP:
	for len(l.src) > 0 {
		switch c := l.src[0]; c {
		case '}':
			if len(l.src) > 1 && l.src[1] == '}' {
				break LOOP
			}
			return l.errorf("unexpected }")
		case ' ', '\t', '\r', '\n':
			l.advance(1)
		case '"':
			err := l.lexString()
			if err != nil {
				return err
			}
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			l.lexNumber()
		case '.':
			l.emit(tokenPeriod, 1)
		case ',':
			l.emit(tokenComma, 1)
		case ':':
			l.emit(tokenColon, 1)
		case '(':
			l.emit(tokenLeftParenthesis, 1)
		case ')':
			l.emit(tokenRightParenthesis, 1)
		case '[':
			l.emit(tokenLeftBracket, 1)
		case ']':
			l.emit(tokenRightBracket, 1)
		case '$':
			l.emit(tokenDollar, 1)
		case '~':
			l.emit(tokenContains, 1)
		case '+':
			l.emit(tokenAddition, 1)
		case '-':
			l.emit(tokenSubtraction, 1)
		case '*':
			l.emit(tokenMultiplication, 1)
		case '/':
			l.emit(tokenDivision, 1)
		case '%':
			l.emit(tokenModulo, 1)
		case '=':
			if len(l.src) > 1 && l.src[1] == '=' {
				l.emit(tokenEqual, 2)
			} else {
				l.emit(tokenAssignment, 1)
			}
		case '!':
			if len(l.src) > 1 && l.src[1] == '=' {
				l.emit(tokenNotEqual, 2)
			} else {
				l.emit(tokenNot, 1)
			}
		case '<':
			if len(l.src) > 1 && l.src[1] == '=' {
				l.emit(tokenLessOrEqual, 2)
			} else {
				l.emit(tokenLess, 1)
			}
		case '>':
			if len(l.src) > 1 && l.src[1] == '=' {
				l.emit(tokenGreaterOrEqual, 2)
			} else {
				l.emit(tokenGreater, 1)
			}
		case '&':
			if len(l.src) == 1 || l.src[1] != '&' {
				return l.errorf("unexpected &, expecting &&")
			}
			l.emit(tokenAndAnd, 2)
		case '|':
			if len(l.src) > 1 && l.src[1] == '|' {
				l.emit(tokenOrOr, 2)
			} else {
				l.emit(tokenPipe, 1)
			}
		default:
			if c == '_' || c < utf8.RuneSelf && unicode.IsLetter(rune(c)) {
				l.lexIdentifierOrKeyword(1)
			} else {
				r, s := utf8.DecodeRune(l.src)
				if unicode.IsLetter(r) {
					l.lexIdentifierOrKeyword(s)
				} else {
					return l.errorf("unexpected %c", r)
				}
			}
		}
	}
	return nil
}

// lexIdentifierOrKeyword reads an identifier or a keyword knowing that src
// starts with a letter of s bytes.
func (l *lexer) lexIdentifierOrKeyword(s int) {
	// stops only when a character can not be part of the identifier
	var p = s
	for p < len(l.src) {
		r, s := utf8.DecodeRune(l.src[p:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		p += s
	}
	switch string(l.src[0:p]) {
	case "IF":
		l.emit(tokenIf, p)
	case "ELSE":
		l.emit(tokenElse, p)
	case "ENDIF":
		l.emit(tokenEndIf, p)
	case "FOR":
		l.emit(tokenFor, p)
	case "IN":
		l.emit(tokenIn, p)
	case "ENDFOR":
		l.emit(tokenEndFor, p)
	default:
		l.emit(tokenIdentifier, p)
	}
}

// lexNumber reads a number knowing that src starts with '0'..'9'. A decimal
// point is part of the number only when it is followed by another digit, so a
// period used for path access is not misread as a decimal point.
func (l *lexer) lexNumber() {
	var hasDot = false
	var p = 1
	for p < len(l.src) {
		if l.src[p] == '.' {
			if hasDot || p+1 == len(l.src) || l.src[p+1] < '0' || '9' < l.src[p+1] {
				break
			}
			hasDot = true
		} else if l.src[p] < '0' || '9' < l.src[p] {
			break
		}
		p++
	}
	l.emit(tokenNumber, p)
}

// lexString reads a string "..." knowing that src starts with '"'. The token
// text includes the quotes; escapes are interpreted by unquoteString.
func (l *lexer) lexString() error {
	var p = 1
	for {
		if p == len(l.src) {
			return l.errorf("not closed string literal")
		}
		switch l.src[p] {
		case '"':
			l.emit(tokenString, p+1)
			return nil
		case '\\':
			if p+1 == len(l.src) {
				return l.errorf("not closed string literal")
			}
			p += 2
		default:
			r, s := utf8.DecodeRune(l.src[p:])
			if r == utf8.RuneError && s == 1 {
				l.src = l.src[p:]
				return l.errorf("invalid byte in string literal")
			}
			p += s
		}
	}
}

// unquoteString returns the value of a string literal token, with the quotes
// removed and the escapes interpreted. Escapes other than \n, \t and \r pass
// the escaped character through unchanged.
func unquoteString(txt string) string {
	s := txt[1 : len(txt)-1]
	i := 0
	for i = 0; i < len(s); i++ {
		if s[i] == '\\' {
			break
		}
	}
	if i == len(s) {
		return s
	}
	b := make([]byte, 0, len(s))
	b = append(b, s[:i]...)
	for ; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b = append(b, '\n')
			case 't':
				b = append(b, '\t')
			case 'r':
				b = append(b, '\r')
			default:
				b = append(b, s[i])
			}
			continue
		}
		b = append(b, s[i])
	}
	return string(b)
}
