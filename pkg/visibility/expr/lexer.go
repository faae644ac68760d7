package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdentifier
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenIn
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenComma
)

type token struct {
	kind tokenKind
	raw  string
}

type lexer struct {
	src string
	pos int
}

func tokenize(input string) ([]token, error) {
	lx := &lexer{src: input}
	var out []token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenEOF {
			return out, nil
		}
		out = append(out, tok)
	}
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokenEOF}, nil
	}

	ch := l.src[l.pos]
	switch ch {
	case '(':
		l.pos++
		return token{kind: tokenLParen, raw: "("}, nil
	case ')':
		l.pos++
		return token{kind: tokenRParen, raw: ")"}, nil
	case '[':
		l.pos++
		return token{kind: tokenLBracket, raw: "["}, nil
	case ']':
		l.pos++
		return token{kind: tokenRBracket, raw: "]"}, nil
	case ',':
		l.pos++
		return token{kind: tokenComma, raw: ","}, nil
	case '!':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return token{kind: tokenNeq, raw: "!="}, nil
		}
		return token{kind: tokenNot, raw: "!"}, nil
	case '=':
		l.pos++
		if l.peek() != '=' {
			return token{}, errors.New("expr: unexpected '='; use '=='")
		}
		l.pos++
		return token{kind: tokenEq, raw: "=="}, nil
	case '<', '>':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			if ch == '<' {
				return token{kind: tokenLte, raw: "<="}, nil
			}
			return token{kind: tokenGte, raw: ">="}, nil
		}
		if ch == '<' {
			return token{kind: tokenLt, raw: "<"}, nil
		}
		return token{kind: tokenGt, raw: ">"}, nil
	case '&', '|':
		l.pos++
		if l.peek() != ch {
			return token{}, fmt.Errorf("expr: unexpected '%c'; use '%c%c'", ch, ch, ch)
		}
		l.pos++
		if ch == '&' {
			return token{kind: tokenAnd, raw: "&&"}, nil
		}
		return token{kind: tokenOr, raw: "||"}, nil
	case '"', '\'':
		return l.quoted(ch)
	}
	return l.word()
}

func (l *lexer) quoted(quote byte) (token, error) {
	l.pos++
	start := l.pos
	escaped := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.pos++
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == quote:
			body := l.src[start : l.pos-1]
			if quote == '\'' {
				body = strings.ReplaceAll(body, `\'`, `'`)
				body = strings.ReplaceAll(body, `"`, `\"`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return token{}, fmt.Errorf("expr: invalid string literal: %w", err)
			}
			return token{kind: tokenString, raw: value}, nil
		}
	}
	return token{}, errors.New("expr: unterminated string literal")
}

func (l *lexer) word() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && !isDelimiter(l.src[l.pos]) {
		l.pos++
	}
	raw := l.src[start:l.pos]
	if raw == "" {
		return token{}, fmt.Errorf("expr: unexpected character %q", l.src[start])
	}
	switch strings.ToLower(raw) {
	case "true", "false":
		return token{kind: tokenBool, raw: strings.ToLower(raw)}, nil
	case "null", "nil":
		return token{kind: tokenNull, raw: "null"}, nil
	case "in":
		return token{kind: tokenIn, raw: "in"}, nil
	}
	if looksLikeNumber(raw) {
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return token{}, fmt.Errorf("expr: invalid number literal %q", raw)
		}
		return token{kind: tokenNumber, raw: raw}, nil
	}
	return token{kind: tokenIdentifier, raw: raw}, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c byte) bool {
	if isSpace(c) {
		return true
	}
	switch c {
	case '(', ')', '[', ']', ',', '!', '=', '<', '>', '&', '|', '"', '\'':
		return true
	}
	return false
}

func looksLikeNumber(raw string) bool {
	ch := raw[0]
	return (ch >= '0' && ch <= '9') || ch == '-' || ch == '+'
}
