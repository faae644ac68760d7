package expr

import (
	"errors"
	"fmt"
	"strconv"
)

type parser struct {
	tokens []token
	pos    int
}

func parse(tokens []token) (node, error) {
	p := &parser{tokens: tokens}
	n, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("expr: unexpected token %q", p.tokens[p.pos].raw)
	}
	return n, nil
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) match(kinds ...tokenKind) (token, bool) {
	tok, ok := p.peek()
	if !ok {
		return token{}, false
	}
	for _, kind := range kinds {
		if tok.kind == kind {
			p.pos++
			return tok, true
		}
	}
	return token{}, false
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.match(tokenOr); !ok {
			return left, nil
		}
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.match(tokenAnd); !ok {
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
}

func (p *parser) unary() (node, error) {
	if _, ok := p.match(tokenNot); ok {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if _, ok := p.match(tokenLParen); ok {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if _, ok := p.match(tokenRParen); !ok {
			return nil, errors.New("expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := p.match(tokenIdentifier)
	if !ok {
		tok, more := p.peek()
		if !more {
			return nil, errors.New("expr: empty expression")
		}
		return nil, fmt.Errorf("expr: expected identifier, got %q", tok.raw)
	}

	if _, ok := p.match(tokenIn); ok {
		list, err := p.list()
		if err != nil {
			return nil, err
		}
		return inNode{identifier: ident.raw, values: list}, nil
	}

	op, ok := p.match(tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte)
	if !ok {
		return truthyNode{identifier: ident.raw}, nil
	}
	value, err := p.literal()
	if err != nil {
		return nil, err
	}
	if op.kind != tokenEq && op.kind != tokenNeq {
		if _, isNumber := value.(float64); !isNumber {
			return nil, fmt.Errorf("expr: operator %q requires a number", op.raw)
		}
	}
	return compareNode{identifier: ident.raw, op: op.kind, value: value}, nil
}

func (p *parser) list() ([]any, error) {
	if _, ok := p.match(tokenLBracket); !ok {
		return nil, errors.New("expr: expected '[' after in")
	}
	var out []any
	if _, ok := p.match(tokenRBracket); ok {
		return out, nil
	}
	for {
		value, err := p.literal()
		if err != nil {
			return nil, err
		}
		out = append(out, value)
		if _, ok := p.match(tokenRBracket); ok {
			return out, nil
		}
		if _, ok := p.match(tokenComma); !ok {
			return nil, errors.New("expr: expected ',' or ']' in list")
		}
	}
}

// literal returns string, float64, bool or nil.
func (p *parser) literal() (any, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, errors.New("expr: missing literal")
	}
	p.pos++
	switch tok.kind {
	case tokenString, tokenIdentifier:
		// Bare identifiers on the right-hand side read as strings.
		return tok.raw, nil
	case tokenNumber:
		f, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("expr: invalid number literal %q", tok.raw)
		}
		return f, nil
	case tokenBool:
		return tok.raw == "true", nil
	case tokenNull:
		return nil, nil
	default:
		return nil, fmt.Errorf("expr: expected literal, got %q", tok.raw)
	}
}
