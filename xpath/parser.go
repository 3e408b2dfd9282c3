// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// Copyright (c) 2015-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package xpath

import (
	"fmt"
	"strings"
)

// Parse compiles an XPath 1.0 expression string into a syntax tree.
//
// This is a hand-rolled recursive-descent parser following the standard
// precedence chain (OrExpr -> AndExpr -> EqualityExpr -> RelationalExpr
// -> AdditiveExpr -> MultiplicativeExpr -> UnionExpr -> PathExpr): the
// query pipeline only ever needs to compile a handful of filter
// expressions per request, so a table-free descent is simpler to carry
// than a generated lexer/parser pair. "and", "or", "div", "mod" act as
// operators only right after an operand and are read as plain names
// elsewhere (see lexer.operatorContext).
func Parse(expr string) (*Expr, error) {
	p := &parser{lex: newLexer(expr)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.parseOrExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, fmt.Errorf("xpath: unexpected trailing input %q", p.tok.text)
	}
	return e, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(kind tokenKind, what string) error {
	if p.tok.kind != kind {
		return fmt.Errorf("xpath: expected %s, got %q", what, p.tok.text)
	}
	return p.advance()
}

// --- OrExpr / AndExpr ---

func (p *parser) parseOrExpr() (*Expr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokNCName && p.tok.text == "or" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = NewBinary(KindAnd, OR, left, right)
	}
	return left, nil
}

func (p *parser) parseAndExpr() (*Expr, error) {
	left, err := p.parseEqualityExpr()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokNCName && p.tok.text == "and" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseEqualityExpr()
		if err != nil {
			return nil, err
		}
		left = NewBinary(KindAnd, AND, left, right)
	}
	return left, nil
}

// --- EqualityExpr / RelationalExpr ---

func (p *parser) parseEqualityExpr() (*Expr, error) {
	left, err := p.parseRelationalExpr()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokEq || p.tok.kind == tokNe {
		op := EQ
		if p.tok.kind == tokNe {
			op = NE
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRelationalExpr()
		if err != nil {
			return nil, err
		}
		left = NewBinary(KindRelEx, op, left, right)
	}
	return left, nil
}

func (p *parser) parseRelationalExpr() (*Expr, error) {
	left, err := p.parseAdditiveExpr()
	if err != nil {
		return nil, err
	}
	for {
		var op Op
		switch p.tok.kind {
		case tokLt:
			op = LT
		case tokLe:
			op = LE
		case tokGt:
			op = GT
		case tokGe:
			op = GE
		default:
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditiveExpr()
		if err != nil {
			return nil, err
		}
		left = NewBinary(KindRelEx, op, left, right)
	}
}

// --- AdditiveExpr / MultiplicativeExpr ---

func (p *parser) parseAdditiveExpr() (*Expr, error) {
	left, err := p.parseMultiplicativeExpr()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op := ADD
		if p.tok.kind == tokMinus {
			op = SUB
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicativeExpr()
		if err != nil {
			return nil, err
		}
		left = NewBinary(KindAdd, op, left, right)
	}
	return left, nil
}

func (p *parser) parseMultiplicativeExpr() (*Expr, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		var op Op
		switch {
		case p.tok.kind == tokStar:
			op = MULT
		case p.tok.kind == tokNCName && p.tok.text == "div":
			op = DIV
		case p.tok.kind == tokNCName && p.tok.text == "mod":
			op = MOD
		default:
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		left = NewBinary(KindAdd, op, left, right)
	}
}

func (p *parser) parseUnaryExpr() (*Expr, error) {
	if p.tok.kind == tokMinus {
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return NewBinary(KindAdd, SUB, NewLiteralNumber(0), e), nil
	}
	return p.parseUnionExpr()
}

// --- UnionExpr / PathExpr ---

func (p *parser) parseUnionExpr() (*Expr, error) {
	left, err := p.parsePathExpr()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPipe {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePathExpr()
		if err != nil {
			return nil, err
		}
		left = NewBinary(KindUnion, UNION, left, right)
	}
	return left, nil
}

func (p *parser) parsePathExpr() (*Expr, error) {
	switch p.tok.kind {
	case tokSlash:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.atStepStart() {
			rel, err := p.parseRelativeLocationPath()
			if err != nil {
				return nil, err
			}
			return NewAbsPath(false, rel), nil
		}
		return NewAbsPath(false, nil), nil

	case tokSlashSlash:
		if err := p.advance(); err != nil {
			return nil, err
		}
		rel, err := p.parseRelativeLocationPath()
		if err != nil {
			return nil, err
		}
		return NewAbsPath(true, rel), nil
	}

	return p.parseFilterOrRelativePath()
}

// parseFilterOrRelativePath handles the forms that begin with a
// FilterExpr primary (literal, number, function call, parenthesized
// expr) optionally followed by "/" RelativeLocationPath, as well as the
// plain RelativeLocationPath case.
func (p *parser) parseFilterOrRelativePath() (*Expr, error) {
	if p.atPrimaryStart() {
		primary, err := p.parsePrimaryExpr()
		if err != nil {
			return nil, err
		}
		primary, err = p.parsePredicatesOnto(primary)
		if err != nil {
			return nil, err
		}
		if p.tok.kind == tokSlash || p.tok.kind == tokSlashSlash {
			dbl := p.tok.kind == tokSlashSlash
			if err := p.advance(); err != nil {
				return nil, err
			}
			rest, err := p.parseRelativeLocationPath()
			if err != nil {
				return nil, err
			}
			if dbl {
				rest = markDescendant(rest)
			}
			return NewRelPath(primary, rest), nil
		}
		return primary, nil
	}
	return p.parseRelativeLocationPath()
}

// parsePredicatesOnto wraps zero or more trailing "[pred]" groups around a
// non-step primary expression (the FilterExpr production). evalFilter
// evaluates it the same way a Step does: predicates narrow whatever
// candidate set primary evaluated to, with position()/last() scoped to
// that set.
func (p *parser) parsePredicatesOnto(primary *Expr) (*Expr, error) {
	if p.tok.kind != tokLBracket {
		return primary, nil
	}
	preds, err := p.parsePredicateChain()
	if err != nil {
		return nil, err
	}
	return NewFilter(primary, preds), nil
}

func (p *parser) atPrimaryStart() bool {
	switch p.tok.kind {
	case tokDollar, tokLParen, tokLiteral, tokNumber:
		return true
	case tokName, tokNCName:
		return p.nextIsCallParen()
	}
	return false
}

// nextIsCallParen peeks whether the current Name token is immediately
// followed by "(", i.e. is a FunctionCall rather than a node test; it
// must not consume input permanently, so it works off a cloned lexer.
func (p *parser) nextIsCallParen() bool {
	save := *p.lex
	savedTok := p.tok
	defer func() { p.lex = &save; p.tok = savedTok }()

	// A following "(" with no "::" in between signals FunctionCall.
	lexCopy := save
	t, err := lexCopy.next()
	if err != nil {
		return false
	}
	return t.kind == tokLParen
}

func (p *parser) atStepStart() bool {
	switch p.tok.kind {
	case tokDot, tokDotDot, tokAt, tokName:
		return true
	}
	return false
}

// --- RelativeLocationPath / Step ---

func (p *parser) parseRelativeLocationPath() (*Expr, error) {
	step, err := p.parseStep()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokSlash || p.tok.kind == tokSlashSlash {
		dbl := p.tok.kind == tokSlashSlash
		if err := p.advance(); err != nil {
			return nil, err
		}
		rest, err := p.parseRelativeLocationPath()
		if err != nil {
			return nil, err
		}
		if dbl {
			rest = markDescendant(rest)
		}
		return NewRelPath(step, rest), nil
	}
	return NewRelPath(step, nil), nil
}

func markDescendant(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	if e.Kind == KindRelPath && e.Left != nil {
		e.Left.DblSlash = true
	}
	return e
}

func (p *parser) parseStep() (*Expr, error) {
	switch p.tok.kind {
	case tokDot:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NewStep(SELF, false, NewNodeFn("node"), nil), nil
	case tokDotDot:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NewStep(PARENT, false, NewNodeFn("node"), nil), nil
	}

	axis := CHILD
	if p.tok.kind == tokAt {
		axis = ATTRIBUTE
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else if p.tok.kind == tokName && p.peekIsAxisSpecifier() {
		a, err := axisFromName(p.tok.text)
		if err != nil {
			return nil, err
		}
		axis = a
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expect(tokColonColon, "'::'"); err != nil {
			return nil, err
		}
	}

	nodeTest, err := p.parseNodeTest()
	if err != nil {
		return nil, err
	}
	preds, err := p.parsePredicateChain()
	if err != nil {
		return nil, err
	}
	return NewStep(axis, false, nodeTest, preds), nil
}

// peekIsAxisSpecifier reports whether the current Name token is followed
// by "::" (an AxisName), without permanently consuming input.
func (p *parser) peekIsAxisSpecifier() bool {
	save := *p.lex
	t, err := save.next()
	if err != nil {
		return false
	}
	return t.kind == tokColonColon
}

func axisFromName(name string) (Axis, error) {
	switch name {
	case "child":
		return CHILD, nil
	case "descendant":
		return DESCENDANT, nil
	case "descendant-or-self":
		return DESCENDANT_OR_SELF, nil
	case "parent":
		return PARENT, nil
	case "self":
		return SELF, nil
	case "ancestor":
		return ANCESTOR, nil
	case "ancestor-or-self":
		return ANCESTOR_OR_SELF, nil
	case "attribute":
		return ATTRIBUTE, nil
	case "namespace":
		return NAMESPACE, nil
	case "following":
		return FOLLOWING, nil
	case "following-sibling":
		return FOLLOWING_SIBLING, nil
	case "preceding":
		return PRECEDING, nil
	case "preceding-sibling":
		return PRECEDING_SIBLING, nil
	}
	return CHILD, fmt.Errorf("xpath: unknown axis %q", name)
}

func (p *parser) parseNodeTest() (*Expr, error) {
	if p.tok.kind != tokName {
		return nil, fmt.Errorf("xpath: expected node test, got %q", p.tok.text)
	}
	name := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.tok.kind == tokLParen && (name == "node" || name == "text" || name == "comment" || name == "processing-instruction") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if name == "processing-instruction" && p.tok.kind == tokLiteral {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return NewNodeFn(name), nil
	}

	if strings.Contains(name, ":") {
		parts := strings.SplitN(name, ":", 2)
		return NewNodeName(parts[0], parts[1]), nil
	}

	return NewNodeName("", name), nil
}

func (p *parser) parsePredicateChain() (*Expr, error) {
	if p.tok.kind != tokLBracket {
		return nil, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseOrExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRBracket, "']'"); err != nil {
		return nil, err
	}
	next, err := p.parsePredicateChain()
	if err != nil {
		return nil, err
	}
	return NewPredicate(body, next), nil
}

// --- PrimaryExpr ---

func (p *parser) parsePrimaryExpr() (*Expr, error) {
	switch p.tok.kind {
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil

	case tokLiteral:
		s := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NewLiteralString(s), nil

	case tokNumber:
		n := p.tok.num
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NewLiteralNumber(n), nil

	case tokDollar:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokName {
			return nil, fmt.Errorf("xpath: expected variable name after '$'")
		}
		// Variable references are accepted syntactically but always
		// evaluate to boolean false (a false() call): this pipeline's filters never
		// bind variables, and none of spec.md's components call for a
		// binding environment.
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NewFunctionCall("false"), nil

	case tokName:
		return p.parseFunctionCall()
	}

	return nil, fmt.Errorf("xpath: unexpected token %q", p.tok.text)
}

func (p *parser) parseFunctionCall() (*Expr, error) {
	name := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	var args []*Expr
	if p.tok.kind != tokRParen {
		for {
			a, err := p.parseOrExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.tok.kind != tokComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return NewFunctionCall(name, args...), nil
}
