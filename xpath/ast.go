// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// Copyright (c) 2015-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package xpath implements a subset of XPath 1.0 (W3C REC-xpath-19991116)
// sufficient to drive the NETCONF <get>/<get-config> filter pipeline:
// namespace-aware node tests, the core axes, predicates, and the
// arithmetic/relational/logical/union operators. The parser is a small,
// purpose-built recursive-descent implementation; the evaluator is a
// single recursive function dispatching on syntax-tree node kind, as
// spec'd, rather than a compiled bytecode machine.
package xpath

// Kind tags the variant an Expr node represents. The parser is the only
// producer of Expr values; the evaluator treats a tree as opaque beyond
// Kind, Axis, Op, and the literal/name/function fields below.
type Kind int

const (
	KindExpr Kind = iota
	KindAnd
	KindRelEx
	KindAdd
	KindUnion
	KindAbsPath
	KindRelPath
	KindStep
	KindPredicate
	KindNodeName
	KindNodeFn
	KindLiteral
	KindFunctionCall
	KindFilter
)

func (k Kind) String() string {
	switch k {
	case KindExpr:
		return "Expr"
	case KindAnd:
		return "And"
	case KindRelEx:
		return "RelEx"
	case KindAdd:
		return "Add"
	case KindUnion:
		return "Union"
	case KindAbsPath:
		return "AbsPath"
	case KindRelPath:
		return "RelPath"
	case KindStep:
		return "Step"
	case KindPredicate:
		return "Predicate"
	case KindNodeName:
		return "NodeName"
	case KindNodeFn:
		return "NodeFn"
	case KindLiteral:
		return "Literal"
	case KindFunctionCall:
		return "FunctionCall"
	case KindFilter:
		return "Filter"
	}
	return "unknown"
}

// Axis is the step discriminant; the full set required by spec.md §4.A.
type Axis int

const (
	CHILD Axis = iota
	DESCENDANT
	DESCENDANT_OR_SELF
	PARENT
	SELF
	ANCESTOR
	ATTRIBUTE
	NAMESPACE
	FOLLOWING
	FOLLOWING_SIBLING
	PRECEDING
	PRECEDING_SIBLING
	ANCESTOR_OR_SELF
)

func (a Axis) String() string {
	switch a {
	case CHILD:
		return "child"
	case DESCENDANT:
		return "descendant"
	case DESCENDANT_OR_SELF:
		return "descendant-or-self"
	case PARENT:
		return "parent"
	case SELF:
		return "self"
	case ANCESTOR:
		return "ancestor"
	case ATTRIBUTE:
		return "attribute"
	case NAMESPACE:
		return "namespace"
	case FOLLOWING:
		return "following"
	case FOLLOWING_SIBLING:
		return "following-sibling"
	case PRECEDING:
		return "preceding"
	case PRECEDING_SIBLING:
		return "preceding-sibling"
	case ANCESTOR_OR_SELF:
		return "ancestor-or-self"
	}
	return "unknown"
}

// Op is the operator discriminant shared by And, RelEx, Add and Union
// nodes; the full set required by spec.md §4.A.
type Op int

const (
	AND Op = iota
	OR
	DIV
	MOD
	ADD
	MULT
	SUB
	EQ
	NE
	GE
	LE
	LT
	GT
	UNION
)

// LitKind distinguishes the two Literal payload shapes.
type LitKind int

const (
	StringLiteral LitKind = iota
	NumberLiteral
)

// Expr is the immutable parsed syntax tree node. Each node has up to two
// children (Left, Right); FunctionCall is the one variant whose arity
// isn't fixed, so it carries its own Args slice instead.
type Expr struct {
	Kind Kind

	Axis     Axis // valid for KindStep
	DblSlash bool // valid for KindStep/KindAbsPath: step preceded by "//"

	Op Op // valid for KindAnd, KindRelEx, KindAdd, KindUnion

	Prefix, Local string // valid for KindNodeName
	FnName        string // valid for KindNodeFn ("node", "text") and KindFunctionCall

	LitKind LitKind
	LitStr  string
	LitNum  float64

	Args []*Expr // valid for KindFunctionCall

	Left, Right *Expr
}

// Convenience constructors used by the parser and by tests that build
// trees directly without going through expression text.

func NewLiteralString(s string) *Expr {
	return &Expr{Kind: KindLiteral, LitKind: StringLiteral, LitStr: s}
}

func NewLiteralNumber(n float64) *Expr {
	return &Expr{Kind: KindLiteral, LitKind: NumberLiteral, LitNum: n}
}

func NewNodeName(prefix, local string) *Expr {
	return &Expr{Kind: KindNodeName, Prefix: prefix, Local: local}
}

func NewNodeFn(name string) *Expr {
	return &Expr{Kind: KindNodeFn, FnName: name}
}

func NewFunctionCall(name string, args ...*Expr) *Expr {
	return &Expr{Kind: KindFunctionCall, FnName: name, Args: args}
}

func NewStep(axis Axis, dblSlash bool, nodeTest *Expr, predicates *Expr) *Expr {
	return &Expr{Kind: KindStep, Axis: axis, DblSlash: dblSlash, Left: nodeTest, Right: predicates}
}

func NewPredicate(body, next *Expr) *Expr {
	return &Expr{Kind: KindPredicate, Left: body, Right: next}
}

func NewRelPath(step, rest *Expr) *Expr {
	return &Expr{Kind: KindRelPath, Left: step, Right: rest}
}

func NewAbsPath(dblSlash bool, rel *Expr) *Expr {
	return &Expr{Kind: KindAbsPath, DblSlash: dblSlash, Left: rel}
}

func NewBinary(kind Kind, op Op, left, right *Expr) *Expr {
	return &Expr{Kind: kind, Op: op, Left: left, Right: right}
}

// NewFilter builds a FilterExpr: primary evaluated for its own value,
// then narrowed by the predicate chain exactly like a step's.
func NewFilter(primary, predicates *Expr) *Expr {
	return &Expr{Kind: KindFilter, Left: primary, Right: predicates}
}
