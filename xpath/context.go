// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// Copyright (c) 2015-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package xpath

import (
	"math"
	"strconv"
	"strings"

	"github.com/danos/ncqueryd/tree"
)

// ResultKind is the type of value an evaluation context currently holds.
type ResultKind int

const (
	NodeSet ResultKind = iota
	Number
	Boolean
	String
)

func (k ResultKind) String() string {
	switch k {
	case NodeSet:
		return "node-set"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	}
	return "unknown"
}

// Context is the evaluation context threaded through Eval: the current
// and initial node, the working node-set, the pending "//" descendant
// flag, and the typed result of the expression evaluated so far.
// Contexts are values conceptually; Dup produces an independent copy
// with its own node-set backing array so that branches (operator
// operands, predicate candidates) don't alias each other's slices.
type Context struct {
	InitialNode *tree.Node
	CurrentNode *tree.Node
	NodeSet     []*tree.Node
	Descendant  bool

	ResultKind ResultKind
	NumValue   float64
	BoolValue  bool
	StrValue   string

	// Pos and Size are the 0-based index and cardinality of CurrentNode
	// within the node-set a predicate is being evaluated against; unused
	// outside of predicate evaluation.
	Pos, Size int
}

// NewContext returns the initial context for evaluating an XPath
// expression rooted at node: node-set {node}, current = initial = node.
func NewContext(node *tree.Node) *Context {
	return &Context{
		InitialNode: node,
		CurrentNode: node,
		NodeSet:     []*tree.Node{node},
		ResultKind:  NodeSet,
		Pos:         0,
		Size:        1,
	}
}

// Dup returns an independent copy of ctx; the node-set slice is copied
// so that appending to one copy never mutates the other.
func (ctx *Context) Dup() *Context {
	dup := *ctx
	if ctx.NodeSet != nil {
		dup.NodeSet = append([]*tree.Node(nil), ctx.NodeSet...)
	}
	return &dup
}

// ReplaceNodeSet swaps in a new node-set and sets ResultKind to NodeSet.
func (ctx *Context) ReplaceNodeSet(ns []*tree.Node) {
	ctx.NodeSet = ns
	ctx.ResultKind = NodeSet
}

// ToBoolean implements XPath 1.0 §4.3 boolean coercion: node-set is true
// iff non-empty; string is true iff non-empty; number is true iff
// neither zero nor NaN; boolean is itself.
func (ctx *Context) ToBoolean() bool {
	switch ctx.ResultKind {
	case NodeSet:
		return len(ctx.NodeSet) > 0
	case String:
		return ctx.StrValue != ""
	case Number:
		return ctx.NumValue != 0 && !math.IsNaN(ctx.NumValue)
	case Boolean:
		return ctx.BoolValue
	}
	return false
}

// ToNumber implements XPath 1.0 §4.4 number coercion: a string is
// parsed as an IEEE double, NaN on failure; a node-set takes the
// first node's string-value and parses that; boolean is 1 or 0.
func (ctx *Context) ToNumber() float64 {
	switch ctx.ResultKind {
	case Number:
		return ctx.NumValue
	case NodeSet:
		if len(ctx.NodeSet) == 0 {
			return math.NaN()
		}
		return parseNumber(ctx.NodeSet[0].Value())
	case String:
		return parseNumber(ctx.StrValue)
	case Boolean:
		if ctx.BoolValue {
			return 1
		}
		return 0
	}
	return math.NaN()
}

// ToString implements XPath 1.0 §4.2 string coercion.
func (ctx *Context) ToString() string {
	switch ctx.ResultKind {
	case String:
		return ctx.StrValue
	case NodeSet:
		if len(ctx.NodeSet) == 0 {
			return ""
		}
		return ctx.NodeSet[0].Value()
	case Number:
		return formatNumber(ctx.NumValue)
	case Boolean:
		if ctx.BoolValue {
			return "true"
		}
		return "false"
	}
	return ""
}

func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
