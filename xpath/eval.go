// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// Copyright (c) 2015-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// This file contains the recursive evaluator: a single function
// dispatching on syntax-tree node kind, mirroring the grammar's
// pre-traversal / mid-traversal / post-traversal structure.

package xpath

import (
	"math"

	"github.com/danos/ncqueryd/tree"
)

// Eval evaluates tree against ctx using nsc for namespace-qualified node
// tests, and returns the resulting context. nsc may be nil, in which
// case node tests fall back to lenient (raw prefix equality) matching.
func Eval(ctx *Context, expr *Expr, nsc *NSContext) *Context {
	if expr == nil {
		return ctx
	}

	switch expr.Kind {
	case KindExpr:
		return Eval(ctx, expr.Left, nsc)
	case KindLiteral:
		return evalLiteral(ctx, expr)
	case KindFunctionCall:
		return evalFunctionCall(ctx, expr, nsc)
	case KindAbsPath:
		return evalAbsPath(ctx, expr, nsc)
	case KindRelPath:
		return evalRelPath(ctx, expr, nsc)
	case KindStep:
		return evalStep(ctx, expr, nsc)
	case KindFilter:
		return evalFilter(ctx, expr, nsc)
	case KindAnd:
		return evalLogical(ctx, expr, nsc)
	case KindRelEx:
		return evalRelational(ctx, expr, nsc)
	case KindAdd:
		return evalArithmetic(ctx, expr, nsc)
	case KindUnion:
		return evalUnion(ctx, expr, nsc)
	}
	return ctx
}

func evalLiteral(ctx *Context, expr *Expr) *Context {
	out := ctx.Dup()
	if expr.LitKind == NumberLiteral {
		out.ResultKind = Number
		out.NumValue = expr.LitNum
	} else {
		out.ResultKind = String
		out.StrValue = expr.LitStr
	}
	return out
}

// evalAbsPath repositions the context node-set to {root}, sets the
// descendant flag first if the path starts with "//", then evaluates
// the relative path tail (nil for a bare "/").
func evalAbsPath(ctx *Context, expr *Expr, nsc *NSContext) *Context {
	root := ctx.InitialNode.Root()
	out := ctx.Dup()
	out.NodeSet = []*tree.Node{root}
	out.ResultKind = NodeSet
	out.Descendant = expr.DblSlash
	if expr.Left == nil {
		return out
	}
	return Eval(out, expr.Left, nsc)
}

// evalRelPath threads ctx through each Step in the cons-list in order.
func evalRelPath(ctx *Context, expr *Expr, nsc *NSContext) *Context {
	cur := ctx
	for node := expr; node != nil; node = node.Right {
		cur = Eval(cur, node.Left, nsc)
	}
	return cur
}

// evalStep implements the per-axis traversal of spec.md §4.D, then
// applies the predicate chain in order.
func evalStep(ctx *Context, expr *Expr, nsc *NSContext) *Context {
	out := ctx.Dup()
	if expr.DblSlash {
		out.Descendant = true
	}

	nodeTest := expr.Left
	var result []*tree.Node

	switch expr.Axis {
	case CHILD:
		if out.Descendant {
			for _, n := range out.NodeSet {
				result = append(result, collectDescendants(n, nodeTest, nsc)...)
			}
			out.Descendant = false
		} else {
			for _, n := range out.NodeSet {
				for _, c := range n.ElementChildren() {
					if nodeTestMatches(c, nodeTest, nsc) {
						result = append(result, c)
					}
				}
			}
		}

	case DESCENDANT:
		for _, n := range out.NodeSet {
			result = append(result, collectDescendants(n, nodeTest, nsc)...)
		}

	case DESCENDANT_OR_SELF:
		for _, n := range out.NodeSet {
			if nodeTestMatches(n, nodeTest, nsc) {
				result = append(result, n)
			}
			result = append(result, collectDescendants(n, nodeTest, nsc)...)
		}

	case PARENT:
		for _, n := range out.NodeSet {
			if p := n.Parent(); p != nil && nodeTestMatches(p, nodeTest, nsc) {
				result = append(result, p)
			}
		}

	case SELF:
		for _, n := range out.NodeSet {
			if nodeTestMatches(n, nodeTest, nsc) {
				result = append(result, n)
			}
		}

	case ANCESTOR, ANCESTOR_OR_SELF:
		for _, n := range out.NodeSet {
			start := n
			if expr.Axis == ANCESTOR {
				start = n.Parent()
			}
			for start != nil {
				if nodeTestMatches(start, nodeTest, nsc) {
					result = append(result, start)
				}
				start = start.Parent()
			}
		}

	default:
		// ATTRIBUTE, NAMESPACE, FOLLOWING, FOLLOWING_SIBLING, PRECEDING,
		// PRECEDING_SIBLING: stubs per spec.md §4.D. The query pipeline's
		// filter/select usage never issues these axes; implementing them
		// fully would mean walking attribute lists and document order
		// across the whole tree for no caller in this system.
	}

	out.NodeSet = result
	out.ResultKind = NodeSet

	return applyPredicates(out, expr.Right, nsc)
}

// evalFilter evaluates a FilterExpr: primary (a PrimaryExpr, e.g. a
// function call) is evaluated against ctx for its own node-set, then the
// predicate chain narrows that node-set exactly as applyPredicates does
// for a Step. Non-node-set primaries pass the predicate chain through
// unfiltered, since numeric/string/boolean primaries never carry a
// trailing predicate in valid XPath.
func evalFilter(ctx *Context, expr *Expr, nsc *NSContext) *Context {
	base := Eval(ctx.Dup(), expr.Left, nsc)
	if base.ResultKind != NodeSet {
		return base
	}
	return applyPredicates(base, expr.Right, nsc)
}

func collectDescendants(n *tree.Node, nodeTest *Expr, nsc *NSContext) []*tree.Node {
	var out []*tree.Node
	for _, c := range n.ElementChildren() {
		if nodeTestMatches(c, nodeTest, nsc) {
			out = append(out, c)
		}
		out = append(out, collectDescendants(c, nodeTest, nsc)...)
	}
	return out
}

// nodeTestMatches implements spec.md §4.D's node test semantics.
func nodeTestMatches(n *tree.Node, test *Expr, nsc *NSContext) bool {
	if test == nil {
		return n.Kind == tree.Element
	}
	switch test.Kind {
	case KindNodeFn:
		switch test.FnName {
		case "node":
			return true
		case "text":
			return n.Kind == tree.Text
		}
		return false
	case KindNodeName:
		if n.Kind != tree.Element && n.Kind != tree.Attribute {
			return false
		}
		if test.Local == "*" {
			return true
		}
		if n.Local != test.Local {
			return false
		}
		if nsc != nil {
			xURI, xOK := nsc.Lookup(n.Prefix)
			tURI, tOK := nsc.Lookup(test.Prefix)
			if !xOK && !tOK {
				return true
			}
			return xOK && tOK && xURI == tURI
		}
		// Lenient mode (no namespace context supplied): raw prefix
		// string equality, relied on by legacy callers (spec.md §9).
		return n.Prefix == test.Prefix
	}
	return false
}

// applyPredicates narrows ctx.NodeSet by each predicate in the chain,
// in order. Each candidate is evaluated with itself as the sole member
// of a single-element context; position() and the bare numeric
// shorthand both compare against the 1-based surface position (Pos+1),
// see DESIGN.md for why this is the chosen reading of spec.md §4.D's
// "0-based internally, translated on parse" note.
func applyPredicates(ctx *Context, predChain *Expr, nsc *NSContext) *Context {
	for p := predChain; p != nil; p = p.Right {
		candidates := ctx.NodeSet
		size := len(candidates)
		var kept []*tree.Node

		for i, n := range candidates {
			predCtx := &Context{
				InitialNode: ctx.InitialNode,
				CurrentNode: n,
				NodeSet:     []*tree.Node{n},
				ResultKind:  NodeSet,
				Pos:         i,
				Size:        size,
			}
			res := Eval(predCtx, p.Left, nsc)
			if res.ResultKind == Number {
				if res.NumValue == float64(i+1) {
					kept = append(kept, n)
				}
				continue
			}
			if res.ToBoolean() {
				kept = append(kept, n)
			}
		}
		ctx.NodeSet = kept
	}
	return ctx
}

func evalLogical(ctx *Context, expr *Expr, nsc *NSContext) *Context {
	lb := Eval(ctx.Dup(), expr.Left, nsc).ToBoolean()
	rb := Eval(ctx.Dup(), expr.Right, nsc).ToBoolean()

	var result bool
	switch expr.Op {
	case AND:
		result = lb && rb
	case OR:
		result = lb || rb
	}

	out := ctx.Dup()
	out.ResultKind = Boolean
	out.BoolValue = result
	return out
}

func evalArithmetic(ctx *Context, expr *Expr, nsc *NSContext) *Context {
	l := Eval(ctx.Dup(), expr.Left, nsc).ToNumber()
	r := Eval(ctx.Dup(), expr.Right, nsc).ToNumber()

	var v float64
	switch expr.Op {
	case ADD:
		v = l + r
	case SUB:
		v = l - r
	case MULT:
		v = l * r
	case DIV:
		v = l / r
	case MOD:
		v = math.Mod(math.Trunc(l), math.Trunc(r))
	}

	out := ctx.Dup()
	out.ResultKind = Number
	out.NumValue = v
	return out
}

func evalUnion(ctx *Context, expr *Expr, nsc *NSContext) *Context {
	l := Eval(ctx.Dup(), expr.Left, nsc)
	r := Eval(ctx.Dup(), expr.Right, nsc)

	out := ctx.Dup()
	out.ResultKind = NodeSet
	ns := make([]*tree.Node, 0, len(l.NodeSet)+len(r.NodeSet))
	ns = append(ns, l.NodeSet...)
	ns = append(ns, r.NodeSet...)
	out.NodeSet = ns
	return out
}

func evalFunctionCall(ctx *Context, expr *Expr, nsc *NSContext) *Context {
	if expr.FnName == "current" {
		out := ctx.Dup()
		out.NodeSet = []*tree.Node{ctx.InitialNode}
		out.ResultKind = NodeSet
		return out
	}

	fn, ok := builtins[expr.FnName]
	if !ok {
		out := ctx.Dup()
		out.ResultKind = Boolean
		out.BoolValue = false
		return out
	}

	args := make([]*Context, len(expr.Args))
	for i, a := range expr.Args {
		args[i] = Eval(ctx.Dup(), a, nsc)
	}
	return fn(ctx, args)
}

func evalRelational(ctx *Context, expr *Expr, nsc *NSContext) *Context {
	l := Eval(ctx.Dup(), expr.Left, nsc)
	r := Eval(ctx.Dup(), expr.Right, nsc)

	out := ctx.Dup()
	out.ResultKind = Boolean
	out.BoolValue = compareValues(l, r, expr.Op)
	return out
}

// compareValues implements XPath 1.0 §3.4's relational/equality rules.
func compareValues(l, r *Context, op Op) bool {
	lNS := l.ResultKind == NodeSet
	rNS := r.ResultKind == NodeSet

	switch {
	case lNS && rNS:
		for _, ln := range l.NodeSet {
			for _, rn := range r.NodeSet {
				if applyStringOp(op, ln.Value(), rn.Value()) {
					return true
				}
			}
		}
		return false
	case lNS && !rNS:
		return compareNodesetToScalar(l.NodeSet, r, op, false)
	case !lNS && rNS:
		return compareNodesetToScalar(r.NodeSet, l, op, true)
	default:
		return compareScalars(l, r, op)
	}
}

// compareNodesetToScalar tests whether any node in ns, compared against
// scalar, satisfies op. When the node-set was the right-hand operand of
// the original expression (reversed == true), the ordering sense of
// <,<=,>,>= is flipped so the comparison still reads left-operand OP
// right-operand.
func compareNodesetToScalar(ns []*tree.Node, scalar *Context, op Op, reversed bool) bool {
	effOp := op
	if reversed {
		effOp = reverseOp(op)
	}

	switch scalar.ResultKind {
	case Number:
		for _, n := range ns {
			if applyOrderOp(effOp, parseNumber(n.Value()), scalar.NumValue) {
				return true
			}
		}
		return false
	case Boolean:
		return applyBoolOp(effOp, len(ns) > 0, scalar.BoolValue)
	default:
		sv := scalar.ToString()
		for _, n := range ns {
			if applyStringOp(effOp, n.Value(), sv) {
				return true
			}
		}
		return false
	}
}

func compareScalars(l, r *Context, op Op) bool {
	if l.ResultKind == Boolean || r.ResultKind == Boolean {
		return applyBoolOp(op, l.ToBoolean(), r.ToBoolean())
	}
	if l.ResultKind == Number || r.ResultKind == Number {
		return applyOrderOp(op, l.ToNumber(), r.ToNumber())
	}
	return applyStringOp(op, l.ToString(), r.ToString())
}

func reverseOp(op Op) Op {
	switch op {
	case LT:
		return GT
	case LE:
		return GE
	case GT:
		return LT
	case GE:
		return LE
	}
	return op
}

func applyOrderOp(op Op, a, b float64) bool {
	switch op {
	case EQ:
		return a == b
	case NE:
		return a != b
	case LT:
		return a < b
	case LE:
		return a <= b
	case GT:
		return a > b
	case GE:
		return a >= b
	}
	return false
}

func applyStringOp(op Op, a, b string) bool {
	switch op {
	case EQ:
		return a == b
	case NE:
		return a != b
	case LT:
		return a < b
	case LE:
		return a <= b
	case GT:
		return a > b
	case GE:
		return a >= b
	}
	return false
}

func applyBoolOp(op Op, a, b bool) bool {
	af, bf := 0.0, 0.0
	if a {
		af = 1
	}
	if b {
		bf = 1
	}
	return applyOrderOp(op, af, bf)
}
