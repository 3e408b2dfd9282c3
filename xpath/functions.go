// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// Copyright (c) 2015-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package xpath

import (
	"math"
	"strings"
)

// builtinFn evaluates one already-evaluated-argument XPath core function.
// ctx is the context the call was evaluated in (used for Pos/Size and as
// a Dup template); args holds one evaluated Context per call argument.
type builtinFn func(ctx *Context, args []*Context) *Context

// builtins is the XPath 1.0 core function library this evaluator
// supports, per spec.md §4.D/§4.H. "current" is handled specially in
// evalFunctionCall since it reads ctx.InitialNode rather than an
// argument, and "lang" is a stub: nothing in this pipeline's data model
// carries xml:lang.
var builtins = map[string]builtinFn{
	"boolean":           fnBoolean,
	"not":               fnNot,
	"true":              fnTrue,
	"false":             fnFalse,
	"string":            fnString,
	"number":            fnNumber,
	"count":             fnCount,
	"position":          fnPosition,
	"last":              fnLast,
	"name":              fnName,
	"local-name":        fnLocalName,
	"namespace-uri":     fnNamespaceURI,
	"concat":            fnConcat,
	"starts-with":       fnStartsWith,
	"contains":          fnContains,
	"substring":         fnSubstring,
	"substring-before":  fnSubstringBefore,
	"substring-after":   fnSubstringAfter,
	"string-length":     fnStringLength,
	"normalize-space":   fnNormalizeSpace,
	"translate":         fnTranslate,
	"sum":               fnSum,
	"floor":             fnFloor,
	"ceiling":           fnCeiling,
	"round":             fnRound,
	"lang":              fnLang,
}

func boolResult(ctx *Context, v bool) *Context {
	out := ctx.Dup()
	out.ResultKind = Boolean
	out.BoolValue = v
	return out
}

func numResult(ctx *Context, v float64) *Context {
	out := ctx.Dup()
	out.ResultKind = Number
	out.NumValue = v
	return out
}

func strResult(ctx *Context, v string) *Context {
	out := ctx.Dup()
	out.ResultKind = String
	out.StrValue = v
	return out
}

func fnBoolean(ctx *Context, args []*Context) *Context {
	if len(args) == 0 {
		return boolResult(ctx, false)
	}
	return boolResult(ctx, args[0].ToBoolean())
}

func fnNot(ctx *Context, args []*Context) *Context {
	if len(args) == 0 {
		return boolResult(ctx, true)
	}
	return boolResult(ctx, !args[0].ToBoolean())
}

func fnTrue(ctx *Context, args []*Context) *Context  { return boolResult(ctx, true) }
func fnFalse(ctx *Context, args []*Context) *Context { return boolResult(ctx, false) }

func fnString(ctx *Context, args []*Context) *Context {
	if len(args) == 0 {
		return strResult(ctx, ctx.ToString())
	}
	return strResult(ctx, args[0].ToString())
}

func fnNumber(ctx *Context, args []*Context) *Context {
	if len(args) == 0 {
		return numResult(ctx, ctx.ToNumber())
	}
	return numResult(ctx, args[0].ToNumber())
}

func fnCount(ctx *Context, args []*Context) *Context {
	if len(args) == 0 {
		return numResult(ctx, 0)
	}
	return numResult(ctx, float64(len(args[0].NodeSet)))
}

// fnPosition returns the 1-based surface position of the node currently
// under predicate evaluation; see applyPredicates in eval.go.
func fnPosition(ctx *Context, args []*Context) *Context {
	return numResult(ctx, float64(ctx.Pos+1))
}

func fnLast(ctx *Context, args []*Context) *Context {
	return numResult(ctx, float64(ctx.Size))
}

func fnName(ctx *Context, args []*Context) *Context {
	c := ctx
	if len(args) > 0 {
		c = args[0]
	}
	if len(c.NodeSet) == 0 {
		return strResult(ctx, "")
	}
	n := c.NodeSet[0]
	if n.Prefix == "" {
		return strResult(ctx, n.Local)
	}
	return strResult(ctx, n.Prefix+":"+n.Local)
}

func fnLocalName(ctx *Context, args []*Context) *Context {
	c := ctx
	if len(args) > 0 {
		c = args[0]
	}
	if len(c.NodeSet) == 0 {
		return strResult(ctx, "")
	}
	return strResult(ctx, c.NodeSet[0].Local)
}

// fnNamespaceURI is a stub: without a namespace context threaded into
// builtin calls there is no URI to resolve a bare prefix to here. Callers
// needing namespace-qualified comparisons use node test matching in
// eval.go instead, which does have the NSContext.
func fnNamespaceURI(ctx *Context, args []*Context) *Context {
	return strResult(ctx, "")
}

func fnConcat(ctx *Context, args []*Context) *Context {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(a.ToString())
	}
	return strResult(ctx, sb.String())
}

func fnStartsWith(ctx *Context, args []*Context) *Context {
	if len(args) < 2 {
		return boolResult(ctx, false)
	}
	return boolResult(ctx, strings.HasPrefix(args[0].ToString(), args[1].ToString()))
}

func fnContains(ctx *Context, args []*Context) *Context {
	if len(args) < 2 {
		return boolResult(ctx, false)
	}
	return boolResult(ctx, strings.Contains(args[0].ToString(), args[1].ToString()))
}

// fnSubstring implements XPath 1.0's 1-based, round-to-nearest substring
// semantics (§4.2): substring("12345", 1.5, 2.6) is "234".
func fnSubstring(ctx *Context, args []*Context) *Context {
	if len(args) < 2 {
		return strResult(ctx, "")
	}
	s := []rune(args[0].ToString())
	start := round(args[1].ToNumber())

	var length float64 = math.Inf(1)
	if len(args) >= 3 {
		length = round(args[2].ToNumber())
	}

	first := start
	if first < 1 {
		first = 1
	}
	var last float64
	if math.IsInf(length, 1) {
		last = float64(len(s)) + 1
	} else {
		last = start + length
	}
	if last > float64(len(s))+1 {
		last = float64(len(s)) + 1
	}
	if last <= first || first > float64(len(s)) {
		return strResult(ctx, "")
	}
	return strResult(ctx, string(s[int(first)-1:int(last)-1]))
}

func round(f float64) float64 {
	if math.IsNaN(f) {
		return f
	}
	return math.Floor(f + 0.5)
}

func fnSubstringBefore(ctx *Context, args []*Context) *Context {
	if len(args) < 2 {
		return strResult(ctx, "")
	}
	s, sep := args[0].ToString(), args[1].ToString()
	if sep == "" {
		return strResult(ctx, "")
	}
	i := strings.Index(s, sep)
	if i < 0 {
		return strResult(ctx, "")
	}
	return strResult(ctx, s[:i])
}

func fnSubstringAfter(ctx *Context, args []*Context) *Context {
	if len(args) < 2 {
		return strResult(ctx, "")
	}
	s, sep := args[0].ToString(), args[1].ToString()
	if sep == "" {
		return strResult(ctx, "")
	}
	i := strings.Index(s, sep)
	if i < 0 {
		return strResult(ctx, "")
	}
	return strResult(ctx, s[i+len(sep):])
}

func fnStringLength(ctx *Context, args []*Context) *Context {
	s := ctx.ToString()
	if len(args) > 0 {
		s = args[0].ToString()
	}
	return numResult(ctx, float64(len([]rune(s))))
}

func fnNormalizeSpace(ctx *Context, args []*Context) *Context {
	s := ctx.ToString()
	if len(args) > 0 {
		s = args[0].ToString()
	}
	return strResult(ctx, strings.Join(strings.Fields(s), " "))
}

func fnTranslate(ctx *Context, args []*Context) *Context {
	if len(args) < 3 {
		return strResult(ctx, "")
	}
	s := []rune(args[0].ToString())
	from := []rune(args[1].ToString())
	to := []rune(args[2].ToString())

	var sb strings.Builder
	for _, r := range s {
		idx := -1
		for i, f := range from {
			if f == r {
				idx = i
				break
			}
		}
		if idx < 0 {
			sb.WriteRune(r)
		} else if idx < len(to) {
			sb.WriteRune(to[idx])
		}
	}
	return strResult(ctx, sb.String())
}

func fnSum(ctx *Context, args []*Context) *Context {
	if len(args) == 0 {
		return numResult(ctx, 0)
	}
	var total float64
	for _, n := range args[0].NodeSet {
		total += parseNumber(n.Value())
	}
	return numResult(ctx, total)
}

func fnFloor(ctx *Context, args []*Context) *Context {
	if len(args) == 0 {
		return numResult(ctx, math.NaN())
	}
	return numResult(ctx, math.Floor(args[0].ToNumber()))
}

func fnCeiling(ctx *Context, args []*Context) *Context {
	if len(args) == 0 {
		return numResult(ctx, math.NaN())
	}
	return numResult(ctx, math.Ceil(args[0].ToNumber()))
}

func fnRound(ctx *Context, args []*Context) *Context {
	if len(args) == 0 {
		return numResult(ctx, math.NaN())
	}
	return numResult(ctx, round(args[0].ToNumber()))
}

func fnLang(ctx *Context, args []*Context) *Context {
	return boolResult(ctx, false)
}
