// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// Copyright (c) 2016 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package pagination implements the list-pagination branch of the query
// handler: config lists are paginated by rewriting the target XPath with
// a positional predicate; state lists are paginated by invoking a
// registered callback that streams a bounded window of entries.
package pagination

import (
	"fmt"
	"strings"

	"github.com/danos/mgmterror"

	"github.com/danos/ncqueryd/schema"
	"github.com/danos/ncqueryd/tree"
)

// Request carries the inputs to the pagination planner (spec.md §4.G).
type Request struct {
	TargetXPath string
	Offset      int
	Limit       int
	ContentNonconfig bool // true if the request's content class is "nonconfig"
	Locked      bool
}

// Normalize returns r unchanged. The default substitutions (offset
// "none" -> 0, limit "unbounded" -> 0, meaning unlimited) happen when the
// query handler parses <list-pagination>, so Offset and Limit already
// hold the substituted values.
func (r Request) Normalize() Request {
	return r
}

// StateCallback is the registered pagination state reader: given the
// target xpath, the running-datastore lock state, and the offset/limit
// window, it appends the state list entries it read into out and
// reports whether the read succeeded.
type StateCallback func(xpath string, locked bool, offset, limit int, out *tree.Node) error

// Result is the outcome of planning a paginated read: either a rewritten
// XPath string to read the request's source datastore with (config
// lists), or an indication that the state callback already populated the
// supplied out-tree (state lists).
type Result struct {
	RewrittenXPath string
	UsedCallback   bool
}

// Plan validates req against target's schema classification and, for a
// config list, returns the rewritten XPath to re-read the datastore
// with. For a state list it invokes cb directly against out and returns
// UsedCallback=true; out is populated in place.
func Plan(req Request, target schema.Node, cb StateCallback, out *tree.Node) (Result, error) {
	path := pathSegments(req.TargetXPath)
	if target == nil {
		return Result{}, schema.NewInvalidPathError(path)
	}
	if target.Keyword() != schema.List && target.Keyword() != schema.LeafList {
		return Result{}, schema.NewSchemaMismatchError(target.Name(), path)
	}
	if req.ContentNonconfig && target.Config() {
		return Result{}, newInvalidValueError("list-pagination: content=nonconfig requested against a config list")
	}

	if target.Config() {
		return Result{RewrittenXPath: rewriteXPath(req.TargetXPath, req.Offset, req.Limit)}, nil
	}

	if cb == nil {
		return Result{}, mgmterror.NewOperationFailedApplicationError()
	}
	if err := cb(req.TargetXPath, req.Locked, req.Offset, req.Limit, out); err != nil {
		e := mgmterror.NewOperationFailedApplicationError()
		e.Message = err.Error()
		return Result{}, e
	}
	return Result{UsedCallback: true}, nil
}

// rewriteXPath appends the position()-bounding predicate spec.md §4.G
// describes, omitting a bound that is zero. This composition is known
// to be unsound when target already carries a trailing predicate of its
// own (see the pagination note in DESIGN.md); callers that need pagination
// composed with an existing filter predicate should prefer applying the
// Request as a structured post-filter instead of trusting the rewrite.
func rewriteXPath(xpath string, offset, limit int) string {
	if offset == 0 && limit == 0 {
		return xpath
	}
	if offset == 0 {
		return fmt.Sprintf("%s[position() < %d]", xpath, limit+1)
	}
	if limit == 0 {
		return fmt.Sprintf("%s[%d <= position()]", xpath, offset+1)
	}
	return fmt.Sprintf("%s[%d <= position() and position() < %d]", xpath, offset+1, offset+limit+1)
}

func newInvalidValueError(msg string) error {
	e := mgmterror.NewInvalidValueApplicationError()
	e.Message = msg
	return e
}

// pathSegments splits an absolute XPath into the plain segments the
// schema/errors.go path-reporting constructors expect, for diagnostics
// only; it makes no attempt to strip predicates or prefixes the way a
// real path resolver would.
func pathSegments(xpath string) []string {
	trimmed := strings.TrimPrefix(xpath, "/")
	if trimmed == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(trimmed, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
