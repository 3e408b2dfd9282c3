// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// Copyright (c) 2015-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package query implements the <get>/<get-config> handler: component H
// of the pipeline, composing namespace resolution, XPath selection,
// datastore reads, state aggregation, defaults processing, tree
// pruning, and the NACM gate into a single reply.
package query

import (
	"context"
	"strconv"
	"strings"

	"github.com/danos/mgmterror"
	"github.com/sirupsen/logrus"

	"github.com/danos/ncqueryd/nacm"
	"github.com/danos/ncqueryd/pagination"
	"github.com/danos/ncqueryd/schema"
	"github.com/danos/ncqueryd/treefilter"
	"github.com/danos/ncqueryd/tree"
	"github.com/danos/ncqueryd/withdefaults"
	"github.com/danos/ncqueryd/xpath"
)

// ContentClass is the "content" extension to <get>: which classification
// of data a request wants back.
type ContentClass int

const (
	ContentBoth ContentClass = iota
	ContentConfigOnly
	ContentStateOnly
)

// Datastore is the read-only configuration snapshot collaborator (out of
// scope per spec.md §1): it hands back a tree for a named candidate
// database, optionally narrowed by an already-rewritten XPath (used by
// the config-list pagination branch).
type Datastore interface {
	Read(ctx context.Context, name string, xpathFilter string) (*tree.Node, error)
	IsLocked(name string) bool
}

// StateAggregator is the plugin-host collaborator that merges live state
// data into a config tree and returns the augmented tree, or an error if
// the state read failed.
type StateAggregator interface {
	Merge(ctx context.Context, base *tree.Node) (*tree.Node, error)
}

// Options carries the configuration flags spec.md §6 names.
type Options struct {
	StreamDiscoveryRFC5277 bool
	StreamDiscoveryRFC8040 bool
	YangLibrary            bool
	ValidateStateXML       bool
}

// Handler implements the shared get/get-config procedure.
type Handler struct {
	Datastore   Datastore
	State       StateAggregator
	NACM        nacm.Cache
	Options     Options
	Log         *logrus.Entry
	Pagination  pagination.StateCallback
	RootSchema  schema.Node
}

// Request is the already-parsed op element plus the source database
// name (empty for <get>, the <source> child's datastore for
// <get-config>) and the requesting user.
type Request struct {
	Op      *tree.Node
	Source  string // "running", "candidate", ... ("" for <get>)
	User    string
	Content ContentClass
}

// Handle runs the 13-step procedure of spec.md §4.H and returns the
// populated <data> element on success.
func (h *Handler) Handle(ctx context.Context, req Request) (*tree.Node, error) {
	filterEl := findFilterElement(req.Op)

	var selectXPath string
	var nsc *xpath.NSContext
	if filterEl != nil {
		if typ, ok := filterEl.Attr("type"); ok && typ == "xpath" {
			sel, ok := filterEl.Attr("select")
			if !ok {
				sel = ""
			}
			selectXPath = sel
			nsc = xpath.DeriveFromElement(filterEl)
			if _, err := xpath.Parse(selectXPath); err != nil {
				return nil, badAttribute("select")
			}
		}
	}

	depth := -1
	if s, ok := req.Op.Attr("depth"); ok {
		d, err := strconv.Atoi(s)
		if err != nil || d < -1 {
			return nil, badAttribute("depth")
		}
		depth = d
	}

	if pg := findPaginationElement(req.Op); pg != nil {
		return h.handlePagination(ctx, req, pg, selectXPath, nsc)
	}

	datastoreName := req.Source
	if datastoreName == "" {
		datastoreName = "running"
	}

	var data *tree.Node
	var err error
	switch req.Content {
	case ContentStateOnly:
		if h.Options.ValidateStateXML {
			data, err = h.Datastore.Read(ctx, "running", "")
		} else {
			data = tree.NewElement("data", "")
		}
	default:
		data, err = h.Datastore.Read(ctx, datastoreName, "")
	}
	if err != nil {
		return nil, datastoreFailed(err)
	}

	if req.Content != ContentConfigOnly && h.State != nil {
		data, err = h.State.Merge(ctx, data)
		if err != nil {
			return nil, stateFailed(err)
		}
	}

	withdefaults.FillDefaults(data)
	mode := withdefaults.ReportAll
	if wd, ok := childText(req.Op, "with-defaults"); ok {
		if m, ok := withdefaults.ParseMode(wd); ok {
			mode = m
		}
	}
	withdefaults.Apply(data, mode)
	treefilter.PruneEmptyContainers(data)

	if req.Content == ContentStateOnly {
		treefilter.ResetFlag(data, tree.MARK)
		treefilter.MarkNonconfig(data)
		treefilter.PruneUnmarked(data)
		treefilter.ResetFlag(data, tree.MARK)
	}

	var selected []*tree.Node
	if selectXPath != "" {
		expr, err := xpath.Parse(selectXPath)
		if err != nil {
			return nil, badAttribute("select")
		}
		result := xpath.Eval(xpath.NewContext(data), expr, nsc)
		selected = result.NodeSet

		treefilter.Mark(selected)
		treefilter.PruneUnmarked(data)
		treefilter.ResetFlag(data, tree.MARK)
		treefilter.PruneEmptyContainers(data)
	} else {
		selected = []*tree.Node{data}
	}

	nacm.Gate(h.NACM, data, selected, req.User)

	if depth > 0 {
		applyDepth(data, depth)
	}

	return data, nil
}

func (h *Handler) handlePagination(
	ctx context.Context,
	req Request,
	pg *tree.Node,
	targetXPath string,
	nsc *xpath.NSContext,
) (*tree.Node, error) {
	offset, limit := 0, 0
	if off, ok := childText(pg, "offset"); ok && off != "none" {
		v, err := strconv.Atoi(off)
		if err != nil || v < 0 {
			return nil, badAttribute("direction")
		}
		offset = v
	}
	if lim, ok := childText(pg, "limit"); ok && lim != "unbounded" {
		v, err := strconv.Atoi(lim)
		if err != nil || v < 0 {
			return nil, badAttribute("direction")
		}
		limit = v
	}

	var target schema.Node
	if h.RootSchema != nil {
		target = resolveTargetSchema(h.RootSchema, targetXPath)
	}

	data := tree.NewElement("data", "")

	locked := false
	if h.Datastore != nil {
		locked = h.Datastore.IsLocked("running")
	}

	plan, err := pagination.Plan(pagination.Request{
		TargetXPath:      targetXPath,
		Offset:           offset,
		Limit:            limit,
		ContentNonconfig: req.Content == ContentStateOnly,
		Locked:           locked,
	}, target, h.Pagination, data)
	if err != nil {
		return nil, err
	}

	if plan.UsedCallback {
		if target != nil {
			bindSchema(data, target)
		}
		return data, nil
	}

	datastoreName := req.Source
	if datastoreName == "" {
		datastoreName = "running"
	}
	result, err := h.Datastore.Read(ctx, datastoreName, plan.RewrittenXPath)
	if err != nil {
		return nil, datastoreFailed(err)
	}
	return result, nil
}

// resolveTargetSchema walks root down to the schema.Node a simple
// absolute pagination target XPath names, one schema.Node.Child lookup
// per path step. It only understands the shape list-pagination targets
// actually take: a plain absolute path of QNames, each optionally
// carrying a predicate or a namespace prefix, neither of which affects
// which child the step names. An axis, wildcard, or relative path
// segment has no schema analogue to walk to, so it resolves to nil,
// same as a path that names a child that isn't there.
func resolveTargetSchema(root schema.Node, xpathStr string) schema.Node {
	cur := root
	for _, step := range pathSteps(xpathStr) {
		if cur == nil {
			return nil
		}
		cur = cur.Child(step)
	}
	return cur
}

// pathSteps splits an absolute XPath like "/a/b:c[key='x']" into its bare
// local-name steps: "a", "c".
func pathSteps(xpathStr string) []string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(xpathStr), "/")
	if trimmed == "" {
		return nil
	}
	var steps []string
	for _, raw := range strings.Split(trimmed, "/") {
		name := raw
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		if i := strings.IndexByte(name, ':'); i >= 0 {
			name = name[i+1:]
		}
		if name == "" {
			continue
		}
		steps = append(steps, name)
	}
	return steps
}

func bindSchema(n *tree.Node, sch schema.Node) {
	n.Schema = sch
}

func findFilterElement(op *tree.Node) *tree.Node {
	for _, c := range op.ElementChildren() {
		if c.Local == "filter" {
			return c
		}
	}
	return nil
}

func findPaginationElement(op *tree.Node) *tree.Node {
	for _, c := range op.ElementChildren() {
		if c.Local == "list-pagination" {
			return c
		}
	}
	return nil
}

func childText(n *tree.Node, local string) (string, bool) {
	for _, c := range n.ElementChildren() {
		if c.Local == local {
			return c.Value(), true
		}
	}
	return "", false
}

// applyDepth removes every element more than depth levels below root.
func applyDepth(root *tree.Node, depth int) {
	trimDepth(root, depth)
}

func trimDepth(n *tree.Node, remaining int) {
	if remaining <= 0 {
		for _, c := range n.ElementChildren() {
			n.RemoveChild(c)
		}
		return
	}
	for _, c := range n.ElementChildren() {
		trimDepth(c, remaining-1)
	}
}

func badAttribute(attr string) error {
	e := mgmterror.NewBadAttributeApplicationError(attr)
	e.Message = "invalid or unparsable " + attr
	return e
}

func datastoreFailed(cause error) error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Message = cause.Error()
	return e
}

func stateFailed(cause error) error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Message = cause.Error()
	return e
}
