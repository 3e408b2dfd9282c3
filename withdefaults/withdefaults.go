// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// Copyright (c) 2015-2016 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package withdefaults implements the four RFC 6243 with-defaults reply
// modes against a tree.Node document: report-all, explicit, trim, and
// report-all-tagged.
package withdefaults

import (
	"github.com/danos/ncqueryd/schema"
	"github.com/danos/ncqueryd/tree"
	"github.com/danos/ncqueryd/treefilter"
)

// Mode is a with-defaults reply mode, parsed from the request's
// with-defaults element body.
type Mode int

const (
	ReportAll Mode = iota
	Explicit
	Trim
	ReportAllTagged
)

// ParseMode maps an RFC 6243 with-defaults body string to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "report-all":
		return ReportAll, true
	case "explicit":
		return Explicit, true
	case "trim":
		return Trim, true
	case "report-all-tagged":
		return ReportAllTagged, true
	}
	return 0, false
}

const (
	wdPrefix = "wd"
	wdNS     = "urn:ietf:params:xml:ns:netconf:default:1.0"
)

// FillDefaults adds missing default-valued children of x's schema that
// are absent from the data, recursively, before the with-defaults mode
// is applied; this is what lets "report-all" and "report-all-tagged"
// surface defaults the datastore never stored explicitly.
func FillDefaults(x *tree.Node) {
	if x.Schema == nil {
		return
	}
	seen := make(map[string]bool)
	for _, c := range x.ElementChildren() {
		seen[c.Local] = true
		FillDefaults(c)
	}
	for _, def := range schema.DefaultChildren(x.Schema) {
		if seen[def.Name()] {
			continue
		}
		x.AppendChild(createDefault(def))
	}
}

func createDefault(sch schema.Node) *tree.Node {
	n := tree.NewElement(sch.Name(), "")
	n.Schema = sch
	n.Mark(tree.DEFAULT)

	if sch.Keyword() == schema.Leaf {
		if val, ok := sch.Default(); ok {
			n.AppendChild(tree.NewText(val))
		}
		return n
	}
	for _, c := range schema.DefaultChildren(sch) {
		n.AppendChild(createDefault(c))
	}
	return n
}

// Apply runs mode against root, per spec.md §4.F. It assumes FillDefaults
// has already been run and treefilter.MarkSchemaDefault-style tagging
// has not yet happened; Apply performs its own marking passes as each
// mode requires, then resets the scratch flags it used before returning.
func Apply(root *tree.Node, mode Mode) {
	switch mode {
	case ReportAll:
		// Leave tree as-is.

	case Explicit:
		treefilter.ResetFlag(root, tree.MARK)
		treefilter.MarkNonconfig(root)
		dropExplicitDefaults(root)
		treefilter.ResetFlag(root, tree.MARK)

	case Trim:
		dropFlaggedDefault(root)
		markAndDropSchemaDefaults(root)

	case ReportAllTagged:
		declareWdNamespace(root)
		markSchemaDefaults(root)
		tagDefaults(root)
		treefilter.ResetFlag(root, tree.DEFAULT)
	}
}

// dropExplicitDefaults removes nodes that carry tree.DEFAULT and are not
// part of the non-config (MARK-ed by MarkNonconfig) subtree: explicit
// mode reports state defaults but hides config defaults the client never
// set.
func dropExplicitDefaults(n *tree.Node) {
	for _, c := range append([]*tree.Node(nil), n.ElementChildren()...) {
		dropExplicitDefaults(c)
		if c.Has(tree.DEFAULT) && !c.Has(tree.MARK) {
			n.RemoveChild(c)
		}
	}
}

func dropFlaggedDefault(n *tree.Node) {
	for _, c := range append([]*tree.Node(nil), n.ElementChildren()...) {
		if c.Has(tree.DEFAULT) {
			n.RemoveChild(c)
			continue
		}
		dropFlaggedDefault(c)
	}
}

func markAndDropSchemaDefaults(n *tree.Node) {
	for _, c := range append([]*tree.Node(nil), n.ElementChildren()...) {
		markAndDropSchemaDefaults(c)
		treefilter.MarkSchemaDefault(c)
		if c.Has(tree.DEFAULT) {
			n.RemoveChild(c)
		}
	}
	treefilter.ResetFlag(n, tree.DEFAULT)
}

func markSchemaDefaults(n *tree.Node) {
	treefilter.MarkSchemaDefault(n)
	for _, c := range n.ElementChildren() {
		markSchemaDefaults(c)
	}
}

func declareWdNamespace(root *tree.Node) {
	root.SetAttr(wdPrefix, "xmlns", wdNS)
}

func tagDefaults(n *tree.Node) {
	for _, c := range n.ElementChildren() {
		if c.Has(tree.DEFAULT) || c.Has(tree.MARK) {
			c.SetAttr("default", wdPrefix, "true")
		}
		tagDefaults(c)
	}
}
