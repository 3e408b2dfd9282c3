// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// Copyright (c) 2016 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package treefilter marks, prunes, and restores a tree.Node document to
// the subset selected by an XPath result, keeping exactly the nodes on
// the path to a selected node and the list-entry keys alongside them.
package treefilter

import "github.com/danos/ncqueryd/schema"
import "github.com/danos/ncqueryd/tree"

// Mark sets tree.MARK on every node in nodes, and on every ancestor up
// to and including the root, so PruneUnmarked keeps the whole
// selection path rather than just the leaves the XPath result pointed
// at.
func Mark(nodes []*tree.Node) {
	for _, n := range nodes {
		for cur := n; cur != nil; cur = cur.Parent() {
			if cur.Has(tree.MARK) {
				break
			}
			cur.Mark(tree.MARK)
		}
	}
}

// PruneUnmarked retains every node that is marked or has a marked
// descendant, and removes the rest, bottom-up; root itself is never
// removed. A surviving ListEntry always keeps its key leaves, even when
// those leaves are themselves unmarked, since a list entry without its
// keys can't be identified in the reply.
func PruneUnmarked(root *tree.Node) {
	pruneChildren(root)
}

func pruneChildren(n *tree.Node) {
	original := append([]*tree.Node(nil), n.ElementChildren()...)

	for _, c := range original {
		pruneChildren(c)
	}

	var keyNames map[string]bool
	if n.Schema != nil && n.Schema.Keyword() == schema.ListEntry {
		keyNames = make(map[string]bool)
		for _, k := range n.Schema.Keys() {
			keyNames[k] = true
		}
	}

	for _, c := range original {
		if keep(c) || keyNames[c.Local] {
			continue
		}
		n.RemoveChild(c)
	}
}

func keep(n *tree.Node) bool {
	return hasMarkedDescendant(n)
}

func hasMarkedDescendant(n *tree.Node) bool {
	if n.Has(tree.MARK) {
		return true
	}
	for _, c := range n.ElementChildren() {
		if hasMarkedDescendant(c) {
			return true
		}
	}
	return false
}

// ResetFlag clears flag across the whole subtree rooted at root.
func ResetFlag(root *tree.Node, flag tree.Flag) {
	tree.ResetFlag(root, flag)
}

// MarkNonconfig marks every element whose schema node is config false,
// or whose ancestor-or-self has no config-true path: once an ancestor is
// non-config, every descendant is non-config too regardless of its own
// classification.
func MarkNonconfig(root *tree.Node) {
	markNonconfig(root, false)
}

func markNonconfig(n *tree.Node, ancestorNonconfig bool) {
	nonconfig := ancestorNonconfig
	if n.Schema != nil && !n.Schema.Config() {
		nonconfig = true
	}
	if nonconfig {
		n.Mark(tree.MARK)
	}
	for _, c := range n.ElementChildren() {
		markNonconfig(c, nonconfig)
	}
}

// MarkSchemaDefault marks x with tree.DEFAULT iff its text body equals
// its schema node's default value.
func MarkSchemaDefault(x *tree.Node) {
	if x.Schema == nil {
		return
	}
	def, ok := x.Schema.Default()
	if !ok {
		return
	}
	if x.Value() == def {
		x.Mark(tree.DEFAULT)
	}
}

// PruneEmptyContainers removes element children that are non-presence
// containers with no remaining element children, recursively,
// bottom-up. This is the "empty containers MAY be removed" step applied
// after tree filtering and again after with-defaults processing.
func PruneEmptyContainers(n *tree.Node) {
	for _, c := range append([]*tree.Node(nil), n.ElementChildren()...) {
		PruneEmptyContainers(c)
		if c.Schema == nil || c.Schema.Keyword() != schema.Container {
			continue
		}
		if c.Schema.HasPresence() {
			continue
		}
		if len(c.ElementChildren()) == 0 {
			n.RemoveChild(c)
		}
	}
}
