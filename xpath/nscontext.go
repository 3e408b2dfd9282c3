// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// Copyright (c) 2015-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package xpath

import "github.com/danos/ncqueryd/tree"

// NSContext is an ordered sequence of (prefix, URI) pairs in scope at a
// specific XML element. Prefix "" denotes the default namespace.
type NSContext struct {
	entries []nsEntry
}

type nsEntry struct {
	prefix, uri string
}

// NewNSContext returns an empty namespace context.
func NewNSContext() *NSContext {
	return &NSContext{}
}

// Declare adds a (prefix, uri) binding. Earlier declarations of the same
// prefix take precedence (nearest-ancestor-wins, see DeriveFromElement),
// so Declare is a no-op if prefix is already bound.
func (nsc *NSContext) Declare(prefix, uri string) {
	if _, ok := nsc.Lookup(prefix); ok {
		return
	}
	nsc.entries = append(nsc.entries, nsEntry{prefix, uri})
}

// Lookup returns the URI bound to prefix, and whether a binding exists.
func (nsc *NSContext) Lookup(prefix string) (string, bool) {
	if nsc == nil {
		return "", false
	}
	for _, e := range nsc.entries {
		if e.prefix == prefix {
			return e.uri, true
		}
	}
	return "", false
}

// namespaceDeclAttr reports whether an attribute node is an xmlns
// declaration, and if so the prefix it binds ("" for the default
// namespace) and the URI.
//
// By convention elsewhere in this tree, a default-namespace declaration
// is represented as an attribute with Local=="xmlns", Prefix=="", and a
// prefixed declaration ("xmlns:t") as Local=="t", Prefix=="xmlns".
func namespaceDeclAttr(attr *tree.Node) (prefix, uri string, ok bool) {
	if attr.Kind != tree.Attribute {
		return "", "", false
	}
	if attr.Prefix == "xmlns" {
		return attr.Local, attr.Body, true
	}
	if attr.Prefix == "" && attr.Local == "xmlns" {
		return "", attr.Body, true
	}
	return "", "", false
}

// DeriveFromElement walks ancestors of node (starting at node itself)
// collecting xmlns/xmlns:p declarations, nearest wins. This is the
// namespace context "visible at the element that carried the XPath
// literal" that spec.md §3's invariant requires evaluation to use.
func DeriveFromElement(node *tree.Node) *NSContext {
	nsc := NewNSContext()
	for n := node; n != nil; n = n.Parent() {
		if n.Kind != tree.Element {
			continue
		}
		for _, attr := range n.Attributes() {
			if prefix, uri, ok := namespaceDeclAttr(attr); ok {
				nsc.Declare(prefix, uri)
			}
		}
	}
	return nsc
}
