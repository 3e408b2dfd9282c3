// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// Copyright (c) 2015-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package tree implements the in-memory XML document tree that the query
// pipeline reads, filters, and serialises. Nodes are either elements,
// attributes, or text; an element owns its children exclusively, and the
// back-reference to its parent is a lookup only, never ownership.
package tree

import (
	"github.com/danos/ncqueryd/schema"
)

// Kind distinguishes the three node shapes the pipeline deals with.
type Kind int

const (
	Element Kind = iota
	Attribute
	Text
)

func (k Kind) String() string {
	switch k {
	case Element:
		return "element"
	case Attribute:
		return "attribute"
	case Text:
		return "text"
	}
	return "unknown"
}

// Flag is a scratch bit on a node. MARK is used by the tree filter to
// record XPath-selected nodes and is cleared before and after every
// top-level operation; DEFAULT records that a node was synthesized by
// the with-defaults pass rather than present in the datastore, or (set
// by treefilter.MarkSchemaDefault) that its body equals its schema
// default.
type Flag uint8

const (
	MARK Flag = 1 << iota
	DEFAULT
)

// Node is an element, attribute, or text node in the document tree.
// The zero value is not valid; use NewElement/NewAttribute/NewText.
type Node struct {
	Kind   Kind
	Local  string // local name; unused for Text nodes
	Prefix string // namespace prefix in scope at this node, "" for default

	Body string // text body for Text/Attribute/leaf Element nodes

	parent   *Node
	children []*Node

	// Schema is a non-owning back-reference to the schema node bound to
	// this element, if schema validation is in play. Nil is legal: it
	// means "no schema binding for this node".
	Schema schema.Node

	flags Flag
}

// NewElement creates an element with the given local name and prefix.
// It has no parent until inserted via AppendChild.
func NewElement(local, prefix string) *Node {
	return &Node{Kind: Element, Local: local, Prefix: prefix}
}

// NewText creates a standalone text node carrying body.
func NewText(body string) *Node {
	return &Node{Kind: Text, Body: body}
}

// NewAttribute creates a standalone attribute node.
func NewAttribute(local, prefix, body string) *Node {
	return &Node{Kind: Attribute, Local: local, Prefix: prefix, Body: body}
}

// Parent returns the owning element, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the element's owned children in document order.
// Callers must not mutate the returned slice.
func (n *Node) Children() []*Node { return n.children }

// AppendChild adds child as the last child of n, taking ownership of it
// and fixing up its parent pointer. A child may only be owned by one
// parent at a time; re-parenting detaches it from its previous parent's
// child list first.
func (n *Node) AppendChild(child *Node) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from n's child list. It is a no-op if
// child is not currently a child of n.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Attributes returns the subset of children that are attribute nodes.
func (n *Node) Attributes() []*Node {
	var attrs []*Node
	for _, c := range n.children {
		if c.Kind == Attribute {
			attrs = append(attrs, c)
		}
	}
	return attrs
}

// ElementChildren returns the subset of children that are elements.
func (n *Node) ElementChildren() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Kind == Element {
			out = append(out, c)
		}
	}
	return out
}

// Attr returns the value and presence of an attribute matching local
// name (ignoring prefix), used for reading request parameters such as
// depth, and the filter's type and select, out of the request element.
func (n *Node) Attr(local string) (string, bool) {
	for _, c := range n.children {
		if c.Kind == Attribute && c.Local == local {
			return c.Body, true
		}
	}
	return "", false
}

// SetAttr sets (replacing if present) an attribute with the given local
// name, prefix and value.
func (n *Node) SetAttr(local, prefix, value string) {
	for _, c := range n.children {
		if c.Kind == Attribute && c.Local == local {
			c.Body = value
			c.Prefix = prefix
			return
		}
	}
	n.AppendChild(NewAttribute(local, prefix, value))
}

// Root walks parent pointers up to the topmost element.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Mark sets flag on n.
func (n *Node) Mark(flag Flag) { n.flags |= flag }

// Unmark clears flag on n.
func (n *Node) Unmark(flag Flag) { n.flags &^= flag }

// Has reports whether flag is set on n.
func (n *Node) Has(flag Flag) bool { return n.flags&flag != 0 }

// Value returns a node's string body: its own for Text/Attribute nodes,
// or the concatenation of all descendant text for Element nodes, per
// XPath 1.0's string-value of a node (§5).
func (n *Node) Value() string {
	if n.Kind == Text || n.Kind == Attribute {
		return n.Body
	}
	var out string
	for _, c := range n.children {
		switch c.Kind {
		case Text:
			out += c.Body
		case Element:
			out += c.Value()
		}
	}
	if out == "" {
		return n.Body
	}
	return out
}

// ResetFlag clears flag across the subtree rooted at n, depth-first.
// This is the scratch-flag teardown the pipeline runs on every exit
// path so that MARK never leaks between requests (spec invariant: the
// MARK flag is zero before and after every top-level operation).
func ResetFlag(root *Node, flag Flag) {
	root.Unmark(flag)
	for _, c := range root.children {
		ResetFlag(c, flag)
	}
}

// Walk calls fn for root and then, depth-first, for every descendant
// element. fn returning false stops descent into that node's children
// but does not stop the overall walk.
func Walk(root *Node, fn func(*Node) bool) {
	if !fn(root) {
		return
	}
	for _, c := range root.ElementChildren() {
		Walk(c, fn)
	}
}

// Clone deep-copies the subtree rooted at n, including attributes and
// flags, with fresh parent pointers. The schema back-reference is
// copied as-is since it is non-owning.
func Clone(n *Node) *Node {
	clone := &Node{
		Kind:   n.Kind,
		Local:  n.Local,
		Prefix: n.Prefix,
		Body:   n.Body,
		Schema: n.Schema,
		flags:  n.flags,
	}
	for _, c := range n.children {
		clone.AppendChild(Clone(c))
	}
	return clone
}
