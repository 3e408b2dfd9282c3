// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// Copyright (c) 2014-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package schema declares the registry contract the query pipeline reads
// schema nodes through. Compiling YANG modules into this shape is out of
// scope here (it belongs to the schema loader, an external collaborator);
// this package only defines what the loader must hand back.
package schema

// Keyword identifies the YANG statement a Node represents.
type Keyword int

const (
	Container Keyword = iota
	List
	ListEntry
	LeafList
	Leaf
	LeafValue
	Namespace
	AnyData
	Rpc
)

func (k Keyword) String() string {
	switch k {
	case Container:
		return "container"
	case List:
		return "list"
	case ListEntry:
		return "list-entry"
	case LeafList:
		return "leaf-list"
	case Leaf:
		return "leaf"
	case LeafValue:
		return "leaf-value"
	case Namespace:
		return "namespace"
	case AnyData:
		return "anydata"
	case Rpc:
		return "rpc"
	}
	return "unknown"
}

// Node is a single compiled YANG statement as the schema registry hands
// it back: a keyword, an argument (the statement's name), an optional
// default value, and the config/state classification that the tree
// filter and the pagination planner both key off of.
type Node interface {
	// Keyword is this node's YANG statement type.
	Keyword() Keyword

	// Name is the node's local name (the YANG identifier, e.g.
	// "interface", not a path).
	Name() string

	// Namespace is the YANG module namespace URI this node belongs to.
	Namespace() string

	// Config reports the effective "config true|false" classification:
	// true unless this node or an ancestor sets "config false".
	Config() bool

	// Default returns the schema default for a leaf or leaf-list, and
	// whether one is defined at all.
	Default() (string, bool)

	// Child looks up an immediate child schema node by local name.
	// Returns nil if there is no such child (e.g. name is a list key
	// that is represented as a sibling leaf rather than a container
	// child, or name simply isn't a child of this node).
	Child(name string) Node

	// Children returns every immediate child schema node.
	Children() []Node

	// Keys returns the ordered key leaf names for a List/ListEntry
	// node, nil otherwise.
	Keys() []string

	// HasPresence reports whether a Container is a presence container
	// (absence is not equivalent to an empty instance).
	HasPresence() bool
}

// DefaultChildren returns every immediate child of n that carries a
// schema default, used by the with-defaults "fill in absent defaults"
// pass (spec.md §4.H step 7).
func DefaultChildren(n Node) []Node {
	var out []Node
	for _, c := range n.Children() {
		if _, ok := c.Default(); ok {
			out = append(out, c)
			continue
		}
		switch c.Keyword() {
		case Container:
			if !c.HasPresence() && len(DefaultChildren(c)) > 0 {
				out = append(out, c)
			}
		}
	}
	return out
}
