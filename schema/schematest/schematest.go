// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package schematest provides a minimal in-memory schema.Node
// implementation for tests elsewhere in the module, so packages that
// consume a schema registry don't each need their own fake.
package schematest

import "github.com/danos/ncqueryd/schema"

// Node is a hand-built schema.Node for tests.
type Node struct {
	Kw        schema.Keyword
	NodeName  string
	NS        string
	Cfg       bool
	Def       string
	HasDef    bool
	Presence  bool
	KeyNames  []string
	Kids      []*Node
}

func (n *Node) Keyword() schema.Keyword { return n.Kw }
func (n *Node) Name() string            { return n.NodeName }
func (n *Node) Namespace() string       { return n.NS }
func (n *Node) Config() bool            { return n.Cfg }
func (n *Node) HasPresence() bool       { return n.Presence }
func (n *Node) Keys() []string          { return n.KeyNames }

func (n *Node) Default() (string, bool) {
	return n.Def, n.HasDef
}

func (n *Node) Child(name string) schema.Node {
	for _, c := range n.Kids {
		if c.NodeName == name {
			return c
		}
	}
	return nil
}

func (n *Node) Children() []schema.Node {
	out := make([]schema.Node, len(n.Kids))
	for i, c := range n.Kids {
		out[i] = c
	}
	return out
}
