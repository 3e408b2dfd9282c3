// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package nacm

import (
	"testing"

	"github.com/danos/ncqueryd/tree"
)

type denyByName struct {
	denied map[string]bool
}

func (d denyByName) DatanodeRead(root, node *tree.Node, selected []*tree.Node, user string) bool {
	return !d.denied[node.Local]
}

func buildDoc() *tree.Node {
	root := tree.NewElement("iface", "")
	pw := tree.NewElement("secret-key", "")
	pw.AppendChild(tree.NewText("hunter2"))
	name := tree.NewElement("name", "")
	name.AppendChild(tree.NewText("eth0"))
	root.AppendChild(name)
	root.AppendChild(pw)
	return root
}

func TestGateNilCachePermitsAll(t *testing.T) {
	root := buildDoc()
	Gate(nil, root, nil, "alice")
	if len(root.ElementChildren()) != 2 {
		t.Fatalf("expected nil cache to leave the tree untouched")
	}
}

func TestGatePrunesDeniedNodes(t *testing.T) {
	root := buildDoc()
	cache := denyByName{denied: map[string]bool{"secret-key": true}}
	Gate(cache, root, nil, "alice")

	for _, c := range root.ElementChildren() {
		if c.Local == "secret-key" {
			t.Fatalf("expected denied node to be pruned")
		}
	}
	if len(root.ElementChildren()) != 1 {
		t.Fatalf("expected the permitted sibling to survive, got %d children", len(root.ElementChildren()))
	}
}

func TestGateDecisionVariesPerNode(t *testing.T) {
	root := buildDoc()
	var seen []string
	cache := recordingCache{seen: &seen}
	Gate(cache, root, nil, "alice")
	if len(seen) != 2 || seen[0] == seen[1] {
		t.Fatalf("expected DatanodeRead to be consulted once per distinct child, got %v", seen)
	}
}

type recordingCache struct {
	seen *[]string
}

func (r recordingCache) DatanodeRead(root, node *tree.Node, selected []*tree.Node, user string) bool {
	*r.seen = append(*r.seen, node.Local)
	return true
}
