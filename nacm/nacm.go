// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// Copyright (c) 2015-2016 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package nacm implements the post-selection access-control gate: a
// loaded NACM cache may further prune a reply tree down to what user is
// permitted to read; a nil cache means permit-all.
package nacm

import "github.com/danos/ncqueryd/tree"

// Cache is the NACM policy lookup the gate consults. A real
// implementation is owned by the plugin host (out of scope here, per
// spec.md §1); this package only defines the contract and the permit-all
// default.
type Cache interface {
	// DatanodeRead reports whether user may read node, given the
	// reply's root and the full set of nodes the XPath selection
	// recorded (so a policy can condition on "is this node, or an
	// ancestor/descendant of it, part of the selection").
	DatanodeRead(root, node *tree.Node, selected []*tree.Node, user string) bool
}

// Gate applies cache's read policy to root, removing any element user
// isn't permitted to see. A nil cache permits everything and is a no-op.
func Gate(cache Cache, root *tree.Node, selected []*tree.Node, user string) {
	if cache == nil {
		return
	}
	pruneDenied(cache, root, root, selected, user)
}

func pruneDenied(cache Cache, root, n *tree.Node, selected []*tree.Node, user string) {
	for _, c := range append([]*tree.Node(nil), n.ElementChildren()...) {
		if !cache.DatanodeRead(root, c, selected, user) {
			n.RemoveChild(c)
			continue
		}
		pruneDenied(cache, root, c, selected, user)
	}
}
