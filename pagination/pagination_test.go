// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package pagination

import (
	"errors"
	"testing"

	"github.com/danos/ncqueryd/schema"
	"github.com/danos/ncqueryd/schema/schematest"
	"github.com/danos/ncqueryd/tree"
)

func TestPlanRejectsNilTarget(t *testing.T) {
	_, err := Plan(Request{TargetXPath: "/a/bogus"}, nil, nil, nil)
	if err == nil {
		t.Fatalf("expected error pagination against an unresolved target")
	}
}

func TestPlanRejectsNonListTarget(t *testing.T) {
	leaf := &schematest.Node{Kw: schema.Leaf, NodeName: "mtu", Cfg: true}
	_, err := Plan(Request{TargetXPath: "/a/mtu", Offset: 0, Limit: 10}, leaf, nil, nil)
	if err == nil {
		t.Fatalf("expected error pagination a non-list target")
	}
}

func TestPlanRejectsNonconfigAgainstConfigList(t *testing.T) {
	list := &schematest.Node{Kw: schema.List, NodeName: "iface", Cfg: true}
	_, err := Plan(Request{TargetXPath: "/a/iface", ContentNonconfig: true}, list, nil, nil)
	if err == nil {
		t.Fatalf("expected error pagination content=nonconfig against a config list")
	}
}

func TestPlanConfigListRewritesXPath(t *testing.T) {
	list := &schematest.Node{Kw: schema.List, NodeName: "iface", Cfg: true}
	p, err := Plan(Request{TargetXPath: "/a/iface", Offset: 2, Limit: 5}, list, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "/a/iface[3 <= position() and position() < 8]"
	if p.RewrittenXPath != want {
		t.Fatalf("got %q, want %q", p.RewrittenXPath, want)
	}
	if p.UsedCallback {
		t.Fatalf("config list pagination must not report UsedCallback")
	}
}

func TestPlanConfigListNoBoundsLeavesXPathUnchanged(t *testing.T) {
	list := &schematest.Node{Kw: schema.List, NodeName: "iface", Cfg: true}
	p, err := Plan(Request{TargetXPath: "/a/iface"}, list, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.RewrittenXPath != "/a/iface" {
		t.Fatalf("expected unbounded request to leave xpath untouched, got %q", p.RewrittenXPath)
	}
}

func TestPlanStateListInvokesCallback(t *testing.T) {
	list := &schematest.Node{Kw: schema.List, NodeName: "session", Cfg: false}
	out := tree.NewElement("sessions", "")

	var gotXPath string
	var gotOffset, gotLimit int
	cb := func(xpath string, locked bool, offset, limit int, dest *tree.Node) error {
		gotXPath, gotOffset, gotLimit = xpath, offset, limit
		dest.AppendChild(tree.NewElement("session", ""))
		return nil
	}

	p, err := Plan(Request{TargetXPath: "/a/session", Offset: 1, Limit: 2}, list, cb, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.UsedCallback {
		t.Fatalf("expected state list pagination to report UsedCallback")
	}
	if gotXPath != "/a/session" || gotOffset != 1 || gotLimit != 2 {
		t.Fatalf("callback got unexpected args: %q %d %d", gotXPath, gotOffset, gotLimit)
	}
	if len(out.ElementChildren()) != 1 {
		t.Fatalf("expected callback's appended entry to be visible via out")
	}
}

func TestPlanStateListPropagatesCallbackError(t *testing.T) {
	list := &schematest.Node{Kw: schema.List, NodeName: "session", Cfg: false}
	cb := func(xpath string, locked bool, offset, limit int, dest *tree.Node) error {
		return errors.New("backend unavailable")
	}
	_, err := Plan(Request{TargetXPath: "/a/session"}, list, cb, tree.NewElement("sessions", ""))
	if err == nil {
		t.Fatalf("expected callback error to propagate")
	}
}

func TestPlanStateListRequiresCallback(t *testing.T) {
	list := &schematest.Node{Kw: schema.List, NodeName: "session", Cfg: false}
	_, err := Plan(Request{TargetXPath: "/a/session"}, list, nil, tree.NewElement("sessions", ""))
	if err == nil {
		t.Fatalf("expected error when no state callback is registered")
	}
}
