// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package query

import (
	"context"
	"testing"

	"github.com/danos/ncqueryd/schema"
	"github.com/danos/ncqueryd/schema/schematest"
	"github.com/danos/ncqueryd/tree"
)

type fakeDatastore struct {
	root   func() *tree.Node
	locked bool
}

func (f *fakeDatastore) Read(ctx context.Context, name, xpathFilter string) (*tree.Node, error) {
	return f.root(), nil
}

func (f *fakeDatastore) IsLocked(name string) bool { return f.locked }

func buildRunningConfig() *tree.Node {
	data := tree.NewElement("data", "")
	iface := tree.NewElement("interfaces", "")
	eth0 := tree.NewElement("interface", "")
	name := tree.NewElement("name", "")
	name.AppendChild(tree.NewText("eth0"))
	eth0.AppendChild(name)
	iface.AppendChild(eth0)
	data.AppendChild(iface)
	return data
}

func newTestHandler(ds Datastore) *Handler {
	return &Handler{Datastore: ds}
}

func opElement(children ...*tree.Node) *tree.Node {
	op := tree.NewElement("get-config", "")
	for _, c := range children {
		op.AppendChild(c)
	}
	return op
}

func TestHandleReturnsWholeDatastoreWithoutFilter(t *testing.T) {
	ds := &fakeDatastore{root: buildRunningConfig}
	h := newTestHandler(ds)

	data, err := h.Handle(context.Background(), Request{Op: opElement(), Source: "running"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.ElementChildren()) != 1 || data.ElementChildren()[0].Local != "interfaces" {
		t.Fatalf("expected the unfiltered config tree back, got %+v", data)
	}
}

func TestHandleXPathFilterNarrowsReply(t *testing.T) {
	ds := &fakeDatastore{root: buildRunningConfig}
	h := newTestHandler(ds)

	filter := tree.NewElement("filter", "")
	filter.SetAttr("type", "", "xpath")
	filter.SetAttr("select", "", "//name")

	data, err := h.Handle(context.Background(), Request{Op: opElement(filter), Source: "running"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var found bool
	tree.Walk(data, func(n *tree.Node) bool {
		if n.Local == "name" {
			found = true
		}
		return true
	})
	if !found {
		t.Fatalf("expected the selected 'name' leaf to survive pruning")
	}
}

func TestHandleRejectsUnparsableSelect(t *testing.T) {
	ds := &fakeDatastore{root: buildRunningConfig}
	h := newTestHandler(ds)

	filter := tree.NewElement("filter", "")
	filter.SetAttr("type", "", "xpath")
	filter.SetAttr("select", "", "a b")

	_, err := h.Handle(context.Background(), Request{Op: opElement(filter), Source: "running"})
	if err == nil {
		t.Fatalf("expected an error for an unparsable select expression")
	}
}

func TestHandleRejectsInvalidDepth(t *testing.T) {
	ds := &fakeDatastore{root: buildRunningConfig}
	h := newTestHandler(ds)

	op := opElement()
	op.SetAttr("depth", "", "-5")

	_, err := h.Handle(context.Background(), Request{Op: op, Source: "running"})
	if err == nil {
		t.Fatalf("expected an error for depth < -1")
	}
}

func TestHandleResolvesListPaginationTargetSchema(t *testing.T) {
	ifaceListSch := &schematest.Node{Kw: schema.List, NodeName: "interface", Cfg: true, KeyNames: []string{"name"}}
	ifacesSch := &schematest.Node{Kw: schema.Container, NodeName: "interfaces", Cfg: true, Kids: []*schematest.Node{ifaceListSch}}
	rootSch := &schematest.Node{Kw: schema.Container, NodeName: "data", Cfg: true, Kids: []*schematest.Node{ifacesSch}}

	var gotXPath string
	ds := &fakeDatastore{root: func() *tree.Node {
		return tree.NewElement("data", "")
	}}
	dsRecording := &recordingDatastore{fakeDatastore: ds, seenXPath: &gotXPath}

	h := &Handler{Datastore: dsRecording, RootSchema: rootSch}

	filter := tree.NewElement("filter", "")
	filter.SetAttr("type", "", "xpath")
	filter.SetAttr("select", "", "/interfaces/interface")

	pg := tree.NewElement("list-pagination", "")
	offset := tree.NewElement("offset", "")
	offset.AppendChild(tree.NewText("2"))
	limit := tree.NewElement("limit", "")
	limit.AppendChild(tree.NewText("5"))
	pg.AppendChild(offset)
	pg.AppendChild(limit)

	_, err := h.Handle(context.Background(), Request{Op: opElement(filter, pg), Source: "running"})
	if err != nil {
		t.Fatalf("expected list-pagination against a resolvable target to succeed, got: %v", err)
	}
	want := "/interfaces/interface[3 <= position() and position() < 8]"
	if gotXPath != want {
		t.Fatalf("expected the rewritten xpath to reach the datastore, got %q want %q", gotXPath, want)
	}
}

type recordingDatastore struct {
	*fakeDatastore
	seenXPath *string
}

func (r *recordingDatastore) Read(ctx context.Context, name, xpathFilter string) (*tree.Node, error) {
	*r.seenXPath = xpathFilter
	return r.fakeDatastore.Read(ctx, name, xpathFilter)
}

// TestHandleAppliesDepthTrim mirrors the worked example of a/b/c/d with
// depth=2: only a and b should survive, with b left childless.
func TestHandleAppliesDepthTrim(t *testing.T) {
	ds := &fakeDatastore{root: func() *tree.Node {
		data := tree.NewElement("data", "")
		a := tree.NewElement("a", "")
		b := tree.NewElement("b", "")
		c := tree.NewElement("c", "")
		d := tree.NewElement("d", "")
		c.AppendChild(d)
		b.AppendChild(c)
		a.AppendChild(b)
		data.AppendChild(a)
		return data
	}}
	h := newTestHandler(ds)

	op := opElement()
	op.SetAttr("depth", "", "2")

	data, err := h.Handle(context.Background(), Request{Op: op, Source: "running"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.ElementChildren()) != 1 || data.ElementChildren()[0].Local != "a" {
		t.Fatalf("expected <a> to survive depth=2, got %+v", data)
	}
	a := data.ElementChildren()[0]
	if len(a.ElementChildren()) != 1 || a.ElementChildren()[0].Local != "b" {
		t.Fatalf("expected <a> to keep its child <b> at depth=2, got %+v", a)
	}
	b := a.ElementChildren()[0]
	if len(b.ElementChildren()) != 0 {
		t.Fatalf("expected <b>'s children to be trimmed at depth=2, got %+v", b)
	}
}

