// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package withdefaults

import (
	"testing"

	"github.com/danos/ncqueryd/schema"
	"github.com/danos/ncqueryd/schema/schematest"
	"github.com/danos/ncqueryd/tree"
)

// buildDoc builds a container "iface" with an explicit "name" leaf and a
// schema-defaulted "mtu" leaf that the datastore never stored.
func buildDoc() *tree.Node {
	mtuSch := &schematest.Node{Kw: schema.Leaf, NodeName: "mtu", Cfg: true, Def: "1500", HasDef: true}
	nameSch := &schematest.Node{Kw: schema.Leaf, NodeName: "name", Cfg: true}
	ifaceSch := &schematest.Node{
		Kw: schema.Container, NodeName: "iface", Cfg: true,
		Kids: []*schematest.Node{nameSch, mtuSch},
	}

	iface := tree.NewElement("iface", "")
	iface.Schema = ifaceSch

	name := tree.NewElement("name", "")
	name.Schema = nameSch
	name.AppendChild(tree.NewText("eth0"))
	iface.AppendChild(name)

	return iface
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"report-all":        ReportAll,
		"explicit":          Explicit,
		"trim":              Trim,
		"report-all-tagged": ReportAllTagged,
	}
	for s, want := range cases {
		got, ok := ParseMode(s)
		if !ok || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v, true", s, got, ok, want)
		}
	}
	if _, ok := ParseMode("bogus"); ok {
		t.Errorf("expected ParseMode to reject an unknown mode string")
	}
}

func TestFillDefaultsAddsMissingDefaultChild(t *testing.T) {
	root := buildDoc()
	FillDefaults(root)

	var mtu *tree.Node
	for _, c := range root.ElementChildren() {
		if c.Local == "mtu" {
			mtu = c
		}
	}
	if mtu == nil {
		t.Fatalf("expected FillDefaults to synthesize the missing 'mtu' default child")
	}
	if mtu.Value() != "1500" || !mtu.Has(tree.DEFAULT) {
		t.Fatalf("expected synthesized default leaf with value 1500 and DEFAULT flag, got %q %v", mtu.Value(), mtu.Has(tree.DEFAULT))
	}
}

func TestApplyTrimDropsDefaultValuedLeaves(t *testing.T) {
	root := buildDoc()
	FillDefaults(root)
	Apply(root, Trim)

	for _, c := range root.ElementChildren() {
		if c.Local == "mtu" {
			t.Fatalf("expected trim mode to drop the default-valued leaf")
		}
	}
}

func TestApplyReportAllTaggedMarksDefaults(t *testing.T) {
	root := buildDoc()
	FillDefaults(root)
	Apply(root, ReportAllTagged)

	if v, ok := root.Attr(wdPrefix); !ok || v != wdNS {
		t.Fatalf("expected report-all-tagged to declare the wd namespace on root, got %q %v", v, ok)
	}

	var mtu *tree.Node
	for _, c := range root.ElementChildren() {
		if c.Local == "mtu" {
			mtu = c
		}
	}
	if mtu == nil {
		t.Fatalf("expected the synthesized default leaf to survive report-all-tagged")
	}
	if v, ok := mtu.Attr("default"); !ok || v != "true" {
		t.Fatalf("expected mtu to carry wd:default=\"true\", got %q %v", v, ok)
	}
}

func TestApplyExplicitDropsSynthesizedConfigDefault(t *testing.T) {
	root := buildDoc()
	FillDefaults(root)
	Apply(root, Explicit)

	for _, c := range root.ElementChildren() {
		if c.Local == "mtu" {
			t.Fatalf("expected explicit mode to drop a synthesized config-side default")
		}
	}
	var name *tree.Node
	for _, c := range root.ElementChildren() {
		if c.Local == "name" {
			name = c
		}
	}
	if name == nil {
		t.Fatalf("expected the explicitly-set leaf to survive explicit mode")
	}
}

func TestApplyReportAllLeavesTreeUnchanged(t *testing.T) {
	root := buildDoc()
	FillDefaults(root)
	before := len(root.ElementChildren())
	Apply(root, ReportAll)
	if len(root.ElementChildren()) != before {
		t.Fatalf("expected report-all to leave the filled-in tree untouched")
	}
}
