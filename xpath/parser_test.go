// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package xpath

import "testing"

func TestParseValidExpressions(t *testing.T) {
	cases := []string{
		"/",
		"/a",
		"//a",
		"a/b",
		"a/b[1]",
		"a[@name='eth0']",
		"../a",
		"./a",
		"@name",
		"a | b",
		"a and b or c",
		"1 + 2 * 3 - 4 div 2",
		"count(a) > 0",
		"child::a/descendant::b",
		"ancestor::a",
		"not(a)",
		"concat('a', 'b')",
		"a[position()=1]",
		"a:b",
	}
	for _, c := range cases {
		if _, err := Parse(c); err != nil {
			t.Errorf("Parse(%q) failed: %v", c, err)
		}
	}
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	if _, err := Parse("a b"); err == nil {
		t.Fatalf("expected error for trailing garbage")
	}
}

func TestParseRejectsUnterminatedLiteral(t *testing.T) {
	if _, err := Parse("a[@b='unterminated]"); err == nil {
		t.Fatalf("expected error for unterminated string literal")
	}
}
