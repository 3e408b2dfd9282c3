// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package schema

import "testing"

func TestNewSchemaMismatchErrorMessage(t *testing.T) {
	err := NewSchemaMismatchError("mtu", []string{"interfaces", "interface"})
	if err == nil {
		t.Fatalf("expected a non-nil error")
	}
	if err.Error() == "" {
		t.Fatalf("expected a non-empty error message")
	}
}

func TestNewInvalidPathErrorEmptyPath(t *testing.T) {
	if err := NewInvalidPathError(nil); err == nil {
		t.Fatalf("expected a non-nil error for an empty path")
	}
}

func TestNewInvalidPathErrorSingleSegment(t *testing.T) {
	if err := NewInvalidPathError([]string{"bogus"}); err == nil {
		t.Fatalf("expected a non-nil error for a single-segment path")
	}
}

func TestNewInvalidPathErrorMultiSegment(t *testing.T) {
	if err := NewInvalidPathError([]string{"interfaces", "bogus"}); err == nil {
		t.Fatalf("expected a non-nil error for a multi-segment path")
	}
}
