// Copyright (c) 2017,2019, AT&T Intellectual Property. All rights reserved
//
// Copyright (c) 2016-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"github.com/danos/mgmterror"
	"github.com/danos/utils/pathutil"
)

const (
	msgSchemaMismatch = "Doesn't match schema"
	msgInvalidPath    = "Path is invalid"
)

// NewSchemaMismatchError reports that name does not resolve to the kind
// of schema node its caller required (the list-pagination planner uses
// this when a target XPath names something other than a list or
// leaf-list).
func NewSchemaMismatchError(name string, path []string) error {
	e := mgmterror.NewUnknownElementApplicationError(name)
	e.Path = pathutil.Pathstr(path)
	e.Message = msgSchemaMismatch
	return e
}

// NewInvalidPathError reports that path does not resolve to any schema
// node at all.
func NewInvalidPathError(path []string) error {
	switch len(path) {
	case 0:
		e := mgmterror.NewOperationFailedApplicationError()
		e.Message = msgInvalidPath
		return e
	case 1:
		e := mgmterror.NewUnknownElementApplicationError(path[0])
		e.Message = msgInvalidPath
		return e
	}
	e := mgmterror.NewUnknownElementApplicationError(path[len(path)-1])
	e.Path = pathutil.Pathstr(path[:len(path)-1])
	e.Message = msgInvalidPath
	return e
}
