// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// Copyright (c) 2015-2016 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package rpcmsg builds the NETCONF <rpc-reply> envelope around a query
// handler result, translating handler errors into <rpc-error> elements.
package rpcmsg

import (
	"github.com/danos/mgmterror"

	"github.com/danos/ncqueryd/tree"
)

const (
	NetconfBaseNS = "urn:ietf:params:xml:ns:netconf:base:1.0"
)

// Request is a parsed <rpc> envelope: the op name ("get" or
// "get-config"), its message-id, and the op element itself (carrying
// filter/select/depth/content/with-defaults/list-pagination children and
// attributes).
type Request struct {
	MessageID string
	Op        string
	Element   *tree.Node
}

// NewReply wraps data (the populated <data> element, or nil for an
// error reply) in an <rpc-reply> envelope carrying the same message-id
// as req.
func NewReply(req Request, data *tree.Node) *tree.Node {
	reply := tree.NewElement("rpc-reply", "")
	reply.SetAttr("xmlns", "", NetconfBaseNS)
	if req.MessageID != "" {
		reply.SetAttr("message-id", "", req.MessageID)
	}
	if data != nil {
		reply.AppendChild(data)
	}
	return reply
}

// NewErrorReply wraps err as an <rpc-error> child of an <rpc-reply>,
// translating a *mgmterror.MgmtError (or a plain error) into the
// error-type/error-tag/error-message triple NETCONF clients expect.
func NewErrorReply(req Request, err error) *tree.Node {
	reply := tree.NewElement("rpc-reply", "")
	reply.SetAttr("xmlns", "", NetconfBaseNS)
	if req.MessageID != "" {
		reply.SetAttr("message-id", "", req.MessageID)
	}
	reply.AppendChild(errorElement(err))
	return reply
}

func errorElement(err error) *tree.Node {
	e := tree.NewElement("rpc-error", "")

	merr, ok := err.(*mgmterror.MgmtError)
	if !ok {
		appendLeaf(e, "error-type", "application")
		appendLeaf(e, "error-tag", "operation-failed")
		appendLeaf(e, "error-severity", "error")
		appendLeaf(e, "error-message", err.Error())
		return e
	}

	appendLeaf(e, "error-type", string(merr.Type))
	appendLeaf(e, "error-tag", string(merr.Tag))
	appendLeaf(e, "error-severity", string(merr.Severity))
	if merr.Path != "" {
		appendLeaf(e, "error-path", merr.Path)
	}
	if merr.Message != "" {
		appendLeaf(e, "error-message", merr.Message)
	}
	for _, info := range merr.Info {
		infoEl := tree.NewElement("error-info", "")
		appendLeaf(infoEl, info.Name, info.Value)
		e.AppendChild(infoEl)
	}
	return e
}

func appendLeaf(parent *tree.Node, name, body string) {
	leaf := tree.NewElement(name, "")
	leaf.AppendChild(tree.NewText(body))
	parent.AppendChild(leaf)
}
