// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package logging wraps logrus with the fields every query-pipeline log
// line carries: request message-id and operation name.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logrus.Entry configured with the pipeline's standard
// text formatter and level, ready to have per-request fields attached.
func New(level logrus.Level) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logrus.NewEntry(l)
}

// ForRequest returns a child entry scoped to one request.
func ForRequest(base *logrus.Entry, messageID, op string) *logrus.Entry {
	return base.WithFields(logrus.Fields{
		"message-id": messageID,
		"op":         op,
	})
}
