// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(v, fs)

	opts, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Defaults()
	if opts != want {
		t.Fatalf("got %+v, want %+v", opts, want)
	}
}

func TestLoadHonorsFlagOverride(t *testing.T) {
	v := viper.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(v, fs)

	if err := fs.Parse([]string{"--socket-path=/tmp/custom.sock", "--yang-library"}); err != nil {
		t.Fatalf("unexpected flag parse error: %v", err)
	}

	opts, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.SocketPath != "/tmp/custom.sock" {
		t.Fatalf("expected socket-path override, got %q", opts.SocketPath)
	}
	if !opts.YangLibrary {
		t.Fatalf("expected yang-library flag to be honored")
	}
}
