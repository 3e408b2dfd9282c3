// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package config binds the daemon's command-line flags, environment
// variables, and an optional config file into an Options value via
// viper, the way cmd/ncqueryd's cobra entrypoint expects.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Options are the recognised configuration flags of spec.md §6.
type Options struct {
	StreamDiscoveryRFC5277 bool   `mapstructure:"stream_discovery_rfc5277"`
	StreamDiscoveryRFC8040 bool   `mapstructure:"stream_discovery_rfc8040"`
	YangLibrary            bool   `mapstructure:"yang_library"`
	ValidateStateXML       bool   `mapstructure:"validate_state_xml"`
	SocketPath             string `mapstructure:"socket_path"`
	LogLevel               string `mapstructure:"log_level"`
}

// Defaults returns the Options a freshly started daemon uses absent any
// flag, environment variable, or config file override.
func Defaults() Options {
	return Options{
		SocketPath: "/var/run/ncqueryd/ncqueryd.sock",
		LogLevel:   "info",
	}
}

// BindFlags registers flags on fs and binds them into v, with
// NCQUERYD_-prefixed environment variable overrides.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	d := Defaults()

	fs.Bool("stream-discovery-rfc5277", false, "emit netconf/streams")
	fs.Bool("stream-discovery-rfc8040", false, "emit restconf-state/streams and capabilities")
	fs.Bool("yang-library", false, "emit ietf-yang-library modules state")
	fs.Bool("validate-state-xml", false, "validate plugin-supplied state and preload running for state reads")
	fs.String("socket-path", d.SocketPath, "local transport socket path")
	fs.String("log-level", d.LogLevel, "logrus level name")

	v.BindPFlag("stream_discovery_rfc5277", fs.Lookup("stream-discovery-rfc5277"))
	v.BindPFlag("stream_discovery_rfc8040", fs.Lookup("stream-discovery-rfc8040"))
	v.BindPFlag("yang_library", fs.Lookup("yang-library"))
	v.BindPFlag("validate_state_xml", fs.Lookup("validate-state-xml"))
	v.BindPFlag("socket_path", fs.Lookup("socket-path"))
	v.BindPFlag("log_level", fs.Lookup("log-level"))

	v.SetEnvPrefix("NCQUERYD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load unmarshals v's current state into an Options value.
func Load(v *viper.Viper) (Options, error) {
	opts := Defaults()
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}
