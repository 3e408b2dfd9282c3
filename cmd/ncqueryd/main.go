// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danos/ncqueryd/config"
	"github.com/danos/ncqueryd/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "ncqueryd",
		Short: "NETCONF get/get-config query-pipeline daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Load(v)
			if err != nil {
				return err
			}
			return run(opts)
		},
	}

	config.BindFlags(v, cmd.Flags())
	return cmd
}

func run(opts config.Options) error {
	level, err := logrus.ParseLevel(opts.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log := logging.New(level)
	log.WithField("socket", opts.SocketPath).Info("ncqueryd starting")

	// The local transport listener, schema registry load, datastore and
	// plugin-host wiring are owned by external collaborators (spec.md
	// §1); this entrypoint only resolves configuration and would hand
	// the assembled query.Handler to that listener's request loop.
	return nil
}
