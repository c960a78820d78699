// Copyright 2026 The rt-tests-analyze Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package main

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zhangying098/rt-tests-analyze/affinity"
	"github.com/zhangying098/rt-tests-analyze/cpus"
)

// options are shared by all subcommands.
type options struct {
	spec    string
	maxCPUs uint
	debug   bool

	zl  *zap.Logger
	log logr.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{log: logr.Discard()}
	root := &cobra.Command{
		Use:          "rtaffinity",
		Short:        "Resolve CPU range specifications and pin worker threads to CPUs.",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return opts.setupLogging()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.zl != nil {
				_ = opts.zl.Sync()
			}
		},
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.spec, "affinity", "a", "",
		`CPU range specification, such as "0,2-4" or "0-7:2"; "!" or "+" narrows it to the current CPU affinity`)
	flags.UintVar(&opts.maxCPUs, "max-cpus", 0,
		"number of CPUs on this system; 0 detects the possible CPUs")
	flags.BoolVar(&opts.debug, "debug", false,
		"log in development mode, including resolution details")

	root.AddCommand(
		newMaskCmd(opts),
		newResolveCmd(opts),
		newAssignCmd(opts),
		newPinCmd(opts),
	)
	return root
}

func (o *options) setupLogging() error {
	var err error
	if o.debug {
		o.zl, err = zap.NewDevelopment()
	} else {
		o.zl, err = zap.NewProduction()
	}
	if err != nil {
		return errors.Wrap(err, "cannot set up logging")
	}
	o.log = zapr.NewLogger(o.zl)
	return nil
}

// newAffinity returns a new Affinity for the configured or detected number of
// CPUs.
func (o *options) newAffinity() *affinity.Affinity {
	maxCPUs := o.maxCPUs
	if maxCPUs == 0 {
		maxCPUs = cpus.MaxCPUs()
	}
	return affinity.New(maxCPUs, affinity.WithLogger(o.log.WithName("affinity")))
}

// resolve returns the Resolution of the --affinity specification.
func (o *options) resolve(a *affinity.Affinity) (affinity.Resolution, error) {
	r, err := a.Parse(o.spec)
	if err != nil {
		return r, errors.Wrap(err, "invalid --affinity")
	}
	return r, nil
}
