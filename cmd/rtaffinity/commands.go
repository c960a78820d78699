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
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zhangying098/rt-tests-analyze/cpus"
)

func newMaskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mask",
		Short: "Show the current CPU affinity of this process.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.newAffinity()
			mask, err := a.CurrentMask()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cpus:      %s\n", mask)
			fmt.Fprintf(out, "mask:      %s\n", mask.Mask())
			fmt.Fprintf(out, "available: %d\n", mask.Weight())
			if online, err := cpus.Online(); err == nil {
				fmt.Fprintf(out, "online:    %s (%d)\n",
					online.Set(a.MaxCPUs()), online.Count())
			}
			fmt.Fprintf(out, "max cpus:  %d\n", a.MaxCPUs())
			fmt.Fprintf(out, "topology:  %t\n", a.TopologyAvailable())
			return nil
		},
	}
}

func newResolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the --affinity specification into the CPUs to run on.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.newAffinity()
			r, err := opts.resolve(a)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cpus:      %s\n", r)
			if set, ok := r.CPUs(); ok {
				fmt.Fprintf(out, "mask:      %s\n", set.Mask())
			}
			fmt.Fprintf(out, "available: %d\n", a.AvailableCPUs(r))
			return nil
		},
	}
}

func newAssignCmd(opts *options) *cobra.Command {
	var threads int
	var snapshot bool
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Show the CPU each worker thread gets assigned.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if threads < 0 {
				return errors.Errorf("invalid number of threads %d", threads)
			}
			a := opts.newAffinity()
			r, err := opts.resolve(a)
			if err != nil {
				return err
			}
			if snapshot && !r.IsRestricted() {
				r = a.Snapshot()
			}
			if threads == 0 {
				threads = a.AvailableCPUs(r)
			}
			out := cmd.OutOrStdout()
			for thread := range threads {
				fmt.Fprintf(out, "thread %d -> cpu %d\n", thread, a.Assign(thread, r))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&threads, "threads", "t", 0,
		"number of worker threads; 0 uses one thread per available CPU")
	cmd.Flags().BoolVar(&snapshot, "snapshot", false,
		"snapshot the current CPU affinity once instead of querying it per thread")
	return cmd
}
