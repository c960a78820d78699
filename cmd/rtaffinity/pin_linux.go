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

//go:build linux

package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/zhangying098/rt-tests-analyze/cpus"
)

// pinned describes a worker thread after pinning it.
type pinned struct {
	tid      int
	cpu      uint
	affinity cpus.Set
}

func newPinCmd(opts *options) *cobra.Command {
	var threads int
	var hold time.Duration
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Start worker threads, pin each to its CPU, and verify the placement.",
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
			// A worker might end up pinning the main thread, so assign from a
			// snapshot taken up front.
			if !r.IsRestricted() {
				r = a.Snapshot()
			}
			if threads == 0 {
				threads = a.AvailableCPUs(r)
			}

			workers := make([]pinned, threads)
			g, ctx := errgroup.WithContext(cmd.Context())
			for thread := range threads {
				cpu := a.Assign(thread, r)
				g.Go(func() error {
					w, err := pinWorker(ctx, a.MaxCPUs(), cpu, hold)
					if err != nil {
						return errors.WithMessagef(err, "worker thread %d", thread)
					}
					workers[thread] = w
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for thread, w := range workers {
				fmt.Fprintf(out, "thread %d (tid %d) -> cpu %d, affinity %s\n",
					thread, w.tid, w.cpu, w.affinity)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&threads, "threads", "t", 0,
		"number of worker threads; 0 uses one thread per available CPU")
	cmd.Flags().DurationVar(&hold, "hold", 0,
		"keep the pinned worker threads alive for this long, for inspection")
	return cmd
}

// pinWorker pins the calling go routine's OS thread to the specified cpu and
// reads back the resulting affinity. The OS thread stays locked, so it gets
// thrown away together with its changed affinity when the go routine ends.
func pinWorker(ctx context.Context, maxCPUs uint, cpu uint, hold time.Duration) (pinned, error) {
	runtime.LockOSThread()
	single := cpus.NewSet(maxCPUs)
	single.Add(cpu)
	if err := single.PinTask(0); err != nil {
		return pinned{}, err
	}
	w := pinned{tid: unix.Gettid(), cpu: cpu}
	aff, err := cpus.Affinity(0)
	if err != nil {
		return pinned{}, err
	}
	w.affinity = aff.Resized(maxCPUs)
	if w.affinity.Weight() != 1 || !w.affinity.IsSet(cpu) {
		return pinned{}, errors.Errorf("pinned to cpu %d, but running with affinity %s", cpu, w.affinity)
	}
	select {
	case <-ctx.Done():
	case <-time.After(hold):
	}
	return w, nil
}
