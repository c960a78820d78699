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

package affinity

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/zhangying098/rt-tests-analyze/cpus"
)

var (
	// ErrNoCapacity is returned when trying to resolve CPU ranges for a
	// system with no CPUs at all.
	ErrNoCapacity = errors.New("cannot allocate CPU set without capacity")
	// ErrInvalidRange is returned for malformed CPU range specifications.
	ErrInvalidRange = errors.New("invalid CPU range specification")
	// ErrNoAllowableCPUs signals that there are no CPUs left to run on.
	ErrNoAllowableCPUs = errors.New("no allowable CPUs to run on")
	// ErrAffinityQuery signals that the process CPU affinity could not be
	// queried.
	ErrAffinityQuery = errors.New("cannot query process CPU affinity")
)

// Affinity resolves CPU range specifications and assigns worker threads to
// CPUs, for a system with a fixed number of CPUs. An Affinity is safe for
// concurrent use once created.
type Affinity struct {
	maxCPUs  uint
	log      logr.Logger
	source   MaskSource
	probe    func() bool
	topology bool
	fatal    func(error)
}

// Option configures an Affinity when creating it using [New].
type Option func(*Affinity)

// WithLogger sets the logger for diagnostic and fatal messages. By default,
// nothing gets logged.
func WithLogger(log logr.Logger) Option {
	return func(a *Affinity) {
		a.log = log
	}
}

// WithMaskSource sets the source of the process CPU affinity mask, replacing
// [OSMask].
func WithMaskSource(source MaskSource) Option {
	return func(a *Affinity) {
		a.source = source
	}
}

// WithTopologyProbe sets the probe telling whether NUMA topology information
// is usable, replacing [cpus.MemPolicyAvailable]. The probe runs exactly once
// inside [New].
func WithTopologyProbe(probe func() bool) Option {
	return func(a *Affinity) {
		a.probe = probe
	}
}

// WithFatalHandler sets the handler for unrecoverable conditions, such as
// failing to query the process CPU affinity or having no CPUs to run on. The
// default handler logs the error, writes it to stderr, and terminates the
// process with exit code 1.
// A handler returning normally causes a panic with the error instead.
func WithFatalHandler(fatal func(error)) Option {
	return func(a *Affinity) {
		a.fatal = fatal
	}
}

// New returns an Affinity for a system with maxCPUs CPUs, that is, CPU numbers
// 0 up to maxCPUs-1.
func New(maxCPUs uint, opts ...Option) *Affinity {
	a := &Affinity{
		maxCPUs: maxCPUs,
		log:     logr.Discard(),
		source:  OSMask,
		probe:   cpus.MemPolicyAvailable,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.topology = a.probe()
	a.log.V(1).Info("cpu affinity initialized",
		"maxcpus", maxCPUs, "topology", a.topology)
	return a
}

// MaxCPUs returns the number of CPUs this Affinity resolves for.
func (a *Affinity) MaxCPUs() uint {
	return a.maxCPUs
}

// TopologyAvailable reports whether NUMA topology information is usable on
// this host. The result was probed once when creating this Affinity.
func (a *Affinity) TopologyAvailable() bool {
	return a.topology
}

// Where the default fatal handler reports to and how it terminates; tests
// replace them.
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// die hands an unrecoverable condition to the fatal handler and never
// returns. Without a handler, the error is logged, written to stderr, and
// the process exits with code 1.
func (a *Affinity) die(err error) {
	if a.fatal != nil {
		a.fatal(err)
	} else {
		a.log.Error(err, "unrecoverable CPU affinity condition")
		fmt.Fprintf(stderr, "fatal: %s\n", err)
		exit(1)
	}
	panic(err)
}
