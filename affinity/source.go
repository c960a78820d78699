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
	"os"

	"github.com/zhangying098/rt-tests-analyze/cpus"
)

// MaskSource supplies the CPU affinity mask the process currently runs with.
type MaskSource interface {
	Mask() (cpus.Set, error)
}

// MaskSourceFunc adapts a plain function to a [MaskSource].
type MaskSourceFunc func() (cpus.Set, error)

// Mask returns f().
func (f MaskSourceFunc) Mask() (cpus.Set, error) {
	return f()
}

// OSMask queries the live CPU affinity of this process, that is, of its main
// thread.
var OSMask MaskSource = MaskSourceFunc(func() (cpus.Set, error) {
	return cpus.Affinity(os.Getpid())
})

// CurrentMask returns the process's current CPU affinity mask, sized to this
// Affinity's capacity.
func (a *Affinity) CurrentMask() (cpus.Set, error) {
	mask, err := a.source.Mask()
	if err != nil {
		return cpus.Set{}, fmt.Errorf("%w: %w", ErrAffinityQuery, err)
	}
	return mask.Resized(a.maxCPUs), nil
}

// mustMask returns the current CPU affinity mask, treating failure to query
// it as fatal.
func (a *Affinity) mustMask() cpus.Set {
	mask, err := a.CurrentMask()
	if err != nil {
		a.die(err)
	}
	return mask
}

// AvailableCPUs returns the number of CPUs to run on: for a restricted
// resolution the number of CPUs in its set, otherwise the number of CPUs in
// the process's current affinity mask.
func (a *Affinity) AvailableCPUs(r Resolution) int {
	if set, ok := r.CPUs(); ok {
		return set.Weight()
	}
	return a.mustMask().Weight()
}

// Snapshot returns the current process CPU affinity as a restricted
// resolution, so that repeated assignments stay stable even when the process
// affinity changes later.
func (a *Affinity) Snapshot() Resolution {
	return Restricted(a.mustMask())
}
