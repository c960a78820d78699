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

	"github.com/pkg/errors"

	"github.com/zhangying098/rt-tests-analyze/cpus"
)

// Assign returns the CPU to pin the thread-th worker thread (0-based) to,
// according to the specified Resolution. Unrestricted resolutions use
// [Affinity.AssignAll], restricted resolutions [Affinity.AssignExplicit].
func (a *Affinity) Assign(thread int, r Resolution) uint {
	if set, ok := r.CPUs(); ok {
		return a.AssignExplicit(thread, set)
	}
	return a.AssignAll(thread)
}

// AssignExplicit returns the CPU to pin the thread-th worker thread to,
// distributing threads round-robin across the CPUs in set in ascending CPU
// number order. Thread n+k thus gets the same CPU as thread k, where n is the
// number of CPUs in set.
//
// An empty set leaves no CPUs to run on, which is fatal.
func (a *Affinity) AssignExplicit(thread int, set cpus.Set) uint {
	checkThread(thread)
	n := set.Weight()
	if n == 0 {
		a.die(errors.WithMessagef(ErrNoAllowableCPUs, "thread %d", thread))
	}
	return a.pick(thread, n, set)
}

// AssignAll works like [Affinity.AssignExplicit], but uses the process's CPU
// affinity mask at the time of the call. Callers needing stable assignments
// over multiple calls should use a [Affinity.Snapshot] instead.
func (a *Affinity) AssignAll(thread int) uint {
	checkThread(thread)
	mask := a.mustMask()
	n := mask.Weight()
	if n == 0 {
		a.die(errors.WithMessagef(ErrNoAllowableCPUs, "thread %d", thread))
	}
	return a.pick(thread, n, mask)
}

// pick returns the (thread mod n)-th CPU in set, considering CPU numbers
// below maxCPUs only. If n doesn't match the CPUs found, CPU 0 gets returned.
func (a *Affinity) pick(thread, n int, set cpus.Set) uint {
	if cpu, ok := set.Nth(thread % n); ok && cpu < a.maxCPUs {
		return cpu
	}
	a.log.Error(nil, "BUG in CPU mask handling, falling back to CPU 0",
		"thread", thread, "weight", n, "cpus", set.String(), "maxcpus", a.maxCPUs)
	return 0
}

func checkThread(thread int) {
	if thread < 0 {
		panic(fmt.Sprintf("invalid negative thread index %d", thread))
	}
}
