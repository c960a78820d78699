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

import "github.com/zhangying098/rt-tests-analyze/cpus"

// Reconcile narrows the user-specified set in place to the CPUs the process is
// currently allowed to run on. Afterwards, set is the intersection of the
// user-specified CPUs and the process's current CPU affinity mask, for CPU
// numbers below [Affinity.MaxCPUs].
//
// Failing to query the current CPU affinity mask is fatal.
func (a *Affinity) Reconcile(set *cpus.Set) {
	current := a.mustMask()
	for cpu := uint(0); cpu < a.maxCPUs; cpu++ {
		if !set.IsSet(cpu) || !current.IsSet(cpu) {
			set.Clear(cpu)
		}
	}
}
