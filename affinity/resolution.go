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

// Resolution is the outcome of resolving a CPU range specification: either
// unrestricted, so threads may use all CPUs the process is allowed to run on,
// or restricted to an explicit CPU set. A restricted resolution with an empty
// set is not the same as an unrestricted one: it leaves no CPUs to run on.
//
// The zero value is unrestricted.
type Resolution struct {
	set        cpus.Set
	restricted bool
}

// Unrestricted returns the resolution without any CPU restriction.
func Unrestricted() Resolution {
	return Resolution{}
}

// Restricted returns a resolution restricting threads to the specified CPUs.
// The resolution keeps its own copy of the set, so later changes to set don't
// affect it.
func Restricted(set cpus.Set) Resolution {
	return Resolution{set: set.Clone(), restricted: true}
}

// IsRestricted reports whether threads are restricted to an explicit CPU set.
func (r Resolution) IsRestricted() bool {
	return r.restricted
}

// CPUs returns the explicit CPU set together with true for a restricted
// resolution, otherwise false. The returned set must not be modified.
func (r Resolution) CPUs() (cpus.Set, bool) {
	return r.set, r.restricted
}

func (r Resolution) String() string {
	switch {
	case !r.restricted:
		return "unrestricted"
	case r.set.IsEmpty():
		return "none"
	default:
		return r.set.String()
	}
}
