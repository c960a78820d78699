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

//go:build !linux

package cpus

import "github.com/pkg/errors"

// ErrUnsupported is returned by the affinity operations on platforms without
// sched_getaffinity(2) and sched_setaffinity(2).
var ErrUnsupported = errors.New("CPU affinity not supported on this platform")

// Affinity always fails on this platform.
func Affinity(tid int) (Set, error) {
	return Set{}, ErrUnsupported
}

// SetAffinity always fails on this platform.
func SetAffinity(tid int, cpus Set) error {
	return ErrUnsupported
}

// PinTask always fails on this platform.
func (s Set) PinTask(tid int) error {
	return ErrUnsupported
}

// MemPolicyAvailable always reports false on this platform.
func MemPolicyAvailable() bool {
	return false
}
