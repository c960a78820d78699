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

package cpus

import (
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// setwords reflects the dynamically determined size of the kernel's CPU masks
// on this system (size in uint64 words). This is usually smaller than the
// fixed-sized [unix.CPUSet] that Go's [unix.SchedGetaffinity] uses.
var setwords atomic.Uint64

const wordbytesize = bitsperword / 8

func init() {
	setwords.Store(1)
}

// Affinity returns the affinity CPU Set of the task with the passed TID. If
// tid is zero, then the affinity of the calling thread is returned (make sure
// to have the OS-level thread locked to the calling go routine in this case).
// Passing the PID of a process returns the affinity of its main thread.
//
// The capacity of the returned Set matches the kernel's CPU mask size, which
// is a multiple of 64.
//
// We don't use [unix.SchedGetaffinity] as this is tied to the fixed size
// [unix.CPUSet] type; instead, we dynamically figure out the size needed and
// cache the size internally.
func Affinity(tid int) (Set, error) {
	startwords := setwords.Load()
	words := startwords
	for {
		set := make([]uint64, words)
		// We use RawSyscall here instead of Syscall as we know that
		// SYS_SCHED_GETAFFINITY does not block, following Go's stdlib
		// implementation.
		_, _, e := unix.RawSyscall(unix.SYS_SCHED_GETAFFINITY,
			uintptr(tid), uintptr(words*wordbytesize), uintptr(unsafe.Pointer(&set[0])))
		if e != 0 {
			if e == unix.EINVAL {
				words *= 2
				continue
			}
			return Set{}, errors.Wrapf(e, "sched_getaffinity(%d)", tid)
		}
		// Publish the new size unless another go routine already upped it
		// even further in the meantime.
		for startwords < words && !setwords.CompareAndSwap(startwords, words) {
			startwords = setwords.Load()
		}
		return Set{words: set, size: uint(words) * bitsperword}, nil
	}
}

// SetAffinity sets the CPU affinities for the specified task/process.
// Otherwise, it returns an error. It is an error trying to set no affinities.
func SetAffinity(tid int, cpus Set) error {
	if cpus.IsEmpty() {
		return errors.Wrap(unix.EINVAL, "cannot set empty CPU affinity")
	}
	_, _, e := unix.RawSyscall(unix.SYS_SCHED_SETAFFINITY,
		uintptr(tid), uintptr(len(cpus.words)*wordbytesize), uintptr(unsafe.Pointer(&cpus.words[0])))
	if e != 0 {
		return errors.Wrapf(e, "sched_setaffinity(%d, %s)", tid, cpus)
	}
	return nil
}

// PinTask pins the specified task/process to the CPUs in this Set. If tid is
// zero, then the calling thread is pinned; lock the calling go routine to its
// OS-level thread beforehand.
func (s Set) PinTask(tid int) error {
	return SetAffinity(tid, s)
}

// MemPolicyAvailable probes whether the kernel supports NUMA memory policies,
// by querying the calling thread's policy using [get_mempolicy(2)]. This is
// the same check that libnuma's numa_available() carries out.
//
// [get_mempolicy(2)]: https://man7.org/linux/man-pages/man2/get_mempolicy.2.html
func MemPolicyAvailable() bool {
	_, _, e := unix.RawSyscall6(unix.SYS_GET_MEMPOLICY, 0, 0, 0, 0, 0, 0)
	return e == 0
}
