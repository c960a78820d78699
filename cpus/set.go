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

package cpus

import (
	"fmt"
	"iter"
	"math/bits"
	"strings"
)

// Set is a CPU bit string of fixed capacity, such as used for CPU affinity
// masks. See also [sched_getaffinity(2)]. The capacity of a Set is determined
// when creating it and never changes afterwards; CPUs at or beyond the
// capacity can never become members.
//
// The zero value is an empty Set with zero capacity.
//
// [sched_getaffinity(2)]: https://man7.org/linux/man-pages/man2/sched_getaffinity.2.html
type Set struct {
	words []uint64
	size  uint
}

const bitsperword = 64

// NewSet returns a new and empty Set able to hold the CPUs 0 up to size-1.
func NewSet(size uint) Set {
	return Set{
		words: make([]uint64, (size+bitsperword-1)/bitsperword),
		size:  size,
	}
}

func setBitIndex(cpu uint) int {
	return int(cpu / bitsperword)
}

func setBitMask(cpu uint) uint64 {
	return uint64(1) << (cpu % bitsperword)
}

// Size returns the capacity of this Set, that is, the number of CPUs it is
// able to represent.
func (s Set) Size() uint {
	return s.size
}

// IsSet reports whether cpu is in this CPU set.
func (s Set) IsSet(cpu uint) bool {
	if cpu >= s.size {
		return false
	}
	return s.words[setBitIndex(cpu)]&setBitMask(cpu) != 0
}

// Add the specified cpu to this Set, reporting whether the cpu fits this Set's
// capacity. CPUs beyond the capacity are silently ignored.
func (s *Set) Add(cpu uint) bool {
	if cpu >= s.size {
		return false
	}
	s.words[setBitIndex(cpu)] |= setBitMask(cpu)
	return true
}

// AddRange adds the CPUs from the specified inclusive range. CPUs from the
// range beyond this Set's capacity are ignored. AddRange panics if from is
// larger than to.
func (s *Set) AddRange(from, to uint) {
	if from > to {
		panic(fmt.Sprintf("invalid range %d-%d", from, to))
	}
	for cpu := from; cpu <= to && cpu < s.size; cpu++ {
		s.words[setBitIndex(cpu)] |= setBitMask(cpu)
	}
}

// Clear removes the specified cpu from this Set; clearing CPUs beyond the
// capacity is a no-op.
func (s *Set) Clear(cpu uint) {
	if cpu >= s.size {
		return
	}
	s.words[setBitIndex(cpu)] &^= setBitMask(cpu)
}

// Weight returns the number of CPUs in this Set.
func (s Set) Weight() int {
	n := 0
	for _, word := range s.words {
		n += bits.OnesCount64(word)
	}
	return n
}

// IsEmpty reports whether there are no CPUs in this Set.
func (s Set) IsEmpty() bool {
	for _, word := range s.words {
		if word != 0 {
			return false
		}
	}
	return true
}

// All returns an iterator over the CPUs in this Set, in ascending CPU number
// order.
func (s Set) All() iter.Seq[uint] {
	return func(yield func(uint) bool) {
		for idx, word := range s.words {
			// Strip off the lowest set bit after each yield, so we never have
			// to look at unset bits.
			for word != 0 {
				cpu := uint(idx)*bitsperword + uint(bits.TrailingZeros64(word))
				if !yield(cpu) {
					return
				}
				word &= word - 1
			}
		}
	}
}

// Nth returns the m-th (zero-based) CPU of this Set in ascending CPU number
// order. If the Set has m or fewer CPUs, Nth returns false.
func (s Set) Nth(m int) (uint, bool) {
	if m < 0 {
		return 0, false
	}
	for cpu := range s.All() {
		if m == 0 {
			return cpu, true
		}
		m--
	}
	return 0, false
}

// Clone returns an independent copy of this Set.
func (s Set) Clone() Set {
	return Set{
		words: append([]uint64(nil), s.words...),
		size:  s.size,
	}
}

// Resized returns a copy of this Set with the specified capacity. When
// shrinking, CPUs at or beyond the new capacity are dropped.
func (s Set) Resized(size uint) Set {
	r := NewSet(size)
	n := copy(r.words, s.words)
	if n > 0 && size%bitsperword != 0 {
		r.words[len(r.words)-1] &= setBitMask(size) - 1
	}
	return r
}

// String returns the CPUs in this set in textual list format. In list format,
// individual CPU ranges “x-y” are separated by “,”, and single CPU ranges
// collapsed into “x”.
func (s Set) String() string {
	return s.List().String()
}

// List returns the list of CPU ranges corresponding with this CPU Set.
func (s Set) List() List {
	l := List{}
	for cpu := range s.All() {
		// Either extend the current (=last) range as we're adjacent to it, or
		// start a new range.
		if last := len(l) - 1; last >= 0 && l[last][1]+1 == cpu {
			l[last][1] = cpu
			continue
		}
		l = append(l, [2]uint{cpu, cpu})
	}
	return l
}

// Mask returns this Set in the kernel's hexadecimal cpumask format, as used by
// procfs and sysfs files such as “tracing_cpumask”: comma-separated groups of
// 32 bits, most significant group first.
func (s Set) Mask() string {
	groups := int((s.size + 31) / 32)
	if groups == 0 {
		groups = 1
	}
	var b strings.Builder
	for g := groups - 1; g >= 0; g-- {
		var group uint32
		if idx := g / 2; idx < len(s.words) {
			group = uint32(s.words[idx] >> (uint(g%2) * 32))
		}
		if g != groups-1 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%08x", group)
	}
	return b.String()
}
