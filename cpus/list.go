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
	"bytes"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/thediveo/faf"
)

// ErrMalformedList is returned when a textual CPU list doesn't follow the
// kernel's list format.
var ErrMalformedList = errors.New("malformed CPU list")

// List is a list of CPU [from...to] ranges. CPU numbers are starting from zero.
type List [][2]uint

// String returns the CPU list in textual format, with the individual ranges
// “x-y” separated by “,” and single CPU ranges collapsed into “x” (instead of
// “x-x”).
func (l List) String() string {
	var b strings.Builder
	for idx, cpurange := range l {
		if idx > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(cpurange[0]), 10))
		if cpurange[0] != cpurange[1] {
			b.WriteByte('-')
			b.WriteString(strconv.FormatUint(uint64(cpurange[1]), 10))
		}
	}
	return b.String()
}

// Count returns the number of CPUs in this List, assuming canonical form
// without overlapping ranges.
func (l List) Count() int {
	n := 0
	for _, cpurange := range l {
		n += int(cpurange[1]-cpurange[0]) + 1
	}
	return n
}

// Max returns the highest CPU number in this List, or false if the List is
// empty.
func (l List) Max() (uint, bool) {
	var highest uint
	for _, cpurange := range l {
		highest = max(highest, cpurange[1])
	}
	return highest, len(l) > 0
}

// NewList returns a new CPU List for the given text in the kernel's list
// format, such as found in “/sys/devices/system/cpu/online”. A single trailing
// newline is accepted. If the text is malformed then an error is returned
// instead.
func NewList(b []byte) (List, error) {
	b = bytes.TrimSuffix(b, []byte{'\n'})
	bs := faf.NewBytestring(b)
	l := List{}
	if bs.EOL() {
		return l, nil
	}
	for {
		// Each item starts with a CPU number, optionally followed by "-" and
		// the end of the range.
		from, ok := bs.Uint64()
		if !ok {
			return nil, errors.Wrapf(ErrMalformedList, "%q: expected unsigned integer number", b)
		}
		to := from
		var sep byte = eol
		if !bs.EOL() {
			sep, _ = bs.Next()
		}
		if sep == '-' {
			if to, ok = bs.Uint64(); !ok {
				return nil, errors.Wrapf(ErrMalformedList, "%q: expected unsigned integer number", b)
			}
			if to < from {
				return nil, errors.Wrapf(ErrMalformedList, "%q: invalid range %d-%d", b, from, to)
			}
			sep = eol
			if !bs.EOL() {
				sep, _ = bs.Next()
			}
		}
		l = append(l, [2]uint{uint(from), uint(to)})
		// Either we're done or another item follows after a ",".
		switch {
		case sep == eol:
			return l, nil
		case sep != ',' || bs.EOL():
			return nil, errors.Wrapf(ErrMalformedList, "%q: expected ','", b)
		}
	}
}

// eol marks the end of text in place of a separator character.
const eol = 0

// Set returns a CPU Set of the specified capacity corresponding with this
// list. CPUs beyond the capacity are dropped.
func (l List) Set(size uint) Set {
	s := NewSet(size)
	for _, cpurange := range l {
		s.AddRange(cpurange[0], cpurange[1])
	}
	return s
}
