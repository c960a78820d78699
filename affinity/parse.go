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
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/thediveo/faf"

	"github.com/zhangying098/rt-tests-analyze/cpus"
)

// modifiers in a CPU range specification ask for narrowing the parsed CPUs
// down to those the process is currently allowed to run on.
const modifiers = "!+"

// Parse resolves a textual CPU range specification, such as “0,2-4,7”, into
// a Resolution.
//
// The specification is a comma-separated list of items, where each item is
// either a single CPU number “n”, an inclusive range “n-m”, a range with a
// stride “n-m:s” (every s-th CPU starting at n), or “all” for all CPUs of
// this Affinity. Whitespace is allowed around numbers, but not inside them.
// CPUs at or beyond [Affinity.MaxCPUs] are dropped.
//
// If the specification contains a “!” or “+”, then the parsed CPUs
// are additionally intersected with the process's current CPU affinity, see
// [Affinity.Reconcile]. Like whitespace, the modifiers may appear at the
// beginning or end of any item or around its “-” and “:”. Without these modifiers the parsed CPUs stand as
// specified, even if the process isn't allowed to run on some of them.
//
// When no CPUs remain after parsing, Parse returns an unrestricted
// Resolution; the reconciliation cannot turn an unrestricted resolution into
// a restricted one. Malformed specifications return an error wrapping
// [ErrInvalidRange].
func (a *Affinity) Parse(text string) (Resolution, error) {
	if a.maxCPUs == 0 {
		return Unrestricted(), ErrNoCapacity
	}
	set, err := parseRanges(text, a.maxCPUs)
	if err != nil {
		return Unrestricted(), err
	}
	if set.IsEmpty() {
		a.log.V(1).Info("no CPUs specified, running unrestricted", "spec", text)
		return Unrestricted(), nil
	}
	reconcile := strings.ContainsAny(text, modifiers)
	if reconcile {
		a.Reconcile(&set)
	}
	a.log.V(1).Info("resolved CPU range specification",
		"spec", text, "cpus", set.String(), "reconciled", reconcile)
	return Restricted(set), nil
}

// parseRanges returns the CPUs named by the specification text, in a Set of
// the specified capacity.
func parseRanges(text string, size uint) (cpus.Set, error) {
	set := cpus.NewSet(size)
	if strings.TrimFunc(text, isFiller) == "" {
		return set, nil
	}
	for _, item := range strings.Split(text, ",") {
		item = trimItem(item)
		if item == "all" {
			set.AddRange(0, size-1)
			continue
		}
		if err := addItem(&set, item); err != nil {
			return cpus.Set{}, errors.WithMessagef(err, "cpu range %q", text)
		}
	}
	return set, nil
}

// isFiller reports whether r is whitespace or a modifier.
func isFiller(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(modifiers, r)
}

// trimItem strips whitespace and modifiers from the beginning and end of the
// item as well as around its “-” and “:” separators. Any whitespace or
// modifiers left inside numbers make the item malformed.
func trimItem(item string) string {
	var b strings.Builder
	start := 0
	for idx := 0; idx <= len(item); idx++ {
		if idx < len(item) && item[idx] != '-' && item[idx] != ':' {
			continue
		}
		b.WriteString(strings.TrimFunc(item[start:idx], isFiller))
		if idx < len(item) {
			b.WriteByte(item[idx])
		}
		start = idx + 1
	}
	return b.String()
}

// addItem adds the CPUs of a single “n”, “n-m”, or “n-m:s” item to the set.
func addItem(set *cpus.Set, item string) error {
	bs := faf.NewBytestring([]byte(item))
	if bs.EOL() {
		return errors.WithMessage(ErrInvalidRange, "empty item")
	}
	from, ok := bs.Uint64()
	if !ok {
		return errors.WithMessagef(ErrInvalidRange, "item %q: expected unsigned integer number", item)
	}
	if bs.EOL() {
		set.Add(uint(from))
		return nil
	}
	if ch, _ := bs.Next(); ch != '-' {
		return errors.WithMessagef(ErrInvalidRange, "item %q: expected '-' or ','", item)
	}
	to, ok := bs.Uint64()
	if !ok {
		return errors.WithMessagef(ErrInvalidRange, "item %q: expected unsigned integer number", item)
	}
	if to < from {
		return errors.WithMessagef(ErrInvalidRange, "item %q: invalid range %d-%d", item, from, to)
	}
	stride := uint64(1)
	if !bs.EOL() {
		if ch, _ := bs.Next(); ch != ':' {
			return errors.WithMessagef(ErrInvalidRange, "item %q: expected ':' or ','", item)
		}
		if stride, ok = bs.Uint64(); !ok || stride == 0 {
			return errors.WithMessagef(ErrInvalidRange, "item %q: expected positive stride", item)
		}
		if !bs.EOL() {
			return errors.WithMessagef(ErrInvalidRange, "item %q: expected ','", item)
		}
	}
	// Stop at the set's capacity; the next CPU never overshoots "to", so it
	// cannot wrap around either.
	for cpu := from; cpu < uint64(set.Size()); cpu += stride {
		set.Add(uint(cpu))
		if to-cpu < stride {
			break
		}
	}
	return nil
}
