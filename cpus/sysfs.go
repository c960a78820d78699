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
	"os"
	"runtime"

	"github.com/pkg/errors"
)

// Paths of the sysfs CPU lists; tests point them to fixtures.
var (
	PossibleFilepath = "/sys/devices/system/cpu/possible"
	OnlineFilepath   = "/sys/devices/system/cpu/online"
)

// Possible returns the List of CPUs that could ever be brought online on this
// system, including hot-pluggable ones.
func Possible() (List, error) {
	return readList(PossibleFilepath)
}

// Online returns the List of CPUs currently online.
func Online() (List, error) {
	return readList(OnlineFilepath)
}

func readList(path string) (List, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read CPU list")
	}
	l, err := NewList(b)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse CPU list from %s", path)
	}
	return l, nil
}

// MaxCPUs returns the number of CPUs configured on this system, that is, the
// highest possible CPU number plus one. If the possible CPUs cannot be
// determined, MaxCPUs falls back to the number of logical CPUs usable by this
// process.
func MaxCPUs() uint {
	if possible, err := Possible(); err == nil {
		if highest, ok := possible.Max(); ok {
			return highest + 1
		}
	}
	return uint(runtime.NumCPU())
}
