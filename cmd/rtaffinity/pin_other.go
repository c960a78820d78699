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

package main

import (
	"github.com/spf13/cobra"

	"github.com/zhangying098/rt-tests-analyze/cpus"
)

func newPinCmd(*options) *cobra.Command {
	return &cobra.Command{
		Use:   "pin",
		Short: "Start worker threads, pin each to its CPU, and verify the placement.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return cpus.ErrUnsupported
		},
	}
}
