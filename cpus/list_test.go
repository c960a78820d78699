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
	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/ginkgo/v2/dsl/table"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("cpu lists", func() {

	DescribeTable("generating textual representations",
		func(list List, expected string) {
			Expect(list.String()).To(Equal(expected))
		},
		Entry(nil, List{}, ""),
		Entry(nil, List{{1, 1}, {2, 42}, {666, 666}}, "1,2-42,666"),
		Entry(nil, List{{2, 42}}, "2-42"),
		Entry(nil, List{{2, 42}, {777, 778}}, "2-42,777-778"),
	)

	When("parsing lists from text", func() {

		It("returns nothing from nothing", func() {
			Expect(NewList([]byte(""))).To(Equal(List{}))
			Expect(NewList([]byte("\n"))).To(Equal(List{}))
		})

		It("returns a single cpu", func() {
			Expect(NewList([]byte("42"))).To(Equal(List{[2]uint{42, 42}}))
		})

		It("returns a single range", func() {
			Expect(NewList([]byte("42-666"))).To(Equal(List{[2]uint{42, 666}}))
		})

		It("returns multiple individual CPUs", func() {
			Expect(NewList([]byte("42,666"))).To(Equal(List{[2]uint{42, 42}, [2]uint{666, 666}}))
		})

		It("altogether, with a trailing newline", func() {
			Expect(NewList([]byte("1-42,666,1000-1001\n"))).To(
				Equal(List{[2]uint{1, 42}, [2]uint{666, 666}, [2]uint{1000, 1001}}))
		})

		DescribeTable("parsing errors",
			func(s string, msg string) {
				Expect(NewList([]byte(s))).Error().To(SatisfyAll(
					MatchError(ErrMalformedList),
					MatchError(ContainSubstring(msg))))
			},
			Entry(nil, "abc", "expected unsigned integer number"),
			Entry(nil, "0abc", "expected ','"),
			Entry(nil, "1-z", "expected unsigned integer number"),
			Entry(nil, "0-0abc", "expected ','"),
			Entry(nil, "5-3", "invalid range 5-3"),
			Entry(nil, "1,", "expected ','"),
		)

	})

	It("converts a list into a set", func() {
		Expect(List{}.Set(8).String()).To(BeEmpty())
		Expect(Successful(NewList([]byte("3,5,666"))).Set(1024).String()).To(Equal("3,5,666"))
		Expect(Successful(NewList([]byte("3,5,666"))).Set(8).String()).To(Equal("3,5"))
	})

	It("counts CPUs and finds the highest one", func() {
		l := Successful(NewList([]byte("0-3,8,10-11")))
		Expect(l.Count()).To(Equal(7))
		highest, ok := l.Max()
		Expect(ok).To(BeTrue())
		Expect(highest).To(Equal(uint(11)))

		_, ok = List{}.Max()
		Expect(ok).To(BeFalse())
	})

})
