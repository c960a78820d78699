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
	"github.com/onsi/ginkgo/v2"

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/ginkgo/v2/dsl/table"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("parsing CPU range specifications", func() {

	var osmask *fakeMask
	var a *Affinity

	BeforeEach(func() {
		osmask = &fakeMask{mask: setOf(64, 2, 3)}
		a = New(8,
			WithMaskSource(osmask),
			WithFatalHandler(panicking),
			WithTopologyProbe(func() bool { return false }),
			WithLogger(ginkgo.GinkgoLogr))
	})

	DescribeTable("resolving to explicit CPU sets",
		func(spec string, expected string, weight int) {
			r := Successful(a.Parse(spec))
			Expect(r.IsRestricted()).To(BeTrue())
			set, _ := r.CPUs()
			Expect(set.String()).To(Equal(expected))
			Expect(set.Size()).To(Equal(uint(8)))
			Expect(a.AvailableCPUs(r)).To(Equal(weight))
		},
		Entry(nil, "1-2,4-5", "1-2,4-5", 4),
		Entry(nil, "0,2-4,7", "0,2-4,7", 5),
		Entry(nil, "3", "3", 1),
		Entry(nil, "6-100", "6-7", 2),
		Entry(nil, "5,666", "5", 1),
		Entry(nil, " 1 - 2 , 4 ", "1-2,4", 3),
		Entry(nil, "0-7:2", "0,2,4,6", 4),
		Entry(nil, "1-6:3", "1,4", 2),
		Entry(nil, "1-1:5", "1", 1),
		Entry(nil, "0-1000:1000", "0", 1),
		Entry(nil, "all", "0-7", 8),
		Entry(nil, "7,all", "0-7", 8),
	)

	It("is deterministic", func() {
		r1 := Successful(a.Parse("0,3-5"))
		r2 := Successful(a.Parse("0,3-5"))
		Expect(r1).To(Equal(r2))
	})

	It("counts distinct CPUs of non-overlapping ranges", func() {
		set, _ := Successful(a.Parse("0,2-3,5-7")).CPUs()
		Expect(set.Weight()).To(Equal(1 + 2 + 3))
	})

	DescribeTable("resolving to no restriction",
		func(spec string) {
			r, err := a.Parse(spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.IsRestricted()).To(BeFalse())
			Expect(r.String()).To(Equal("unrestricted"))
		},
		Entry("empty", ""),
		Entry("whitespace only", "  "),
		Entry("out of range", "8-20"),
		Entry("out of range, single", "42"),
		Entry("modifier only", "!"),
		Entry("out of range with modifier", "+100"),
	)

	It("doesn't query the OS affinity when nothing remains", func() {
		Expect(a.Parse("!")).To(Equal(Unrestricted()))
		Expect(a.Parse("+9-10")).To(Equal(Unrestricted()))
		Expect(osmask.queries).To(BeZero())
	})

	DescribeTable("rejecting malformed specifications",
		func(spec string, msg string) {
			Expect(a.Parse(spec)).Error().To(SatisfyAll(
				MatchError(ErrInvalidRange),
				MatchError(ContainSubstring(msg))))
		},
		Entry(nil, "abc", "expected unsigned integer number"),
		Entry(nil, "0abc", "expected '-' or ','"),
		Entry(nil, "1-z", "expected unsigned integer number"),
		Entry(nil, "0-3abc", "expected ':' or ','"),
		Entry(nil, "5-3", "invalid range 5-3"),
		Entry(nil, "1,,2", "empty item"),
		Entry(nil, "1,", "empty item"),
		Entry(nil, "0-4:0", "expected positive stride"),
		Entry(nil, "0-4:x", "expected positive stride"),
		Entry(nil, "0-4:2x", "expected ','"),
		Entry(nil, "-1", "expected unsigned integer number"),
		Entry(nil, "1 2", "expected '-' or ','"),
		Entry(nil, "1!0", "expected '-' or ','"),
		Entry(nil, "3+4", "expected '-' or ','"),
		Entry(nil, "1-2 0", "expected ':' or ','"),
		Entry(nil, "0-6:1 0", "expected ','"),
	)

	It("fails without capacity", func() {
		Expect(New(0, WithTopologyProbe(func() bool { return false })).Parse("0")).
			Error().To(MatchError(ErrNoCapacity))
	})

	When("modifiers are present", func() {

		DescribeTable("narrowing to the current CPU affinity",
			func(spec string, expected string) {
				r := Successful(a.Parse(spec))
				set, ok := r.CPUs()
				Expect(ok).To(BeTrue())
				Expect(set.String()).To(Equal(expected))
				Expect(osmask.queries).To(Equal(1))
			},
			Entry(nil, "1-2!", "2"),
			Entry(nil, "!1-2", "2"),
			Entry(nil, "+1-2", "2"),
			Entry(nil, "1-2+", "2"),
			Entry(nil, "all!", "2-3"),
			Entry(nil, "1 ! - + 3", "2-3"),
			Entry(nil, "0-7:!1", "2-3"),
			Entry(nil, "1,!3", "3"),
			Entry(nil, "!0-1", ""),
		)

		It("treats both modifiers alike", func() {
			bang := Successful(a.Parse("!0-7"))
			plus := Successful(a.Parse("+0-7"))
			Expect(bang).To(Equal(plus))
		})

		It("leaves no CPUs when nothing overlaps", func() {
			r := Successful(a.Parse("0-1!"))
			Expect(r.IsRestricted()).To(BeTrue())
			Expect(r.String()).To(Equal("none"))
			Expect(a.AvailableCPUs(r)).To(BeZero())
		})

		It("is fatal when the OS affinity cannot be queried", func() {
			osmask.err = errQuery
			Expect(func() { _, _ = a.Parse("1-2!") }).To(PanicWith(MatchError(ErrAffinityQuery)))
		})

	})

	It("keeps the literal CPUs without modifiers", func() {
		set, _ := Successful(a.Parse("0-1")).CPUs()
		Expect(set.String()).To(Equal("0-1"))
		Expect(osmask.queries).To(BeZero())
	})

})
