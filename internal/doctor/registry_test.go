package doctor_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/lavy-dev/lavy/internal/doctor"
)

var _ = Describe("Registry", func() {
	var registry *doctor.Registry

	BeforeEach(func() {
		registry = doctor.NewRegistry()
		registry.RegisterChecker(&stubChecker{name: "config-file", category: doctor.CategoryConfig})
		registry.RegisterChecker(&stubChecker{name: "git-repo", category: doctor.CategoryGit})
		registry.RegisterChecker(&stubChecker{name: "config-valid", category: doctor.CategoryConfig})
		registry.RegisterChecker(&stubChecker{name: "selftest", category: doctor.CategoryValidator})
	})

	It("counts registered checkers", func() {
		Expect(registry.CheckerCount()).To(Equal(4))
	})

	It("runs every checker in registration order", func() {
		results := registry.RunAll(context.Background())

		names := make([]string, 0, len(results))
		for _, r := range results {
			names = append(names, r.Name)
		}

		Expect(names).To(Equal([]string{"config-file", "git-repo", "config-valid", "selftest"}))
	})

	It("stamps results with the checker category", func() {
		results := registry.RunAll(context.Background())
		Expect(results[1].Category).To(Equal(doctor.CategoryGit))
	})

	It("runs a single category", func() {
		results := registry.RunCategory(context.Background(), doctor.CategoryConfig)
		Expect(results).To(HaveLen(2))
		Expect(results[0].Name).To(Equal("config-file"))
		Expect(results[1].Name).To(Equal("config-valid"))
	})

	It("returns no results for an unknown category", func() {
		Expect(registry.RunCategory(context.Background(), "nonexistent")).To(BeEmpty())
	})

	It("skips checkers once the context is done", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results := registry.RunAll(ctx)
		Expect(results).To(HaveLen(4))

		for _, r := range results {
			Expect(r.IsSkipped()).To(BeTrue())
		}
	})

	Describe("fixers", func() {
		var ctrl *gomock.Controller

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
		})

		It("looks fixers up by ID", func() {
			fixer := doctor.NewMockFixer(ctrl)
			fixer.EXPECT().ID().Return("init_config").AnyTimes()

			registry.RegisterFixer(fixer)

			got, ok := registry.GetFixer("init_config")
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(fixer))

			_, ok = registry.GetFixer("missing")
			Expect(ok).To(BeFalse())
			Expect(registry.FixerCount()).To(Equal(1))
		})

		It("returns a copy of the fixer map", func() {
			fixer := doctor.NewMockFixer(ctrl)
			fixer.EXPECT().ID().Return("install_hook").AnyTimes()
			registry.RegisterFixer(fixer)

			fixers := registry.GetFixers()
			delete(fixers, "install_hook")

			Expect(registry.FixerCount()).To(Equal(1))
		})
	})
})

var _ = Describe("Count", func() {
	It("tallies results by outcome", func() {
		counts := doctor.Count([]doctor.CheckResult{
			doctor.Pass("a", ""),
			doctor.Pass("b", ""),
			doctor.FailWarning("c", ""),
			doctor.FailError("d", ""),
			doctor.Skip("e", ""),
		})

		Expect(counts).To(Equal(doctor.Counts{Passed: 2, Warnings: 1, Errors: 1, Skipped: 1}))
	})
})

var _ = Describe("CheckResult", func() {
	It("accumulates details and a fix ID", func() {
		r := doctor.FailWarning("hook", "missing").WithDetails("a").WithDetails("b").WithFixID("install_hook")

		Expect(r.Details).To(Equal([]string{"a", "b"}))
		Expect(r.HasFix()).To(BeTrue())
		Expect(r.IsWarning()).To(BeTrue())
		Expect(r.IsError()).To(BeFalse())
	})
})
