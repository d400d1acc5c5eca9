package doctor_test

import (
	"bytes"
	"context"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/lavy-dev/lavy/internal/doctor"
	"github.com/lavy-dev/lavy/internal/i18n"
	"github.com/lavy-dev/lavy/pkg/logger"
)

var _ = Describe("Runner", func() {
	var (
		ctrl     *gomock.Controller
		registry *doctor.Registry
		reporter *doctor.MockReporter
		out      *bytes.Buffer
		runner   *doctor.Runner
		ctx      context.Context
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		registry = doctor.NewRegistry()
		reporter = doctor.NewMockReporter(ctrl)
		out = &bytes.Buffer{}
		ctx = context.Background()
		runner = doctor.NewRunner(registry, reporter, out, i18n.Fallback("en"), logger.NewNoOpLogger())
	})

	It("succeeds when every check passes", func() {
		registry.RegisterChecker(&stubChecker{name: "config", category: doctor.CategoryConfig})
		reporter.EXPECT().Report(gomock.Len(1), false).Times(1)

		Expect(runner.Run(ctx, doctor.RunOptions{})).To(Succeed())
		Expect(out.String()).To(BeEmpty())
	})

	It("passes verbose through to the reporter", func() {
		registry.RegisterChecker(&stubChecker{name: "config", category: doctor.CategoryConfig})
		reporter.EXPECT().Report(gomock.Any(), true).Times(1)

		Expect(runner.Run(ctx, doctor.RunOptions{Verbose: true})).To(Succeed())
	})

	It("succeeds with warnings only", func() {
		registry.RegisterChecker(&stubChecker{
			name:     "git",
			category: doctor.CategoryGit,
			result:   func() doctor.CheckResult { return doctor.FailWarning("git", "not a repository") },
		})
		reporter.EXPECT().Report(gomock.Any(), false)

		Expect(runner.Run(ctx, doctor.RunOptions{})).To(Succeed())
	})

	It("fails when a check reports an error", func() {
		registry.RegisterChecker(&stubChecker{
			name:     "selftest",
			category: doctor.CategoryValidator,
			result:   func() doctor.CheckResult { return doctor.FailError("selftest", "broken") },
		})
		reporter.EXPECT().Report(gomock.Any(), false)

		err := runner.Run(ctx, doctor.RunOptions{})
		Expect(errors.Is(err, doctor.ErrChecksFailed)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("1 error(s)"))
	})

	It("runs only the requested categories", func() {
		git := &stubChecker{name: "git", category: doctor.CategoryGit}
		cfg := &stubChecker{name: "config", category: doctor.CategoryConfig}
		registry.RegisterChecker(git)
		registry.RegisterChecker(cfg)
		reporter.EXPECT().Report(gomock.Len(1), false)

		Expect(runner.Run(ctx, doctor.RunOptions{Categories: []doctor.Category{doctor.CategoryGit}})).
			To(Succeed())
		Expect(git.calls).To(Equal(1))
		Expect(cfg.calls).To(BeZero())
	})

	Context("with a fixable result", func() {
		var (
			fixed  bool
			fixer  *doctor.MockFixer
			hook   *stubChecker
			broken doctor.CheckResult
		)

		BeforeEach(func() {
			fixed = false
			broken = doctor.FailWarning("hook", "missing").WithFixID(doctor.FixInstallHook)

			hook = &stubChecker{
				name:     "hook",
				category: doctor.CategoryGit,
				result: func() doctor.CheckResult {
					if fixed {
						return doctor.Pass("hook", "installed")
					}

					return broken
				},
			}
			registry.RegisterChecker(hook)

			fixer = doctor.NewMockFixer(ctrl)
			fixer.EXPECT().ID().Return(doctor.FixInstallHook).AnyTimes()
			fixer.EXPECT().Description().Return("install commit-msg hook").AnyTimes()
			fixer.EXPECT().CanFix(gomock.Any()).Return(true).AnyTimes()
			registry.RegisterFixer(fixer)
		})

		It("suggests the fix without applying it", func() {
			reporter.EXPECT().Report(gomock.Any(), false).Times(1)
			fixer.EXPECT().Fix(gomock.Any()).Times(0)

			Expect(runner.Run(ctx, doctor.RunOptions{})).To(Succeed())
			Expect(out.String()).To(ContainSubstring("  → hook: install commit-msg hook\n"))
			Expect(out.String()).To(ContainSubstring("lavy doctor --fix"))
		})

		It("applies the fix and reports the rerun", func() {
			fixer.EXPECT().Fix(gomock.Any()).DoAndReturn(func(context.Context) error {
				fixed = true

				return nil
			}).Times(1)

			gomock.InOrder(
				reporter.EXPECT().Report([]doctor.CheckResult{withCategory(broken, doctor.CategoryGit)}, false),
				reporter.EXPECT().Report(gomock.Len(1), false).Do(func(results []doctor.CheckResult, _ bool) {
					Expect(results[0].IsPassed()).To(BeTrue())
				}),
			)

			Expect(runner.Run(ctx, doctor.RunOptions{AutoFix: true})).To(Succeed())
			Expect(out.String()).To(ContainSubstring("install commit-msg hook"))
			Expect(hook.calls).To(Equal(2))
		})

		It("reports a failing fix", func() {
			fixer.EXPECT().Fix(gomock.Any()).Return(errors.New("permission denied"))
			reporter.EXPECT().Report(gomock.Any(), false).Times(1)

			err := runner.Run(ctx, doctor.RunOptions{AutoFix: true})
			Expect(err).To(MatchError(ContainSubstring("permission denied")))
			Expect(out.String()).To(ContainSubstring("install commit-msg hook"))
		})

		It("applies a fixer once for several results", func() {
			registry.RegisterChecker(&stubChecker{
				name:     "hook-again",
				category: doctor.CategoryGit,
				result: func() doctor.CheckResult {
					return doctor.FailWarning("hook-again", "missing").WithFixID(doctor.FixInstallHook)
				},
			})

			fixer.EXPECT().Fix(gomock.Any()).Return(nil).Times(1)
			reporter.EXPECT().Report(gomock.Any(), false).Times(2)

			Expect(runner.Run(ctx, doctor.RunOptions{AutoFix: true})).To(Succeed())
		})

		It("ignores results the fixer declines", func() {
			declining := doctor.NewMockFixer(ctrl)
			declining.EXPECT().ID().Return(doctor.FixInstallHook).AnyTimes()
			declining.EXPECT().CanFix(gomock.Any()).Return(false).AnyTimes()
			registry.RegisterFixer(declining)

			reporter.EXPECT().Report(gomock.Any(), false).Times(1)

			Expect(runner.Run(ctx, doctor.RunOptions{AutoFix: true})).To(Succeed())
			Expect(out.String()).To(BeEmpty())
		})
	})
})

func withCategory(r doctor.CheckResult, c doctor.Category) doctor.CheckResult {
	r.Category = c

	return r
}
