package commit_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lavy-dev/lavy/internal/color"
	"github.com/lavy-dev/lavy/internal/commit"
	"github.com/lavy-dev/lavy/pkg/config"
)

var _ = Describe("Report", func() {
	var (
		v   *commit.Validator
		buf *bytes.Buffer
	)

	BeforeEach(func() {
		v = commit.NewValidator(&config.CommitConfig{
			CustomPatterns: []*config.Pattern{config.MustPattern("/#\\d+/")},
		})
		buf = &bytes.Buffer{}
	})

	It("should print success and warnings for valid messages", func() {
		res := v.Validate("feat: x")
		commit.Report(buf, res, v, color.NewTheme(false))

		out := buf.String()
		Expect(out).To(ContainSubstring("✅ 提交信息验证通过！"))
		Expect(out).To(ContainSubstring("⚠️  警告信息："))
		Expect(out).NotTo(ContainSubstring("支持的提交类型"))
		Expect(commit.ExitCode(res)).To(Equal(commit.ExitValid))
	})

	It("should print errors and the type listing for invalid messages", func() {
		res := v.Validate("nope")
		commit.Report(buf, res, v, color.NewTheme(false))

		out := buf.String()
		Expect(out).To(ContainSubstring("❌ 提交信息验证失败！"))
		Expect(out).To(ContainSubstring("  • 提交信息格式错误"))
		Expect(out).To(ContainSubstring("  • feat\n"))
		Expect(commit.ExitCode(res)).To(Equal(commit.ExitInvalid))
	})

	It("should treat a nil result as invalid", func() {
		Expect(commit.ExitCode(nil)).To(Equal(commit.ExitInvalid))
	})
})

var _ = Describe("SelfTest", func() {
	It("should pass every case with the default configuration", func() {
		outcomes := commit.SelfTest(commit.NewValidator(&config.CommitConfig{}))

		Expect(outcomes).To(HaveLen(len(commit.SelfTestCases())))
		Expect(commit.CountPassed(outcomes)).To(Equal(len(outcomes)))
	})

	It("should report failures when the configuration disagrees", func() {
		allow := false
		v := commit.NewValidator(&config.CommitConfig{AllowMergeCommits: &allow})
		outcomes := commit.SelfTest(v)

		Expect(commit.CountPassed(outcomes)).To(Equal(len(outcomes) - 1))

		buf := &bytes.Buffer{}
		commit.ReportSelfTest(buf, outcomes, v, color.NewTheme(false))

		out := buf.String()
		Expect(out).To(ContainSubstring(`❌ 合并提交: "Merge branch main"`))
		Expect(out).To(ContainSubstring("预期: 通过, 实际: 失败"))
		Expect(out).To(ContainSubstring("📊 测试结果: 15/16 通过"))
		Expect(out).To(ContainSubstring("部分测试失败"))
	})
})
