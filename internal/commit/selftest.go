package commit

import (
	"fmt"
	"io"
	"strings"

	"github.com/lavy-dev/lavy/internal/color"
	"github.com/lavy-dev/lavy/internal/i18n"
)

// SelfTestCase is one message of the built-in validator battery.
type SelfTestCase struct {
	// DescriptionID is the catalogue id describing the case.
	DescriptionID string
	Message       string
	Expected      bool
}

// SelfTestOutcome pairs a case with what the validator returned for it.
type SelfTestOutcome struct {
	Case        SelfTestCase
	Description string
	Result      *Result
	Passed      bool
}

// SelfTestCases returns the battery run by "lavy commit --test".
// Expectations assume the default configuration.
func SelfTestCases() []SelfTestCase {
	return []SelfTestCase{
		{DescriptionID: "case_feat", Message: "feat: 添加新功能", Expected: true},
		{DescriptionID: "case_fix", Message: "fix: 修复登录问题", Expected: true},
		{DescriptionID: "case_docs", Message: "docs: 更新文档", Expected: true},
		{DescriptionID: "case_style", Message: "style: 格式化代码", Expected: true},
		{DescriptionID: "case_refactor", Message: "refactor: 重构代码", Expected: true},
		{DescriptionID: "case_perf", Message: "perf: 性能优化", Expected: true},
		{DescriptionID: "case_test", Message: "test: 添加测试", Expected: true},
		{DescriptionID: "case_build", Message: "build: 构建配置", Expected: true},
		{DescriptionID: "case_ci", Message: "ci: CI/CD 配置", Expected: true},
		{DescriptionID: "case_chore", Message: "chore: 其他改动", Expected: true},
		{DescriptionID: "case_revert", Message: "revert: 回滚提交", Expected: true},
		{DescriptionID: "case_merge", Message: "Merge branch main", Expected: true},
		{DescriptionID: "case_missing_type", Message: "update something", Expected: false},
		{DescriptionID: "case_uppercase", Message: "Feat: 大写开头", Expected: false},
		{
			DescriptionID: "case_too_long",
			Message: "feat: 这是一个非常长的提交信息描述，超过了字符限制，这个描述确实太长了，" +
				"应该会被拒绝，因为它超过了72个字符的限制，这是一个非常长的描述，需要更多字符",
			Expected: false,
		},
		{DescriptionID: "case_empty", Message: "", Expected: false},
	}
}

// SelfTest runs the battery against v.
func SelfTest(v *Validator) []SelfTestOutcome {
	cases := SelfTestCases()
	out := make([]SelfTestOutcome, 0, len(cases))

	for _, c := range cases {
		res := v.Validate(c.Message)
		out = append(out, SelfTestOutcome{
			Case:        c,
			Description: v.tr.T(c.DescriptionID),
			Result:      res,
			Passed:      res.Valid == c.Expected,
		})
	}

	return out
}

// CountPassed returns how many outcomes matched their expectation.
func CountPassed(outcomes []SelfTestOutcome) int {
	n := 0

	for _, o := range outcomes {
		if o.Passed {
			n++
		}
	}

	return n
}

// ReportSelfTest writes the outcome of every case and the summary line.
func ReportSelfTest(w io.Writer, outcomes []SelfTestOutcome, v *Validator, theme color.Theme) {
	fmt.Fprintln(w, theme.Header.Render(v.tr.T("selftest_header")))

	for _, o := range outcomes {
		if o.Passed {
			fmt.Fprintf(w, "  %s %s: %q\n", theme.Success.Render("✅"), o.Description, o.Case.Message)

			continue
		}

		fmt.Fprintf(w, "  %s %s: %q\n", theme.Error.Render("❌"), o.Description, o.Case.Message)
		fmt.Fprintf(w, "     %s\n", v.tr.T("selftest_expected", i18n.Data{
			"Expected": v.passFail(o.Case.Expected),
			"Actual":   v.passFail(o.Result.Valid),
		}))

		if len(o.Result.Errors) > 0 {
			fmt.Fprintf(w, "     %s\n", v.tr.T("selftest_errors", i18n.Data{
				"Errors": strings.Join(o.Result.Errors, ", "),
			}))
		}
	}

	passed := CountPassed(outcomes)

	fmt.Fprintln(w)
	fmt.Fprintln(w, v.tr.T("selftest_summary", i18n.Data{"Passed": passed, "Total": len(outcomes)}))

	if passed == len(outcomes) {
		fmt.Fprintln(w, theme.Success.Render(v.tr.T("selftest_all_passed")))
	} else {
		fmt.Fprintln(w, theme.Warning.Render(v.tr.T("selftest_some_failed")))
	}
}

func (v *Validator) passFail(ok bool) string {
	if ok {
		return v.tr.T("selftest_pass")
	}

	return v.tr.T("selftest_fail")
}
