package config_test

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalconfig "github.com/lavy-dev/lavy/internal/config"
	"github.com/lavy-dev/lavy/internal/i18n"
	"github.com/lavy-dev/lavy/pkg/config"
)

func noEnv() []string {
	return nil
}

var _ = Describe("Loader", func() {
	var (
		dir     string
		environ []string
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		environ = nil
	})

	load := func(flags map[string]any) *internalconfig.LoadResult {
		loader := internalconfig.NewLoader(dir, internalconfig.WithEnviron(func() []string {
			return environ
		}))

		return loader.Load(flags)
	}

	It("should return the defaults without a config file", func() {
		res := load(nil)

		Expect(res.Source).To(BeEmpty())
		Expect(res.Config).To(Equal(internalconfig.DefaultConfig()))
		Expect(res.Report.Valid).To(BeTrue())
		Expect(res.Ignored).To(BeEmpty())
	})

	It("should load a TOML config file", func() {
		path := writeFile(dir, "lavy.config.toml", `
[commit]
types = ["feat", "fix"]
max_length = 50
allow_merge_commits = false
custom_patterns = ['#\d+']

[[commit.rules]]
pattern = '/[^!]$/'
message = "no bang"
examples = ["feat: add x"]
`)

		res := load(nil)

		Expect(res.Source).To(Equal(path))
		Expect(res.Report.Valid).To(BeTrue())

		commit := res.Config.Commit
		Expect(commit.Types).To(Equal([]string{"feat", "fix"}))
		Expect(commit.GetMaxLength()).To(Equal(50))
		Expect(commit.IsMergeCommitsAllowed()).To(BeFalse())
		Expect(commit.CustomPatterns).To(HaveLen(1))
		Expect(commit.CustomPatterns[0].Source()).To(Equal(`#\d+`))
		Expect(commit.Rules).To(HaveLen(1))
		Expect(commit.Rules[0].Pattern.String()).To(Equal("/[^!]$/"))
		Expect(commit.Rules[0].Message).To(Equal("no bang"))
		Expect(commit.Rules[0].Examples).To(Equal([]string{"feat: add x"}))
	})

	It("should load JSON config files", func() {
		writeFile(dir, "lavy.config.json", `{"commit": {"max_length": 60, "types": ["docs"]}}`)

		res := load(nil)

		Expect(res.Config.Commit.GetMaxLength()).To(Equal(60))
		Expect(res.Config.Commit.Types).To(Equal([]string{"docs"}))
	})

	It("should load YAML config files", func() {
		writeFile(dir, "lavy.config.yaml", "commit:\n  max_length: 40\nproject:\n  language: ts\n")

		res := load(nil)

		Expect(res.Config.Commit.GetMaxLength()).To(Equal(40))
		Expect(res.Config.Project.Language).To(Equal("ts"))
	})

	It("should prefer the TOML file over other formats", func() {
		writeFile(dir, "lavy.config.toml", "[commit]\nmax_length = 30\n")
		writeFile(dir, "lavy.config.json", `{"commit": {"max_length": 60}}`)

		Expect(load(nil).Config.Commit.GetMaxLength()).To(Equal(30))
	})

	It("should keep lint, project and unknown sections", func() {
		writeFile(dir, "lavy.config.toml", `
[lint.eslint]
enabled = false
ignore = ["dist"]

[project]
framework = "vue"

[custom]
answer = 42
`)

		res := load(nil)

		Expect(res.Config.Lint.ESLint.IsEnabled()).To(BeFalse())
		Expect(res.Config.Lint.ESLint.Ignore).To(Equal([]string{"dist"}))
		Expect(res.Config.Lint.Prettier.IsEnabled()).To(BeTrue())
		Expect(res.Config.Project.Framework).To(Equal("vue"))
		Expect(res.Config.Extra).To(HaveKey("custom"))
	})

	It("should apply environment variables over the file", func() {
		writeFile(dir, "lavy.config.toml", "[commit]\nmax_length = 50\n")
		environ = []string{
			"LAVY_COMMIT_MAX_LENGTH=90",
			"LAVY_COMMIT_TYPES=feat, fix",
			"LAVY_LINT_PRETTIER_ENABLED=false",
			"LAVY_LANG=en",
			"HOME=/home/test",
		}

		res := load(nil)

		Expect(res.Config.Commit.GetMaxLength()).To(Equal(90))
		Expect(res.Config.Commit.Types).To(Equal([]string{"feat", "fix"}))
		Expect(res.Config.Lint.Prettier.IsEnabled()).To(BeFalse())
		Expect(res.Config.Extra).To(BeEmpty())
	})

	It("should apply flags over the environment", func() {
		environ = []string{"LAVY_COMMIT_MAX_LENGTH=90"}

		res := load(map[string]any{"max-length": 30, "no-merge-commits": true})

		Expect(res.Config.Commit.GetMaxLength()).To(Equal(30))
		Expect(res.Config.Commit.IsMergeCommitsAllowed()).To(BeFalse())
	})

	It("should ignore a non-numeric max_length from the environment", func() {
		environ = []string{"LAVY_COMMIT_MAX_LENGTH=abc"}

		res := load(nil)

		Expect(res.Config.Commit.GetMaxLength()).To(Equal(72))
		Expect(res.Ignored).To(ConsistOf("commit.max_length"))
		Expect(errors.Is(res.Report.Errors[0], internalconfig.ErrInvalidMaxLength)).To(BeTrue())
	})

	DescribeTable("ignores invalid commit fields and keeps the rest",
		func(content, field string, sentinel error) {
			writeFile(dir, "lavy.config.toml", "[commit]\nallow_merge_commits = false\n"+content)

			res := load(nil)

			Expect(res.Ignored).To(ContainElement(HavePrefix(field)))
			Expect(res.Report.Valid).To(BeFalse())
			Expect(errors.Is(res.Report.Errors[0], sentinel)).To(BeTrue())
			Expect(res.Config.Commit.IsMergeCommitsAllowed()).To(BeFalse())
			Expect(res.Config.Commit.Types).NotTo(BeEmpty())
			Expect(res.Config.Commit.GetMaxLength()).To(BeNumerically(">", 0))
		},
		Entry("zero max_length", "max_length = 0\n", "commit.max_length", internalconfig.ErrInvalidMaxLength),
		Entry("string max_length", "max_length = \"72\"\n", "commit.max_length", internalconfig.ErrInvalidMaxLength),
		Entry("scalar types", "types = \"feat\"\n", "commit.types", internalconfig.ErrTypesNotArray),
		Entry("empty type", "types = [\"feat\", \"\"]\n", "commit.types", internalconfig.ErrEmptyType),
		Entry("non-string type", "types = [1, 2]\n", "commit.types", internalconfig.ErrEmptyType),
		Entry("scalar rules", "rules = \"x\"\n", "commit.rules", internalconfig.ErrRulesNotArray),
		Entry("scalar patterns", "custom_patterns = \"x\"\n", "commit.custom_patterns", internalconfig.ErrPatternsNotArray),
	)

	It("should ignore a non-boolean allow_merge_commits", func() {
		writeFile(dir, "lavy.config.toml", "[commit]\nallow_merge_commits = \"yes\"\n")

		res := load(nil)

		Expect(res.Config.Commit.IsMergeCommitsAllowed()).To(BeTrue())
		Expect(errors.Is(res.Report.Errors[0], internalconfig.ErrInvalidMergeFlag)).To(BeTrue())
	})

	It("should drop invalid rules individually", func() {
		writeFile(dir, "lavy.config.toml", `
[[commit.rules]]
pattern = '/(abc/'
message = "broken"

[[commit.rules]]
pattern = '/^feat/'
message = "feat only"

[[commit.rules]]
pattern = '/x/'
`)

		res := load(nil)

		Expect(res.Config.Commit.Rules).To(HaveLen(1))
		Expect(res.Config.Commit.Rules[0].Message).To(Equal("feat only"))
		Expect(res.Ignored).To(Equal([]string{"commit.rules[0]", "commit.rules[2]"}))
		Expect(res.Report.Errors).To(HaveLen(1))
		Expect(errors.Is(res.Report.Errors[0], internalconfig.ErrInvalidRulePattern)).To(BeTrue())
		Expect(res.Report.Errors[0].Detail).NotTo(BeEmpty())
	})

	It("should report an invalid rule with its catalogue message", func() {
		writeFile(dir, "lavy.config.toml", "[[commit.rules]]\npattern = '/(abc/'\nmessage = 'broken'\n")

		res := load(nil)

		Expect(res.Report.Errors).To(HaveLen(1))
		issue := res.Report.Errors[0]
		Expect(errors.Is(issue, internalconfig.ErrInvalidRulePattern)).To(BeTrue())
		Expect(issue.Detail).To(ContainSubstring("error parsing regexp"))
		Expect(issue.Detail).NotTo(HavePrefix("''"))
		Expect(issue.Detail).NotTo(ContainSubstring(internalconfig.ErrInvalidRulePattern.Error()))

		msg := issue.Message(i18n.Default())
		Expect(msg).To(HavePrefix("commit.rules 中的每个规则必须包含有效的 pattern 正则表达式: "))
		Expect(strings.Count(msg, "error parsing regexp")).To(Equal(1))
	})

	It("should report a rule without a message by its sentinel", func() {
		writeFile(dir, "lavy.config.toml", "[[commit.rules]]\npattern = '/^feat/'\n")

		res := load(nil)

		Expect(res.Report.Errors).To(HaveLen(1))
		Expect(errors.Is(res.Report.Errors[0], internalconfig.ErrInvalidRuleMessage)).To(BeTrue())
		Expect(res.Report.Errors[0].Detail).To(BeEmpty())
	})

	It("should report a non-table rule entry without a detail", func() {
		writeFile(dir, "lavy.config.json", `{"commit": {"rules": ["feat"]}}`)

		res := load(nil)

		Expect(res.Ignored).To(Equal([]string{"commit.rules[0]"}))
		Expect(errors.Is(res.Report.Errors[0], internalconfig.ErrInvalidRulePattern)).To(BeTrue())
		Expect(res.Report.Errors[0].Detail).To(BeEmpty())
	})

	It("should ignore a fractional max_length", func() {
		writeFile(dir, "lavy.config.json", `{"commit": {"max_length": 72.5}}`)

		res := load(nil)

		Expect(res.Ignored).To(Equal([]string{"commit.max_length"}))
		Expect(errors.Is(res.Report.Errors[0], internalconfig.ErrInvalidMaxLength)).To(BeTrue())
		Expect(res.Config.Commit.GetMaxLength()).To(Equal(config.DefaultMaxLength))
	})

	It("should accept an integral float max_length", func() {
		writeFile(dir, "lavy.config.json", `{"commit": {"max_length": 60}}`)

		res := load(nil)

		Expect(res.Report.Valid).To(BeTrue())
		Expect(res.Config.Commit.GetMaxLength()).To(Equal(60))
	})

	It("should keep a slash path custom pattern as a bare source", func() {
		writeFile(dir, "lavy.config.toml", "[commit]\ncustom_patterns = ['/usr/bin']\n")

		res := load(nil)

		Expect(res.Ignored).To(BeEmpty())
		Expect(res.Config.Commit.CustomPatterns).To(HaveLen(1))
		Expect(res.Config.Commit.CustomPatterns[0].Source()).To(Equal("/usr/bin"))
	})

	It("should drop invalid custom patterns individually", func() {
		writeFile(dir, "lavy.config.toml", "[commit]\ncustom_patterns = ['(?=x)', 'ok', 3]\n")

		res := load(nil)

		Expect(res.Config.Commit.CustomPatterns).To(HaveLen(1))
		Expect(res.Config.Commit.CustomPatterns[0].Source()).To(Equal("ok"))
		Expect(res.Ignored).To(Equal([]string{"commit.custom_patterns[0]", "commit.custom_patterns[2]"}))
	})

	It("should warn about a very large max_length but keep it", func() {
		writeFile(dir, "lavy.config.toml", "[commit]\nmax_length = 500\n")

		res := load(nil)

		Expect(res.Config.Commit.GetMaxLength()).To(Equal(500))
		Expect(res.Report.Valid).To(BeTrue())
		Expect(res.Report.Warnings).To(HaveLen(1))
		Expect(errors.Is(res.Report.Warnings[0], internalconfig.ErrUnusualMaxLength)).To(BeTrue())
	})

	It("should fall back to the defaults when the file cannot be parsed", func() {
		writeFile(dir, "lavy.config.toml", "[commit\nmax_length = 10\n")
		environ = []string{"LAVY_COMMIT_MAX_LENGTH=80"}

		res := load(nil)

		Expect(res.Source).To(BeEmpty())
		Expect(res.Config.Commit.Types).To(Equal(config.DefaultCommitTypes))
		Expect(res.Config.Commit.GetMaxLength()).To(Equal(80))
		Expect(errors.Is(res.Report.Errors[0], internalconfig.ErrLoadFailed)).To(BeTrue())
	})

	It("should refuse world-writable config files", func() {
		path := writeFile(dir, "lavy.config.toml", "[commit]\nmax_length = 10\n")
		Expect(os.Chmod(path, 0o666)).To(Succeed())

		res := load(nil)

		Expect(res.Config.Commit.GetMaxLength()).To(Equal(72))
		Expect(errors.Is(res.Report.Errors[0], internalconfig.ErrInvalidPermissions)).To(BeTrue())
	})

	It("should skip executable config files", func() {
		path := writeFile(dir, "lavy.config.js", "export default { commit: { maxLength: 10 } }\n")

		res := load(nil)

		Expect(res.Executable).To(Equal(path))
		Expect(res.Source).To(BeEmpty())
		Expect(res.Config.Commit.GetMaxLength()).To(Equal(72))
	})

	It("should not cache between loads", func() {
		writeFile(dir, "lavy.config.toml", "[commit]\nmax_length = 10\n")
		loader := internalconfig.NewLoader(dir, internalconfig.WithEnviron(noEnv))
		Expect(loader.Load(nil).Config.Commit.GetMaxLength()).To(Equal(10))

		writeFile(dir, "lavy.config.toml", "[commit]\nmax_length = 20\n")
		Expect(loader.Load(nil).Config.Commit.GetMaxLength()).To(Equal(20))
	})

	It("should load the file alone", func() {
		writeFile(dir, "lavy.config.toml", "[commit]\nmax_length = 10\n")

		k, path, err := internalconfig.NewLoader(dir).LoadFileOnly()

		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(dir, "lavy.config.toml")))
		Expect(k.Int("commit.max_length")).To(Equal(10))
		Expect(k.Exists("commit.types")).To(BeFalse())
	})

	It("should reject unknown file formats", func() {
		_, err := internalconfig.ParserFor("lavy.config.ini")

		Expect(errors.Is(err, internalconfig.ErrUnsupportedFormat)).To(BeTrue())
	})
})

var _ = Describe("envTransform", func() {
	DescribeTable("maps variables onto config paths",
		func(key, value, path string, expected any) {
			gotPath, got := internalconfig.EnvTransform(key, value)

			Expect(gotPath).To(Equal(path))

			if expected == nil {
				Expect(got).To(BeNil())
			} else {
				Expect(got).To(Equal(expected))
			}
		},
		Entry("max length", "LAVY_COMMIT_MAX_LENGTH", "90", "commit.max_length", 90),
		Entry("merge flag", "LAVY_COMMIT_ALLOW_MERGE_COMMITS", "false", "commit.allow_merge_commits", false),
		Entry("types", "LAVY_COMMIT_TYPES", "feat,fix", "commit.types", []any{"feat", "fix"}),
		Entry("project", "LAVY_PROJECT_LANGUAGE", "ts", "project.language", "ts"),
		Entry("linter config", "LAVY_LINT_ESLINT_CONFIG", "x.js", "lint.eslint.config", "x.js"),
		Entry("language is not config", "LAVY_LANG", "en", "", nil),
		Entry("unknown linter", "LAVY_LINT_JSHINT_ENABLED", "true", "", nil),
		Entry("unknown commit field", "LAVY_COMMIT_RULES", "x", "", nil),
	)
})

var _ = Describe("flagsToConfig", func() {
	It("should map CLI flags", func() {
		out := internalconfig.FlagsToConfig(map[string]any{
			"max-length":       50,
			"no-merge-commits": true,
			"types":            []string{"feat"},
			"unrelated":        "x",
		})

		Expect(out).To(Equal(map[string]any{
			"commit": map[string]any{
				"max_length":          50,
				"allow_merge_commits": false,
				"types":               []any{"feat"},
			},
		}))
	})

	It("should skip unset flags", func() {
		Expect(internalconfig.FlagsToConfig(map[string]any{"no-merge-commits": false})).To(BeEmpty())
	})
})
