package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalconfig "github.com/lavy-dev/lavy/internal/config"
	"github.com/lavy-dev/lavy/pkg/config"
)

var _ = Describe("DefaultConfig", func() {
	It("should return the documented defaults", func() {
		cfg := internalconfig.DefaultConfig()

		Expect(cfg.Commit.Types).To(Equal(config.DefaultCommitTypes))
		Expect(cfg.Commit.GetMaxLength()).To(Equal(72))
		Expect(cfg.Commit.IsMergeCommitsAllowed()).To(BeTrue())
		Expect(cfg.Commit.Rules).To(BeEmpty())
		Expect(cfg.Commit.CustomPatterns).To(BeEmpty())
	})

	It("should return a fresh value on every call", func() {
		first := internalconfig.DefaultConfig()
		first.Commit.Types[0] = "changed"
		*first.Commit.MaxLength = 10

		second := internalconfig.DefaultConfig()
		Expect(second.Commit.Types[0]).To(Equal("feat"))
		Expect(second.Commit.GetMaxLength()).To(Equal(72))
		Expect(config.DefaultCommitTypes[0]).To(Equal("feat"))
	})
})

var _ = Describe("MergeConfig", func() {
	var defaults *config.Config

	BeforeEach(func() {
		defaults = internalconfig.DefaultConfig()
	})

	It("should return a copy of the defaults for a nil user config", func() {
		merged := internalconfig.MergeConfig(defaults, nil)

		Expect(merged).To(Equal(defaults))
		Expect(merged.Commit).NotTo(BeIdenticalTo(defaults.Commit))
	})

	It("should override scalars and replace non-empty types", func() {
		merged := internalconfig.MergeConfig(defaults, &config.Config{
			Commit: &config.CommitConfig{
				Types:             []string{"feat", "fix"},
				MaxLength:         intPtr(100),
				AllowMergeCommits: boolPtr(false),
			},
		})

		Expect(merged.Commit.Types).To(Equal([]string{"feat", "fix"}))
		Expect(merged.Commit.GetMaxLength()).To(Equal(100))
		Expect(merged.Commit.IsMergeCommitsAllowed()).To(BeFalse())
	})

	It("should keep default types when the user list is empty", func() {
		merged := internalconfig.MergeConfig(defaults, &config.Config{
			Commit: &config.CommitConfig{Types: []string{}},
		})

		Expect(merged.Commit.Types).To(Equal(config.DefaultCommitTypes))
	})

	It("should append user rules and patterns after the defaults", func() {
		defaults.Commit.Rules = []config.CommitRule{rule("^feat", "base")}
		defaults.Commit.CustomPatterns = []*config.Pattern{config.MustPattern("a")}

		user := &config.Config{Commit: &config.CommitConfig{
			Rules:          []config.CommitRule{rule("/[^!]$/", "no bang"), rule("#\\d+", "issue")},
			CustomPatterns: []*config.Pattern{config.MustPattern("b")},
		}}

		merged := internalconfig.MergeConfig(defaults, user)

		Expect(merged.Commit.Rules).To(HaveLen(len(defaults.Commit.Rules) + len(user.Commit.Rules)))
		Expect(merged.Commit.Rules[0].Message).To(Equal("base"))
		Expect(merged.Commit.Rules[1].Message).To(Equal("no bang"))
		Expect(merged.Commit.Rules[2].Message).To(Equal("issue"))
		Expect(merged.Commit.CustomPatterns).To(HaveLen(2))
		Expect(merged.Commit.CustomPatterns[1].Source()).To(Equal("b"))
	})

	It("should be idempotent for the same user config", func() {
		user := &config.Config{
			Commit: &config.CommitConfig{
				Rules:          []config.CommitRule{rule("/[^!]$/", "no bang", "feat: x")},
				CustomPatterns: []*config.Pattern{config.MustPattern("#\\d+")},
				MaxLength:      intPtr(50),
			},
			Project: &config.ProjectConfig{Language: "ts"},
		}

		once := internalconfig.MergeConfig(defaults, user)
		twice := internalconfig.MergeConfig(once, user)

		Expect(twice).To(Equal(once))
	})

	It("should replace lint, project and extra keys wholesale", func() {
		defaults.Lint = &config.LintConfig{
			ESLint:   &config.LinterConfig{Enabled: boolPtr(true), Ignore: []string{"dist"}},
			Prettier: &config.LinterConfig{Enabled: boolPtr(true)},
		}
		defaults.Project = &config.ProjectConfig{Language: "js", Framework: "react"}
		defaults.Extra = map[string]any{"keep": 1, "replace": "old"}

		merged := internalconfig.MergeConfig(defaults, &config.Config{
			Lint:    &config.LintConfig{ESLint: &config.LinterConfig{Enabled: boolPtr(false)}},
			Project: &config.ProjectConfig{Language: "ts"},
			Extra:   map[string]any{"replace": "new"},
		})

		Expect(merged.Lint.Prettier).To(BeNil())
		Expect(merged.Lint.ESLint.IsEnabled()).To(BeFalse())
		Expect(merged.Lint.ESLint.Ignore).To(BeEmpty())
		Expect(merged.Project.Framework).To(BeEmpty())
		Expect(merged.Project.Language).To(Equal("ts"))
		Expect(merged.Extra).To(Equal(map[string]any{"keep": 1, "replace": "new"}))
	})

	It("should not modify its inputs", func() {
		user := &config.Config{Commit: &config.CommitConfig{
			Rules: []config.CommitRule{rule("x", "y")},
			Types: []string{"feat"},
		}}
		defaultsBefore := defaults.Clone()
		userBefore := user.Clone()

		merged := internalconfig.MergeConfig(defaults, user)
		merged.Commit.Types[0] = "mutated"
		merged.Commit.Rules[0].Message = "mutated"

		Expect(defaults).To(Equal(defaultsBefore))
		Expect(user).To(Equal(userBefore))
	})
})
