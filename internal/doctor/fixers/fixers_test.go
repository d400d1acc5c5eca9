package fixers_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v6"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lavy-dev/lavy/internal/color"
	"github.com/lavy-dev/lavy/internal/config"
	"github.com/lavy-dev/lavy/internal/conflict"
	"github.com/lavy-dev/lavy/internal/doctor"
	"github.com/lavy-dev/lavy/internal/doctor/fixers"
	internalgit "github.com/lavy-dev/lavy/internal/git"
	"github.com/lavy-dev/lavy/internal/i18n"
)

var tr = i18n.Default()

var _ = Describe("InitConfigFixer", func() {
	var (
		dir   string
		fixer *fixers.InitConfigFixer
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		fixer = fixers.NewInitConfigFixer(config.NewWriter(dir, nil), tr)
	})

	It("should describe itself", func() {
		Expect(fixer.ID()).To(Equal(doctor.FixInitConfig))
		Expect(fixer.Description()).To(Equal("创建 lavy.config.toml"))
	})

	DescribeTable("CanFix",
		func(result doctor.CheckResult, expected bool) {
			Expect(fixer.CanFix(result)).To(Equal(expected))
		},
		Entry("failed with matching fix ID",
			doctor.FailWarning("cfg", "missing").WithFixID(doctor.FixInitConfig), true),
		Entry("passed", doctor.Pass("cfg", "ok").WithFixID(doctor.FixInitConfig), false),
		Entry("other fix ID", doctor.FailWarning("cfg", "x").WithFixID(doctor.FixInstallHook), false),
	)

	It("should create the config file", func() {
		Expect(fixer.Fix(context.Background())).To(Succeed())
		Expect(filepath.Join(dir, config.DefaultConfigFile)).To(BeARegularFile())
	})

	It("should fail on an unparsable config file", func() {
		Expect(os.WriteFile(filepath.Join(dir, "lavy.config.json"), []byte("{"), 0o644)).To(Succeed())

		err := fixer.Fix(context.Background())
		Expect(errors.Is(err, config.ErrLoadFailed)).To(BeTrue())
	})
})

var _ = Describe("RemoveConflictsFixer", func() {
	var (
		dir   string
		out   *bytes.Buffer
		fixer *fixers.RemoveConflictsFixer
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		out = &bytes.Buffer{}
		fixer = fixers.NewRemoveConflictsFixer(conflict.NewDetector(nil), dir, out, color.NewTheme(false), tr)
	})

	It("should describe itself", func() {
		Expect(fixer.ID()).To(Equal(doctor.FixRemoveConflicts))
		Expect(fixer.CanFix(doctor.FailWarning("c", "x").WithFixID(doctor.FixRemoveConflicts))).To(BeTrue())
	})

	It("should remove conflicting files and keep lavy configs", func() {
		for _, name := range []string{".eslintrc.js", ".prettierrc", "lavy.config.toml"} {
			Expect(os.WriteFile(filepath.Join(dir, name), nil, 0o644)).To(Succeed())
		}

		Expect(fixer.Fix(context.Background())).To(Succeed())
		Expect(filepath.Join(dir, ".eslintrc.js")).NotTo(BeAnExistingFile())
		Expect(filepath.Join(dir, ".prettierrc")).NotTo(BeAnExistingFile())
		Expect(filepath.Join(dir, "lavy.config.toml")).To(BeAnExistingFile())
		Expect(out.String()).To(ContainSubstring("✅ 已删除: .eslintrc.js"))
	})

	It("should do nothing without conflicts", func() {
		Expect(fixer.Fix(context.Background())).To(Succeed())
		Expect(out.String()).To(BeEmpty())
	})

	It("should report files it cannot remove", func() {
		Expect(os.MkdirAll(filepath.Join(dir, ".eslintrc", "nested"), 0o755)).To(Succeed())

		err := fixer.Fix(context.Background())
		Expect(errors.Is(err, fixers.ErrRemoveFailed)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring(".eslintrc"))
	})
})

var _ = Describe("InstallHookFixer", func() {
	It("should describe itself", func() {
		fixer := fixers.NewInstallHookFixer(GinkgoT().TempDir(), tr)
		Expect(fixer.ID()).To(Equal(doctor.FixInstallHook))
		Expect(fixer.Description()).To(Equal("安装 commit-msg hook"))
	})

	It("should install the hook", func() {
		dir, err := filepath.EvalSymlinks(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		_, err = git.PlainInit(dir, false)
		Expect(err).NotTo(HaveOccurred())

		Expect(fixers.NewInstallHookFixer(dir, tr).Fix(context.Background())).To(Succeed())

		repo, err := internalgit.OpenRepository(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.HookState()).To(Equal(internalgit.HookInstalled))
	})

	It("should fail outside a repository", func() {
		err := fixers.NewInstallHookFixer(GinkgoT().TempDir(), tr).Fix(context.Background())
		Expect(errors.Is(err, internalgit.ErrNotRepository)).To(BeTrue())
	})
})
