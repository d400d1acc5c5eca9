package git

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("clearGitEnvVars", func() {
	It("should clear the index inherited from a parent git process", func() {
		GinkgoT().Setenv("GIT_INDEX_FILE", "/tmp/parent-index")

		clearGitEnvVars()

		_, exists := os.LookupEnv("GIT_INDEX_FILE")
		Expect(exists).To(BeFalse())
	})

	It("should tolerate an unset variable", func() {
		Expect(os.Unsetenv("GIT_INDEX_FILE")).To(Succeed())
		Expect(clearGitEnvVars).NotTo(Panic())
	})
})
