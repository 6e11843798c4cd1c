package script_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Cheikh-Nakamoto/Localhost/script"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Runner", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("invokes the mapped interpreter and captures stdout", func() {
		path := filepath.Join(dir, "greet.sh")
		Expect(os.WriteFile(path, []byte("echo hello"), 0o755)).To(Succeed())

		r := script.New(map[string]string{".sh": "sh"}, time.Second)
		out, err := r.Execute(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(ContainSubstring("hello"))
	})

	It("falls back to executing the file directly when no interpreter is mapped", func() {
		path := filepath.Join(dir, "greet.sh")
		contents := "#!/bin/sh\necho direct\n"
		Expect(os.WriteFile(path, []byte(contents), 0o755)).To(Succeed())

		r := script.New(nil, time.Second)
		out, err := r.Execute(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(ContainSubstring("direct"))
	})

	It("reports a timeout error when execution exceeds the bound", func() {
		path := filepath.Join(dir, "slow.sh")
		Expect(os.WriteFile(path, []byte("sleep 2"), 0o755)).To(Succeed())

		r := script.New(map[string]string{".sh": "sh"}, 20*time.Millisecond)
		_, err := r.Execute(path)

		Expect(err).To(HaveOccurred())
	})

	It("reports an execution error when the interpreter binary does not exist", func() {
		path := filepath.Join(dir, "x.rb")
		Expect(os.WriteFile(path, []byte("puts 1"), 0o644)).To(Succeed())

		r := script.New(map[string]string{".rb": "a-binary-that-does-not-exist"}, time.Second)
		_, err := r.Execute(path)

		Expect(err).To(HaveOccurred())
	})
})
