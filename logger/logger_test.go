package logger_test

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/Cheikh-Nakamoto/Localhost/logger"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Logger", func() {
	var (
		dir       string
		errPath   string
		accPath   string
		underTest logger.Logger
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		errPath = filepath.Join(dir, "error.log")
		accPath = filepath.Join(dir, "access.log")

		underTest = logger.New(logger.Config{
			ErrorLogPath:  errPath,
			AccessLogPath: accPath,
		})
	})

	It("appends a rendered line per access entry", func() {
		underTest.Access(logger.AccessEntry{
			RemoteAddr: "127.0.0.1",
			RemoteUser: "-",
			TimeLocal:  time.Now(),
			Method:     "GET",
			Status:     200,
			BytesSent:  2048,
		})

		content, err := os.ReadFile(accPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("GET"))
		Expect(string(content)).To(ContainSubstring("200"))
	})

	It("appends a structured line per error", func() {
		underTest.Error("uploadFile", "actions.go", 42, errors.New("disk full"))

		content, err := os.ReadFile(errPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("disk full"))
		Expect(string(content)).To(ContainSubstring("uploadFile"))
	})

	It("swallows a missing error path rather than panicking", func() {
		silent := logger.New(logger.Config{ErrorLogPath: "", AccessLogPath: ""})
		Expect(func() {
			silent.Error("f", "file.go", 1, errors.New("boom"))
			silent.Access(logger.AccessEntry{})
		}).NotTo(Panic())
	})

	It("falls back to the default format on a malformed access_log_format", func() {
		broken := logger.New(logger.Config{
			AccessLogPath:   accPath,
			ErrorLogPath:    errPath,
			AccessLogFormat: `{{.Nope`,
		})

		broken.Access(logger.AccessEntry{Method: "POST", Status: 404})

		content, err := os.ReadFile(accPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("POST"))
	})
})
