package config_test

import (
	"os"
	"path/filepath"

	"github.com/Cheikh-Nakamoto/Localhost/config"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const sampleToml = `
[log_files]
error_log = "/tmp/error.log"
access_log = "/tmp/access.log"
events_limit = 1024

[http]
timeout = 30
size_limit = 2048

[http.servers.main]
ip_addr = "127.0.0.1"
hostname = "localhost"
ports = [8080]
root_directory = "/srv/www"
error_path = "/srv/www/errors"
default_file = "index.html"
accepted_methods = ["GET", "POST"]

[http.servers.broken]
ip_addr = "not-an-ip"
hostname = "broken"
ports = [8081]
root_directory = "/srv/www"
error_path = "/srv/www/errors"
default_file = "index.html"
accepted_methods = ["GET"]
`

func writeTemp(content string) string {
	dir := GinkgoT().TempDir()
	path := filepath.Join(dir, "config.toml")
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Load", func() {
	It("decodes the file into the typed tree and names each server", func() {
		cfg, err := config.Load(writeTemp(sampleToml))
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.LogFiles.EventsLimit).To(Equal(1024))
		Expect(cfg.HTTP.SizeLimitBytes()).To(Equal(int64(2048 * 1024)))

		srv, ok := cfg.HTTP.Servers["main"]
		Expect(ok).To(BeTrue())
		Expect(srv.Name).To(Equal("main"))
		Expect(srv.IPAddr).To(Equal("127.0.0.1"))
	})

	It("fails on a missing file", func() {
		_, err := config.Load("/nonexistent/path/config.toml")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Config.Validate", func() {
	It("drops servers with an unparsable ip_addr and keeps the rest", func() {
		cfg, err := config.Load(writeTemp(sampleToml))
		Expect(err).NotTo(HaveOccurred())

		dropped, err := cfg.Validate()
		Expect(err).NotTo(HaveOccurred())

		Expect(dropped).To(ConsistOf("broken"))
		Expect(cfg.HTTP.Servers).To(HaveKey("main"))
		Expect(cfg.HTTP.Servers).NotTo(HaveKey("broken"))
	})

	It("reports a validation error when a required field is missing", func() {
		cfg, err := config.Load(writeTemp(`
[log_files]
error_log = "/tmp/error.log"
access_log = "/tmp/access.log"
events_limit = 1024

[http]
size_limit = 1024

[http.servers.incomplete]
ip_addr = "127.0.0.1"
ports = [8080]
accepted_methods = ["GET"]
`))
		Expect(err).NotTo(HaveOccurred())

		_, err = cfg.Validate()
		Expect(err).To(HaveOccurred())
	})
})
