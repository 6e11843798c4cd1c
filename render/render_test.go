package render_test

import (
	"os"
	"path/filepath"

	"github.com/Cheikh-Nakamoto/Localhost/render"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Renderer", func() {
	var root string

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		Expect(os.WriteFile(
			filepath.Join(root, "listing.html"),
			[]byte(`<h1>{{.Hostname}}</h1>{{range .Elements}}<li>{{.}}</li>{{end}}`),
			0o644,
		)).To(Succeed())
	})

	It("renders a named template against a context", func() {
		r := render.New(root)

		out, err := r.Render("listing", struct {
			Hostname string
			Elements []string
		}{Hostname: "localhost", Elements: []string{"a.txt", "b.txt"}})

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("<h1>localhost</h1>"))
		Expect(out).To(ContainSubstring("<li>a.txt</li>"))
	})

	It("caches a template across renders instead of re-parsing", func() {
		r := render.New(root)

		_, err := r.Render("listing", struct {
			Hostname string
			Elements []string
		}{Hostname: "first", Elements: nil})
		Expect(err).NotTo(HaveOccurred())

		Expect(os.Remove(filepath.Join(root, "listing.html"))).To(Succeed())

		out, err := r.Render("listing", struct {
			Hostname string
			Elements []string
		}{Hostname: "second", Elements: nil})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("second"))
	})

	It("errors when the named template does not exist", func() {
		r := render.New(root)
		_, err := r.Render("missing", nil)
		Expect(err).To(HaveOccurred())
	})

	It("escapes HTML-sensitive values from untrusted data", func() {
		Expect(os.WriteFile(
			filepath.Join(root, "error.html"),
			[]byte(`{{.Status}}`),
			0o644,
		)).To(Succeed())

		r := render.New(root)
		out, err := r.Render("error", struct{ Status string }{Status: "<script>"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).NotTo(ContainSubstring("<script>"))
	})
})
