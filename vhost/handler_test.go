package vhost_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Cheikh-Nakamoto/Localhost/config"
	"github.com/Cheikh-Nakamoto/Localhost/logger"
	"github.com/Cheikh-Nakamoto/Localhost/render"
	"github.com/Cheikh-Nakamoto/Localhost/request"
	"github.com/Cheikh-Nakamoto/Localhost/script"
	"github.com/Cheikh-Nakamoto/Localhost/session"
	"github.com/Cheikh-Nakamoto/Localhost/vhost"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func headerValue(resp *vhost.Response, name string) (string, bool) {
	for i, n := range resp.HeaderNames {
		if n == name {
			return resp.HeaderVals[i], true
		}
	}
	return "", false
}

var _ = Describe("Handler", func() {
	var (
		origWD      string
		templateDir string
		cfg         *config.VirtualServer
		global      *config.HTTP
		handler     *vhost.Handler
		sess        *session.Session
	)

	BeforeEach(func() {
		var err error
		origWD, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		workdir := GinkgoT().TempDir()
		Expect(os.Chdir(workdir)).To(Succeed())

		Expect(os.MkdirAll("webroot/photos", 0o755)).To(Succeed())
		Expect(os.WriteFile("webroot/index.html", []byte("hello world"), 0o644)).To(Succeed())

		templateDir = filepath.Join(workdir, "templates")
		Expect(os.MkdirAll(templateDir, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(templateDir, "listing.html"),
			[]byte(`{{range .Elements}}{{.Name}} {{end}}`), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(templateDir, "error.html"),
			[]byte(`{{.Code}} {{.Status}}`), 0o644)).To(Succeed())

		cfg = &config.VirtualServer{
			IPAddr:           "127.0.0.1",
			Hostname:         "localhost",
			Ports:            []uint16{8080},
			RootDirectory:    "webroot",
			ErrorPath:        "error",
			DefaultFile:      "listing",
			AcceptedMethods:  []string{"GET", "POST", "DELETE"},
			DirectoryListing: true,
			Redirections: []config.Redirection{
				{Source: "/old", Target: "/new"},
				{Source: "/a", Target: "/b"},
				{Source: "/b", Target: "/c"},
			},
		}
		global = &config.HTTP{SizeLimit: 1}

		log := logger.New(logger.Config{
			ErrorLogPath:  filepath.Join(workdir, "error.log"),
			AccessLogPath: filepath.Join(workdir, "access.log"),
		})
		rend := render.New(templateDir)
		runner := script.New(nil, time.Second)

		handler = vhost.NewHandler(cfg, global, log, rend, runner)
		sess = session.New()
	})

	AfterEach(func() {
		Expect(os.Chdir(origWD)).To(Succeed())
	})

	It("exposes the configured virtual server", func() {
		Expect(handler.Server()).To(BeIdenticalTo(cfg))
	})

	It("serves a static file with an inferred content type", func() {
		req := &request.Request{Method: "GET", Location: "/index.html", Host: "127.0.0.1", Port: 8080, Complete: true, Timestamp: time.Now()}

		resp := handler.Handle(req, sess)

		Expect(resp.Status).To(Equal(200))
		Expect(string(resp.Body)).To(Equal("hello world"))
		ct, ok := headerValue(resp, "Content-Type")
		Expect(ok).To(BeTrue())
		Expect(ct).To(Equal("text/html"))
	})

	It("answers 404 for a missing file", func() {
		req := &request.Request{Method: "GET", Location: "/missing.html", Complete: true, Timestamp: time.Now()}
		resp := handler.Handle(req, sess)
		Expect(resp.Status).To(Equal(404))
	})

	It("answers 404 for a missing .rb script instead of dispatching it to the runner", func() {
		req := &request.Request{Method: "GET", Location: "/missing.rb", Complete: true, Timestamp: time.Now()}
		resp := handler.Handle(req, sess)
		Expect(resp.Status).To(Equal(404))
	})

	It("renders a directory listing for a directory location with no query string", func() {
		req := &request.Request{Method: "GET", Location: "/photos", Complete: true, Timestamp: time.Now()}
		resp := handler.Handle(req, sess)
		Expect(resp.Status).To(Equal(200))
	})

	It("answers 405 for a method outside accepted_methods", func() {
		cfg.AcceptedMethods = []string{"GET"}
		req := &request.Request{Method: "DELETE", Location: "/index.html", Complete: true, Timestamp: time.Now()}
		resp := handler.Handle(req, sess)
		Expect(resp.Status).To(Equal(405))
	})

	It("answers 413 when the declared length exceeds the size gate", func() {
		req := &request.Request{Method: "POST", Location: "/photos", Complete: true, Timestamp: time.Now(), Length: 2 * 1024 * 1024}
		resp := handler.Handle(req, sess)
		Expect(resp.Status).To(Equal(413))
	})

	It("redirects with a 302 and the configured target", func() {
		req := &request.Request{Method: "GET", Location: "/old", Complete: true, Timestamp: time.Now()}
		resp := handler.Handle(req, sess)

		Expect(resp.Status).To(Equal(302))
		loc, ok := headerValue(resp, "Location")
		Expect(ok).To(BeTrue())
		Expect(loc).To(Equal("/new"))
	})

	It("answers 508 when a redirection target is itself a redirection source", func() {
		req := &request.Request{Method: "GET", Location: "/a", Complete: true, Timestamp: time.Now()}
		resp := handler.Handle(req, sess)
		Expect(resp.Status).To(Equal(508))
	})

	It("creates a folder and redirects back minus the query string", func() {
		body := "--B\r\nContent-Disposition: form-data; name=\"foldername\"\r\n\r\nalbum\r\n--B--"
		req := &request.Request{
			Method: "POST", Location: "/photos?x=1", Complete: true, Timestamp: time.Now(),
			Body: body, BodyByte: []byte(body), Boundary: "B",
		}

		resp := handler.Handle(req, sess)

		Expect(resp.Status).To(Equal(302))
		loc, _ := headerValue(resp, "Location")
		Expect(loc).To(Equal("/photos"))

		info, err := os.Stat("webroot/photos/album")
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())
	})

	It("answers 409 when the folder already exists", func() {
		Expect(os.Mkdir("webroot/photos/album", 0o755)).To(Succeed())
		body := "--B\r\nContent-Disposition: form-data; name=\"foldername\"\r\n\r\nalbum\r\n--B--"
		req := &request.Request{
			Method: "POST", Location: "/photos", Complete: true, Timestamp: time.Now(),
			Body: body, BodyByte: []byte(body), Boundary: "B",
		}

		resp := handler.Handle(req, sess)
		Expect(resp.Status).To(Equal(409))
	})

	It("uploads a file and redirects to the unmodified location", func() {
		body := "--BOUND\r\nContent-Disposition: form-data; name=\"file\"; filename=\"hello.txt\"\r\n\r\nhi\r\n--BOUND--"
		req := &request.Request{
			Method: "POST", Location: "/photos?x=1", Complete: true, Timestamp: time.Now(),
			Body: body, BodyByte: []byte(body), Boundary: "BOUND",
		}

		resp := handler.Handle(req, sess)

		Expect(resp.Status).To(Equal(302))
		loc, _ := headerValue(resp, "Location")
		Expect(loc).To(Equal("/photos?x=1"))

		content, err := os.ReadFile("webroot/photos/hello.txt")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(Equal("hi"))
	})

	It("answers 413 when the upload exceeds upload_limit", func() {
		cfg.UploadLimit = 1
		body := "--BOUND\r\nContent-Disposition: form-data; name=\"file\"; filename=\"hello.txt\"\r\n\r\nhi\r\n--BOUND--"
		req := &request.Request{
			Method: "POST", Location: "/photos", Complete: true, Timestamp: time.Now(),
			Body: body, BodyByte: []byte(body), Boundary: "BOUND",
		}

		resp := handler.Handle(req, sess)
		Expect(resp.Status).To(Equal(413))
	})

	It("deletes a file and redirects to the root", func() {
		Expect(os.WriteFile("webroot/photos/gone.txt", []byte("x"), 0o644)).To(Succeed())

		body := "--B\r\nContent-Disposition: form-data; file_to_delete=\"gone.txt\"\r\n\r\nx\r\n--B--"
		req := &request.Request{
			Method: "DELETE", Location: "/photos", Complete: true, Timestamp: time.Now(),
			Body: body, Boundary: "B",
		}

		resp := handler.Handle(req, sess)

		Expect(resp.Status).To(Equal(200))
		_, err := os.Stat("webroot/photos/gone.txt")
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("always attaches the session cookie", func() {
		req := &request.Request{Method: "GET", Location: "/index.html", Complete: true, Timestamp: time.Now()}
		resp := handler.Handle(req, sess)

		cookie, ok := headerValue(resp, "Set-Cookie")
		Expect(ok).To(BeTrue())
		Expect(cookie).To(ContainSubstring(sess.ID))
	})
})
