package router_test

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/Cheikh-Nakamoto/Localhost/config"
	"github.com/Cheikh-Nakamoto/Localhost/logger"
	"github.com/Cheikh-Nakamoto/Localhost/render"
	"github.com/Cheikh-Nakamoto/Localhost/router"
	"github.com/Cheikh-Nakamoto/Localhost/script"
	"github.com/Cheikh-Nakamoto/Localhost/session"
	"github.com/Cheikh-Nakamoto/Localhost/vhost"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// freePort asks the kernel for an ephemeral port and releases it right
// away, for the Router to rebind under its own non-blocking listener.
func freePort() int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// dialWithRetry tolerates the short window between starting Run in a
// goroutine and its listener actually becoming acceptable.
func dialWithRetry(addr string) net.Conn {
	deadline := time.Now().Add(2 * time.Second)
	var lastErr error
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			return conn
		}
		lastErr = err
		time.Sleep(10 * time.Millisecond)
	}
	Expect(lastErr).NotTo(HaveOccurred())
	return nil
}

var _ = Describe("Router", func() {
	var (
		port   int
		rtr    *router.Router
		origWD string
	)

	BeforeEach(func() {
		port = freePort()

		var err error
		origWD, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		workdir := GinkgoT().TempDir()
		Expect(os.Chdir(workdir)).To(Succeed())

		Expect(os.MkdirAll("webroot", 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join("webroot", "index.html"), []byte("hello world"), 0o644)).To(Succeed())

		templateDir := filepath.Join(workdir, "templates")
		Expect(os.MkdirAll(templateDir, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(templateDir, "error.html"), []byte("{{.Code}}"), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(templateDir, "listing.html"), []byte("listing"), 0o644)).To(Succeed())

		cfg := &config.VirtualServer{
			IPAddr:          "127.0.0.1",
			Hostname:        "127.0.0.1",
			Ports:           []uint16{uint16(port)},
			RootDirectory:   "webroot",
			ErrorPath:       "error",
			DefaultFile:     "listing",
			AcceptedMethods: []string{"GET"},
		}
		global := &config.HTTP{SizeLimit: 1024}

		log := logger.New(logger.Config{
			ErrorLogPath:  filepath.Join(workdir, "error.log"),
			AccessLogPath: filepath.Join(workdir, "access.log"),
		})
		rend := render.New(templateDir)
		runner := script.New(nil, time.Second)

		handler := vhost.NewHandler(cfg, global, log, rend, runner)
		sessions := session.NewStore()

		rtr, err = router.New([]*vhost.Handler{handler}, global, sessions, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(rtr.AddServer(cfg)).To(Succeed())

		go func() { _ = rtr.Run() }()
	})

	AfterEach(func() {
		_ = rtr.Close()
		Expect(os.Chdir(origWD)).To(Succeed())
	})

	It("accepts a connection, assembles a GET, and writes back the file contents", func() {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		conn := dialWithRetry(addr)
		defer conn.Close()

		_, err := conn.Write([]byte(fmt.Sprintf("GET /index.html HTTP/1.1\r\nHost: 127.0.0.1:%d\r\n\r\n", port)))
		Expect(err).NotTo(HaveOccurred())

		Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
		reader := bufio.NewReader(conn)

		status, err := reader.ReadString('\n')
		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(ContainSubstring("200"))

		var body string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				break
			}
			if line == "\r\n" {
				buf := make([]byte, len("hello world"))
				_, _ = reader.Read(buf)
				body = string(buf)
				break
			}
		}
		Expect(body).To(Equal("hello world"))
	})

	It("answers 404 for a path absent from root_directory", func() {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		conn := dialWithRetry(addr)
		defer conn.Close()

		_, err := conn.Write([]byte(fmt.Sprintf("GET /nope.html HTTP/1.1\r\nHost: 127.0.0.1:%d\r\n\r\n", port)))
		Expect(err).NotTo(HaveOccurred())

		Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
		reader := bufio.NewReader(conn)
		status, err := reader.ReadString('\n')
		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(ContainSubstring("404"))
	})

	It("never dispatches a request whose Host/port match no configured server", func() {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		conn := dialWithRetry(addr)
		defer conn.Close()

		_, err := conn.Write([]byte("GET /index.html HTTP/1.1\r\nHost: example.invalid:9999\r\n\r\n"))
		Expect(err).NotTo(HaveOccurred())

		Expect(conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))).To(Succeed())
		buf := make([]byte, 64)
		_, err = conn.Read(buf)
		Expect(err).To(HaveOccurred())
	})
})
