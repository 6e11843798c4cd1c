/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package router is the single-threaded, readiness-based event loop: it
// owns every listener, client stream, session and pending request, accepts
// connections, drains readable streams, reassembles HTTP requests across
// readiness events, and dispatches complete ones to a matching virtual
// server.
package router

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/Cheikh-Nakamoto/Localhost/config"
	"github.com/Cheikh-Nakamoto/Localhost/logger"
	"github.com/Cheikh-Nakamoto/Localhost/request"
	"github.com/Cheikh-Nakamoto/Localhost/session"
	"github.com/Cheikh-Nakamoto/Localhost/vhost"
)

// token identifies a listener or a client stream. Listener tokens and
// client tokens are drawn from the same monotonic counter, starting at
// 1000, per the token-space convention: nothing depends on their parity or
// range, only on uniqueness while the owner is live.
type token uint64

const firstToken token = 1000

type listenerEntry struct {
	fd int
}

type clientEntry struct {
	fd         int
	remoteAddr string
	deadline   time.Time
}

type queuedRequest struct {
	req    *request.Request
	client token
}

// Router is the event loop. It is not safe for concurrent use: every method
// here is meant to run on the single goroutine that calls Run.
type Router struct {
	epfd int

	listeners map[token]*listenerEntry
	clients   map[token]*clientEntry
	queue     []*queuedRequest

	handlers  []*vhost.Handler
	sessions  *session.Store
	log       logger.Logger
	sizeLimit int64

	nextToken token
}

// New builds a Router ready to accept AddServer calls. handlers is the
// complete set of configured virtual servers (order matters: the first
// whose ip_addr/hostname and port match a request wins).
func New(handlers []*vhost.Handler, global *config.HTTP, sessions *session.Store, log logger.Logger) (*Router, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, err
	}

	return &Router{
		epfd:      epfd,
		listeners: make(map[token]*listenerEntry),
		clients:   make(map[token]*clientEntry),
		handlers:  handlers,
		sessions:  sessions,
		log:       log,
		sizeLimit: global.SizeLimitBytes(),
		nextToken: firstToken,
	}, nil
}

func (r *Router) newToken() token {
	t := r.nextToken
	r.nextToken++
	return t
}

// AddServer binds one non-blocking listener per configured port. If a port
// is already bound on ip_addr, it retries on hostname so several virtual
// servers can share one address under distinct names; a second failure on
// "address in use" is logged and skipped rather than treated as fatal.
func (r *Router) AddServer(vs *config.VirtualServer) error {
	for _, port := range vs.Ports {
		fd, err := bindListener(vs.IPAddr, port)
		if err != nil {
			if !isAddrInUse(err) {
				return err
			}

			fd, err = bindListener(vs.Hostname, port)
			if err != nil {
				if isAddrInUse(err) {
					r.log.Errorf("AddServer", "router/router.go", 0,
						"port %d already bound for %s and %s, skipping", port, vs.IPAddr, vs.Hostname)
					continue
				}
				return err
			}
		}

		r.listeners[r.newToken()] = &listenerEntry{fd: fd}
	}

	return nil
}

// Run registers every listener for read readiness and enters the poll loop.
// It returns only on an unrecoverable poll failure.
func (r *Router) Run() error {
	for tok, le := range r.listeners {
		if err := r.epollAdd(le.fd, tok); err != nil {
			return err
		}
	}

	events := make([]unix.EpollEvent, 64)

	for {
		n, err := unix.EpollWait(r.epfd, events, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return err
		}

		for i := 0; i < n; i++ {
			r.handleEvent(token(events[i].Fd))
		}
	}
}

func (r *Router) handleEvent(tok token) {
	if le, ok := r.listeners[tok]; ok {
		r.acceptReady(le)
		return
	}

	if ce, ok := r.clients[tok]; ok {
		r.clientReadable(tok, ce)
	}
}

// acceptReady accepts exactly one pending connection; epoll is
// level-triggered, so a fuller backlog simply re-fires the event.
func (r *Router) acceptReady(le *listenerEntry) {
	fd, remote, err := acceptOne(le.fd)
	if err != nil {
		if err == unix.EAGAIN {
			return
		}
		r.log.Errorf("acceptReady", "router/router.go", 0, "accept: %v", err)
		return
	}

	tok := r.newToken()
	r.clients[tok] = &clientEntry{
		fd:         fd,
		remoteAddr: remote,
		deadline:   time.Now().Add(60 * time.Second),
	}

	if err := r.epollAdd(fd, tok); err != nil {
		r.log.Errorf("acceptReady", "router/router.go", 0, "register client: %v", err)
		_ = unix.Close(fd)
		delete(r.clients, tok)
	}
}

func (r *Router) epollAdd(fd int, tok token) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(tok)}
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
}

func (r *Router) epollDel(fd int) {
	_ = unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	_ = unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// Close releases the poll descriptor itself. Individual client/listener
// fds are released as they are torn down or on process exit.
func (r *Router) Close() error {
	return unix.Close(r.epfd)
}
