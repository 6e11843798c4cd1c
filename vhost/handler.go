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

package vhost

import (
	"os"
	"strings"

	"github.com/Cheikh-Nakamoto/Localhost/config"
	"github.com/Cheikh-Nakamoto/Localhost/logger"
	"github.com/Cheikh-Nakamoto/Localhost/render"
	"github.com/Cheikh-Nakamoto/Localhost/request"
	"github.com/Cheikh-Nakamoto/Localhost/script"
	"github.com/Cheikh-Nakamoto/Localhost/session"
)

// Handler carries one virtual server's policy plus the collaborators it
// needs to act on a request: the global HTTP settings (for the size gate),
// the logging sinks, the template renderer and the script runner.
type Handler struct {
	cfg    *config.VirtualServer
	global *config.HTTP
	log    logger.Logger
	render render.Renderer
	script script.Runner
}

// NewHandler builds the Handler for one configured virtual server.
func NewHandler(cfg *config.VirtualServer, global *config.HTTP, log logger.Logger, rend render.Renderer, scr script.Runner) *Handler {
	return &Handler{cfg: cfg, global: global, log: log, render: rend, script: scr}
}

// Server exposes the underlying policy, so the router can match on it.
func (h *Handler) Server() *config.VirtualServer {
	return h.cfg
}

// Handle runs the full policy chain and the resulting action, attaches the
// outbound session cookie, and records the access log line. It never
// panics: every filesystem or collaborator failure is converted to a 500
// before it reaches this point.
func (h *Handler) Handle(req *request.Request, sess *session.Session) *Response {
	resp := h.dispatch(req)
	resp.SetHeader("Set-Cookie", sess.CookieValue())

	h.log.Access(logger.AccessEntry{
		RemoteAddr: req.RemoteAddr,
		RemoteUser: sess.ID,
		TimeLocal:  req.Timestamp,
		Method:     req.Method,
		Status:     resp.Status,
		BytesSent:  int64(len(resp.Body)),
	})

	return resp
}

func (h *Handler) dispatch(req *request.Request) *Response {
	if resp, handled := h.checkRedirection(req); handled {
		return resp
	}

	if !h.cfg.AcceptsMethod(req.Method) {
		return h.errorResponse(405)
	}

	if h.oversize(req) {
		return h.errorResponse(413)
	}

	switch req.Method {
	case "GET":
		return h.handleGet(req)
	case "POST":
		return h.handlePost(req)
	case "DELETE":
		return h.handleDelete(req)
	default:
		return h.errorResponse(400)
	}
}

func (h *Handler) oversize(req *request.Request) bool {
	limit := h.global.SizeLimitBytes()

	if req.Length > 0 && int64(req.Length) > limit {
		return true
	}

	return req.ContentLength != nil && int64(*req.ContentLength) > limit
}

// checkRedirection applies the first matching configured redirection. A
// redirection whose target is itself a redirection source is a loop and
// answers 508 instead of following it.
func (h *Handler) checkRedirection(req *request.Request) (*Response, bool) {
	target, ok, loop := h.cfg.RedirectionFor(stripQuery(req.Location))
	if !ok {
		return nil, false
	}

	if loop {
		return h.errorResponse(508), true
	}

	req.Rewrite(target)

	resp := NewResponse(302).WithBody(nil)
	resp.SetHeader("Location", target)
	return resp, true
}

// handleGet resolves the request location to either a directory listing or
// a static file, substituting the shared static-assets root for /images/
// and /css/ paths.
func (h *Handler) handleGet(req *request.Request) *Response {
	root := trimRootSlash(h.cfg.RootDirectory)
	location := stripQuery(req.Location)

	candidate := "./" + root + req.Location
	if info, err := os.Stat(candidate); err == nil && info.IsDir() &&
		!strings.Contains(req.Location, "?") {
		resp, err := h.listDirectory(candidate)
		if err != nil {
			h.log.Errorf("handleGet", "vhost/handler.go", 124, "list %s: %v", candidate, err)
			return h.errorResponse(500)
		}
		return resp
	}

	physical := h.resolvePath(root, location)

	resp, err := h.serveFile(physical)
	if err != nil {
		if os.IsNotExist(err) {
			return h.errorResponse(404)
		}
		h.log.Errorf("handleGet", "vhost/handler.go", 134, "serve %s: %v", physical, err)
		return h.errorResponse(500)
	}

	return resp
}

// errorResponse renders the virtual server's error_path template with
// {Code, Status} and serves it as the response body for the given status.
func (h *Handler) errorResponse(code int) *Response {
	resp := NewResponse(code)

	view := struct {
		Code   int
		Status string
	}{Code: code, Status: resp.StatusText()}

	body, err := h.render.Render(h.cfg.ErrorPath, view)
	if err != nil {
		body = resp.StatusText()
	}

	resp.WithBody([]byte(body))
	resp.SetHeader("Content-Type", "text/html")
	return resp
}
