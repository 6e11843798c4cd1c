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

package router

import (
	"strings"

	"github.com/Cheikh-Nakamoto/Localhost/request"
	"github.com/Cheikh-Nakamoto/Localhost/vhost"
)

// ingest runs the merge step against every fragment (whether or not it is
// itself a new request), enqueues it if it carries a recognized method,
// and then attempts to drain the queue.
func (r *Router) ingest(tok token, frag *request.Request) {
	r.mergeStep(frag)

	if !frag.IsContinuation() {
		r.queue = append(r.queue, &queuedRequest{req: frag, client: tok})
	}

	r.dispatchReady()
}

// mergeStep appends frag to every still-incomplete queued request whose
// boundary appears in frag's text view, flipping Complete once the
// accumulated body reaches the declared content_length. The queue is
// process-wide, not per connection, so a continuation is matched by
// boundary alone.
func (r *Router) mergeStep(frag *request.Request) {
	if frag.Body == "" && len(frag.BodyByte) == 0 {
		return
	}

	for _, qr := range r.queue {
		pending := qr.req

		if pending.Complete || pending.ContentLength == nil || pending.Boundary == "" {
			continue
		}

		if !strings.Contains(frag.Body, pending.Boundary) {
			continue
		}

		pending.Body += frag.Body
		pending.BodyByte = append(pending.BodyByte, frag.BodyByte...)

		if len(pending.Body) >= *pending.ContentLength {
			pending.Complete = true
		}
	}
}

// dispatchReady walks the queue in order, dispatching every request that is
// both complete and matched by a configured virtual server. A request that
// matches no server, or is not yet complete, is left in place for a later
// pass; the iterator index is rewound by one after a removal so the walk
// does not skip the entry that slides into the removed slot.
func (r *Router) dispatchReady() {
	for i := 0; i < len(r.queue); i++ {
		qr := r.queue[i]

		if !qr.req.Dispatchable() {
			continue
		}

		h := r.match(qr.req)
		if h == nil {
			continue
		}

		r.queue = append(r.queue[:i], r.queue[i+1:]...)
		i--

		r.respond(qr, h)
	}
}

// match selects the first configured virtual server whose ip_addr or
// hostname matches the request's Host, and whose ports include the
// request's port.
func (r *Router) match(req *request.Request) *vhost.Handler {
	for _, h := range r.handlers {
		if h.Server().MatchesHost(req.Host, req.Port) {
			return h
		}
	}

	return nil
}

// respond attaches a session, runs the virtual server's handler, writes the
// response, and tears the connection down on a write failure or when the
// handler asked for the connection to close.
func (r *Router) respond(qr *queuedRequest, h *vhost.Handler) {
	ce, ok := r.clients[qr.client]
	if !ok {
		return
	}

	sess := r.sessions.Resolve(uint64(qr.client), qr.req.IDSession)
	resp := h.Handle(qr.req, sess)

	if err := writeAll(ce.fd, resp.Bytes()); err != nil {
		r.log.Errorf("respond", "router/dispatch.go", 0, "write: %v", err)
		r.teardown(qr.client, ce)
		return
	}

	if resp.Close {
		r.teardown(qr.client, ce)
	}
}
