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

	"golang.org/x/sys/unix"

	"github.com/Cheikh-Nakamoto/Localhost/request"
)

// readChunk is sized generously enough that one multipart upload chunk
// usually arrives in a single readiness event without forcing a resize.
const readChunk = 64 * 1024

// clientReadable drains every byte currently available on ce without
// blocking, accumulating a text view and a byte view of exactly this
// readiness event's bytes (not the connection's whole history), then hands
// that fragment to Parse.
func (r *Router) clientReadable(tok token, ce *clientEntry) {
	var text strings.Builder
	var raw []byte

	buf := make([]byte, readChunk)

	for {
		n, err := unix.Read(ce.fd, buf)
		if err != nil {
			if err == unix.EAGAIN {
				break
			}
			if err == unix.EINTR {
				continue
			}
			r.log.Errorf("clientReadable", "router/stream.go", 0, "read: %v", err)
			r.teardown(tok, ce)
			return
		}

		if n == 0 {
			r.teardown(tok, ce)
			return
		}

		text.Write(buf[:n])
		raw = append(raw, buf[:n]...)
	}

	if text.Len() == 0 {
		return
	}

	frag := request.Parse(text.String(), raw, r.sizeLimit)
	if ce2, ok := r.clients[tok]; ok {
		frag.RemoteAddr = ce2.remoteAddr
	}

	r.ingest(tok, frag)
}

// teardown shuts the stream down both ways, deregisters it from the poll
// set (attempted twice, mirroring the underlying API's idempotency),
// drops it from the client table, forgets its session bookkeeping, and
// purges any of its requests still waiting in the queue.
func (r *Router) teardown(tok token, ce *clientEntry) {
	_ = unix.Shutdown(ce.fd, unix.SHUT_RDWR)
	r.epollDel(ce.fd)
	_ = unix.Close(ce.fd)

	delete(r.clients, tok)
	r.sessions.Forget(uint64(tok))
	r.purgeQueue(tok)
}

func (r *Router) purgeQueue(tok token) {
	kept := r.queue[:0]
	for _, qr := range r.queue {
		if qr.client != tok {
			kept = append(kept, qr)
		}
	}
	r.queue = kept
}

// writeAll issues the response as a full non-blocking write, retrying on
// WouldBlock/Interrupted until every byte is accepted by the kernel. Bodies
// are bounded by size_limit, so this does not amount to an unbounded spin
// in practice.
func writeAll(fd int, data []byte) error {
	for len(data) > 0 {
		n, err := unix.Write(fd, data)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return err
		}

		data = data[n:]
	}

	return nil
}
