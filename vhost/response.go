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

// Package vhost holds the per-virtual-server policy and the request handler:
// redirection, method and size gates, path resolution, static serving,
// directory listing, uploads, folder creation, deletion and error pages.
package vhost

import (
	"fmt"
	"strconv"
	"strings"
)

var statusText = map[int]string{
	200: "OK",
	302: "Found",
	400: "Bad Request",
	404: "Not Found",
	405: "Method Not Allowed",
	409: "Conflict",
	413: "Content Too Large",
	500: "Internal Server Error",
	508: "Loop Detected",
}

// Response is the outbound HTTP message a Handler produces. Headers keeps
// insertion order so the byte form is deterministic.
type Response struct {
	Status      int
	HeaderNames []string
	HeaderVals  []string
	Body        []byte
	Close       bool
}

// NewResponse builds an empty response for the given status.
func NewResponse(status int) *Response {
	return &Response{Status: status}
}

// SetHeader appends a header, or overwrites it in place if already set.
func (r *Response) SetHeader(name, value string) *Response {
	for i, n := range r.HeaderNames {
		if strings.EqualFold(n, name) {
			r.HeaderVals[i] = value
			return r
		}
	}

	r.HeaderNames = append(r.HeaderNames, name)
	r.HeaderVals = append(r.HeaderVals, value)
	return r
}

// WithBody sets the body and derives Content-Length from it.
func (r *Response) WithBody(body []byte) *Response {
	r.Body = body
	r.SetHeader("Content-Length", strconv.Itoa(len(body)))
	return r
}

// StatusText returns the reason phrase for r.Status, or "Unknown".
func (r *Response) StatusText() string {
	if t, ok := statusText[r.Status]; ok {
		return t
	}

	return "Unknown"
}

// Bytes renders the full HTTP/1.1 response.
func (r *Response) Bytes() []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", r.Status, r.StatusText())

	hasConn := false
	for i, name := range r.HeaderNames {
		fmt.Fprintf(&b, "%s: %s\r\n", name, r.HeaderVals[i])
		if strings.EqualFold(name, "Connection") {
			hasConn = true
		}
	}

	if !hasConn {
		if r.Close {
			b.WriteString("Connection: close\r\n")
		} else {
			b.WriteString("Connection: keep-alive\r\n")
		}
	}

	b.WriteString("\r\n")

	out := make([]byte, 0, b.Len()+len(r.Body))
	out = append(out, []byte(b.String())...)
	out = append(out, r.Body...)
	return out
}
