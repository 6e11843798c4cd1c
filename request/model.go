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

// Package request reconstructs one HTTP message from the byte fragments
// handed over by the event loop, textually (for headers/boundaries) and
// bytewise (for binary upload payloads) at once.
package request

import "time"

// Request is the parsed HTTP message plus its assembly state. Method,
// Location, Host and Port are derived once headers are visible; for a POST,
// Complete flips to true only once every declared byte has arrived.
type Request struct {
	Method  string
	Location string
	Host    string
	Port    uint16

	// Head is the raw header block as received (request-line + headers,
	// no trailing blank line), kept around so redirection handling can
	// rewrite it for access logging.
	Head string

	// Body is the textual view of the payload (used for boundary
	// scanning); BodyByte is the exact byte view (used for binary
	// payloads such as uploaded files). Both are needed: header/boundary
	// scanning wants text, upload bytes must round-trip exactly.
	Body     string
	BodyByte []byte

	ContentLength *int
	Boundary      string

	Filename    string
	ContentType string

	IDSession string
	Referer   string

	// RemoteAddr is the peer address of the connection this request arrived
	// on. It is not part of the wire message; the router fills it in right
	// after accept so access logging can report it.
	RemoteAddr string

	Complete  bool
	Timestamp time.Time

	Headers map[string]string

	// Length is set when the declared Content-Length exceeds the size
	// gate, so the handler can still render the 413 without having read
	// the oversized body.
	Length int
}

// IsContinuation reports whether this fragment carries no recognizable
// method — i.e. it is a continuation of a multipart body still streaming
// in across several readiness events, not a new request.
func (r *Request) IsContinuation() bool {
	return r.Method == ""
}

// Dispatchable reports whether r may be handed to a Virtual Server:
// GET and DELETE are marked complete by Parse as soon as their method is
// recognized; POST requires the accumulated body to reach the declared
// Content-Length (or a declared length over the size gate).
func (r *Request) Dispatchable() bool {
	return r.Method == "GET" || r.Complete
}
