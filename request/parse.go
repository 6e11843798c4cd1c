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

package request

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const headerBlockEnd = "\r\n\r\n"

var contentLengthRe = regexp.MustCompile(`(?i)Content-Length:\s+(\d+)`)
var boundaryRe = regexp.MustCompile(`boundary=([-_A-Za-z0-9]+)`)

// Parse implements the assembly protocol: it recognizes the method
// from the first bytes, and — once the header block is fully present —
// parses headers and, for POST/DELETE, the body/boundary/multipart fields.
//
// A fragment that spells neither GET, POST nor DELETE is a continuation of
// an in-flight body; Parse returns it as-is (IsContinuation() == true) so
// the caller can merge it into the matching pending request.
func Parse(raw string, rawBytes []byte, sizeLimitBytes int64) *Request {
	req := &Request{Timestamp: time.Now()}

	switch {
	case strings.HasPrefix(raw, "GET"):
		req.Method = "GET"
		req.Complete = true
	case strings.HasPrefix(raw, "DELETE"):
		req.Method = "DELETE"
		req.Complete = true
	case strings.HasPrefix(raw, "POST"):
		req.Method = "POST"
	default:
		req.Body = raw
		req.BodyByte = rawBytes
		return req
	}

	idx := strings.Index(raw, headerBlockEnd)
	if idx < 0 {
		// Partial header block: more bytes needed before this request can
		// be parsed at all.
		return req
	}

	headerBlock := raw[:idx]
	req.Head = headerBlock
	parseHeaderBlock(headerBlock, req)

	if req.Method != "POST" && req.Method != "DELETE" {
		return req
	}

	body := raw[idx+len(headerBlockEnd):]
	bodyByte := rawBytes[idx+len(headerBlockEnd):]

	declared, hasDeclared := -1, false
	if m := contentLengthRe.FindStringSubmatch(headerBlock); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			declared, hasDeclared = n, true
		}
	}

	if hasDeclared && int64(declared) > sizeLimitBytes {
		// Oversized declared length: mark complete so the handler can
		// emit 413 without reading past the declared length.
		req.Complete = true
		req.Length = declared
		return req
	}

	req.Body = body
	req.BodyByte = bodyByte

	if hasDeclared {
		req.ContentLength = &declared
		if len(body) >= declared {
			req.Complete = true
		}
	}

	if m := boundaryRe.FindStringSubmatch(raw); m != nil {
		req.Boundary = m[1]
	}

	if req.Boundary != "" {
		if fields := ExtractFormData(req.Body, req.Boundary); len(fields) > 0 {
			req.Filename = fields[0]["filename"]
			req.ContentType = fields[0]["content_type"]
		}
	}

	return req
}

// parseHeaderBlock fills in location, host, port, cookie-derived session id
// and referer from the request-line + header lines.
func parseHeaderBlock(block string, req *Request) {
	req.Headers = make(map[string]string)

	lines := strings.Split(block, "\r\n")
	if len(lines) == 0 {
		return
	}

	if parts := strings.Fields(lines[0]); len(parts) >= 2 {
		req.Location = parts[1]
	}

	for _, line := range lines[1:] {
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "Host:") {
			hostParts := strings.Split(line, ":")
			if len(hostParts) > 1 {
				req.Host = strings.TrimSpace(hostParts[1])
			}
			if len(hostParts) > 2 {
				if p, err := strconv.ParseUint(strings.TrimSpace(hostParts[2]), 10, 16); err == nil {
					req.Port = uint16(p)
				} else {
					req.Port = 80
				}
			} else {
				req.Port = 80
			}
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		key = strings.Trim(strings.TrimSpace(key), `"`)
		value = strings.TrimSpace(value)

		if key == "" || value == "" {
			continue
		}

		if key == "Cookie" {
			req.IDSession = extractCookie(value, "cookie_01")
		}

		if key == "Referer" {
			req.Referer = value
		}

		req.Headers[key] = value
	}
}

// extractCookie scans a `Cookie:` header value for `name=value` pairs
// separated by `;` and returns the value for the given cookie name.
func extractCookie(header, name string) string {
	for _, part := range strings.Split(header, ";") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if found && k == name {
			return v
		}
	}

	return ""
}

// URIDecode percent-decodes Location and rewrites the first line of Head so
// the method is followed by the decoded path, so access logging sees it.
// If decoding fails, the original location is kept.
func (r *Request) URIDecode() {
	if decoded, err := url.PathUnescape(r.Location); err == nil {
		r.Location = decoded
	}

	r.rewriteHeadLocation()
}

// Rewrite replaces Location (e.g. after a redirection has been applied) and
// keeps Head's request-line consistent with it, so access logging and any
// later reference to Head reflect the post-redirect path.
func (r *Request) Rewrite(newLocation string) {
	r.Location = newLocation
	r.rewriteHeadLocation()
}

func (r *Request) rewriteHeadLocation() {
	if r.Head == "" {
		return
	}

	firstLine, rest, hasRest := strings.Cut(r.Head, "\r\n")
	fields := strings.Fields(firstLine)
	if len(fields) == 0 {
		return
	}

	newFirst := fields[0] + " " + r.Location
	if last := fields[len(fields)-1]; len(fields) > 2 && strings.HasPrefix(last, "HTTP/") {
		newFirst += " " + last
	}

	if hasRest {
		r.Head = newFirst + "\r\n" + rest
	} else {
		r.Head = newFirst
	}
}
