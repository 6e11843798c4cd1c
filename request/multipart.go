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
	"bytes"
	"regexp"
	"strings"
)

// fieldPattern recognizes one multipart part's header block once it has
// been folded onto a single line (the blank-line separator is rewritten to
// "; value=" before matching, see ExtractFormData).
var fieldPattern = regexp.MustCompile(`(?s)` +
	`(?:Content-Disposition:\s*(?P<cd>[^;]+);\s*)?` +
	`(?:name="(?P<name>[^"]+)"\s*)?` +
	`(?:\s*;\s*` +
	`(?:filename="(?P<filename>[^"]+)"\s*)?` +
	`(?:file_to_delete="(?P<file_to_delete>[^"]+)"\s*)?` +
	`(?:Content-Type:\s*(?P<content_type>[^;]+)\s*)?` +
	`)*` +
	`;\s*value=(?P<value>.*)?`)

// ExtractFormData splits body on boundary and applies fieldPattern to each
// part, returning one map per matched part keyed by "cd" (the
// Content-Disposition type), "name", "filename", "content_type",
// "file_to_delete" and "value".
func ExtractFormData(body, boundary string) []map[string]string {
	var out []map[string]string

	for _, part := range strings.Split(body, boundary) {
		part = strings.TrimPrefix(part, "\r\n")
		part = strings.TrimSuffix(part, "\r\n--")
		part = strings.ReplaceAll(part, headerBlockEnd, "; value=")

		m := fieldPattern.FindStringSubmatch(part)
		if m == nil {
			continue
		}

		fields := make(map[string]string, len(fieldPattern.SubexpNames()))
		for i, name := range fieldPattern.SubexpNames() {
			if i == 0 || name == "" {
				continue
			}
			fields[name] = m[i]
		}

		out = append(out, fields)
	}

	return out
}

// ExtractField returns the named multipart field's value from r's body, or
// "" if the request carries no boundary or no part matches.
func ExtractField(r *Request, fieldName string) string {
	if r.Boundary == "" {
		return ""
	}

	for _, f := range ExtractFormData(r.Body, r.Boundary) {
		if v, ok := f[fieldName]; ok && v != "" {
			return v
		}
	}

	return ""
}

// ExtractValues locates the uploaded file's payload inside the raw byte
// view of the body (the bytes after the HTTP header block): the first
// blank-line delimiter ends the first part's own headers, and the payload
// runs from there up to the next "\r\n--<boundary>". It returns nil when
// either delimiter is missing.
func ExtractValues(body []byte, boundary string) []byte {
	newline := []byte(headerBlockEnd)
	startBoundary := []byte("\r\n--" + boundary)

	startPos := bytes.Index(body, newline)
	if startPos < 0 {
		return nil
	}

	headersEnd := startPos + len(newline)

	rel := bytes.Index(body[headersEnd:], startBoundary)
	if rel < 0 {
		return nil
	}

	return body[headersEnd : headersEnd+rel]
}
