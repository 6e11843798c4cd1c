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
	"path/filepath"
	"strings"
)

var contentTypes = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".json": "application/json",
	".pdf":  "application/pdf",
}

// serveFile reads path from disk and builds the static-file response. A .rb
// file is routed through the script runner and served as text/plain; every
// other extension is served verbatim with a content type inferred from its
// suffix. Existence is checked once, uniformly, before any extension-based
// branching, so a missing .rb file answers 404 the same way a missing plain
// file does instead of reaching the script runner at all.
func (h *Handler) serveFile(path string) (*Response, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".rb" {
		out, err := h.script.Execute(path)
		if err != nil {
			return nil, err
		}

		resp := NewResponse(200).WithBody(out)
		resp.SetHeader("Content-Type", "text/plain")
		return resp, nil
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ct, ok := contentTypes[ext]
	if !ok {
		ct = "application/octet-stream"
	}

	resp := NewResponse(200).WithBody(body)
	resp.SetHeader("Content-Type", ct)

	if ext == ".pdf" {
		resp.SetHeader("Content-Disposition", "inline")
	}

	return resp, nil
}
