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
	"path"
	"strings"
)

// staticAssetsRoot is the shared location CSS and images are served from,
// regardless of which virtual server's root_directory is otherwise in play.
const staticAssetsRoot = "./src/static_files"

// resolvePath turns a request location into a physical path under either
// the virtual server's own root_directory or the shared static-assets root.
// It never walks above either root: the only inputs are the configured
// root_directory and the request location, and the `/images/` / `/css/`
// substitution only ever redirects into staticAssetsRoot.
func (h *Handler) resolvePath(root, location string) string {
	location = path.Clean("/" + location)

	if idx := strings.Index(location, "/images/"); idx >= 0 {
		return staticAssetsRoot + location[idx:]
	}

	if idx := strings.Index(location, "/css/"); idx >= 0 {
		return staticAssetsRoot + location[idx:]
	}

	return "./" + root + "/" + strings.TrimPrefix(location, "/")
}

// trimRootSlash drops a trailing slash from a configured root_directory so
// path joins never produce a doubled separator.
func trimRootSlash(root string) string {
	return strings.TrimSuffix(root, "/")
}
