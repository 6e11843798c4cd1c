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

// DirEntry is one row of a rendered directory listing.
type DirEntry struct {
	Name  string
	Type  string
	IsDir bool
	Size  int64
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true, ".webp": true,
}

// entryType classifies a directory entry by extension for the listing
// template: directories become "folder", everything else is keyed off its
// suffix with "file" as the catch-all.
func entryType(name string, isDir bool) string {
	if isDir {
		return "folder"
	}

	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case ext == ".rb":
		return "ruby"
	case imageExtensions[ext]:
		return "image"
	case ext == ".txt":
		return "text"
	case ext == ".pdf":
		return "pdf"
	default:
		return "file"
	}
}

// listDirectory enumerates dir, hiding excluded and (when directory
// listing is disabled) directory entries, and renders the virtual server's
// default_file template with the survivors.
func (h *Handler) listDirectory(dir string) (*Response, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	elements := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		if h.cfg.Excluded(e.Name()) {
			continue
		}

		if e.IsDir() && !h.cfg.DirectoryListing {
			continue
		}

		info, err := e.Info()
		var size int64
		if err == nil {
			size = info.Size()
		}

		elements = append(elements, DirEntry{
			Name:  e.Name(),
			Type:  entryType(e.Name(), e.IsDir()),
			IsDir: e.IsDir(),
			Size:  size,
		})
	}

	view := struct {
		Elements []DirEntry
		Size     int
		Hostname string
	}{
		Elements: elements,
		Size:     len(elements),
		Hostname: h.cfg.Hostname,
	}

	body, err := h.render.Render(h.cfg.DefaultFile, view)
	if err != nil {
		return nil, err
	}

	resp := NewResponse(200).WithBody([]byte(body))
	resp.SetHeader("Content-Type", "text/html")
	return resp, nil
}
