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

	"github.com/Cheikh-Nakamoto/Localhost/request"
)

// handlePost inspects the first multipart field's name: "foldername" creates
// a directory, anything else is treated as a file upload.
func (h *Handler) handlePost(req *request.Request) *Response {
	fields := request.ExtractFormData(req.Body, req.Boundary)
	if len(fields) == 0 {
		return h.errorResponse(400)
	}

	if name, ok := fields[0]["name"]; ok && name == "foldername" {
		return h.createFolder(req, fields[0]["value"])
	}

	return h.uploadFile(req, fields[0])
}

func (h *Handler) createFolder(req *request.Request, folderName string) *Response {
	if folderName == "" {
		return h.errorResponse(400)
	}

	root := trimRootSlash(h.cfg.RootDirectory)
	target := "./" + root + stripQuery(req.Location) + "/" + folderName

	if _, err := os.Stat(target); err == nil {
		return h.errorResponse(409)
	}

	if err := os.Mkdir(target, 0755); err != nil {
		h.log.Errorf("createFolder", "vhost/actions.go", 52, "mkdir %s: %v", target, err)
		return h.errorResponse(500)
	}

	return h.redirectTo(stripQuery(req.Location))
}

func (h *Handler) uploadFile(req *request.Request, field map[string]string) *Response {
	if !req.Complete || len(req.BodyByte) == 0 {
		return h.errorResponse(400)
	}

	filename := field["filename"]
	if filename == "" {
		return h.errorResponse(400)
	}

	payload := request.ExtractValues(req.BodyByte, req.Boundary)

	if h.cfg.UploadLimit > 0 && int64(len(payload)) > h.cfg.UploadLimit {
		return h.errorResponse(413)
	}

	root := trimRootSlash(h.cfg.RootDirectory)
	target := "./" + root + stripQuery(req.Location) + "/" + filename

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		h.log.Errorf("uploadFile", "vhost/actions.go", 76, "open %s: %v", target, err)
		return h.errorResponse(500)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(payload); err != nil {
		h.log.Errorf("uploadFile", "vhost/actions.go", 82, "write %s: %v", target, err)
		return h.errorResponse(500)
	}

	return h.redirectTo(req.Location)
}

// handleDelete resolves the "file_to_delete" field and removes the named
// file or, recursively, directory.
func (h *Handler) handleDelete(req *request.Request) *Response {
	value := request.ExtractField(req, "file_to_delete")
	if value == "" {
		return h.errorResponse(400)
	}

	root := trimRootSlash(h.cfg.RootDirectory)
	target := "./" + root + stripQuery(req.Location) + "/" + value

	info, err := os.Stat(target)
	if err != nil {
		return h.errorResponse(400)
	}

	if info.IsDir() {
		err = os.RemoveAll(target)
	} else {
		err = os.Remove(target)
	}

	if err != nil {
		h.log.Errorf("handleDelete", "vhost/actions.go", 108, "remove %s: %v", target, err)
		return h.errorResponse(500)
	}

	resp := NewResponse(200).WithBody(nil)
	resp.SetHeader("Location", "/")
	return resp
}

func (h *Handler) redirectTo(location string) *Response {
	resp := NewResponse(302).WithBody(nil)
	resp.SetHeader("Location", location)
	return resp
}

func stripQuery(location string) string {
	if i := strings.IndexByte(location, '?'); i >= 0 {
		return location[:i]
	}

	return location
}
