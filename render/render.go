/*
 * MIT License
 *
 * Copyright (c) 2021 Nicolas JUHEL
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

// Package render is the template-rendering collaborator: render a named
// template against a context and get back text. Virtual servers use it for
// directory listings and error pages; it has no knowledge of either.
package render

import (
	"bytes"
	"html/template"
	"path/filepath"
	"sync"

	liberr "github.com/Cheikh-Nakamoto/Localhost/errors"
)

const (
	ErrorTemplateMissing errorCode = iota + liberr.MinPkgRender
	ErrorTemplateExecute
)

type errorCode = liberr.CodeError

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgRender, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorTemplateMissing:
		return "template not found under the templates root"
	case ErrorTemplateExecute:
		return "template execution failed"
	}

	return ""
}

// Renderer renders a named template against a context, producing text.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// fsRenderer loads each named template lazily from disk, under root, and
// caches the parsed result. Templates are looked up as "<root>/<name>.html".
type fsRenderer struct {
	mu    sync.Mutex
	root  string
	cache map[string]*template.Template
}

// New builds a Renderer that resolves template names under root.
func New(root string) Renderer {
	return &fsRenderer{root: root, cache: make(map[string]*template.Template)}
}

func (r *fsRenderer) Render(name string, data any) (string, error) {
	tpl, err := r.load(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", liberr.New(ErrorTemplateExecute, "execute "+name, err)
	}

	return buf.String(), nil
}

func (r *fsRenderer) load(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tpl, ok := r.cache[name]; ok {
		return tpl, nil
	}

	path := filepath.Join(r.root, name+".html")
	tpl, err := template.ParseFiles(path)
	if err != nil {
		return nil, liberr.New(ErrorTemplateMissing, path, err)
	}

	r.cache[name] = tpl
	return tpl, nil
}
