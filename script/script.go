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

// Package script is the script-execution collaborator: run an interpreted
// file and capture its output as bytes. Virtual servers use it to serve
// generated content for .rb resources without knowing how execution works.
package script

import (
	"context"
	"os/exec"
	"time"

	liberr "github.com/Cheikh-Nakamoto/Localhost/errors"
)

const (
	ErrorExecute errorCode = iota + liberr.MinPkgScript
	ErrorTimeout
)

type errorCode = liberr.CodeError

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgScript, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorExecute:
		return "script execution failed"
	case ErrorTimeout:
		return "script execution timed out"
	}

	return ""
}

// Runner executes a file on disk and returns its output.
type Runner interface {
	Execute(path string) ([]byte, error)
}

// interpreterRunner maps a file extension to an interpreter binary and
// invokes it as a child process, capturing stdout.
type interpreterRunner struct {
	interpreters map[string]string
	timeout      time.Duration
}

// New builds a Runner. interpreters maps an extension (including the dot,
// e.g. ".rb") to the interpreter binary invoked with the file path as its
// sole argument; a missing entry falls back to executing the file directly.
func New(interpreters map[string]string, timeout time.Duration) Runner {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &interpreterRunner{interpreters: interpreters, timeout: timeout}
}

func (r *interpreterRunner) Execute(path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	bin, args := r.command(path)

	cmd := exec.CommandContext(ctx, bin, args...)
	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, liberr.New(ErrorTimeout, path)
	}
	if err != nil {
		return nil, liberr.New(ErrorExecute, path, err)
	}

	return out, nil
}

func (r *interpreterRunner) command(path string) (string, []string) {
	ext := extOf(path)
	if bin, ok := r.interpreters[ext]; ok {
		return bin, []string{path}
	}

	return path, nil
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}

	return ""
}
