/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package errors provides coded errors with parent chaining, modeled after
// the error-code-per-package convention used across this codebase: every
// package reserves a range of CodeError values and registers a message
// function for them.
package errors

import (
	"strconv"
)

// CodeError is a numeric error classification, similar in spirit to an HTTP
// status code but local to this program.
type CodeError uint16

const (
	UnknownError CodeError = 0

	MinPkgConfig  CodeError = 100
	MinPkgLogger  CodeError = 200
	MinPkgRequest CodeError = 300
	MinPkgVHost   CodeError = 400
	MinPkgRouter  CodeError = 500
	MinPkgSession CodeError = 600
	MinPkgRender  CodeError = 700
	MinPkgScript  CodeError = 800

	MinAvailable CodeError = 1000
)

func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}

var messages = make(map[CodeError]func(code CodeError) string)

// RegisterIdFctMessage registers the message function for every code a
// package owns, starting at its Min* base. Called once from the owning
// package's init().
func RegisterIdFctMessage(base CodeError, fct func(code CodeError) string) {
	messages[base] = fct
}

func getMessage(c CodeError) string {
	// messages are registered per-package base; walk down from the code to
	// find the owning package's range.
	var (
		best    CodeError
		hasBest bool
	)

	for base := range messages {
		if c >= base && (!hasBest || base > best) {
			best = base
			hasBest = true
		}
	}

	if !hasBest {
		return ""
	}

	return messages[best](c)
}
