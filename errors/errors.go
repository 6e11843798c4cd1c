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

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error extends the standard error with a code and an optional parent chain.
type Error interface {
	error

	IsCode(code CodeError) bool
	HasCode(code CodeError) bool
	GetCode() CodeError

	Add(parent ...error) Error
	HasParent() bool
	Unwrap() []error
}

type ers struct {
	c CodeError
	m string
	p []error
}

func (e *ers) Error() string {
	msg := e.m
	if msg == "" {
		msg = getMessage(e.c)
	}

	if msg == "" {
		msg = UnknownError.String()
	}

	if len(e.p) == 0 {
		return fmt.Sprintf("[%s] %s", e.c, msg)
	}

	parts := make([]string, 0, len(e.p)+1)
	parts = append(parts, fmt.Sprintf("[%s] %s", e.c, msg))
	for _, p := range e.p {
		parts = append(parts, p.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *ers) IsCode(code CodeError) bool {
	return e.c == code
}

func (e *ers) HasCode(code CodeError) bool {
	if e.c == code {
		return true
	}

	for _, p := range e.p {
		var inner Error
		if errors.As(p, &inner) && inner.HasCode(code) {
			return true
		}
	}

	return false
}

func (e *ers) GetCode() CodeError {
	return e.c
}

func (e *ers) Add(parent ...error) Error {
	for _, p := range parent {
		if p != nil {
			e.p = append(e.p, p)
		}
	}

	return e
}

func (e *ers) HasParent() bool {
	return len(e.p) > 0
}

func (e *ers) Unwrap() []error {
	return e.p
}

// New builds a coded Error with an explicit message, chaining any parents.
func New(code CodeError, message string, parent ...error) Error {
	e := &ers{c: code, m: message}
	return e.Add(parent...)
}

// Newf is New with a printf-style message.
func Newf(code CodeError, pattern string, args ...any) Error {
	return &ers{c: code, m: fmt.Sprintf(pattern, args...)}
}

// Make wraps a plain error as a coded Error (code 0) unless it already is one.
func Make(e error) Error {
	if e == nil {
		return nil
	}

	var err Error
	if errors.As(e, &err) {
		return err
	}

	return &ers{c: UnknownError, m: e.Error()}
}

// Is reports whether e carries a coded Error anywhere in its chain.
func Is(e error) bool {
	var err Error
	return errors.As(e, &err)
}

// Has reports whether e or any of its parents carries the given code.
func Has(e error, code CodeError) bool {
	var err Error
	if !errors.As(e, &err) {
		return false
	}

	return err.HasCode(code)
}
