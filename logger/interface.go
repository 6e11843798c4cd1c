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

// Package logger wires the two log sinks the server needs: a structured
// error log (one line per failure, with caller context) and a flat access
// log (one line per dispatched request). Both are best-effort append-only
// files — a write failure here must never affect the response already sent
// to the client.
package logger

import (
	"time"
)

// AccessEntry carries the fields the access log line is rendered from.
type AccessEntry struct {
	RemoteAddr string
	RemoteUser string
	TimeLocal  time.Time
	Method     string
	Status     int
	BytesSent  int64
}

// Logger is the calling contract the rest of the program depends on.
type Logger interface {
	// Access appends one rendered line to the access log.
	Access(e AccessEntry)

	// Error appends one line describing a backend/transport failure.
	// funcName/file/line identify the call site, mirroring the original
	// per-call error_log(request, func, file, line, error) contract.
	Error(funcName, file string, line int, err error)

	// Errorf is a convenience wrapper building err from a format string.
	Errorf(funcName, file string, line int, pattern string, args ...any)

	// Close releases the logger. The file sinks open and close their file
	// on every write, so no handle is held between calls.
	Close() error
}
