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

// Package session implements the server-side half of the cookie_01
// mechanism: a per-client-token record of an opaque id and its expiration.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	CookieName = "cookie_01"
	// lifetime is how long a freshly created session stays valid.
	lifetime = 24 * time.Hour
)

// Session is a server-side record of a cookie_01 value plus expiration.
type Session struct {
	ID             string
	ExpirationTime time.Time
}

// New creates a fresh session with a newly generated id.
func New() *Session {
	return &Session{
		ID:             uuid.NewString(),
		ExpirationTime: time.Now().Add(lifetime),
	}
}

// Expired reports whether the session is no longer valid.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpirationTime)
}

// CookieValue renders this session's Set-Cookie header value (everything
// after the "Set-Cookie:" field name), so callers building a response's
// header set can add it like any other header.
func (s *Session) CookieValue() string {
	return fmt.Sprintf("%s=%s; Expires=%s; Path=/",
		CookieName, s.ID, s.ExpirationTime.UTC().Format(time.RFC1123))
}
