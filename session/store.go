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

package session

// Store is keyed by the current client token, not by cookie id — so two
// simultaneous connections from the same browser each get their own
// session record despite sharing the cookie. The cookie id is the stable
// identity; the token is bookkeeping for whichever connection currently
// holds it. The store is owned exclusively by the event loop; no locking
// is required.
type Store struct {
	byToken map[uint64]*Session
}

// NewStore builds an empty session store.
func NewStore() *Store {
	return &Store{byToken: make(map[uint64]*Session)}
}

// Resolve attaches a session to clientToken: if cookieID names an existing,
// non-expired session (under any token), that session is re-keyed to
// clientToken and reused; otherwise a fresh session is created and keyed
// by clientToken.
func (s *Store) Resolve(clientToken uint64, cookieID string) *Session {
	if cookieID != "" {
		for tok, sess := range s.byToken {
			if sess.ID == cookieID && !sess.Expired() {
				delete(s.byToken, tok)
				s.byToken[clientToken] = sess
				return sess
			}
		}
	}

	sess := New()
	s.byToken[clientToken] = sess
	return sess
}

// Forget drops the session bookkeeping for a client token whose connection
// has been torn down.
func (s *Store) Forget(clientToken uint64) {
	delete(s.byToken, clientToken)
}
