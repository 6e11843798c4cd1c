package session_test

import (
	"time"

	"github.com/Cheikh-Nakamoto/Localhost/session"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Session", func() {
	It("is not expired right after creation", func() {
		Expect(session.New().Expired()).To(BeFalse())
	})

	It("renders a Set-Cookie value carrying its id", func() {
		s := session.New()
		Expect(s.CookieValue()).To(ContainSubstring(session.CookieName + "=" + s.ID))
	})
})

var _ = Describe("Store", func() {
	var store *session.Store

	BeforeEach(func() {
		store = session.NewStore()
	})

	It("creates a fresh session when no cookie is supplied", func() {
		s := store.Resolve(1, "")
		Expect(s).NotTo(BeNil())
	})

	It("reuses and re-keys an existing non-expired session", func() {
		first := store.Resolve(1, "")

		second := store.Resolve(2, first.ID)

		Expect(second.ID).To(Equal(first.ID))
		Expect(store.Resolve(1, "")).NotTo(Equal(second))
	})

	It("issues a fresh session for an expired cookie id", func() {
		first := store.Resolve(1, "")
		first.ExpirationTime = time.Now().Add(-time.Minute)

		second := store.Resolve(2, first.ID)

		Expect(second.ID).NotTo(Equal(first.ID))
	})

	It("forgets a token's session bookkeeping", func() {
		s := store.Resolve(1, "")
		store.Forget(1)

		replacement := store.Resolve(2, s.ID)
		Expect(replacement.ID).NotTo(Equal(s.ID))
	})
})
