package errors_test

import (
	goerr "errors"

	liberr "github.com/Cheikh-Nakamoto/Localhost/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testCode liberr.CodeError = liberr.MinPkgConfig + 1

var _ = Describe("coded Error", func() {
	BeforeEach(func() {
		liberr.RegisterIdFctMessage(liberr.MinPkgConfig, func(code liberr.CodeError) string {
			if code == testCode {
				return "boom"
			}
			return ""
		})
	})

	It("renders its registered message when none is given explicitly", func() {
		e := liberr.New(testCode, "")
		Expect(e.Error()).To(ContainSubstring("boom"))
	})

	It("prefers an explicit message over the registered one", func() {
		e := liberr.New(testCode, "explicit")
		Expect(e.Error()).To(ContainSubstring("explicit"))
	})

	It("reports IsCode only for an exact match", func() {
		e := liberr.New(testCode, "x")
		Expect(e.IsCode(testCode)).To(BeTrue())
		Expect(e.IsCode(liberr.UnknownError)).To(BeFalse())
	})

	It("chains parents and finds a code anywhere in the chain", func() {
		inner := liberr.New(testCode, "inner")
		outer := liberr.New(liberr.MinPkgRouter+1, "outer").Add(inner)

		Expect(outer.HasParent()).To(BeTrue())
		Expect(outer.HasCode(testCode)).To(BeTrue())
	})

	It("Make wraps a plain error at UnknownError", func() {
		plain := goerr.New("plain failure")
		wrapped := liberr.Make(plain)

		Expect(wrapped.GetCode()).To(Equal(liberr.UnknownError))
		Expect(wrapped.Error()).To(ContainSubstring("plain failure"))
	})

	It("Make returns a coded error unchanged", func() {
		e := liberr.New(testCode, "already coded")
		Expect(liberr.Make(e)).To(BeIdenticalTo(e))
	})

	It("Has reports false for a plain error", func() {
		Expect(liberr.Has(goerr.New("plain"), testCode)).To(BeFalse())
	})
})
