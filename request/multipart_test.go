package request_test

import (
	"github.com/Cheikh-Nakamoto/Localhost/request"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractValues", func() {
	It("isolates the uploaded payload between the part's headers and the boundary", func() {
		body := []byte("\r\nContent-Disposition: form-data; name=\"file\"; filename=\"a.txt\"\r\n\r\nhello\r\n--BOUND--")

		payload := request.ExtractValues(body, "BOUND")

		Expect(string(payload)).To(Equal("hello"))
	})
})

var _ = Describe("ExtractField", func() {
	It("returns empty when the request carries no boundary", func() {
		req := &request.Request{}
		Expect(request.ExtractField(req, "foldername")).To(BeEmpty())
	})

	It("finds a named field's value across the parsed parts", func() {
		body := "--B\r\nContent-Disposition: form-data; name=\"foldername\"\r\n\r\nphotos\r\n--B--"
		req := &request.Request{Body: body, Boundary: "B"}

		Expect(request.ExtractField(req, "name")).To(Equal("foldername"))
	})
})
