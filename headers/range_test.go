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
 *
 */

package headers_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/headers"
)

var _ = Describe("ParseRange", func() {
	It("returns nil for an absent header", func() {
		r, err := headers.ParseRange("", 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(r).To(BeNil())
	})

	It("parses an explicit bytes=a-b range", func() {
		r, err := headers.ParseRange("bytes=0-0", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(*r).To(Equal(headers.ByteRange{Start: 0, End: 0}))
		Expect(r.Len()).To(BeEquivalentTo(1))
	})

	It("parses a bytes=a- open-ended range", func() {
		r, err := headers.ParseRange("bytes=5-", 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(*r).To(Equal(headers.ByteRange{Start: 5, End: 9}))
	})

	It("parses a bytes=-n suffix range", func() {
		r, err := headers.ParseRange("bytes=-3", 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(*r).To(Equal(headers.ByteRange{Start: 7, End: 9}))
	})

	It("clamps a suffix range larger than the object", func() {
		r, err := headers.ParseRange("bytes=-100", 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(*r).To(Equal(headers.ByteRange{Start: 0, End: 9}))
	})

	It("clamps an end past the object size", func() {
		r, err := headers.ParseRange("bytes=0-100", 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.End).To(BeEquivalentTo(9))
	})

	It("rejects a range starting at or past the object size", func() {
		_, err := headers.ParseRange("bytes=10-20", 10)
		Expect(err).To(HaveOccurred())
		Expect(err.Code()).To(Equal(liberr.CodeInvalidRange))
	})

	It("rejects a range over an empty object", func() {
		_, err := headers.ParseRange("bytes=0-0", 0)
		Expect(err).To(HaveOccurred())
	})

	DescribeTable("rejects malformed headers",
		func(header string) {
			_, err := headers.ParseRange(header, 10)
			Expect(err).To(HaveOccurred())
		},
		Entry("missing unit prefix", "0-1"),
		Entry("no dash", "bytes=5"),
		Entry("empty bounds", "bytes=-"),
		Entry("end before start", "bytes=5-2"),
		Entry("non-numeric", "bytes=a-b"),
	)

	It("honors only the first range of a multi-range request", func() {
		r, err := headers.ParseRange("bytes=0-0,5-5", 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(*r).To(Equal(headers.ByteRange{Start: 0, End: 0}))
	})

	It("formats Content-Range for a satisfied range", func() {
		r := headers.ByteRange{Start: 0, End: 0}
		Expect(r.ContentRange(2)).To(Equal("bytes 0-0/2"))
	})
})
