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
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/headers"
)

var _ = Describe("ParseTaggingHeader", func() {
	It("returns nil for an absent header", func() {
		tags, err := headers.ParseTaggingHeader("")
		Expect(err).NotTo(HaveOccurred())
		Expect(tags).To(BeNil())
	})

	It("decodes a URL-encoded key=value set", func() {
		tags, err := headers.ParseTaggingHeader("project=alpha&owner=team-a")
		Expect(err).NotTo(HaveOccurred())
		Expect(tags).To(HaveLen(2))
	})

	It("rejects a header with more than 10 tags", func() {
		parts := make([]string, 0, 11)
		for i := 0; i < 11; i++ {
			parts = append(parts, "k"+string(rune('a'+i))+"=v")
		}
		_, err := headers.ParseTaggingHeader(strings.Join(parts, "&"))
		Expect(err).To(HaveOccurred())
		Expect(err.Code()).To(Equal(liberr.CodeInvalidTag))
	})
})

var _ = Describe("ValidateTagSet", func() {
	It("accepts an empty set", func() {
		Expect(headers.ValidateTagSet(nil)).To(BeNil())
	})

	It("rejects more than 10 tags", func() {
		tags := make([]headers.Tag, 11)
		for i := range tags {
			tags[i] = headers.Tag{Key: string(rune('a' + i)), Value: "v"}
		}
		err := headers.ValidateTagSet(tags)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a key longer than 128 characters", func() {
		err := headers.ValidateTagSet([]headers.Tag{{Key: strings.Repeat("k", 129), Value: "v"}})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a value longer than 256 characters", func() {
		err := headers.ValidateTagSet([]headers.Tag{{Key: "k", Value: strings.Repeat("v", 257)}})
		Expect(err).To(HaveOccurred())
	})

	It("rejects an empty key", func() {
		err := headers.ValidateTagSet([]headers.Tag{{Key: "", Value: "v"}})
		Expect(err).To(HaveOccurred())
	})

	It("rejects duplicate keys", func() {
		err := headers.ValidateTagSet([]headers.Tag{{Key: "k", Value: "1"}, {Key: "k", Value: "2"}})
		Expect(err).To(HaveOccurred())
	})

	It("accepts a well-formed tag set at the limits", func() {
		tags := []headers.Tag{{Key: strings.Repeat("k", 128), Value: strings.Repeat("v", 256)}}
		Expect(headers.ValidateTagSet(tags)).To(BeNil())
	})
})
