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
	sdktps "github.com/aws/aws-sdk-go-v2/service/s3/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/s3mockd/headers"
)

var _ = Describe("ParseOwnership", func() {
	It("defaults to BucketOwnerEnforced when the header is absent", func() {
		o, err := headers.ParseOwnership("")
		Expect(err).NotTo(HaveOccurred())
		Expect(o).To(Equal(sdktps.ObjectOwnershipBucketOwnerEnforced))
	})

	DescribeTable("accepts every valid ownership value",
		func(v sdktps.ObjectOwnership) {
			o, err := headers.ParseOwnership(string(v))
			Expect(err).NotTo(HaveOccurred())
			Expect(o).To(Equal(v))
		},
		Entry("bucket owner enforced", sdktps.ObjectOwnershipBucketOwnerEnforced),
		Entry("bucket owner preferred", sdktps.ObjectOwnershipBucketOwnerPreferred),
		Entry("object writer", sdktps.ObjectOwnershipObjectWriter),
	)

	It("rejects an invalid ownership value", func() {
		_, err := headers.ParseOwnership("NotARealOwnership")
		Expect(err).To(HaveOccurred())
	})
})
