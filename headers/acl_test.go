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

var _ = Describe("CannedACLGrants", func() {
	It("grants nothing for private (the default)", func() {
		grants, err := headers.CannedACLGrants("")
		Expect(err).NotTo(HaveOccurred())
		Expect(grants).To(BeEmpty())

		grants, err = headers.CannedACLGrants(string(sdktps.BucketCannedACLPrivate))
		Expect(err).NotTo(HaveOccurred())
		Expect(grants).To(BeEmpty())
	})

	It("grants AllUsers read for public-read", func() {
		grants, err := headers.CannedACLGrants(string(sdktps.BucketCannedACLPublicRead))
		Expect(err).NotTo(HaveOccurred())
		Expect(grants).To(HaveLen(1))
		Expect(grants[0].Permission).To(Equal(sdktps.PermissionRead))
	})

	It("grants AllUsers read and write for public-read-write", func() {
		grants, err := headers.CannedACLGrants(string(sdktps.BucketCannedACLPublicReadWrite))
		Expect(err).NotTo(HaveOccurred())
		Expect(grants).To(HaveLen(2))
	})

	It("grants AuthenticatedUsers read for authenticated-read", func() {
		grants, err := headers.CannedACLGrants(string(sdktps.BucketCannedACLAuthenticatedRead))
		Expect(err).NotTo(HaveOccurred())
		Expect(grants).To(HaveLen(1))
	})

	It("adds no extra grants for ownership-only canned ACLs", func() {
		for _, canned := range []sdktps.BucketCannedACL{
			sdktps.BucketCannedACLBucketOwnerRead,
			sdktps.BucketCannedACLBucketOwnerFullControl,
			sdktps.BucketCannedACLLogDeliveryWrite,
		} {
			grants, err := headers.CannedACLGrants(string(canned))
			Expect(err).NotTo(HaveOccurred())
			Expect(grants).To(BeEmpty())
		}
	})

	It("rejects an unrecognized canned ACL", func() {
		_, err := headers.CannedACLGrants("not-a-real-acl")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("GrantHeaderPermission", func() {
	DescribeTable("maps each grant header to its S3 permission",
		func(h headers.GrantHeader, want sdktps.Permission) {
			Expect(headers.GrantHeaderPermission(h)).To(Equal(want))
		},
		Entry("full-control", headers.GrantHeaderFullControl, sdktps.PermissionFullControl),
		Entry("write", headers.GrantHeaderWrite, sdktps.PermissionWrite),
		Entry("read", headers.GrantHeaderRead, sdktps.PermissionRead),
		Entry("write-acp", headers.GrantHeaderWriteACP, sdktps.PermissionWriteAcp),
		Entry("read-acp", headers.GrantHeaderReadACP, sdktps.PermissionReadAcp),
	)

	It("returns empty for GrantHeaderNone", func() {
		Expect(headers.GrantHeaderPermission(headers.GrantHeaderNone)).To(BeEquivalentTo(""))
	})
})
