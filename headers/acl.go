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

package headers

import (
	sdktps "github.com/aws/aws-sdk-go-v2/service/s3/types"
	liberr "github.com/sabouaram/s3mockd/errors"
)

// GrantHeader identifies which x-amz-grant-* header a grantee string
// came from, mirroring the teacher's aws/bucket.ACLHeader enum.
type GrantHeader uint8

const (
	GrantHeaderNone GrantHeader = iota
	GrantHeaderFullControl
	GrantHeaderWrite
	GrantHeaderRead
	GrantHeaderWriteACP
	GrantHeaderReadACP
)

// Grant is a resolved ACL grant: a permission extended to a grantee.
type Grant struct {
	Permission sdktps.Permission
	GranteeURI string // canonical group URI or an emailAddress=/id= value
}

var granteeAllUsers = "http://acs.amazonaws.com/groups/global/AllUsers"
var granteeAuthenticated = "http://acs.amazonaws.com/groups/global/AuthenticatedUsers"

// CannedACLGrants maps an `x-amz-acl` header value to the grant set S3
// applies for that canned ACL, owner-full-control always included by
// the caller separately.
func CannedACLGrants(canned string) ([]Grant, liberr.Error) {
	switch sdktps.BucketCannedACL(canned) {
	case "", sdktps.BucketCannedACLPrivate:
		return nil, nil
	case sdktps.BucketCannedACLPublicRead:
		return []Grant{{Permission: sdktps.PermissionRead, GranteeURI: granteeAllUsers}}, nil
	case sdktps.BucketCannedACLPublicReadWrite:
		return []Grant{
			{Permission: sdktps.PermissionRead, GranteeURI: granteeAllUsers},
			{Permission: sdktps.PermissionWrite, GranteeURI: granteeAllUsers},
		}, nil
	case sdktps.BucketCannedACLAuthenticatedRead:
		return []Grant{{Permission: sdktps.PermissionRead, GranteeURI: granteeAuthenticated}}, nil
	case sdktps.BucketCannedACLBucketOwnerRead, sdktps.BucketCannedACLBucketOwnerFullControl, sdktps.BucketCannedACLLogDeliveryWrite:
		// These canned ACLs only affect cross-account ownership, which
		// this single-owner emulator does not model; no extra grants.
		return nil, nil
	default:
		return nil, liberr.CodeInvalidRequest.Errorf("invalid canned ACL %q", canned)
	}
}

// GrantHeaderPermission maps a GrantHeader to the S3 permission it
// grants.
func GrantHeaderPermission(h GrantHeader) sdktps.Permission {
	switch h {
	case GrantHeaderFullControl:
		return sdktps.PermissionFullControl
	case GrantHeaderWrite:
		return sdktps.PermissionWrite
	case GrantHeaderRead:
		return sdktps.PermissionRead
	case GrantHeaderWriteACP:
		return sdktps.PermissionWriteAcp
	case GrantHeaderReadACP:
		return sdktps.PermissionReadAcp
	default:
		return ""
	}
}
