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

// ParseOwnership maps an `x-amz-object-ownership` header value to the
// S3 ObjectOwnership enum, defaulting to BucketOwnerEnforced when the
// header is absent (S3's current default for new buckets).
func ParseOwnership(header string) (sdktps.ObjectOwnership, liberr.Error) {
	if header == "" {
		return sdktps.ObjectOwnershipBucketOwnerEnforced, nil
	}

	switch sdktps.ObjectOwnership(header) {
	case sdktps.ObjectOwnershipBucketOwnerEnforced,
		sdktps.ObjectOwnershipBucketOwnerPreferred,
		sdktps.ObjectOwnershipObjectWriter:
		return sdktps.ObjectOwnership(header), nil
	default:
		return "", liberr.CodeInvalidRequest.Errorf("invalid x-amz-object-ownership %q", header)
	}
}
