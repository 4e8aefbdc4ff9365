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

package bucketstore

import (
	"net"
	"strings"

	liberr "github.com/sabouaram/s3mockd/errors"
)

// ValidateName enforces the S3 bucket naming rules: 3-63 chars,
// lowercase letters/digits/hyphens/dots, no adjacent dots, not
// IP-address-shaped.
func ValidateName(name string) liberr.Error {
	if len(name) < 3 || len(name) > 63 {
		return liberr.CodeInvalidBucketName.Errorf("bucket name %q must be between 3 and 63 characters", name)
	}

	if net.ParseIP(name) != nil {
		return liberr.CodeInvalidBucketName.Errorf("bucket name %q must not be formatted as an IP address", name)
	}

	if strings.Contains(name, "..") {
		return liberr.CodeInvalidBucketName.Errorf("bucket name %q must not contain adjacent periods", name)
	}

	if name[0] == '.' || name[0] == '-' || name[len(name)-1] == '.' || name[len(name)-1] == '-' {
		return liberr.CodeInvalidBucketName.Errorf("bucket name %q must start and end with a letter or digit", name)
	}

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '.':
		default:
			return liberr.CodeInvalidBucketName.Errorf("bucket name %q contains invalid character %q", name, r)
		}
	}

	return nil
}
