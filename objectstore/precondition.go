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

package objectstore

import (
	"strings"
	"time"

	liberr "github.com/sabouaram/s3mockd/errors"
)

// Preconditions mirrors the conditional-request headers a GET/HEAD/PUT
// may carry. Evaluation order follows RFC 7232: If-Match first, then
// If-Unmodified-Since, then If-None-Match, then If-Modified-Since.
type Preconditions struct {
	IfMatch           string
	IfNoneMatch       string
	IfUnmodifiedSince time.Time
	IfModifiedSince   time.Time
}

// Evaluate checks p against v's current ETag/LastModified and returns
// CodePreconditionFailed (412) or CodeNotModified (304) if the request
// should be rejected, nil otherwise. The RFC order is a deliberate
// choice: it's equivalent to evaluating If-Match/If-Unmodified-Since as
// one group and If-None-Match/If-Modified-Since as the other, since
// within each group the two headers never both fire on the same request.
func (p Preconditions) Evaluate(v *Version) liberr.Error {
	if p.IfMatch != "" && !matchesETag(p.IfMatch, v.ETag) {
		return liberr.CodePreconditionFailed.Error()
	}

	if !p.IfUnmodifiedSince.IsZero() && v.LastModified.After(p.IfUnmodifiedSince) {
		return liberr.CodePreconditionFailed.Error()
	}

	if p.IfNoneMatch != "" && matchesETag(p.IfNoneMatch, v.ETag) {
		return liberr.CodeNotModified.Error()
	}

	if !p.IfModifiedSince.IsZero() && !v.LastModified.After(p.IfModifiedSince) {
		return liberr.CodeNotModified.Error()
	}

	return nil
}

// matchesETag supports the "*" wildcard and comma-separated lists, both
// of which real S3 clients send.
func matchesETag(header, etag string) bool {
	if strings.TrimSpace(header) == "*" {
		return true
	}

	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.Trim(strings.TrimSpace(candidate), `"`)
		if candidate == etag {
			return true
		}
	}

	return false
}
