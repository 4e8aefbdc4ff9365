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
	"net/url"

	liberr "github.com/sabouaram/s3mockd/errors"
)

const (
	maxTagCount    = 10
	maxTagKeyLen   = 128
	maxTagValueLen = 256
)

// Tag is a single S3 object/bucket tag key-value pair.
type Tag struct {
	Key   string
	Value string
}

// ParseTaggingHeader parses the `x-amz-tagging` request header, a
// URL-encoded "key1=val1&key2=val2" query string, enforcing the S3
// limits on count and per-field length.
func ParseTaggingHeader(header string) ([]Tag, liberr.Error) {
	if header == "" {
		return nil, nil
	}

	values, err := url.ParseQuery(header)
	if err != nil {
		return nil, liberr.CodeInvalidTag.Error(err)
	}

	return tagsFromValues(values)
}

func tagsFromValues(values url.Values) ([]Tag, liberr.Error) {
	if len(values) > maxTagCount {
		return nil, liberr.CodeInvalidTag.Error()
	}

	seen := make(map[string]bool, len(values))
	tags := make([]Tag, 0, len(values))

	for k, vs := range values {
		if len(k) == 0 || len(k) > maxTagKeyLen {
			return nil, liberr.CodeInvalidTag.Error()
		}
		if seen[k] {
			return nil, liberr.CodeInvalidTag.Error()
		}
		seen[k] = true

		v := ""
		if len(vs) > 0 {
			v = vs[0]
		}
		if len(v) > maxTagValueLen {
			return nil, liberr.CodeInvalidTag.Error()
		}

		tags = append(tags, Tag{Key: k, Value: v})
	}

	return tags, nil
}

// ValidateTagSet validates a tag set already decoded from an XML
// <Tagging> body (PutBucketTagging/PutObjectTagging).
func ValidateTagSet(tags []Tag) liberr.Error {
	if len(tags) > maxTagCount {
		return liberr.CodeInvalidTag.Error()
	}

	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if len(t.Key) == 0 || len(t.Key) > maxTagKeyLen || len(t.Value) > maxTagValueLen {
			return liberr.CodeInvalidTag.Error()
		}
		if seen[t.Key] {
			return liberr.CodeInvalidTag.Error()
		}
		seen[t.Key] = true
	}

	return nil
}
