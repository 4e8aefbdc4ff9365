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

// Package headers converts the structured HTTP headers and query
// parameters S3 clients send (Range, tagging, canned ACL, ownership)
// to and from this module's domain types.
package headers

import (
	"strconv"
	"strings"

	liberr "github.com/sabouaram/s3mockd/errors"
)

// ByteRange is a resolved, inclusive byte range over an object of a
// known size.
type ByteRange struct {
	Start int64
	End   int64 // inclusive
}

// Len returns the number of bytes covered by the range.
func (r ByteRange) Len() int64 { return r.End - r.Start + 1 }

// ParseRange parses an HTTP Range header value of the form
// "bytes=a-b", "bytes=a-", or "bytes=-n" against an object of the given
// total size. It returns (nil, nil) when header is empty (no range
// requested), and CodeInvalidRange when the header is malformed or
// unsatisfiable.
func ParseRange(header string, size int64) (*ByteRange, liberr.Error) {
	if header == "" {
		return nil, nil
	}

	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) {
		return nil, liberr.CodeInvalidRange.Error()
	}

	spec := strings.TrimPrefix(header, prefix)
	// Only the first range is honored; multi-range requests are out of
	// scope for a local emulator.
	spec = strings.SplitN(spec, ",", 2)[0]
	spec = strings.TrimSpace(spec)

	dash := strings.IndexByte(spec, '-')
	if dash < 0 {
		return nil, liberr.CodeInvalidRange.Error()
	}

	startStr, endStr := spec[:dash], spec[dash+1:]

	var start, end int64
	switch {
	case startStr == "" && endStr == "":
		return nil, liberr.CodeInvalidRange.Error()
	case startStr == "":
		// suffix range: last n bytes
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n <= 0 {
			return nil, liberr.CodeInvalidRange.Error()
		}
		if n > size {
			n = size
		}
		start = size - n
		end = size - 1
	case endStr == "":
		s, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil || s < 0 {
			return nil, liberr.CodeInvalidRange.Error()
		}
		start = s
		end = size - 1
	default:
		s, err1 := strconv.ParseInt(startStr, 10, 64)
		e, err2 := strconv.ParseInt(endStr, 10, 64)
		if err1 != nil || err2 != nil || s < 0 || e < s {
			return nil, liberr.CodeInvalidRange.Error()
		}
		start, end = s, e
	}

	if size == 0 || start >= size {
		return nil, liberr.CodeInvalidRange.Error()
	}
	if end >= size {
		end = size - 1
	}

	return &ByteRange{Start: start, End: end}, nil
}

// ContentRange formats the Content-Range response header value for a
// satisfied range over an object of the given total size.
func (r ByteRange) ContentRange(size int64) string {
	return "bytes " + strconv.FormatInt(r.Start, 10) + "-" + strconv.FormatInt(r.End, 10) + "/" + strconv.FormatInt(size, 10)
}
