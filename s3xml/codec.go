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

// Package s3xml holds the request/response DTOs of the S3 REST API and
// serializes them the way AWS's own SDKs expect: a leading XML
// declaration, UTF-8, double-quoted attributes, empty fields omitted,
// and element ordering matching AWS's published schemas.
package s3xml

import (
	"bytes"
	"encoding/xml"

	liberr "github.com/sabouaram/s3mockd/errors"
)

const declaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Encode serializes v with the standard S3 declaration prefix.
func Encode(v interface{}) ([]byte, liberr.Error) {
	var buf bytes.Buffer
	buf.WriteString(declaration)

	enc := xml.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, liberr.CodeInternalError.Error(err)
	}

	return buf.Bytes(), nil
}

// Decode parses an S3 request body into v.
func Decode(body []byte, v interface{}) liberr.Error {
	if err := xml.Unmarshal(body, v); err != nil {
		return liberr.CodeMalformedXML.Error(err)
	}
	return nil
}
