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

// Package s3api orchestrates bucketstore/objectstore/multipartstore/
// kmsregistry into the S3 request-level operations, and maps domain
// errors onto the S3 XML error envelope and HTTP status codes.
package s3api

import (
	"net/http"

	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/s3xml"
)

// s3Code is the pair an internal CodeError maps to at the HTTP edge.
type s3Code struct {
	status int
	code   string
}

var codeTable = map[liberr.CodeError]s3Code{
	liberr.CodeNoSuchBucket:             {http.StatusNotFound, "NoSuchBucket"},
	liberr.CodeBucketAlreadyExists:      {http.StatusConflict, "BucketAlreadyExists"},
	liberr.CodeBucketAlreadyOwnedByYou:  {http.StatusConflict, "BucketAlreadyOwnedByYou"},
	liberr.CodeBucketNotEmpty:           {http.StatusConflict, "BucketNotEmpty"},
	liberr.CodeInvalidBucketName:        {http.StatusBadRequest, "InvalidBucketName"},
	liberr.CodeNoSuchKey:                {http.StatusNotFound, "NoSuchKey"},
	liberr.CodeNoSuchVersion:            {http.StatusNotFound, "NoSuchVersion"},
	liberr.CodeInvalidRange:             {http.StatusRequestedRangeNotSatisfiable, "InvalidRange"},
	liberr.CodePreconditionFailed:       {http.StatusPreconditionFailed, "PreconditionFailed"},
	liberr.CodeNotModified:              {http.StatusNotModified, "NotModified"},
	liberr.CodeBadDigest:                {http.StatusBadRequest, "BadDigest"},
	liberr.CodeInvalidTag:               {http.StatusBadRequest, "InvalidTag"},
	liberr.CodeAccessDenied:             {http.StatusForbidden, "AccessDenied"},
	liberr.CodeNoSuchUpload:             {http.StatusNotFound, "NoSuchUpload"},
	liberr.CodeInvalidPart:              {http.StatusBadRequest, "InvalidPart"},
	liberr.CodeInvalidPartOrder:         {http.StatusBadRequest, "InvalidPartOrder"},
	liberr.CodeEntityTooSmall:           {http.StatusBadRequest, "EntityTooSmall"},
	liberr.CodeKMSKeyNotFound:           {http.StatusBadRequest, "KMS.NotFoundException"},
	liberr.CodeInvalidRequest:           {http.StatusBadRequest, "InvalidRequest"},
	liberr.CodeMalformedXML:             {http.StatusBadRequest, "MalformedXML"},
	liberr.CodeInternalError:            {http.StatusInternalServerError, "InternalError"},
}

// MapError translates err to the (HTTP status, S3 error envelope) pair
// the HTTP edge should write. Any CodeError not in the table, and any
// non-Error (unexpected) failure, becomes a generic 500 InternalError;
// the caller is responsible for logging the original error before
// discarding it.
func MapError(err error, resource, requestID string) (int, *s3xml.ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	if e, ok := err.(liberr.Error); ok {
		if sc, ok := codeTable[e.Code()]; ok {
			return sc.status, s3xml.NewError(sc.code, e.Error(), resource, requestID)
		}
	}

	return http.StatusInternalServerError, s3xml.NewError("InternalError", "We encountered an internal error, please try again", resource, requestID)
}
