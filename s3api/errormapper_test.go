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

package s3api_test

import (
	"errors"
	"net/http"
	"testing"

	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/s3api"
)

// TestMapErrorMatchesSpecTable checks every (status, code) pair spec.md
// §7's error table requires.
func TestMapErrorMatchesSpecTable(t *testing.T) {
	cases := []struct {
		err    liberr.CodeError
		status int
		code   string
	}{
		{liberr.CodeNoSuchBucket, http.StatusNotFound, "NoSuchBucket"},
		{liberr.CodeBucketAlreadyExists, http.StatusConflict, "BucketAlreadyExists"},
		{liberr.CodeBucketNotEmpty, http.StatusConflict, "BucketNotEmpty"},
		{liberr.CodeInvalidBucketName, http.StatusBadRequest, "InvalidBucketName"},
		{liberr.CodeNoSuchKey, http.StatusNotFound, "NoSuchKey"},
		{liberr.CodeNoSuchVersion, http.StatusNotFound, "NoSuchVersion"},
		{liberr.CodeNoSuchUpload, http.StatusNotFound, "NoSuchUpload"},
		{liberr.CodeInvalidPart, http.StatusBadRequest, "InvalidPart"},
		{liberr.CodeInvalidPartOrder, http.StatusBadRequest, "InvalidPartOrder"},
		{liberr.CodeEntityTooSmall, http.StatusBadRequest, "EntityTooSmall"},
		{liberr.CodeInvalidRange, http.StatusRequestedRangeNotSatisfiable, "InvalidRange"},
		{liberr.CodePreconditionFailed, http.StatusPreconditionFailed, "PreconditionFailed"},
		{liberr.CodeBadDigest, http.StatusBadRequest, "BadDigest"},
		{liberr.CodeKMSKeyNotFound, http.StatusBadRequest, "KMS.NotFoundException"},
		{liberr.CodeInternalError, http.StatusInternalServerError, "InternalError"},
	}

	for _, c := range cases {
		status, body := s3api.MapError(c.err.Error(), "/bucket/key", "req-1")
		if status != c.status {
			t.Errorf("MapError(%v) status = %d, want %d", c.err, status, c.status)
		}
		if body.Code != c.code {
			t.Errorf("MapError(%v) code = %q, want %q", c.err, body.Code, c.code)
		}
	}
}

func TestMapErrorNilIsOK(t *testing.T) {
	status, body := s3api.MapError(nil, "/bucket", "req-1")
	if status != http.StatusOK || body != nil {
		t.Fatalf("MapError(nil) = (%d, %v), want (200, nil)", status, body)
	}
}

func TestMapErrorUnknownFailureIsInternalError(t *testing.T) {
	status, body := s3api.MapError(errors.New("boom"), "/bucket", "req-1")
	if status != http.StatusInternalServerError {
		t.Fatalf("MapError(unexpected) status = %d, want 500", status)
	}
	if body.Code != "InternalError" {
		t.Fatalf("MapError(unexpected) code = %q, want InternalError", body.Code)
	}
}
