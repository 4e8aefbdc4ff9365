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

package multipartstore_test

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/sabouaram/s3mockd/bucketstore"
	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/multipartstore"
	"github.com/sabouaram/s3mockd/objectstore"
	"github.com/sabouaram/s3mockd/s3lock"
)

func newStores(t *testing.T) (*bucketstore.Store, *objectstore.Store, *multipartstore.Store) {
	t.Helper()
	lock := s3lock.NewRegistry()
	bs := bucketstore.New(t.TempDir(), lock)
	if _, err := bs.CreateBucket("b", "us-east-1", "", nil); err != nil {
		t.Fatalf("CreateBucket() = %v, want nil", err)
	}
	os_ := objectstore.New(bs, lock)
	return bs, os_, multipartstore.New(bs, os_, lock)
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// compositeETag mirrors spec.md §4.3's documented formula so the test
// asserts against the rule, not against whatever the store happens to
// compute.
func compositeETag(parts ...string) string {
	h := md5.New()
	for _, p := range parts {
		raw, _ := hex.DecodeString(p)
		h.Write(raw)
	}
	return fmt.Sprintf("%s-%d", hex.EncodeToString(h.Sum(nil)), len(parts))
}

func TestCompleteMultipartUploadComposesETag(t *testing.T) {
	_, _, ms := newStores(t)

	upload, err := ms.Create("b", "big", objectstore.PutOptions{})
	if err != nil {
		t.Fatalf("Create() = %v, want nil", err)
	}

	firstPart := strings.Repeat("a", multipartstore.MinPartSize)
	p1, err := ms.UploadPart("b", "big", upload.UploadID, 1, strings.NewReader(firstPart))
	if err != nil {
		t.Fatalf("UploadPart(1) = %v, want nil", err)
	}
	p2, err := ms.UploadPart("b", "big", upload.UploadID, 2, strings.NewReader("tail"))
	if err != nil {
		t.Fatalf("UploadPart(2) = %v, want nil", err)
	}

	v, cerr := ms.CompleteMultipartUpload("b", "big", upload.UploadID, []multipartstore.CompletedPart{
		{PartNumber: 1, ETag: p1.ETag},
		{PartNumber: 2, ETag: p2.ETag},
	})
	if cerr != nil {
		t.Fatalf("CompleteMultipartUpload() = %v, want nil", cerr)
	}

	want := compositeETag(md5Hex(firstPart), md5Hex("tail"))
	if v.ETag != want {
		t.Fatalf("ETag = %q, want %q", v.ETag, want)
	}
	if v.Size != int64(len(firstPart)+len("tail")) {
		t.Fatalf("Size = %d, want %d", v.Size, len(firstPart)+len("tail"))
	}
}

func TestCompleteMultipartUploadRejectsSmallNonFinalPart(t *testing.T) {
	_, _, ms := newStores(t)

	upload, err := ms.Create("b", "small", objectstore.PutOptions{})
	if err != nil {
		t.Fatalf("Create() = %v, want nil", err)
	}

	p1, err := ms.UploadPart("b", "small", upload.UploadID, 1, strings.NewReader("too small"))
	if err != nil {
		t.Fatalf("UploadPart(1) = %v, want nil", err)
	}
	p2, err := ms.UploadPart("b", "small", upload.UploadID, 2, strings.NewReader("tail"))
	if err != nil {
		t.Fatalf("UploadPart(2) = %v, want nil", err)
	}

	_, cerr := ms.CompleteMultipartUpload("b", "small", upload.UploadID, []multipartstore.CompletedPart{
		{PartNumber: 1, ETag: p1.ETag},
		{PartNumber: 2, ETag: p2.ETag},
	})
	if cerr == nil || cerr.Code() != liberr.CodeEntityTooSmall {
		t.Fatalf("CompleteMultipartUpload() = %v, want CodeEntityTooSmall", cerr)
	}
}

func TestCompleteMultipartUploadRejectsOutOfOrderParts(t *testing.T) {
	_, _, ms := newStores(t)

	upload, err := ms.Create("b", "order", objectstore.PutOptions{})
	if err != nil {
		t.Fatalf("Create() = %v, want nil", err)
	}

	p1, _ := ms.UploadPart("b", "order", upload.UploadID, 1, strings.NewReader(strings.Repeat("a", multipartstore.MinPartSize)))
	p2, _ := ms.UploadPart("b", "order", upload.UploadID, 2, strings.NewReader("tail"))

	_, cerr := ms.CompleteMultipartUpload("b", "order", upload.UploadID, []multipartstore.CompletedPart{
		{PartNumber: 2, ETag: p2.ETag},
		{PartNumber: 1, ETag: p1.ETag},
	})
	if cerr == nil || cerr.Code() != liberr.CodeInvalidPartOrder {
		t.Fatalf("CompleteMultipartUpload() = %v, want CodeInvalidPartOrder", cerr)
	}
}

func TestCompleteMultipartUploadRejectsUnknownPart(t *testing.T) {
	_, _, ms := newStores(t)

	upload, err := ms.Create("b", "unknown", objectstore.PutOptions{})
	if err != nil {
		t.Fatalf("Create() = %v, want nil", err)
	}

	_, cerr := ms.CompleteMultipartUpload("b", "unknown", upload.UploadID, []multipartstore.CompletedPart{
		{PartNumber: 1, ETag: "deadbeef"},
	})
	if cerr == nil || cerr.Code() != liberr.CodeInvalidPart {
		t.Fatalf("CompleteMultipartUpload() = %v, want CodeInvalidPart", cerr)
	}
}

// TestSecondCompleteSeesNoSuchUpload covers spec.md §9's open-question
// decision: a completion retried after the staging directory is
// already gone must report NoSuchUpload, not silently no-op.
func TestSecondCompleteSeesNoSuchUpload(t *testing.T) {
	_, _, ms := newStores(t)

	upload, err := ms.Create("b", "once", objectstore.PutOptions{})
	if err != nil {
		t.Fatalf("Create() = %v, want nil", err)
	}

	p1, _ := ms.UploadPart("b", "once", upload.UploadID, 1, strings.NewReader("hello"))
	parts := []multipartstore.CompletedPart{{PartNumber: 1, ETag: p1.ETag}}

	if _, cerr := ms.CompleteMultipartUpload("b", "once", upload.UploadID, parts); cerr != nil {
		t.Fatalf("first CompleteMultipartUpload() = %v, want nil", cerr)
	}

	_, cerr := ms.CompleteMultipartUpload("b", "once", upload.UploadID, parts)
	if cerr == nil || cerr.Code() != liberr.CodeNoSuchUpload {
		t.Fatalf("second CompleteMultipartUpload() = %v, want CodeNoSuchUpload", cerr)
	}
}

func TestAbortMultipartUploadUnknownIDIsNoSuchUpload(t *testing.T) {
	_, _, ms := newStores(t)

	err := ms.Abort("b", "ghost", "no-such-id")
	if err == nil || err.Code() != liberr.CodeNoSuchUpload {
		t.Fatalf("Abort() = %v, want CodeNoSuchUpload", err)
	}
}
