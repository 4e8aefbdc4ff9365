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

package objectstore_test

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"strings"
	"testing"

	"github.com/sabouaram/s3mockd/bucketstore"
	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/objectstore"
	"github.com/sabouaram/s3mockd/s3lock"
)

func newStores(t *testing.T) (*bucketstore.Store, *objectstore.Store) {
	t.Helper()
	lock := s3lock.NewRegistry()
	bs := bucketstore.New(t.TempDir(), lock)
	return bs, objectstore.New(bs, lock)
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestPutGetRoundTrip(t *testing.T) {
	bs, os_ := newStores(t)
	if _, err := bs.CreateBucket("b", "us-east-1", "", nil); err != nil {
		t.Fatalf("CreateBucket() = %v, want nil", err)
	}

	body := "hello world"
	v, err := os_.Put("b", "greeting.txt", strings.NewReader(body), objectstore.PutOptions{})
	if err != nil {
		t.Fatalf("Put() = %v, want nil", err)
	}

	if v.ETag != md5Hex(body) {
		t.Fatalf("ETag = %q, want %q", v.ETag, md5Hex(body))
	}
	if v.Size != int64(len(body)) {
		t.Fatalf("Size = %d, want %d", v.Size, len(body))
	}

	rc, got, gerr := os_.Get("b", "greeting.txt", "")
	if gerr != nil {
		t.Fatalf("Get() = %v, want nil", gerr)
	}
	defer rc.Close()

	data, rerr := io.ReadAll(rc)
	if rerr != nil {
		t.Fatalf("ReadAll() = %v, want nil", rerr)
	}
	if string(data) != body {
		t.Fatalf("Get() body = %q, want %q", data, body)
	}
	if got.ETag != v.ETag {
		t.Fatalf("Get() ETag = %q, want %q", got.ETag, v.ETag)
	}
}

func TestHeadReturnsMetadataWithoutBody(t *testing.T) {
	bs, os_ := newStores(t)
	if _, err := bs.CreateBucket("b", "us-east-1", "", nil); err != nil {
		t.Fatalf("CreateBucket() = %v, want nil", err)
	}
	if _, err := os_.Put("b", "k", strings.NewReader("data"), objectstore.PutOptions{}); err != nil {
		t.Fatalf("Put() = %v, want nil", err)
	}

	v, err := os_.Head("b", "k", "")
	if err != nil {
		t.Fatalf("Head() = %v, want nil", err)
	}
	if v.Size != 4 {
		t.Fatalf("Head() size = %d, want 4", v.Size)
	}
}

func TestGetMissingKeyIsNoSuchKey(t *testing.T) {
	bs, os_ := newStores(t)
	if _, err := bs.CreateBucket("b", "us-east-1", "", nil); err != nil {
		t.Fatalf("CreateBucket() = %v, want nil", err)
	}

	_, _, err := os_.Get("b", "missing", "")
	if err == nil || err.Code() != liberr.CodeNoSuchKey {
		t.Fatalf("Get(missing key) = %v, want CodeNoSuchKey", err)
	}
}

func TestDeleteUnversionedRemovesKeyWithoutDeleteMarker(t *testing.T) {
	bs, os_ := newStores(t)
	if _, err := bs.CreateBucket("b", "us-east-1", "", nil); err != nil {
		t.Fatalf("CreateBucket() = %v, want nil", err)
	}
	if _, err := os_.Put("b", "k", strings.NewReader("v1"), objectstore.PutOptions{}); err != nil {
		t.Fatalf("Put() = %v, want nil", err)
	}

	id, marker, err := os_.Delete("b", "k", "")
	if err != nil {
		t.Fatalf("Delete() = %v, want nil", err)
	}
	if marker {
		t.Fatalf("Delete() markerCreated = true, want false")
	}
	if id != "" {
		t.Fatalf("Delete() versionID = %q, want %q", id, "")
	}

	if _, _, gerr := os_.Get("b", "k", ""); gerr == nil || gerr.Code() != liberr.CodeNoSuchKey {
		t.Fatalf("Get() after delete = %v, want CodeNoSuchKey", gerr)
	}
}

func TestDeleteIsIdempotentForMissingKey(t *testing.T) {
	bs, os_ := newStores(t)
	if _, err := bs.CreateBucket("b", "us-east-1", "", nil); err != nil {
		t.Fatalf("CreateBucket() = %v, want nil", err)
	}

	if _, _, err := os_.Delete("b", "never-existed", ""); err != nil {
		t.Fatalf("Delete(nonexistent) = %v, want nil", err)
	}
}

func TestDeleteEnabledVersioningCreatesNewMarkerVersion(t *testing.T) {
	bs, os_ := newStores(t)
	if _, err := bs.CreateBucket("b", "us-east-1", "", nil); err != nil {
		t.Fatalf("CreateBucket() = %v, want nil", err)
	}
	if err := bs.Mutate("b", func(m *bucketstore.Metadata) liberr.Error {
		m.Versioning = bucketstore.VersioningEnabled
		return nil
	}); err != nil {
		t.Fatalf("Mutate() = %v, want nil", err)
	}

	v, err := os_.Put("b", "k", strings.NewReader("v1"), objectstore.PutOptions{})
	if err != nil {
		t.Fatalf("Put() = %v, want nil", err)
	}

	newID, marker, derr := os_.Delete("b", "k", "")
	if derr != nil {
		t.Fatalf("Delete() = %v, want nil", derr)
	}
	if !marker {
		t.Fatalf("Delete() markerCreated = false, want true")
	}
	if newID == v.VersionID {
		t.Fatalf("Delete() under versioning reused the live version id")
	}

	// The original version is still retrievable by its id.
	if _, _, gerr := os_.Get("b", "k", v.VersionID); gerr != nil {
		t.Fatalf("Get(original version) after delete-marker = %v, want nil", gerr)
	}
}

func TestPutTwiceUnderVersioningKeepsBothVersions(t *testing.T) {
	bs, os_ := newStores(t)
	if _, err := bs.CreateBucket("b", "us-east-1", "", nil); err != nil {
		t.Fatalf("CreateBucket() = %v, want nil", err)
	}
	if err := bs.Mutate("b", func(m *bucketstore.Metadata) liberr.Error {
		m.Versioning = bucketstore.VersioningEnabled
		return nil
	}); err != nil {
		t.Fatalf("Mutate() = %v, want nil", err)
	}

	v1, err := os_.Put("b", "k", strings.NewReader("v1"), objectstore.PutOptions{})
	if err != nil {
		t.Fatalf("Put() #1 = %v, want nil", err)
	}
	v2, err := os_.Put("b", "k", strings.NewReader("v2"), objectstore.PutOptions{})
	if err != nil {
		t.Fatalf("Put() #2 = %v, want nil", err)
	}

	if v1.VersionID == v2.VersionID {
		t.Fatalf("two Put() calls under versioning produced the same version id")
	}

	got, gerr := os_.Head("b", "k", "")
	if gerr != nil {
		t.Fatalf("Head() = %v, want nil", gerr)
	}
	if got.VersionID != v2.VersionID {
		t.Fatalf("current version = %q, want newest %q", got.VersionID, v2.VersionID)
	}

	if _, gerr := os_.Head("b", "k", v1.VersionID); gerr != nil {
		t.Fatalf("Head(first version) = %v, want nil", gerr)
	}
}

func TestBadDigestOnContentMD5Mismatch(t *testing.T) {
	bs, os_ := newStores(t)
	if _, err := bs.CreateBucket("b", "us-east-1", "", nil); err != nil {
		t.Fatalf("CreateBucket() = %v, want nil", err)
	}

	_, err := os_.Put("b", "k", strings.NewReader("data"), objectstore.PutOptions{
		ContentMD5: "not-a-valid-base64-md5==",
	})
	if err == nil || err.Code() != liberr.CodeBadDigest {
		t.Fatalf("Put(bad Content-MD5) = %v, want CodeBadDigest", err)
	}
}
