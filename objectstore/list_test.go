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
	"strings"
	"testing"

	"github.com/sabouaram/s3mockd/bucketstore"
	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/objectstore"
)

func seedKeys(t *testing.T, keys ...string) *objectstore.Store {
	t.Helper()
	bs, os_ := newStores(t)
	if _, err := bs.CreateBucket("b", "us-east-1", "", nil); err != nil {
		t.Fatalf("CreateBucket() = %v, want nil", err)
	}
	for _, k := range keys {
		if _, err := os_.Put("b", k, strings.NewReader("x"), objectstore.PutOptions{}); err != nil {
			t.Fatalf("Put(%q) = %v, want nil", k, err)
		}
	}
	return os_
}

func TestListObjectsV1PrefixAndDelimiter(t *testing.T) {
	os_ := seedKeys(t, "a.txt", "dir/one.txt", "dir/two.txt", "dir/sub/three.txt")

	res, err := os_.ListObjectsV1("b", "dir/", "/", "", 0)
	if err != nil {
		t.Fatalf("ListObjectsV1() = %v, want nil", err)
	}

	if len(res.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2 (one.txt, two.txt)", len(res.Entries))
	}
	if len(res.CommonPrefixes) != 1 || res.CommonPrefixes[0] != "dir/sub/" {
		t.Fatalf("CommonPrefixes = %v, want [dir/sub/]", res.CommonPrefixes)
	}
}

func TestListObjectsV1Pagination(t *testing.T) {
	os_ := seedKeys(t, "a", "b", "c", "d")

	page1, err := os_.ListObjectsV1("b", "", "", "", 2)
	if err != nil {
		t.Fatalf("ListObjectsV1() page1 = %v, want nil", err)
	}
	if !page1.IsTruncated {
		t.Fatalf("page1.IsTruncated = false, want true")
	}
	if len(page1.Entries) != 2 || page1.Entries[0].Key != "a" || page1.Entries[1].Key != "b" {
		t.Fatalf("page1 entries = %+v, want [a b]", page1.Entries)
	}

	page2, err := os_.ListObjectsV1("b", "", "", page1.NextMarker, 2)
	if err != nil {
		t.Fatalf("ListObjectsV1() page2 = %v, want nil", err)
	}
	if page2.IsTruncated {
		t.Fatalf("page2.IsTruncated = true, want false")
	}
	if len(page2.Entries) != 2 || page2.Entries[0].Key != "c" || page2.Entries[1].Key != "d" {
		t.Fatalf("page2 entries = %+v, want [c d]", page2.Entries)
	}
}

func TestListObjectsV2ContinuationToken(t *testing.T) {
	os_ := seedKeys(t, "a", "b", "c")

	page1, err := os_.ListObjectsV2("b", "", "", "", "", 2)
	if err != nil {
		t.Fatalf("ListObjectsV2() page1 = %v, want nil", err)
	}
	if !page1.IsTruncated || page1.NextContinuationToken == "" {
		t.Fatalf("page1 = %+v, want truncated with a continuation token", page1)
	}
	if page1.NextMarker != "" {
		t.Fatalf("ListObjectsV2() leaked NextMarker = %q, want empty (V2 uses NextContinuationToken)", page1.NextMarker)
	}

	page2, err := os_.ListObjectsV2("b", "", "", page1.NextContinuationToken, "", 2)
	if err != nil {
		t.Fatalf("ListObjectsV2() page2 = %v, want nil", err)
	}
	if page2.IsTruncated {
		t.Fatalf("page2.IsTruncated = true, want false")
	}
	if len(page2.Entries) != 1 || page2.Entries[0].Key != "c" {
		t.Fatalf("page2 entries = %+v, want [c]", page2.Entries)
	}
}

func TestListObjectVersionsNewestFirst(t *testing.T) {
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

	res, lerr := os_.ListObjectVersions("b", "", "", "", "", 0)
	if lerr != nil {
		t.Fatalf("ListObjectVersions() = %v, want nil", lerr)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(res.Entries))
	}
	if res.Entries[0].Version.VersionID != v2.VersionID {
		t.Fatalf("Entries[0] = %q, want newest %q", res.Entries[0].Version.VersionID, v2.VersionID)
	}
	if !res.Entries[0].IsLatest {
		t.Fatalf("Entries[0].IsLatest = false, want true")
	}
	if res.Entries[1].Version.VersionID != v1.VersionID || res.Entries[1].IsLatest {
		t.Fatalf("Entries[1] = %+v, want oldest version, not latest", res.Entries[1])
	}
}
