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

package multipartstore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	liberr "github.com/sabouaram/s3mockd/errors"
)

// UploadsPage is one page of ListMultipartUploads output.
type UploadsPage struct {
	Uploads     []*UploadMeta
	IsTruncated bool
	NextKeyMarker      string
	NextUploadIDMarker string
}

// ListMultipartUploads enumerates in-progress uploads across the whole
// bucket, sorted by (key, uploadId).
func (s *Store) ListMultipartUploads(bucket, prefix, keyMarker, uploadIDMarker string, maxUploads int) (*UploadsPage, liberr.Error) {
	if maxUploads <= 0 {
		maxUploads = 1000
	}

	entries, err := os.ReadDir(s.bucket.Dir(bucket))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, liberr.CodeNoSuchBucket.Error()
		}
		return nil, liberr.CodeInternalError.Error(err)
	}

	type pair struct {
		key      string
		uploadID string
	}
	var all []pair

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		key, derr := decodeKey(e.Name())
		if derr != nil {
			continue
		}
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}

		uploadEntries, uerr := os.ReadDir(filepath.Join(s.bucket.Dir(bucket), e.Name(), UploadsDir))
		if uerr != nil {
			continue
		}

		for _, ue := range uploadEntries {
			if !ue.IsDir() {
				continue
			}
			all = append(all, pair{key: key, uploadID: ue.Name()})
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].key != all[j].key {
			return all[i].key < all[j].key
		}
		return all[i].uploadID < all[j].uploadID
	})

	page := &UploadsPage{}

	for _, p := range all {
		if keyMarker != "" {
			if p.key < keyMarker {
				continue
			}
			if p.key == keyMarker && p.uploadID <= uploadIDMarker {
				continue
			}
		}

		if len(page.Uploads) >= maxUploads {
			page.IsTruncated = true
			page.NextKeyMarker = p.key
			page.NextUploadIDMarker = p.uploadID
			break
		}

		m, merr := s.readUploadMeta(bucket, p.key, p.uploadID)
		if merr != nil {
			continue
		}

		page.Uploads = append(page.Uploads, m)
	}

	return page, nil
}

// PartsPage is one page of ListParts output.
type PartsPage struct {
	Parts               []*PartMeta
	IsTruncated         bool
	NextPartNumberMarker int
}

// ListParts enumerates the parts already staged for an upload, in
// ascending part-number order.
func (s *Store) ListParts(bucket, key, uploadID string, partNumberMarker, maxParts int) (*PartsPage, liberr.Error) {
	if maxParts <= 0 {
		maxParts = 1000
	}

	if _, err := s.readUploadMeta(bucket, key, uploadID); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.partsDir(bucket, key, uploadID))
	if err != nil {
		return nil, liberr.CodeInternalError.Error(err)
	}

	var numbers []int
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		n := 0
		for _, c := range strings.TrimSuffix(e.Name(), ".json") {
			if c < '0' || c > '9' {
				n = -1
				break
			}
			n = n*10 + int(c-'0')
		}
		if n > partNumberMarker {
			numbers = append(numbers, n)
		}
	}

	sort.Ints(numbers)

	page := &PartsPage{}
	for _, n := range numbers {
		if len(page.Parts) >= maxParts {
			page.IsTruncated = true
			page.NextPartNumberMarker = n
			break
		}

		pm, perr := s.readPartMeta(bucket, key, uploadID, n)
		if perr != nil {
			continue
		}

		page.Parts = append(page.Parts, pm)
	}

	return page, nil
}
