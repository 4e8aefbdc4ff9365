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
	"os"
	"sort"
	"strings"

	liberr "github.com/sabouaram/s3mockd/errors"
)

// ListEntry is one object surfaced by ListObjectsV1/V2: its key and its
// current, non-delete-marker version.
type ListEntry struct {
	Key     string
	Version *Version
}

// ListResult is a page of ListObjectsV1/V2 output.
type ListResult struct {
	Entries               []ListEntry
	CommonPrefixes        []string
	IsTruncated           bool
	NextMarker            string
	NextContinuationToken string
}

// allKeys walks the bucket directory and returns every object key in
// sorted order. The filesystem itself is the index: a key is any
// immediate subdirectory of the bucket directory that isn't the bucket
// metadata sidecar.
func (s *Store) allKeys(bucket string) ([]string, liberr.Error) {
	entries, err := os.ReadDir(s.bucket.Dir(bucket))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, liberr.CodeNoSuchBucket.Error()
		}
		return nil, liberr.CodeInternalError.Error(err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		key, derr := decodeKey(e.Name())
		if derr != nil {
			continue
		}

		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys, nil
}

// groupByDelimiter applies the prefix/delimiter rollup shared by
// ListObjectsV1, ListObjectsV2 and ListObjectVersions: keys sharing
// everything up to and including the first delimiter after prefix
// collapse into one CommonPrefixes entry instead of being listed
// individually.
func groupByDelimiter(key, prefix, delimiter string) (rolled string, isCommonPrefix bool) {
	if delimiter == "" {
		return "", false
	}

	rest := strings.TrimPrefix(key, prefix)
	idx := strings.Index(rest, delimiter)
	if idx < 0 {
		return "", false
	}

	return prefix + rest[:idx+len(delimiter)], true
}

// ListObjectsV1 implements the marker-based listing page for a bucket.
func (s *Store) ListObjectsV1(bucket, prefix, delimiter, marker string, maxKeys int) (*ListResult, liberr.Error) {
	return s.listObjects(bucket, prefix, delimiter, marker, maxKeys)
}

// ListObjectsV2 implements the continuation-token-based listing page.
// startAfter, when continuationToken is empty, behaves like marker.
func (s *Store) ListObjectsV2(bucket, prefix, delimiter, continuationToken, startAfter string, maxKeys int) (*ListResult, liberr.Error) {
	after := continuationToken
	if after == "" {
		after = startAfter
	}

	res, err := s.listObjects(bucket, prefix, delimiter, after, maxKeys)
	if err != nil {
		return nil, err
	}

	if res.IsTruncated {
		res.NextContinuationToken = res.NextMarker
	}
	res.NextMarker = ""

	return res, nil
}

func (s *Store) listObjects(bucket, prefix, delimiter, after string, maxKeys int) (*ListResult, liberr.Error) {
	keys, err := s.allKeys(bucket)
	if err != nil {
		return nil, err
	}

	if maxKeys <= 0 {
		maxKeys = 1000
	}

	res := &ListResult{}
	seenPrefix := make(map[string]bool)
	lastReturned := after

	for _, key := range keys {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		if after != "" && key <= after {
			continue
		}

		if cp, ok := groupByDelimiter(key, prefix, delimiter); ok {
			if seenPrefix[cp] {
				continue
			}

			if len(res.Entries)+len(res.CommonPrefixes) >= maxKeys {
				res.IsTruncated = true
				res.NextMarker = lastReturned
				break
			}

			seenPrefix[cp] = true
			res.CommonPrefixes = append(res.CommonPrefixes, cp)
			lastReturned = cp
			continue
		}

		v, rerr := s.resolve(bucket, key, "")
		if rerr != nil {
			// Current version is a delete marker or unreadable: the
			// key simply does not appear in a listing.
			continue
		}

		if len(res.Entries)+len(res.CommonPrefixes) >= maxKeys {
			res.IsTruncated = true
			res.NextMarker = lastReturned
			break
		}

		res.Entries = append(res.Entries, ListEntry{Key: key, Version: v})
		lastReturned = key
	}

	return res, nil
}

// VersionEntry is one row of a ListObjectVersions page.
type VersionEntry struct {
	Key       string
	Version   *Version
	IsLatest  bool
}

// VersionsListResult is a page of ListObjectVersions output.
type VersionsListResult struct {
	Entries               []VersionEntry
	CommonPrefixes        []string
	IsTruncated           bool
	NextKeyMarker         string
	NextVersionIDMarker   string
}

// ListObjectVersions enumerates every version of every key, newest
// first per key, honoring prefix/delimiter rollup the same way
// ListObjectsV1/V2 do.
func (s *Store) ListObjectVersions(bucket, prefix, delimiter, keyMarker, versionIDMarker string, maxKeys int) (*VersionsListResult, liberr.Error) {
	keys, err := s.allKeys(bucket)
	if err != nil {
		return nil, err
	}

	if maxKeys <= 0 {
		maxKeys = 1000
	}

	res := &VersionsListResult{}
	seenPrefix := make(map[string]bool)
	skipping := keyMarker != ""
	lastKey, lastVersionID := keyMarker, versionIDMarker

	for _, key := range keys {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}

		if skipping {
			if key < keyMarker {
				continue
			}
			if key > keyMarker {
				skipping = false
			}
		}

		if cp, ok := groupByDelimiter(key, prefix, delimiter); ok {
			if seenPrefix[cp] {
				continue
			}
			if len(res.Entries)+len(res.CommonPrefixes) >= maxKeys {
				res.IsTruncated = true
				res.NextKeyMarker = lastKey
				res.NextVersionIDMarker = lastVersionID
				break
			}
			seenPrefix[cp] = true
			res.CommonPrefixes = append(res.CommonPrefixes, cp)
			lastKey, lastVersionID = cp, ""
			continue
		}

		ids, lerr := s.listVersionIDs(bucket, key)
		if lerr != nil {
			continue
		}

		cur, _ := s.readCurrent(bucket, key)

		for i, id := range ids {
			if key == keyMarker && versionIDMarker != "" && id <= versionIDMarker {
				continue
			}

			v, rerr := s.readVersionMeta(bucket, key, id)
			if rerr != nil {
				continue
			}

			if len(res.Entries)+len(res.CommonPrefixes) >= maxKeys {
				res.IsTruncated = true
				res.NextKeyMarker = lastKey
				res.NextVersionIDMarker = lastVersionID
				return res, nil
			}

			res.Entries = append(res.Entries, VersionEntry{Key: key, Version: v, IsLatest: i == 0 && id == cur})
			lastKey, lastVersionID = key, id
		}
	}

	return res, nil
}
