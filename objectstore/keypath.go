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
	"net/url"
	"path/filepath"
)

// encodeKey turns an arbitrary S3 key (which may contain '/' or any
// other byte) into a single filesystem path segment.
func encodeKey(key string) string {
	return url.PathEscape(key)
}

// decodeKey reverses encodeKey; callers that only need to compare or
// display an already-known key should prefer keeping the original
// string instead of round-tripping through the filesystem name.
func decodeKey(name string) (string, error) {
	return url.PathUnescape(name)
}

func (s *Store) keyDir(bucket, key string) string {
	return filepath.Join(s.bucket.Dir(bucket), encodeKey(key))
}

func (s *Store) versionDir(bucket, key, versionID string) string {
	return filepath.Join(s.keyDir(bucket, key), versionID)
}

func (s *Store) currentPointerPath(bucket, key string) string {
	return filepath.Join(s.keyDir(bucket, key), CurrentPointer)
}

func (s *Store) binaryPath(bucket, key, versionID string) string {
	return filepath.Join(s.versionDir(bucket, key, versionID), BinaryFile)
}

func (s *Store) metaPath(bucket, key, versionID string) string {
	return filepath.Join(s.versionDir(bucket, key, versionID), MetadataFile)
}
