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
	"fmt"
	"math"
	"os"
	"strings"

	uuid "github.com/hashicorp/go-uuid"
	liberr "github.com/sabouaram/s3mockd/errors"
)

// allocateVersionID returns the version id a PUT should use for key
// under the bucket's current versioning state. Under Enabled it mints a
// fresh id that sorts lexicographically ascending in newest-first
// order (an inverted monotonic counter, so later PUTs sort earlier);
// under Unversioned/Suspended it is always the "null" sentinel,
// overwriting any prior null version in place.
func (s *Store) allocateVersionID(bucket string, enabled bool) (string, liberr.Error) {
	if !enabled {
		return NullVersionID, nil
	}

	seq, err := s.bucket.NextVersionID(bucket)
	if err != nil {
		return "", err
	}

	suffix, uerr := uuid.GenerateUUID()
	if uerr != nil {
		return "", liberr.CodeInternalError.Error(uerr)
	}

	inverted := math.MaxUint64 - seq
	return fmt.Sprintf("%020d.%s", inverted, strings.ReplaceAll(suffix, "-", "")), nil
}

func (s *Store) readCurrent(bucket, key string) (string, liberr.Error) {
	b, err := os.ReadFile(s.currentPointerPath(bucket, key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", liberr.CodeNoSuchKey.Error()
		}
		return "", liberr.CodeInternalError.Error(err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *Store) writeCurrent(bucket, key, versionID string) liberr.Error {
	if err := os.MkdirAll(s.keyDir(bucket, key), 0o755); err != nil {
		return liberr.CodeInternalError.Error(err)
	}
	if err := os.WriteFile(s.currentPointerPath(bucket, key), []byte(versionID), 0o644); err != nil {
		return liberr.CodeInternalError.Error(err)
	}
	return nil
}
