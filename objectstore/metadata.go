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
	"encoding/json"
	"os"

	liberr "github.com/sabouaram/s3mockd/errors"
)

func (s *Store) readVersionMeta(bucket, key, versionID string) (*Version, liberr.Error) {
	b, err := os.ReadFile(s.metaPath(bucket, key, versionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, liberr.CodeNoSuchVersion.Error()
		}
		return nil, liberr.CodeInternalError.Error(err)
	}

	v := &Version{}
	if err := json.Unmarshal(b, v); err != nil {
		return nil, liberr.CodeInternalError.Error(err)
	}

	return v, nil
}

func (s *Store) writeVersionMeta(v *Version) liberr.Error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return liberr.CodeInternalError.Error(err)
	}

	if err := os.WriteFile(s.metaPath(v.Bucket, v.Key, v.VersionID), b, 0o644); err != nil {
		return liberr.CodeInternalError.Error(err)
	}

	return nil
}
