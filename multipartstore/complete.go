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
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/objectstore"
	"github.com/sabouaram/s3mockd/s3lock"
)

// CompleteMultipartUpload assembles the given parts, in the order
// listed, into a new object version and removes the upload's staging
// directory. Completions of the same upload id are serialized on the
// upload's lock: whichever call finishes first wins, and any later
// call — concurrent or not — finds the staging directory already gone
// and reports NoSuchUpload, matching AWS's documented behavior for
// retried completes.
func (s *Store) CompleteMultipartUpload(bucket, key, uploadID string, parts []CompletedPart) (*objectstore.Version, liberr.Error) {
	unlock := s.lock.Lock(s3lock.UploadKey(bucket, key, uploadID))
	defer unlock()

	upload, err := s.readUploadMeta(bucket, key, uploadID)
	if err != nil {
		return nil, err
	}

	opt := objectstore.PutOptions{
		UserMeta:     upload.UserMeta,
		SystemMeta:   upload.SystemMeta,
		Tags:         upload.Tags,
		ACL:          upload.ACL,
		SSE:          upload.SSE,
		StorageClass: upload.StorageClass,
	}

	if len(parts) == 0 {
		return nil, liberr.CodeInvalidPart.Error()
	}

	for i := 1; i < len(parts); i++ {
		if parts[i].PartNumber <= parts[i-1].PartNumber {
			return nil, liberr.CodeInvalidPartOrder.Error()
		}
	}

	h := md5.New()
	files := make([]*os.File, 0, len(parts))
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()

	for i, p := range parts {
		stored, err := s.readPartMeta(bucket, key, uploadID, p.PartNumber)
		if err != nil {
			return nil, err
		}

		if normalizeETag(stored.ETag) != normalizeETag(p.ETag) {
			return nil, liberr.CodeInvalidPart.Error()
		}

		if i < len(parts)-1 && stored.Size < MinPartSize {
			return nil, liberr.CodeEntityTooSmall.Error()
		}

		raw, derr := hexDecode(stored.ETag)
		if derr != nil {
			return nil, liberr.CodeInternalError.Error(derr)
		}
		h.Write(raw)

		f, oerr := os.Open(s.partPath(bucket, key, uploadID, p.PartNumber))
		if oerr != nil {
			return nil, liberr.CodeInternalError.Error(oerr)
		}
		files = append(files, f)
	}

	composite := fmt.Sprintf("%s-%d", hex.EncodeToString(h.Sum(nil)), len(parts))

	readers := make([]io.Reader, len(files))
	for i, f := range files {
		readers[i] = f
	}

	opt.ETagOverride = composite
	v, perr := s.objects.Put(bucket, key, io.MultiReader(readers...), opt)
	if perr != nil {
		return nil, perr
	}

	if rerr := os.RemoveAll(s.uploadDir(bucket, key, uploadID)); rerr != nil {
		return nil, liberr.CodeInternalError.Error(rerr)
	}

	return v, nil
}

func normalizeETag(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '"' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func hexDecode(s string) ([]byte, error) {
	return hex.DecodeString(normalizeETag(s))
}
