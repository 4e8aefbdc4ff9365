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
	"encoding/hex"
	"encoding/json"
	"io"
	"os"

	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/ioutils"
	"github.com/sabouaram/s3mockd/s3lock"
)

// UploadPart stages one part's bytes to disk and records its ETag.
// Parts of the same upload are serialized independently of each other,
// so concurrent PartNumber uploads for one upload id proceed in
// parallel.
func (s *Store) UploadPart(bucket, key, uploadID string, partNumber int, body io.Reader) (*PartMeta, liberr.Error) {
	if partNumber < 1 || partNumber > MaxPartCount {
		return nil, liberr.CodeInvalidPart.Error()
	}

	unlock := s.lock.Lock(s3lock.PartKey(bucket, key, uploadID, partNumber))
	defer unlock()

	if _, err := s.readUploadMeta(bucket, key, uploadID); err != nil {
		return nil, err
	}

	sw, err := ioutils.NewStagingWriter(s.partsDir(bucket, key, uploadID), nil)
	if err != nil {
		return nil, err
	}

	if _, cerr := sw.ReadFrom(body); cerr != nil {
		sw.Abort()
		return nil, liberr.CodeInternalError.Error(cerr)
	}

	if cerr := sw.Commit(s.partPath(bucket, key, uploadID, partNumber)); cerr != nil {
		return nil, cerr
	}

	pm := &PartMeta{
		PartNumber:   partNumber,
		Size:         sw.Size(),
		ETag:         hex.EncodeToString(sw.MD5Sum()),
		LastModified: s.now(),
	}

	if werr := s.writePartMeta(bucket, key, uploadID, pm); werr != nil {
		return nil, werr
	}

	return pm, nil
}

// UploadPartCopy is UploadPart fed from an existing object version
// instead of the request body, optionally restricted to a byte range.
func (s *Store) UploadPartCopy(bucket, key, uploadID string, partNumber int, srcBucket, srcKey, srcVersionID string, rng *ObjectRange) (*PartMeta, liberr.Error) {
	rc, _, err := s.objects.Get(srcBucket, srcKey, srcVersionID)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var body io.Reader = rc
	if rng != nil {
		if _, serr := io.CopyN(io.Discard, rc, rng.Start); serr != nil {
			return nil, liberr.CodeInvalidRange.Error(serr)
		}
		body = io.LimitReader(rc, rng.Len())
	}

	return s.UploadPart(bucket, key, uploadID, partNumber, body)
}

// ObjectRange is the byte range UploadPartCopy should read from the
// source object; nil means "the whole object".
type ObjectRange struct {
	Start, End int64
}

func (r *ObjectRange) Len() int64 { return r.End - r.Start + 1 }

func (s *Store) readPartMeta(bucket, key, uploadID string, partNumber int) (*PartMeta, liberr.Error) {
	b, err := os.ReadFile(s.partMetaPath(bucket, key, uploadID, partNumber))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, liberr.CodeInvalidPart.Error()
		}
		return nil, liberr.CodeInternalError.Error(err)
	}

	pm := &PartMeta{}
	if err := json.Unmarshal(b, pm); err != nil {
		return nil, liberr.CodeInternalError.Error(err)
	}

	return pm, nil
}

func (s *Store) writePartMeta(bucket, key, uploadID string, pm *PartMeta) liberr.Error {
	b, err := json.MarshalIndent(pm, "", "  ")
	if err != nil {
		return liberr.CodeInternalError.Error(err)
	}

	if err := os.WriteFile(s.partMetaPath(bucket, key, uploadID, pm.PartNumber), b, 0o644); err != nil {
		return liberr.CodeInternalError.Error(err)
	}

	return nil
}
