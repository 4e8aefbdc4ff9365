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
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	uuid "github.com/hashicorp/go-uuid"
	"github.com/sabouaram/s3mockd/bucketstore"
	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/objectstore"
	"github.com/sabouaram/s3mockd/s3lock"
)

// Store persists in-progress multipart uploads under the same bucket
// directory objectstore uses for completed versions, beside an
// "uploads" subdirectory instead of a version-id one.
type Store struct {
	bucket  *bucketstore.Store
	objects *objectstore.Store
	lock    *s3lock.Registry
	now     func() time.Time
}

func New(bucket *bucketstore.Store, objects *objectstore.Store, lock *s3lock.Registry) *Store {
	return &Store{bucket: bucket, objects: objects, lock: lock, now: time.Now}
}

func (s *Store) uploadDir(bucket, key, uploadID string) string {
	return filepath.Join(s.bucket.Dir(bucket), encodeKey(key), UploadsDir, uploadID)
}

func (s *Store) uploadMetaPath(bucket, key, uploadID string) string {
	return filepath.Join(s.uploadDir(bucket, key, uploadID), UploadFile)
}

func (s *Store) partsDir(bucket, key, uploadID string) string {
	return filepath.Join(s.uploadDir(bucket, key, uploadID), PartsDir)
}

func (s *Store) partPath(bucket, key, uploadID string, partNumber int) string {
	return filepath.Join(s.partsDir(bucket, key, uploadID), itoa(partNumber))
}

func (s *Store) partMetaPath(bucket, key, uploadID string, partNumber int) string {
	return filepath.Join(s.partsDir(bucket, key, uploadID), itoa(partNumber)+".json")
}

// Create starts a new upload and returns its metadata, including the
// freshly minted upload id.
func (s *Store) Create(bucket, key string, opt objectstore.PutOptions) (*UploadMeta, liberr.Error) {
	if _, err := s.bucket.GetBucket(bucket); err != nil {
		return nil, err
	}

	id, uerr := uuid.GenerateUUID()
	if uerr != nil {
		return nil, liberr.CodeInternalError.Error(uerr)
	}

	m := &UploadMeta{
		Bucket:       bucket,
		Key:          key,
		UploadID:     id,
		Initiated:    s.now(),
		UserMeta:     opt.UserMeta,
		SystemMeta:   opt.SystemMeta,
		Tags:         opt.Tags,
		ACL:          opt.ACL,
		SSE:          opt.SSE,
		StorageClass: opt.StorageClass,
	}

	if err := os.MkdirAll(s.partsDir(bucket, key, id), 0o755); err != nil {
		return nil, liberr.CodeInternalError.Error(err)
	}

	if err := s.writeUploadMeta(m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Store) readUploadMeta(bucket, key, uploadID string) (*UploadMeta, liberr.Error) {
	b, err := os.ReadFile(s.uploadMetaPath(bucket, key, uploadID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, liberr.CodeNoSuchUpload.Error()
		}
		return nil, liberr.CodeInternalError.Error(err)
	}

	m := &UploadMeta{}
	if err := json.Unmarshal(b, m); err != nil {
		return nil, liberr.CodeInternalError.Error(err)
	}

	return m, nil
}

func (s *Store) writeUploadMeta(m *UploadMeta) liberr.Error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return liberr.CodeInternalError.Error(err)
	}

	if err := os.WriteFile(s.uploadMetaPath(m.Bucket, m.Key, m.UploadID), b, 0o644); err != nil {
		return liberr.CodeInternalError.Error(err)
	}

	return nil
}

// Abort discards an in-progress upload and all of its staged parts.
func (s *Store) Abort(bucket, key, uploadID string) liberr.Error {
	unlock := s.lock.Lock(s3lock.UploadKey(bucket, key, uploadID))
	defer unlock()

	if _, err := s.readUploadMeta(bucket, key, uploadID); err != nil {
		return err
	}

	if err := os.RemoveAll(s.uploadDir(bucket, key, uploadID)); err != nil {
		return liberr.CodeInternalError.Error(err)
	}

	return nil
}
