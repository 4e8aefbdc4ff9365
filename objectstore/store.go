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
	"encoding/base64"
	"encoding/hex"
	"io"
	"os"
	"sort"
	"time"

	sdktps "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sabouaram/s3mockd/bucketstore"
	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/headers"
	"github.com/sabouaram/s3mockd/ioutils"
	"github.com/sabouaram/s3mockd/s3lock"
)

// Store is the filesystem-backed object store. It shares the bucket
// store's lock registry: bucket-level keys are prefixed "b:" and object
// keys "o:"/"p:", so the two never collide.
type Store struct {
	bucket *bucketstore.Store
	lock   *s3lock.Registry
	now    func() time.Time
}

func New(bucket *bucketstore.Store, lock *s3lock.Registry) *Store {
	return &Store{bucket: bucket, lock: lock, now: time.Now}
}

// PutOptions carries everything a PUT/CompleteMultipartUpload/CopyObject
// write needs beyond the raw bytes.
type PutOptions struct {
	UserMeta          map[string]string
	SystemMeta        SystemMeta
	Tags              []headers.Tag
	ACL               []ACLGrant
	Retention         *Retention
	LegalHold         bool
	SSE               *SSE
	StorageClass      sdktps.StorageClass
	ContentMD5        string                    // base64, from Content-MD5 header
	ChecksumAlgorithm sdktps.ChecksumAlgorithm  // from x-amz-sdk-checksum-algorithm
	ChecksumExpected  string                    // base64 trailer value to verify, if any
	ETagOverride      string                    // set by multipart completion, whose ETag isn't a plain MD5
}

// Put streams body to a new (or, outside Enabled versioning, the
// overwritten "null") object version and returns its metadata.
func (s *Store) Put(bucket, key string, body io.Reader, opt PutOptions) (*Version, liberr.Error) {
	unlock := s.lock.Lock(s3lock.ObjectKey(bucket, key))
	defer unlock()

	return s.putLocked(bucket, key, body, opt)
}

// putLocked is Put's body without acquiring the object lock itself, for
// callers (Copy) that already hold it as part of a multi-key lock.
func (s *Store) putLocked(bucket, key string, body io.Reader, opt PutOptions) (*Version, liberr.Error) {
	bm, err := s.bucket.GetBucket(bucket)
	if err != nil {
		return nil, err
	}

	versionID, err := s.allocateVersionID(bucket, bm.Versioning == bucketstore.VersioningEnabled)
	if err != nil {
		return nil, err
	}

	alt := checksumHasher(opt.ChecksumAlgorithm)
	sw, err := ioutils.NewStagingWriter(s.keyDir(bucket, key), alt)
	if err != nil {
		return nil, err
	}

	if _, cerr := sw.ReadFrom(body); cerr != nil {
		sw.Abort()
		return nil, liberr.CodeInternalError.Error(cerr)
	}

	md5sum := sw.MD5Sum()
	etag := hex.EncodeToString(md5sum)
	if opt.ETagOverride != "" {
		etag = opt.ETagOverride
	}

	if opt.ContentMD5 != "" {
		want, derr := base64.StdEncoding.DecodeString(opt.ContentMD5)
		if derr != nil || !bytesEqual(want, md5sum) {
			sw.Abort()
			return nil, liberr.CodeBadDigest.Error()
		}
	}

	if opt.ChecksumExpected != "" && alt != nil {
		if base64.StdEncoding.EncodeToString(sw.AltSum()) != opt.ChecksumExpected {
			sw.Abort()
			return nil, liberr.CodeBadDigest.Error()
		}
	}

	if cerr := sw.Commit(s.binaryPath(bucket, key, versionID)); cerr != nil {
		return nil, cerr
	}

	v := &Version{
		Bucket:       bucket,
		Key:          key,
		VersionID:    versionID,
		Size:         sw.Size(),
		LastModified: s.now(),
		ETag:         etag,
		UserMeta:     opt.UserMeta,
		SystemMeta:   opt.SystemMeta,
		Tags:         opt.Tags,
		ACL:          opt.ACL,
		LegalHold:    opt.LegalHold,
		Retention:    opt.Retention,
		SSE:          opt.SSE,
		StorageClass: opt.StorageClass,
	}

	if opt.ChecksumAlgorithm != "" && alt != nil {
		v.Checksum = &Checksum{Algorithm: opt.ChecksumAlgorithm, Value: base64.StdEncoding.EncodeToString(sw.AltSum())}
	}

	if werr := s.writeVersionMeta(v); werr != nil {
		return nil, werr
	}

	if werr := s.writeCurrent(bucket, key, versionID); werr != nil {
		return nil, werr
	}

	return v, nil
}

// Head returns metadata for a version without its bytes. See Get for
// version resolution rules.
func (s *Store) Head(bucket, key, versionID string) (*Version, liberr.Error) {
	unlock := s.lock.RLock(s3lock.ObjectKey(bucket, key))
	defer unlock()
	return s.resolve(bucket, key, versionID)
}

// Get opens a version's bytes and returns its metadata. When versionID
// is empty, the bucket's current version for key is used; if that
// current version is a delete marker, NoSuchKey is returned and the
// returned Version is nil, so the delete-marker flag is not reported.
func (s *Store) Get(bucket, key, versionID string) (io.ReadCloser, *Version, liberr.Error) {
	unlock := s.lock.RLock(s3lock.ObjectKey(bucket, key))
	defer unlock()

	v, err := s.resolve(bucket, key, versionID)
	if err != nil {
		return nil, nil, err
	}

	f, oerr := os.Open(s.binaryPath(bucket, key, v.VersionID))
	if oerr != nil {
		return nil, nil, liberr.CodeInternalError.Error(oerr)
	}

	return f, v, nil
}

func (s *Store) resolve(bucket, key, versionID string) (*Version, liberr.Error) {
	isCurrent := versionID == ""

	if isCurrent {
		cur, err := s.readCurrent(bucket, key)
		if err != nil {
			return nil, err
		}
		versionID = cur
	}

	v, err := s.readVersionMeta(bucket, key, versionID)
	if err != nil {
		return nil, err
	}

	if v.DeleteMarker && isCurrent {
		return nil, liberr.CodeNoSuchKey.Error()
	}

	return v, nil
}

// Delete removes or logically deletes a version. When versionID is
// given, that exact version is permanently removed (subject to
// object-lock). When versionID is empty: under Enabled versioning a new
// delete-marker version becomes current; under Suspended versioning the
// "null" version is replaced in place by a delete marker; on an
// unversioned bucket the key is removed outright and no marker is made.
func (s *Store) Delete(bucket, key, versionID string) (deletedVersionID string, markerCreated bool, rerr liberr.Error) {
	unlock := s.lock.Lock(s3lock.ObjectKey(bucket, key))
	defer unlock()

	bm, err := s.bucket.GetBucket(bucket)
	if err != nil {
		return "", false, err
	}

	if versionID != "" {
		v, rerr2 := s.readVersionMeta(bucket, key, versionID)
		if rerr2 != nil {
			if rerr2.Code() == liberr.CodeNoSuchVersion {
				return "", false, nil
			}
			return "", false, rerr2
		}

		if v.Retention != nil && v.Retention.Mode == sdktps.ObjectLockRetentionModeCompliance && s.now().Before(v.Retention.RetainUntil) {
			return "", false, liberr.CodeAccessDenied.Error()
		}
		if v.LegalHold {
			return "", false, liberr.CodeAccessDenied.Error()
		}

		if err := os.RemoveAll(s.versionDir(bucket, key, versionID)); err != nil {
			return "", false, liberr.CodeInternalError.Error(err)
		}

		cur, _ := s.readCurrent(bucket, key)
		if cur == versionID {
			remaining, lerr := s.listVersionIDs(bucket, key)
			if lerr != nil {
				return "", false, lerr
			}
			if len(remaining) == 0 {
				_ = os.Remove(s.currentPointerPath(bucket, key))
			} else {
				if werr := s.writeCurrent(bucket, key, remaining[0]); werr != nil {
					return "", false, werr
				}
			}
		}

		return versionID, false, nil
	}

	if bm.Versioning == bucketstore.VersioningEnabled {
		newID, aerr := s.allocateVersionID(bucket, true)
		if aerr != nil {
			return "", false, aerr
		}

		v := &Version{Bucket: bucket, Key: key, VersionID: newID, LastModified: s.now(), DeleteMarker: true}
		if werr := s.writeVersionMeta(v); werr != nil {
			return "", false, werr
		}
		if werr := s.writeCurrent(bucket, key, newID); werr != nil {
			return "", false, werr
		}

		return newID, true, nil
	}

	if bm.Versioning == bucketstore.VersioningUnversioned {
		// Versioning was never enabled: there is no history to mark, so
		// delete removes the key outright, same as real S3.
		if err := os.RemoveAll(s.keyDir(bucket, key)); err != nil {
			return "", false, liberr.CodeInternalError.Error(err)
		}
		return "", false, nil
	}

	// Suspended: replace the null version with a delete marker,
	// idempotently.
	v := &Version{Bucket: bucket, Key: key, VersionID: NullVersionID, LastModified: s.now(), DeleteMarker: true}
	_ = os.Remove(s.binaryPath(bucket, key, NullVersionID))
	if werr := s.writeVersionMeta(v); werr != nil {
		return "", false, werr
	}
	if werr := s.writeCurrent(bucket, key, NullVersionID); werr != nil {
		return "", false, werr
	}

	return NullVersionID, true, nil
}

// listVersionIDs returns every version-id directory still present for
// key, sorted ascending (newest first, per the inverted-counter id
// encoding).
func (s *Store) listVersionIDs(bucket, key string) ([]string, liberr.Error) {
	entries, err := os.ReadDir(s.keyDir(bucket, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, liberr.CodeInternalError.Error(err)
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if e.Name() == "uploads" {
			continue
		}
		out = append(out, e.Name())
	}

	sort.Strings(out)
	return out, nil
}

// resolveLocked resolves a version for a caller that already holds the
// object's lock (resolve itself touches no lock).
func (s *Store) resolveLocked(bucket, key, versionID string) (*Version, liberr.Error) {
	return s.resolve(bucket, key, versionID)
}

// openLocked opens a version's bytes for a caller that already holds
// the object's lock.
func (s *Store) openLocked(bucket, key, versionID string) (*os.File, liberr.Error) {
	f, err := os.Open(s.binaryPath(bucket, key, versionID))
	if err != nil {
		return nil, liberr.CodeInternalError.Error(err)
	}
	return f, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
