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

package bucketstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	sdktps "github.com/aws/aws-sdk-go-v2/service/s3/types"
	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/s3lock"
)

// DefaultOwner is the fixed owner identity reported for every bucket
// and ACL response; this emulator does not model multiple accounts.
var DefaultOwner = Owner{ID: "65a011a29cdf8ec533ec3d1ccaae921c", DisplayName: "s3mockd"}

// Store is the filesystem-backed bucket store.
type Store struct {
	root string
	lock *s3lock.Registry
	now  func() time.Time
}

func New(root string, lock *s3lock.Registry) *Store {
	return &Store{root: root, lock: lock, now: time.Now}
}

func (s *Store) dir(name string) string {
	return filepath.Join(s.root, name)
}

func (s *Store) metaPath(name string) string {
	return filepath.Join(s.dir(name), MetadataFile)
}

// CreateBucket creates a new, empty bucket directory and its metadata
// sidecar. If the directory already exists it fails with
// BucketAlreadyOwnedByYou when the existing bucket's owner is
// DefaultOwner, and with BucketAlreadyExists otherwise.
func (s *Store) CreateBucket(name, region string, ownership sdktps.ObjectOwnership, lock *ObjectLockConfig) (*Metadata, liberr.Error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	unlock := s.lock.Lock(s3lock.BucketKey(name))
	defer unlock()

	dir := s.dir(name)
	if _, err := os.Stat(dir); err == nil {
		existing, rerr := s.readMeta(name)
		if rerr == nil && existing.Owner == DefaultOwner {
			return nil, liberr.CodeBucketAlreadyOwnedByYou.Error()
		}
		return nil, liberr.CodeBucketAlreadyExists.Error()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, liberr.CodeInternalError.Error(err)
	}

	m := &Metadata{
		Name:       name,
		Region:     region,
		CreatedAt:  s.now(),
		Owner:      DefaultOwner,
		Versioning: VersioningUnversioned,
		Ownership:  ownership,
		ObjectLock: lock,
	}

	if err := s.writeMeta(m); err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}

	return m, nil
}

// DeleteBucket removes a bucket directory. Fails with NoSuchBucket if
// it does not exist, or BucketNotEmpty if it contains any object
// subdirectory or in-progress multipart upload.
func (s *Store) DeleteBucket(name string) liberr.Error {
	unlock := s.lock.Lock(s3lock.BucketKey(name))
	defer unlock()

	dir := s.dir(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return liberr.CodeNoSuchBucket.Error()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return liberr.CodeInternalError.Error(err)
	}

	for _, e := range entries {
		if e.Name() == MetadataFile {
			continue
		}
		// Any other entry is a key directory (possibly holding only an
		// in-progress multipart upload) and blocks deletion.
		return liberr.CodeBucketNotEmpty.Error()
	}

	if err := os.RemoveAll(dir); err != nil {
		return liberr.CodeInternalError.Error(err)
	}

	return nil
}

// ListBuckets returns every bucket directory under root, sorted by
// name. The filesystem listing IS the source of truth; there is no
// separate index.
func (s *Store) ListBuckets() ([]*Metadata, liberr.Error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, liberr.CodeInternalError.Error(err)
	}

	out := make([]*Metadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m, rerr := s.readMeta(e.Name())
		if rerr != nil {
			continue
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetBucket returns the metadata for a single bucket.
func (s *Store) GetBucket(name string) (*Metadata, liberr.Error) {
	if _, err := os.Stat(s.dir(name)); os.IsNotExist(err) {
		return nil, liberr.CodeNoSuchBucket.Error()
	}
	return s.readMeta(name)
}

// Mutate applies fn to the bucket's metadata under a write lock and
// persists the result. Used by every bucket-level config setter
// (versioning, lifecycle, policy, CORS, ACL, encryption, object-lock,
// ownership).
func (s *Store) Mutate(name string, fn func(m *Metadata) liberr.Error) liberr.Error {
	unlock := s.lock.Lock(s3lock.BucketKey(name))
	defer unlock()

	m, err := s.GetBucket(name)
	if err != nil {
		return err
	}

	if err := fn(m); err != nil {
		return err
	}

	return s.writeMeta(m)
}

func (s *Store) readMeta(name string) (*Metadata, liberr.Error) {
	b, err := os.ReadFile(s.metaPath(name))
	if err != nil {
		return nil, liberr.CodeNoSuchBucket.Error(err)
	}

	m := &Metadata{}
	if err := json.Unmarshal(b, m); err != nil {
		return nil, liberr.CodeInternalError.Error(err)
	}

	return m, nil
}

func (s *Store) writeMeta(m *Metadata) liberr.Error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return liberr.CodeInternalError.Error(err)
	}

	if err := os.WriteFile(s.metaPath(m.Name), b, 0o644); err != nil {
		return liberr.CodeInternalError.Error(err)
	}

	return nil
}

// NextVersionID allocates the next version id for a key in this
// bucket under Enabled versioning, persisting the monotonic counter on
// the bucket's metadata.
func (s *Store) NextVersionID(name string) (uint64, liberr.Error) {
	var id uint64
	err := s.Mutate(name, func(m *Metadata) liberr.Error {
		m.NextVersion++
		id = m.NextVersion
		return nil
	})
	return id, err
}

// Root exposes the store's root directory, e.g. so objectstore can
// build paths under the same bucket directory.
func (s *Store) Root() string { return s.root }

// Dir exposes a bucket's directory path.
func (s *Store) Dir(name string) string { return s.dir(name) }
