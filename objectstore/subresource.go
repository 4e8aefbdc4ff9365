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
	"time"

	sdktps "github.com/aws/aws-sdk-go-v2/service/s3/types"
	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/headers"
	"github.com/sabouaram/s3mockd/s3lock"
)

// mutate is the object-store analogue of bucketstore.Store.Mutate: a
// locked read-modify-write over one version's metadata sidecar, used to
// back every object subresource getter/setter below.
func (s *Store) mutate(bucket, key, versionID string, fn func(v *Version) liberr.Error) liberr.Error {
	unlock := s.lock.Lock(s3lock.ObjectKey(bucket, key))
	defer unlock()

	v, err := s.resolve(bucket, key, versionID)
	if err != nil {
		return err
	}

	if err := fn(v); err != nil {
		return err
	}

	return s.writeVersionMeta(v)
}

// GetTagging returns the tag set of a version.
func (s *Store) GetTagging(bucket, key, versionID string) ([]headers.Tag, liberr.Error) {
	unlock := s.lock.RLock(s3lock.ObjectKey(bucket, key))
	defer unlock()

	v, err := s.resolve(bucket, key, versionID)
	if err != nil {
		return nil, err
	}

	return v.Tags, nil
}

// PutTagging replaces a version's tag set wholesale.
func (s *Store) PutTagging(bucket, key, versionID string, tags []headers.Tag) liberr.Error {
	if err := headers.ValidateTagSet(tags); err != nil {
		return err
	}

	return s.mutate(bucket, key, versionID, func(v *Version) liberr.Error {
		v.Tags = tags
		return nil
	})
}

// DeleteTagging clears a version's tag set.
func (s *Store) DeleteTagging(bucket, key, versionID string) liberr.Error {
	return s.mutate(bucket, key, versionID, func(v *Version) liberr.Error {
		v.Tags = nil
		return nil
	})
}

// GetACL returns a version's access-control grants.
func (s *Store) GetACL(bucket, key, versionID string) ([]ACLGrant, liberr.Error) {
	unlock := s.lock.RLock(s3lock.ObjectKey(bucket, key))
	defer unlock()

	v, err := s.resolve(bucket, key, versionID)
	if err != nil {
		return nil, err
	}

	return v.ACL, nil
}

// PutACL replaces a version's access-control grants wholesale.
func (s *Store) PutACL(bucket, key, versionID string, grants []ACLGrant) liberr.Error {
	return s.mutate(bucket, key, versionID, func(v *Version) liberr.Error {
		v.ACL = grants
		return nil
	})
}

// GetRetention returns a version's object-lock retention setting, if
// any.
func (s *Store) GetRetention(bucket, key, versionID string) (*Retention, liberr.Error) {
	unlock := s.lock.RLock(s3lock.ObjectKey(bucket, key))
	defer unlock()

	v, err := s.resolve(bucket, key, versionID)
	if err != nil {
		return nil, err
	}

	return v.Retention, nil
}

// PutRetention sets a version's object-lock retention. Loosening an
// existing Compliance-mode hold that has not yet expired is rejected;
// everything else (first set, extension, Governance mode) is allowed.
func (s *Store) PutRetention(bucket, key, versionID string, mode sdktps.ObjectLockRetentionMode, until time.Time) liberr.Error {
	return s.mutate(bucket, key, versionID, func(v *Version) liberr.Error {
		if v.Retention != nil && v.Retention.Mode == sdktps.ObjectLockRetentionModeCompliance &&
			s.now().Before(v.Retention.RetainUntil) && until.Before(v.Retention.RetainUntil) {
			return liberr.CodeAccessDenied.Error()
		}

		v.Retention = &Retention{Mode: mode, RetainUntil: until}
		return nil
	})
}

// GetLegalHold returns whether a version currently carries a legal
// hold.
func (s *Store) GetLegalHold(bucket, key, versionID string) (bool, liberr.Error) {
	unlock := s.lock.RLock(s3lock.ObjectKey(bucket, key))
	defer unlock()

	v, err := s.resolve(bucket, key, versionID)
	if err != nil {
		return false, err
	}

	return v.LegalHold, nil
}

// PutLegalHold sets or clears a version's legal hold.
func (s *Store) PutLegalHold(bucket, key, versionID string, on bool) liberr.Error {
	return s.mutate(bucket, key, versionID, func(v *Version) liberr.Error {
		v.LegalHold = on
		return nil
	})
}
