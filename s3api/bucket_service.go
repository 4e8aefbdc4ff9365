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

package s3api

import (
	sdktps "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sabouaram/s3mockd/bucketstore"
	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/headers"
	"github.com/sabouaram/s3mockd/logger"
)

// BucketService validates and orchestrates bucket-level requests over
// bucketstore, turning header/query input into store calls and store
// output into response DTOs the dispatcher hands to the XML codec.
type BucketService struct {
	store  *bucketstore.Store
	region string
	log    logger.Logger
}

func NewBucketService(store *bucketstore.Store, region string, log logger.Logger) *BucketService {
	return &BucketService{store: store, region: region, log: log}
}

// CreateBucket validates ownership/object-lock headers and creates the
// bucket. canned is the x-amz-acl header value, if any.
func (b *BucketService) CreateBucket(name, canned, ownershipHeader string, lockEnabled bool) (*bucketstore.Metadata, liberr.Error) {
	ownership, err := headers.ParseOwnership(ownershipHeader)
	if err != nil {
		return nil, err
	}

	var lock *bucketstore.ObjectLockConfig
	if lockEnabled {
		lock = &bucketstore.ObjectLockConfig{Enabled: true}
	}

	m, err := b.store.CreateBucket(name, b.region, ownership, lock)
	if err != nil {
		return nil, err
	}

	if grants, gerr := headers.CannedACLGrants(canned); gerr != nil {
		return nil, gerr
	} else if len(grants) > 0 {
		_ = b.store.Mutate(name, func(meta *bucketstore.Metadata) liberr.Error {
			for _, g := range grants {
				meta.ACL = append(meta.ACL, bucketstore.ACLGrant{Permission: g.Permission, GranteeURI: g.GranteeURI})
			}
			return nil
		})
	}

	return m, nil
}

func (b *BucketService) DeleteBucket(name string) liberr.Error {
	return b.store.DeleteBucket(name)
}

func (b *BucketService) ListBuckets() ([]*bucketstore.Metadata, liberr.Error) {
	return b.store.ListBuckets()
}

func (b *BucketService) GetBucket(name string) (*bucketstore.Metadata, liberr.Error) {
	return b.store.GetBucket(name)
}

func (b *BucketService) Location(name string) (string, liberr.Error) {
	m, err := b.store.GetBucket(name)
	if err != nil {
		return "", err
	}
	return m.Region, nil
}

func (b *BucketService) GetVersioning(name string) (bucketstore.Versioning, liberr.Error) {
	m, err := b.store.GetBucket(name)
	if err != nil {
		return "", err
	}
	return m.Versioning, nil
}

func (b *BucketService) PutVersioning(name string, status bucketstore.Versioning) liberr.Error {
	return b.store.Mutate(name, func(m *bucketstore.Metadata) liberr.Error {
		m.Versioning = status
		return nil
	})
}

func (b *BucketService) GetACL(name string) ([]bucketstore.ACLGrant, bucketstore.Owner, liberr.Error) {
	m, err := b.store.GetBucket(name)
	if err != nil {
		return nil, bucketstore.Owner{}, err
	}
	return m.ACL, m.Owner, nil
}

func (b *BucketService) PutACL(name string, grants []bucketstore.ACLGrant) liberr.Error {
	return b.store.Mutate(name, func(m *bucketstore.Metadata) liberr.Error {
		m.ACL = grants
		return nil
	})
}

func (b *BucketService) GetTagging(name string) ([]bucketstore.Tag, liberr.Error) {
	m, err := b.store.GetBucket(name)
	if err != nil {
		return nil, err
	}
	return m.Tags, nil
}

func (b *BucketService) PutTagging(name string, tags []bucketstore.Tag) liberr.Error {
	hdrTags := make([]headers.Tag, 0, len(tags))
	for _, t := range tags {
		hdrTags = append(hdrTags, headers.Tag{Key: t.Key, Value: t.Value})
	}
	if verr := headers.ValidateTagSet(hdrTags); verr != nil {
		return verr
	}

	return b.store.Mutate(name, func(m *bucketstore.Metadata) liberr.Error {
		m.Tags = tags
		return nil
	})
}

func (b *BucketService) DeleteTagging(name string) liberr.Error {
	return b.store.Mutate(name, func(m *bucketstore.Metadata) liberr.Error {
		m.Tags = nil
		return nil
	})
}

func (b *BucketService) GetOwnership(name string) (sdktps.ObjectOwnership, liberr.Error) {
	m, err := b.store.GetBucket(name)
	if err != nil {
		return "", err
	}
	return m.Ownership, nil
}

func (b *BucketService) PutOwnership(name, header string) liberr.Error {
	ownership, err := headers.ParseOwnership(header)
	if err != nil {
		return err
	}
	return b.store.Mutate(name, func(m *bucketstore.Metadata) liberr.Error {
		m.Ownership = ownership
		return nil
	})
}

func (b *BucketService) GetObjectLock(name string) (*bucketstore.ObjectLockConfig, liberr.Error) {
	m, err := b.store.GetBucket(name)
	if err != nil {
		return nil, err
	}
	return m.ObjectLock, nil
}

func (b *BucketService) PutObjectLock(name string, cfg *bucketstore.ObjectLockConfig) liberr.Error {
	return b.store.Mutate(name, func(m *bucketstore.Metadata) liberr.Error {
		m.ObjectLock = cfg
		return nil
	})
}

// rawSubresource getters/setters back policy/CORS/lifecycle/encryption,
// which this emulator persists in the bucket's JSON sidecar without
// interpreting them (spec.md §3 describes all four as "opaque"): CORS,
// lifecycle and encryption bodies are stored as opaque bytes, while the
// policy is embedded as raw JSON, so a policy body that is not valid
// JSON cannot be saved.
func (b *BucketService) GetPolicy(name string) ([]byte, liberr.Error) {
	m, err := b.store.GetBucket(name)
	if err != nil {
		return nil, err
	}
	if len(m.Policy) == 0 {
		return nil, liberr.CodeNoSuchBucket.Errorf("the bucket policy does not exist")
	}
	return m.Policy, nil
}

func (b *BucketService) PutPolicy(name string, body []byte) liberr.Error {
	return b.store.Mutate(name, func(m *bucketstore.Metadata) liberr.Error {
		m.Policy = append([]byte(nil), body...)
		return nil
	})
}

func (b *BucketService) DeletePolicy(name string) liberr.Error {
	return b.store.Mutate(name, func(m *bucketstore.Metadata) liberr.Error {
		m.Policy = nil
		return nil
	})
}

func (b *BucketService) GetCORS(name string) ([]byte, liberr.Error) {
	m, err := b.store.GetBucket(name)
	if err != nil {
		return nil, err
	}
	return m.CORS, nil
}

func (b *BucketService) PutCORS(name string, body []byte) liberr.Error {
	return b.store.Mutate(name, func(m *bucketstore.Metadata) liberr.Error {
		m.CORS = append([]byte(nil), body...)
		return nil
	})
}

func (b *BucketService) DeleteCORS(name string) liberr.Error {
	return b.store.Mutate(name, func(m *bucketstore.Metadata) liberr.Error {
		m.CORS = nil
		return nil
	})
}

func (b *BucketService) GetLifecycle(name string) ([]byte, liberr.Error) {
	m, err := b.store.GetBucket(name)
	if err != nil {
		return nil, err
	}
	return m.Lifecycle, nil
}

func (b *BucketService) PutLifecycle(name string, body []byte) liberr.Error {
	return b.store.Mutate(name, func(m *bucketstore.Metadata) liberr.Error {
		m.Lifecycle = append([]byte(nil), body...)
		return nil
	})
}

func (b *BucketService) DeleteLifecycle(name string) liberr.Error {
	return b.store.Mutate(name, func(m *bucketstore.Metadata) liberr.Error {
		m.Lifecycle = nil
		return nil
	})
}

func (b *BucketService) GetEncryption(name string) ([]byte, liberr.Error) {
	m, err := b.store.GetBucket(name)
	if err != nil {
		return nil, err
	}
	return m.Encryption, nil
}

func (b *BucketService) PutEncryption(name string, body []byte) liberr.Error {
	return b.store.Mutate(name, func(m *bucketstore.Metadata) liberr.Error {
		m.Encryption = append([]byte(nil), body...)
		return nil
	})
}

func (b *BucketService) DeleteEncryption(name string) liberr.Error {
	return b.store.Mutate(name, func(m *bucketstore.Metadata) liberr.Error {
		m.Encryption = nil
		return nil
	})
}
