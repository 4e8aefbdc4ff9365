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

// Package bucketstore persists buckets as directories under a root, with
// all bucket-level configuration held in a JSON sidecar file. The set
// of bucket directories under root IS the bucket listing; there is no
// separate index to keep in sync.
package bucketstore

import (
	"encoding/json"
	"time"

	sdktps "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const MetadataFile = "bucketMetadata.json"

// Versioning is the per-bucket versioning state.
type Versioning string

const (
	VersioningUnversioned Versioning = ""
	VersioningEnabled     Versioning = "Enabled"
	VersioningSuspended   Versioning = "Suspended"
)

// Owner is the single fixed owner identity this emulator reports on
// every bucket and ACL response.
type Owner struct {
	ID          string
	DisplayName string
}

// ACLGrant is one grant in a bucket or object access control policy.
type ACLGrant struct {
	Permission sdktps.Permission
	GranteeURI string
}

// ObjectLockConfig mirrors PutObjectLockConfiguration's body.
type ObjectLockConfig struct {
	Enabled bool
	Mode    sdktps.ObjectLockRetentionMode
	Days    int
	Years   int
}

// Metadata is the full set of bucket-level configuration persisted in
// bucketMetadata.json.
type Metadata struct {
	Name        string
	Region      string
	CreatedAt   time.Time
	Owner       Owner
	Versioning  Versioning
	Ownership   sdktps.ObjectOwnership
	ACL         []ACLGrant
	Tags        []Tag                    `json:",omitempty"`
	ObjectLock  *ObjectLockConfig        `json:",omitempty"`
	Lifecycle   []byte                  `json:",omitempty"`
	Policy      json.RawMessage         `json:",omitempty"`
	CORS        []byte                  `json:",omitempty"`
	Encryption  []byte                  `json:",omitempty"`
	NextVersion uint64 // monotonic counter backing version-id allocation
}

// Tag is a bucket-level tag, the bucket analogue of headers.Tag.
type Tag struct {
	Key   string
	Value string
}
