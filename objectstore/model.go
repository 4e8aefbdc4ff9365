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

// Package objectstore persists object versions on the filesystem under
// their owning bucket directory, one subdirectory per version holding
// the raw bytes and a JSON metadata sidecar, with a small pointer file
// recording which version is current.
package objectstore

import (
	"time"

	sdktps "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sabouaram/s3mockd/headers"
)

const (
	BinaryFile     = "binaryData"
	MetadataFile   = "objectMetadata.json"
	CurrentPointer = "currentVersion"
	NullVersionID  = "null"
)

// SystemMeta holds the small set of S3 system metadata headers stored
// alongside user metadata.
type SystemMeta struct {
	ContentType        string
	ContentEncoding    string
	ContentLanguage    string
	ContentDisposition string
	CacheControl       string
	Expires            string
}

// Retention is an object-lock retention setting.
type Retention struct {
	Mode        sdktps.ObjectLockRetentionMode
	RetainUntil time.Time
}

// Checksum is an additional client-supplied checksum recorded
// alongside the always-present MD5 ETag.
type Checksum struct {
	Algorithm sdktps.ChecksumAlgorithm
	Value     string // base64
}

// SSE records server-side-encryption bookkeeping. No cryptographic
// material is ever stored; this is metadata only.
type SSE struct {
	Algorithm sdktps.ServerSideEncryption
	KMSKeyID  string
}

// Version is one object version, the unit objectMetadata.json
// serializes (binaryData is stored separately).
type Version struct {
	Bucket       string
	Key          string
	VersionID    string
	Size         int64
	LastModified time.Time
	ETag         string
	UserMeta     map[string]string
	SystemMeta   SystemMeta
	Tags         []headers.Tag
	ACL          []ACLGrant
	LegalHold    bool
	Retention    *Retention  `json:",omitempty"`
	SSE          *SSE        `json:",omitempty"`
	Checksum     *Checksum   `json:",omitempty"`
	DeleteMarker bool
	StorageClass sdktps.StorageClass
}

// ACLGrant mirrors bucketstore.ACLGrant; objects carry their own ACL
// independent of their bucket's.
type ACLGrant struct {
	Permission sdktps.Permission
	GranteeURI string
}

// IsNull reports whether this is the "null" version, the single
// version id used outside Enabled versioning.
func (v *Version) IsNull() bool { return v.VersionID == NullVersionID }
