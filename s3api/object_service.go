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
	"io"
	"strings"
	"time"

	sdktps "github.com/aws/aws-sdk-go-v2/service/s3/types"
	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/headers"
	"github.com/sabouaram/s3mockd/kmsregistry"
	"github.com/sabouaram/s3mockd/logger"
	"github.com/sabouaram/s3mockd/objectstore"
)

// ObjectService validates and orchestrates object-level requests over
// objectstore, enforcing preconditions, range semantics, and the
// KMS allow-list before delegating to the store.
type ObjectService struct {
	store *objectstore.Store
	kms   *kmsregistry.Registry
	log   logger.Logger
}

func NewObjectService(store *objectstore.Store, kms *kmsregistry.Registry, log logger.Logger) *ObjectService {
	return &ObjectService{store: store, kms: kms, log: log}
}

// RequestHeaders carries the subset of incoming headers PutObject and
// CopyObject-with-REPLACE need, already split from the raw HTTP
// headers by the dispatcher.
type RequestHeaders struct {
	UserMeta          map[string]string
	ContentType       string
	ContentEncoding   string
	ContentLanguage   string
	ContentDisposition string
	CacheControl      string
	Expires           string
	CannedACL         string
	Tagging           string // x-amz-tagging, URL-encoded
	SSEAlgorithm      string // x-amz-server-side-encryption
	SSEKMSKeyID       string // x-amz-server-side-encryption-aws-kms-key-id
	ChecksumAlgorithm string // x-amz-sdk-checksum-algorithm
	ChecksumValue     string // trailer value to verify, if sent as a header
	ContentMD5        string
	StorageClass      string
	LegalHold         bool
	RetentionMode     string
	RetainUntil       time.Time
}

func (rh RequestHeaders) systemMeta() objectstore.SystemMeta {
	return objectstore.SystemMeta{
		ContentType:        rh.ContentType,
		ContentEncoding:    rh.ContentEncoding,
		ContentLanguage:    rh.ContentLanguage,
		ContentDisposition: rh.ContentDisposition,
		CacheControl:       rh.CacheControl,
		Expires:            rh.Expires,
	}
}

func (s *ObjectService) buildPutOptions(rh RequestHeaders) (objectstore.PutOptions, liberr.Error) {
	return BuildPutOptions(rh, s.kms)
}

// BuildPutOptions turns request headers into objectstore.PutOptions,
// validating any SSE-KMS key id against the registry. Shared by
// ObjectService (Put/Copy) and MultipartService (Create), which both
// need to translate the same header set.
func BuildPutOptions(rh RequestHeaders, kms *kmsregistry.Registry) (objectstore.PutOptions, liberr.Error) {
	tags, err := headers.ParseTaggingHeader(rh.Tagging)
	if err != nil {
		return objectstore.PutOptions{}, err
	}

	grants, err := headers.CannedACLGrants(rh.CannedACL)
	if err != nil {
		return objectstore.PutOptions{}, err
	}
	acl := make([]objectstore.ACLGrant, 0, len(grants))
	for _, g := range grants {
		acl = append(acl, objectstore.ACLGrant{Permission: g.Permission, GranteeURI: g.GranteeURI})
	}

	var sse *objectstore.SSE
	if rh.SSEAlgorithm != "" {
		algo := sdktps.ServerSideEncryption(rh.SSEAlgorithm)
		if algo == sdktps.ServerSideEncryptionAwsKms || algo == sdktps.ServerSideEncryptionAwsKmsDsse {
			if kerr := kms.Validate(rh.SSEKMSKeyID); kerr != nil {
				return objectstore.PutOptions{}, kerr
			}
		}
		sse = &objectstore.SSE{Algorithm: algo, KMSKeyID: rh.SSEKMSKeyID}
	}

	var retention *objectstore.Retention
	if rh.RetentionMode != "" {
		retention = &objectstore.Retention{Mode: sdktps.ObjectLockRetentionMode(rh.RetentionMode), RetainUntil: rh.RetainUntil}
	}

	storageClass := sdktps.StorageClassStandard
	if rh.StorageClass != "" {
		storageClass = sdktps.StorageClass(rh.StorageClass)
	}

	return objectstore.PutOptions{
		UserMeta:          rh.UserMeta,
		SystemMeta:        rh.systemMeta(),
		Tags:              tags,
		ACL:               acl,
		Retention:         retention,
		LegalHold:         rh.LegalHold,
		SSE:               sse,
		StorageClass:      storageClass,
		ContentMD5:        rh.ContentMD5,
		ChecksumAlgorithm: sdktps.ChecksumAlgorithm(rh.ChecksumAlgorithm),
		ChecksumExpected:  rh.ChecksumValue,
	}, nil
}

// Put streams body into a new object version.
func (s *ObjectService) Put(bucket, key string, body io.Reader, rh RequestHeaders) (*objectstore.Version, liberr.Error) {
	opt, err := s.buildPutOptions(rh)
	if err != nil {
		return nil, err
	}
	return s.store.Put(bucket, key, body, opt)
}

// GetResult is everything a GET response needs beyond the byte stream.
type GetResult struct {
	Version *objectstore.Version
	Range   *headers.ByteRange // nil when the whole object is returned
	Body    io.ReadCloser
}

// Get resolves preconditions and an optional Range header, then opens
// the version's bytes.
func (s *ObjectService) Get(bucket, key, versionID, rangeHeader string, pre objectstore.Preconditions) (*GetResult, liberr.Error) {
	v, err := s.store.Head(bucket, key, versionID)
	if err != nil {
		return nil, err
	}

	if !pre.IsZero() {
		if perr := pre.Evaluate(v); perr != nil {
			return nil, perr
		}
	}

	rng, rerr := headers.ParseRange(rangeHeader, v.Size)
	if rerr != nil {
		return nil, rerr
	}

	body, v, err := s.store.Get(bucket, key, versionID)
	if err != nil {
		return nil, err
	}

	if rng != nil {
		if _, serr := io.CopyN(io.Discard, body, rng.Start); serr != nil {
			_ = body.Close()
			return nil, liberr.CodeInternalError.Error(serr)
		}
		return &GetResult{Version: v, Range: rng, Body: rangeCloser{io.LimitReader(body, rng.Len()), body}}, nil
	}

	return &GetResult{Version: v, Body: body}, nil
}

// rangeCloser adapts an io.LimitReader over an already-open
// io.ReadCloser so callers can still Close the underlying file.
type rangeCloser struct {
	io.Reader
	c io.Closer
}

func (r rangeCloser) Close() error { return r.c.Close() }

// Head resolves preconditions against a version's metadata without
// opening its bytes.
func (s *ObjectService) Head(bucket, key, versionID string, pre objectstore.Preconditions) (*objectstore.Version, liberr.Error) {
	v, err := s.store.Head(bucket, key, versionID)
	if err != nil {
		return nil, err
	}
	if !pre.IsZero() {
		if perr := pre.Evaluate(v); perr != nil {
			return nil, perr
		}
	}
	return v, nil
}

// Delete deletes or inserts a delete marker for key.
func (s *ObjectService) Delete(bucket, key, versionID string) (deletedVersionID string, markerCreated bool, err liberr.Error) {
	return s.store.Delete(bucket, key, versionID)
}

// DeletedEntry is one result row of a multi-object delete.
type DeletedEntry struct {
	Key                   string
	VersionID             string
	DeleteMarker          bool
	DeleteMarkerVersionID string
	Err                   liberr.Error
}

// DeleteMultiple deletes each requested (key, versionId) independently
// so one object-lock failure doesn't abort the rest of the batch.
func (s *ObjectService) DeleteMultiple(bucket string, objs []struct{ Key, VersionID string }) []DeletedEntry {
	out := make([]DeletedEntry, 0, len(objs))
	for _, o := range objs {
		id, marker, err := s.store.Delete(bucket, o.Key, o.VersionID)
		if err != nil {
			out = append(out, DeletedEntry{Key: o.Key, VersionID: o.VersionID, Err: err})
			continue
		}
		entry := DeletedEntry{Key: o.Key, VersionID: o.VersionID}
		if marker {
			entry.DeleteMarker = true
			entry.DeleteMarkerVersionID = id
		} else {
			entry.VersionID = id
		}
		out = append(out, entry)
	}
	return out
}

// CopyRequest carries everything CopyObject/UploadPartCopy need beyond
// source/destination identity.
type CopyRequest struct {
	SourceVersionID   string
	MetadataDirective objectstore.MetadataDirective
	TaggingDirective  objectstore.TaggingDirective
	Preconditions     objectstore.Preconditions
	Replace           RequestHeaders
}

// Copy copies srcKey onto dstKey, rejecting a same-key self-copy that
// isn't accompanied by a REPLACE directive (nothing would change).
func (s *ObjectService) Copy(srcBucket, srcKey, dstBucket, dstKey string, req CopyRequest) (*objectstore.Version, liberr.Error) {
	if srcBucket == dstBucket && srcKey == dstKey &&
		req.MetadataDirective != objectstore.MetadataDirectiveReplace &&
		req.TaggingDirective != objectstore.TaggingDirectiveReplace {
		return nil, liberr.CodeInvalidRequest.Errorf("copying an object onto itself requires a REPLACE directive")
	}

	replace, err := s.buildPutOptions(req.Replace)
	if err != nil {
		return nil, err
	}

	return s.store.Copy(srcBucket, srcKey, dstBucket, dstKey, objectstore.CopyOptions{
		SourceVersionID:   req.SourceVersionID,
		MetadataDirective: req.MetadataDirective,
		TaggingDirective:  req.TaggingDirective,
		Preconditions:     req.Preconditions,
		Replace:           replace,
	})
}

func (s *ObjectService) ListObjectsV1(bucket, prefix, delimiter, marker string, maxKeys int) (*objectstore.ListResult, liberr.Error) {
	return s.store.ListObjectsV1(bucket, prefix, delimiter, marker, clampMaxKeys(maxKeys))
}

func (s *ObjectService) ListObjectsV2(bucket, prefix, delimiter, token, startAfter string, maxKeys int) (*objectstore.ListResult, liberr.Error) {
	return s.store.ListObjectsV2(bucket, prefix, delimiter, token, startAfter, clampMaxKeys(maxKeys))
}

func (s *ObjectService) ListObjectVersions(bucket, prefix, delimiter, keyMarker, versionIDMarker string, maxKeys int) (*objectstore.VersionsListResult, liberr.Error) {
	return s.store.ListObjectVersions(bucket, prefix, delimiter, keyMarker, versionIDMarker, clampMaxKeys(maxKeys))
}

func clampMaxKeys(n int) int {
	if n <= 0 || n > 1000 {
		return 1000
	}
	return n
}

func (s *ObjectService) GetTagging(bucket, key, versionID string) ([]headers.Tag, liberr.Error) {
	return s.store.GetTagging(bucket, key, versionID)
}

func (s *ObjectService) PutTagging(bucket, key, versionID string, tags []headers.Tag) liberr.Error {
	return s.store.PutTagging(bucket, key, versionID, tags)
}

func (s *ObjectService) DeleteTagging(bucket, key, versionID string) liberr.Error {
	return s.store.DeleteTagging(bucket, key, versionID)
}

func (s *ObjectService) GetACL(bucket, key, versionID string) ([]objectstore.ACLGrant, liberr.Error) {
	return s.store.GetACL(bucket, key, versionID)
}

func (s *ObjectService) PutACL(bucket, key, versionID string, grants []objectstore.ACLGrant) liberr.Error {
	return s.store.PutACL(bucket, key, versionID, grants)
}

func (s *ObjectService) GetRetention(bucket, key, versionID string) (*objectstore.Retention, liberr.Error) {
	return s.store.GetRetention(bucket, key, versionID)
}

func (s *ObjectService) PutRetention(bucket, key, versionID string, mode sdktps.ObjectLockRetentionMode, until time.Time) liberr.Error {
	return s.store.PutRetention(bucket, key, versionID, mode, until)
}

func (s *ObjectService) GetLegalHold(bucket, key, versionID string) (bool, liberr.Error) {
	return s.store.GetLegalHold(bucket, key, versionID)
}

func (s *ObjectService) PutLegalHold(bucket, key, versionID string, on bool) liberr.Error {
	return s.store.PutLegalHold(bucket, key, versionID, on)
}

// ParseUserMetadata extracts x-amz-meta-* headers into the case-folded
// map objectstore expects, enforcing the combined 2 KiB S3 limit.
func ParseUserMetadata(raw map[string][]string) (map[string]string, liberr.Error) {
	const maxTotal = 2 * 1024
	const prefix = "x-amz-meta-"

	out := map[string]string{}
	total := 0

	for k, vs := range raw {
		lower := strings.ToLower(k)
		if !strings.HasPrefix(lower, prefix) || len(vs) == 0 {
			continue
		}
		name := strings.TrimPrefix(lower, prefix)
		val := vs[0]
		out[name] = val
		total += len(name) + len(val)
	}

	if total > maxTotal {
		return nil, liberr.CodeInvalidRequest.Errorf("user metadata exceeds the 2 KiB limit")
	}

	return out, nil
}
