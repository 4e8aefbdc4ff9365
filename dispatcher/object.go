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

package dispatcher

import (
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	ginsdk "github.com/gin-gonic/gin"
	"github.com/sabouaram/s3mockd/bucketstore"
	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/headers"
	"github.com/sabouaram/s3mockd/objectstore"
	"github.com/sabouaram/s3mockd/s3api"
	"github.com/sabouaram/s3mockd/s3xml"
)

func quoteETag(etag string) string {
	if etag == "" {
		return etag
	}
	return `"` + etag + `"`
}

// objectPut disambiguates every PUT against an object path: plain
// PutObject, CopyObject (signaled by x-amz-copy-source), UploadPart, and
// the four object subresource PUTs.
func (h *handlers) objectPut(c *ginsdk.Context) {
	bucket := c.Param("bucket")
	key := objectKey(c)
	if key == "" {
		h.bucketPut(c)
		return
	}
	q := c.Request.URL.Query()
	resource := "/" + bucket + "/" + key

	switch {
	case has(q, "uploadId") && c.GetHeader("X-Amz-Copy-Source") != "":
		h.uploadPartCopy(c, bucket, key, q.Get("uploadId"), queryInt(c, "partNumber", 0))
	case has(q, "uploadId"):
		h.uploadPart(c, bucket, key, q.Get("uploadId"), queryInt(c, "partNumber", 0))
	case has(q, "tagging"):
		h.putObjectTagging(c, bucket, key, q.Get("versionId"))
	case has(q, "acl"):
		h.putObjectACL(c, bucket, key, q.Get("versionId"))
	case has(q, "retention"):
		h.putObjectRetention(c, bucket, key, q.Get("versionId"))
	case has(q, "legal-hold"):
		h.putObjectLegalHold(c, bucket, key, q.Get("versionId"))
	case c.GetHeader("X-Amz-Copy-Source") != "":
		h.copyObject(c, bucket, key)
	default:
		h.putObject(c, bucket, key, resource)
	}
}

func (h *handlers) putObject(c *ginsdk.Context, bucket, key, resource string) {
	rh, err := parseRequestHeaders(c)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	v, perr := h.object.Put(bucket, key, c.Request.Body, rh)
	if perr != nil {
		h.writeError(c, perr, resource)
		return
	}

	setPutResponseHeaders(c, v)
	c.Status(http.StatusOK)
}

func setPutResponseHeaders(c *ginsdk.Context, v *objectstore.Version) {
	c.Header("ETag", quoteETag(v.ETag))
	if v.VersionID != objectstore.NullVersionID {
		c.Header("x-amz-version-id", v.VersionID)
	}
	if v.SSE != nil {
		c.Header("x-amz-server-side-encryption", string(v.SSE.Algorithm))
		if v.SSE.KMSKeyID != "" {
			c.Header("x-amz-server-side-encryption-aws-kms-key-id", v.SSE.KMSKeyID)
		}
	}
	if v.Checksum != nil {
		c.Header("x-amz-checksum-"+strings.ToLower(string(v.Checksum.Algorithm)), v.Checksum.Value)
	}
}

// parseCopySource splits the x-amz-copy-source header ("/bucket/key",
// optionally followed by "?versionId=...") into its parts.
func parseCopySource(header string) (bucket, key, versionID string, err liberr.Error) {
	raw := strings.TrimPrefix(header, "/")

	if idx := strings.IndexByte(raw, '?'); idx >= 0 {
		query := raw[idx+1:]
		raw = raw[:idx]
		if v, qerr := url.ParseQuery(query); qerr == nil {
			versionID = v.Get("versionId")
		}
	}

	decoded, derr := url.QueryUnescape(raw)
	if derr != nil {
		return "", "", "", liberr.CodeInvalidRequest.Errorf("malformed x-amz-copy-source header")
	}

	slash := strings.IndexByte(decoded, '/')
	if slash < 0 {
		return "", "", "", liberr.CodeInvalidRequest.Errorf("malformed x-amz-copy-source header")
	}

	return decoded[:slash], decoded[slash+1:], versionID, nil
}

func copySourcePreconditions(c *ginsdk.Context) objectstore.Preconditions {
	var p objectstore.Preconditions
	p.IfMatch = c.GetHeader("X-Amz-Copy-Source-If-Match")
	p.IfNoneMatch = c.GetHeader("X-Amz-Copy-Source-If-None-Match")
	if v := c.GetHeader("X-Amz-Copy-Source-If-Unmodified-Since"); v != "" {
		if t, terr := http.ParseTime(v); terr == nil {
			p.IfUnmodifiedSince = t
		}
	}
	if v := c.GetHeader("X-Amz-Copy-Source-If-Modified-Since"); v != "" {
		if t, terr := http.ParseTime(v); terr == nil {
			p.IfModifiedSince = t
		}
	}
	return p
}

func (h *handlers) copyObject(c *ginsdk.Context, dstBucket, dstKey string) {
	resource := "/" + dstBucket + "/" + dstKey

	srcBucket, srcKey, srcVersionID, perr := parseCopySource(c.GetHeader("X-Amz-Copy-Source"))
	if perr != nil {
		h.writeError(c, perr, resource)
		return
	}

	rh, err := parseRequestHeaders(c)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	req := s3api.CopyRequest{
		SourceVersionID:   srcVersionID,
		MetadataDirective: objectstore.MetadataDirective(c.GetHeader("X-Amz-Metadata-Directive")),
		TaggingDirective:  objectstore.TaggingDirective(c.GetHeader("X-Amz-Tagging-Directive")),
		Preconditions:     copySourcePreconditions(c),
		Replace:           rh,
	}

	v, cerr := h.object.Copy(srcBucket, srcKey, dstBucket, dstKey, req)
	if cerr != nil {
		h.writeError(c, cerr, resource)
		return
	}

	h.writeXML(c, http.StatusOK, s3xml.CopyObjectResult{ETag: quoteETag(v.ETag), LastModified: v.LastModified})
}

// objectGet disambiguates every GET against an object path: plain
// GetObject, ListParts (signaled by uploadId), and the four object
// subresource GETs.
func (h *handlers) objectGet(c *ginsdk.Context) {
	bucket := c.Param("bucket")
	key := objectKey(c)
	if key == "" {
		h.bucketGet(c)
		return
	}
	q := c.Request.URL.Query()

	switch {
	case has(q, "uploadId"):
		h.listParts(c, bucket, key, q.Get("uploadId"))
	case has(q, "tagging"):
		h.getObjectTagging(c, bucket, key, q.Get("versionId"))
	case has(q, "acl"):
		h.getObjectACL(c, bucket, key, q.Get("versionId"))
	case has(q, "retention"):
		h.getObjectRetention(c, bucket, key, q.Get("versionId"))
	case has(q, "legal-hold"):
		h.getObjectLegalHold(c, bucket, key, q.Get("versionId"))
	default:
		h.getObject(c, bucket, key, q.Get("versionId"))
	}
}

func (h *handlers) getObject(c *ginsdk.Context, bucket, key, versionID string) {
	resource := "/" + bucket + "/" + key
	pre := parsePreconditions(c)

	res, err := h.object.Get(bucket, key, versionID, c.GetHeader("Range"), pre)
	if err != nil {
		if ce, ok := err.(liberr.Error); ok && ce.Code() == liberr.CodeNotModified {
			c.Status(http.StatusNotModified)
			return
		}
		h.writeError(c, err, resource)
		return
	}
	defer res.Body.Close()

	setObjectHeaders(c, res.Version)

	status := http.StatusOK
	if res.Range != nil {
		c.Header("Content-Range", res.Range.ContentRange(res.Version.Size))
		c.Header("Content-Length", strconv.FormatInt(res.Range.Len(), 10))
		status = http.StatusPartialContent
	} else {
		c.Header("Content-Length", strconv.FormatInt(res.Version.Size, 10))
	}

	c.Status(status)
	_, _ = io.Copy(c.Writer, res.Body)
}

func (h *handlers) objectHead(c *ginsdk.Context) {
	bucket := c.Param("bucket")
	key := objectKey(c)
	if key == "" {
		h.bucketHead(c)
		return
	}
	pre := parsePreconditions(c)

	v, err := h.object.Head(bucket, key, c.Query("versionId"), pre)
	if err != nil {
		if ce, ok := err.(liberr.Error); ok && ce.Code() == liberr.CodeNotModified {
			c.Status(http.StatusNotModified)
			return
		}
		status, _ := s3api.MapError(err, "", "")
		c.Status(status)
		return
	}

	setObjectHeaders(c, v)
	c.Header("Content-Length", strconv.FormatInt(v.Size, 10))
	c.Status(http.StatusOK)
}

// setObjectHeaders writes the response headers GetObject/HeadObject
// share, every field whose absence S3 clients tolerate left unset.
func setObjectHeaders(c *ginsdk.Context, v *objectstore.Version) {
	c.Header("ETag", quoteETag(v.ETag))
	c.Header("Last-Modified", v.LastModified.UTC().Format(http.TimeFormat))
	c.Header("Accept-Ranges", "bytes")

	if v.VersionID != objectstore.NullVersionID {
		c.Header("x-amz-version-id", v.VersionID)
	}
	if v.DeleteMarker {
		c.Header("x-amz-delete-marker", "true")
	}

	if v.SystemMeta.ContentType != "" {
		c.Header("Content-Type", v.SystemMeta.ContentType)
	} else {
		c.Header("Content-Type", "application/octet-stream")
	}
	if v.SystemMeta.ContentEncoding != "" {
		c.Header("Content-Encoding", v.SystemMeta.ContentEncoding)
	}
	if v.SystemMeta.ContentLanguage != "" {
		c.Header("Content-Language", v.SystemMeta.ContentLanguage)
	}
	if v.SystemMeta.ContentDisposition != "" {
		c.Header("Content-Disposition", v.SystemMeta.ContentDisposition)
	}
	if v.SystemMeta.CacheControl != "" {
		c.Header("Cache-Control", v.SystemMeta.CacheControl)
	}
	if v.SystemMeta.Expires != "" {
		c.Header("Expires", v.SystemMeta.Expires)
	}

	for k, val := range v.UserMeta {
		c.Header("x-amz-meta-"+k, val)
	}
	if len(v.Tags) > 0 {
		c.Header("x-amz-tagging-count", strconv.Itoa(len(v.Tags)))
	}

	if v.SSE != nil {
		c.Header("x-amz-server-side-encryption", string(v.SSE.Algorithm))
		if v.SSE.KMSKeyID != "" {
			c.Header("x-amz-server-side-encryption-aws-kms-key-id", v.SSE.KMSKeyID)
		}
	}

	if v.Retention != nil {
		c.Header("x-amz-object-lock-mode", string(v.Retention.Mode))
		c.Header("x-amz-object-lock-retain-until-date", v.Retention.RetainUntil.UTC().Format(time.RFC3339))
	}
	if v.LegalHold {
		c.Header("x-amz-object-lock-legal-hold", "ON")
	}

	if v.StorageClass != "" {
		c.Header("x-amz-storage-class", string(v.StorageClass))
	}
}

func (h *handlers) objectDelete(c *ginsdk.Context) {
	bucket := c.Param("bucket")
	key := objectKey(c)
	if key == "" {
		h.bucketDelete(c)
		return
	}
	q := c.Request.URL.Query()
	resource := "/" + bucket + "/" + key

	if has(q, "uploadId") {
		if err := h.multipart.Abort(bucket, key, q.Get("uploadId")); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusNoContent)
		return
	}

	if has(q, "tagging") {
		if err := h.object.DeleteTagging(bucket, key, q.Get("versionId")); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusNoContent)
		return
	}

	versionID, marker, err := h.object.Delete(bucket, key, q.Get("versionId"))
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	if marker {
		c.Header("x-amz-delete-marker", "true")
		c.Header("x-amz-version-id", versionID)
	} else if versionID != "" {
		c.Header("x-amz-version-id", versionID)
	}
	c.Status(http.StatusNoContent)
}

// objectPost handles CreateMultipartUpload (?uploads) and
// CompleteMultipartUpload (?uploadId=...); no other object-level POST
// operation is supported.
func (h *handlers) objectPost(c *ginsdk.Context) {
	bucket := c.Param("bucket")
	key := objectKey(c)
	if key == "" {
		h.bucketPost(c)
		return
	}
	q := c.Request.URL.Query()
	resource := "/" + bucket + "/" + key

	switch {
	case has(q, "uploads"):
		h.createMultipartUpload(c, bucket, key)
	case has(q, "uploadId"):
		h.completeMultipartUpload(c, bucket, key, q.Get("uploadId"))
	default:
		h.writeError(c, liberr.CodeInvalidRequest.Errorf("unsupported object POST request"), resource)
	}
}

func (h *handlers) putObjectTagging(c *ginsdk.Context, bucket, key, versionID string) {
	resource := "/" + bucket + "/" + key

	var body s3xml.Tagging
	if err := decodeBody(c, &body); err != nil {
		h.writeError(c, err, resource)
		return
	}

	tags := make([]headers.Tag, 0, len(body.TagSet.Tag))
	for _, t := range body.TagSet.Tag {
		tags = append(tags, headers.Tag{Key: t.Key, Value: t.Value})
	}

	if err := h.object.PutTagging(bucket, key, versionID, tags); err != nil {
		h.writeError(c, err, resource)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) getObjectTagging(c *ginsdk.Context, bucket, key, versionID string) {
	resource := "/" + bucket + "/" + key

	tags, err := h.object.GetTagging(bucket, key, versionID)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}
	h.writeXML(c, http.StatusOK, taggingDTO(tags))
}

func (h *handlers) putObjectACL(c *ginsdk.Context, bucket, key, versionID string) {
	resource := "/" + bucket + "/" + key

	grants, err := aclGrantsFromRequest(c)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	objGrants := make([]objectstore.ACLGrant, 0, len(grants))
	for _, g := range grants {
		objGrants = append(objGrants, objectstore.ACLGrant{Permission: g.Permission, GranteeURI: g.GranteeURI})
	}

	if err := h.object.PutACL(bucket, key, versionID, objGrants); err != nil {
		h.writeError(c, err, resource)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) getObjectACL(c *ginsdk.Context, bucket, key, versionID string) {
	resource := "/" + bucket + "/" + key

	grants, err := h.object.GetACL(bucket, key, versionID)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	bktGrants := make([]bucketstore.ACLGrant, 0, len(grants))
	for _, g := range grants {
		bktGrants = append(bktGrants, bucketstore.ACLGrant{Permission: g.Permission, GranteeURI: g.GranteeURI})
	}

	h.writeXML(c, http.StatusOK, aclDTO(bucketstore.DefaultOwner, bktGrants))
}

type retentionConfiguration struct {
	XMLName         xml.Name  `xml:"Retention"`
	Mode            string    `xml:"Mode"`
	RetainUntilDate time.Time `xml:"RetainUntilDate"`
}

func (h *handlers) putObjectRetention(c *ginsdk.Context, bucket, key, versionID string) {
	resource := "/" + bucket + "/" + key

	var body retentionConfiguration
	if err := decodeBody(c, &body); err != nil {
		h.writeError(c, err, resource)
		return
	}

	if err := h.object.PutRetention(bucket, key, versionID, sdktpsRetentionMode(body.Mode), body.RetainUntilDate); err != nil {
		h.writeError(c, err, resource)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) getObjectRetention(c *ginsdk.Context, bucket, key, versionID string) {
	resource := "/" + bucket + "/" + key

	ret, err := h.object.GetRetention(bucket, key, versionID)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}
	if ret == nil {
		h.writeError(c, liberr.CodeInvalidRequest.Errorf("object has no retention configuration"), resource)
		return
	}

	h.writeXML(c, http.StatusOK, retentionConfiguration{Mode: string(ret.Mode), RetainUntilDate: ret.RetainUntil})
}

type legalHold struct {
	XMLName xml.Name `xml:"LegalHold"`
	Status  string   `xml:"Status"`
}

func (h *handlers) putObjectLegalHold(c *ginsdk.Context, bucket, key, versionID string) {
	resource := "/" + bucket + "/" + key

	var body legalHold
	if err := decodeBody(c, &body); err != nil {
		h.writeError(c, err, resource)
		return
	}

	if err := h.object.PutLegalHold(bucket, key, versionID, strings.EqualFold(body.Status, "ON")); err != nil {
		h.writeError(c, err, resource)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) getObjectLegalHold(c *ginsdk.Context, bucket, key, versionID string) {
	resource := "/" + bucket + "/" + key

	on, err := h.object.GetLegalHold(bucket, key, versionID)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	status := "OFF"
	if on {
		status = "ON"
	}
	h.writeXML(c, http.StatusOK, legalHold{Status: status})
}

func contentsDTO(key string, v *objectstore.Version) s3xml.Contents {
	return s3xml.Contents{
		Key:          key,
		LastModified: v.LastModified,
		ETag:         quoteETag(v.ETag),
		Size:         v.Size,
		StorageClass: string(v.StorageClass),
	}
}

func objectVersionDTO(key string, v *objectstore.Version, isLatest bool) s3xml.ObjectVersion {
	return s3xml.ObjectVersion{
		Key:          key,
		VersionId:    v.VersionID,
		IsLatest:     isLatest,
		LastModified: v.LastModified,
		ETag:         quoteETag(v.ETag),
		Size:         v.Size,
		StorageClass: string(v.StorageClass),
	}
}

func (h *handlers) listObjectsV1(c *ginsdk.Context, bucket string) {
	resource := "/" + bucket
	q := c.Request.URL.Query()
	maxKeys := queryInt(c, "max-keys", 1000)

	res, err := h.object.ListObjectsV1(bucket, q.Get("prefix"), q.Get("delimiter"), q.Get("marker"), maxKeys)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	out := s3xml.ListBucketResult{
		Name:        bucket,
		Prefix:      q.Get("prefix"),
		Marker:      q.Get("marker"),
		MaxKeys:     maxKeys,
		Delimiter:   q.Get("delimiter"),
		IsTruncated: res.IsTruncated,
		NextMarker:  res.NextMarker,
	}
	for _, e := range res.Entries {
		out.Contents = append(out.Contents, contentsDTO(e.Key, e.Version))
	}
	for _, p := range res.CommonPrefixes {
		out.CommonPrefixes = append(out.CommonPrefixes, s3xml.CommonPrefix{Prefix: p})
	}

	h.writeXML(c, http.StatusOK, out)
}

func (h *handlers) listObjectsV2(c *ginsdk.Context, bucket string) {
	resource := "/" + bucket
	q := c.Request.URL.Query()
	maxKeys := queryInt(c, "max-keys", 1000)

	res, err := h.object.ListObjectsV2(bucket, q.Get("prefix"), q.Get("delimiter"), q.Get("continuation-token"), q.Get("start-after"), maxKeys)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	out := s3xml.ListBucketResult{
		Name:                  bucket,
		Prefix:                q.Get("prefix"),
		MaxKeys:               maxKeys,
		Delimiter:             q.Get("delimiter"),
		StartAfter:            q.Get("start-after"),
		ContinuationToken:     q.Get("continuation-token"),
		NextContinuationToken: res.NextContinuationToken,
		IsTruncated:           res.IsTruncated,
		KeyCount:              len(res.Entries) + len(res.CommonPrefixes),
	}
	for _, e := range res.Entries {
		out.Contents = append(out.Contents, contentsDTO(e.Key, e.Version))
	}
	for _, p := range res.CommonPrefixes {
		out.CommonPrefixes = append(out.CommonPrefixes, s3xml.CommonPrefix{Prefix: p})
	}

	h.writeXML(c, http.StatusOK, out)
}

func (h *handlers) listObjectVersions(c *ginsdk.Context, bucket string) {
	resource := "/" + bucket
	q := c.Request.URL.Query()
	maxKeys := queryInt(c, "max-keys", 1000)

	res, err := h.object.ListObjectVersions(bucket, q.Get("prefix"), q.Get("delimiter"), q.Get("key-marker"), q.Get("version-id-marker"), maxKeys)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	out := s3xml.ListVersionsResult{
		Name:                bucket,
		Prefix:              q.Get("prefix"),
		KeyMarker:           q.Get("key-marker"),
		VersionIdMarker:     q.Get("version-id-marker"),
		NextKeyMarker:       res.NextKeyMarker,
		NextVersionIdMarker: res.NextVersionIDMarker,
		MaxKeys:             maxKeys,
		Delimiter:           q.Get("delimiter"),
		IsTruncated:         res.IsTruncated,
	}

	for _, e := range res.Entries {
		if e.Version.DeleteMarker {
			out.DeleteMarker = append(out.DeleteMarker, s3xml.DeleteMarkerEntry{
				Key:          e.Key,
				VersionId:    e.Version.VersionID,
				IsLatest:     e.IsLatest,
				LastModified: e.Version.LastModified,
			})
			continue
		}
		out.Version = append(out.Version, objectVersionDTO(e.Key, e.Version, e.IsLatest))
	}
	for _, p := range res.CommonPrefixes {
		out.CommonPrefixes = append(out.CommonPrefixes, s3xml.CommonPrefix{Prefix: p})
	}

	h.writeXML(c, http.StatusOK, out)
}

// deleteMultiple implements POST ?delete: every requested (key,
// versionId) pair is deleted independently so that one object-lock
// failure doesn't abort the rest of the batch.
func (h *handlers) deleteMultiple(c *ginsdk.Context, bucket string) {
	resource := "/" + bucket

	var body s3xml.DeleteObjectsRequest
	if err := decodeBody(c, &body); err != nil {
		h.writeError(c, err, resource)
		return
	}

	objs := make([]struct{ Key, VersionID string }, 0, len(body.Object))
	for _, o := range body.Object {
		objs = append(objs, struct{ Key, VersionID string }{Key: o.Key, VersionID: o.VersionId})
	}

	results := h.object.DeleteMultiple(bucket, objs)

	out := s3xml.DeleteResult{}
	for _, r := range results {
		if r.Err != nil {
			_, e := s3api.MapError(r.Err, "/"+bucket+"/"+r.Key, requestID())
			out.Error = append(out.Error, s3xml.DeleteError{Key: r.Key, VersionId: r.VersionID, Code: e.Code, Message: e.Message})
			continue
		}
		if body.Quiet {
			continue
		}
		d := s3xml.DeletedObject{Key: r.Key, VersionId: r.VersionID}
		if r.DeleteMarker {
			d.DeleteMarker = true
			d.DeleteMarkerVersionId = r.DeleteMarkerVersionID
		}
		out.Deleted = append(out.Deleted, d)
	}

	h.writeXML(c, http.StatusOK, out)
}
