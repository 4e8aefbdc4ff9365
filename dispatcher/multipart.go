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
	"net/http"

	ginsdk "github.com/gin-gonic/gin"
	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/multipartstore"
	"github.com/sabouaram/s3mockd/s3xml"
)

func (h *handlers) createMultipartUpload(c *ginsdk.Context, bucket, key string) {
	resource := "/" + bucket + "/" + key

	rh, err := parseRequestHeaders(c)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	m, merr := h.multipart.Create(bucket, key, rh)
	if merr != nil {
		h.writeError(c, merr, resource)
		return
	}

	h.writeXML(c, http.StatusOK, s3xml.InitiateMultipartUploadResult{Bucket: bucket, Key: key, UploadId: m.UploadID})
}

func (h *handlers) uploadPart(c *ginsdk.Context, bucket, key, uploadID string, partNumber int) {
	resource := "/" + bucket + "/" + key

	if partNumber < 1 {
		h.writeError(c, liberr.CodeInvalidPart.Errorf("missing or invalid partNumber"), resource)
		return
	}

	pm, err := h.multipart.UploadPart(bucket, key, uploadID, partNumber, c.Request.Body)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	c.Header("ETag", quoteETag(pm.ETag))
	c.Status(http.StatusOK)
}

func (h *handlers) uploadPartCopy(c *ginsdk.Context, bucket, key, uploadID string, partNumber int) {
	resource := "/" + bucket + "/" + key

	if partNumber < 1 {
		h.writeError(c, liberr.CodeInvalidPart.Errorf("missing or invalid partNumber"), resource)
		return
	}

	srcBucket, srcKey, srcVersionID, perr := parseCopySource(c.GetHeader("X-Amz-Copy-Source"))
	if perr != nil {
		h.writeError(c, perr, resource)
		return
	}

	var rng *multipartstore.ObjectRange
	if header := c.GetHeader("X-Amz-Copy-Source-Range"); header != "" {
		br, rerr := parseCopySourceRange(header)
		if rerr != nil {
			h.writeError(c, rerr, resource)
			return
		}
		rng = br
	}

	pm, err := h.multipart.UploadPartCopy(bucket, key, uploadID, partNumber, srcBucket, srcKey, srcVersionID, rng)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	h.writeXML(c, http.StatusOK, s3xml.CopyObjectResult{ETag: quoteETag(pm.ETag), LastModified: pm.LastModified})
}

// parseCopySourceRange parses the x-amz-copy-source-range header, which
// shares its "bytes=a-b" syntax with the regular Range header but always
// names an explicit start and end (no suffix or open-ended forms).
func parseCopySourceRange(header string) (*multipartstore.ObjectRange, liberr.Error) {
	const prefix = "bytes="
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return nil, liberr.CodeInvalidRange.Error()
	}

	spec := header[len(prefix):]
	dash := -1
	for i := 0; i < len(spec); i++ {
		if spec[i] == '-' {
			dash = i
			break
		}
	}
	if dash <= 0 || dash == len(spec)-1 {
		return nil, liberr.CodeInvalidRange.Error()
	}

	start, serr := parseUint(spec[:dash])
	end, eerr := parseUint(spec[dash+1:])
	if serr != nil || eerr != nil || end < start {
		return nil, liberr.CodeInvalidRange.Error()
	}

	return &multipartstore.ObjectRange{Start: start, End: end}, nil
}

func parseUint(s string) (int64, error) {
	var n int64
	if s == "" {
		return 0, liberr.CodeInvalidRange.Error()
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, liberr.CodeInvalidRange.Error()
		}
		n = n*10 + int64(c-'0')
	}
	return n, nil
}

func (h *handlers) completeMultipartUpload(c *ginsdk.Context, bucket, key, uploadID string) {
	resource := "/" + bucket + "/" + key

	var body s3xml.CompleteMultipartUploadRequest
	if err := decodeBody(c, &body); err != nil {
		h.writeError(c, err, resource)
		return
	}

	parts := make([]multipartstore.CompletedPart, 0, len(body.Part))
	for _, p := range body.Part {
		parts = append(parts, multipartstore.CompletedPart{PartNumber: p.PartNumber, ETag: p.ETag})
	}

	v, err := h.multipart.Complete(bucket, key, uploadID, parts)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	h.writeXML(c, http.StatusOK, s3xml.CompleteMultipartUploadResult{Bucket: bucket, Key: key, ETag: quoteETag(v.ETag)})
}

func (h *handlers) listMultipartUploads(c *ginsdk.Context, bucket string) {
	resource := "/" + bucket
	q := c.Request.URL.Query()
	maxUploads := queryInt(c, "max-uploads", 1000)

	page, err := h.multipart.ListUploads(bucket, q.Get("prefix"), q.Get("key-marker"), q.Get("upload-id-marker"), maxUploads)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	out := s3xml.ListMultipartUploadsResult{
		Bucket:             bucket,
		KeyMarker:          q.Get("key-marker"),
		UploadIdMarker:     q.Get("upload-id-marker"),
		NextKeyMarker:      page.NextKeyMarker,
		NextUploadIdMarker: page.NextUploadIDMarker,
		Delimiter:          q.Get("delimiter"),
		Prefix:             q.Get("prefix"),
		MaxUploads:         maxUploads,
		IsTruncated:        page.IsTruncated,
	}
	for _, u := range page.Uploads {
		out.Upload = append(out.Upload, s3xml.Upload{
			Key:          u.Key,
			UploadId:     u.UploadID,
			StorageClass: string(u.StorageClass),
			Initiated:    u.Initiated,
		})
	}

	h.writeXML(c, http.StatusOK, out)
}

func (h *handlers) listParts(c *ginsdk.Context, bucket, key, uploadID string) {
	resource := "/" + bucket + "/" + key
	maxParts := queryInt(c, "max-parts", 1000)
	partNumberMarker := queryInt(c, "part-number-marker", 0)

	page, err := h.multipart.ListParts(bucket, key, uploadID, partNumberMarker, maxParts)
	if err != nil {
		h.writeError(c, err, resource)
		return
	}

	out := s3xml.ListPartsResult{
		Bucket:               bucket,
		Key:                  key,
		UploadId:             uploadID,
		PartNumberMarker:     partNumberMarker,
		NextPartNumberMarker: page.NextPartNumberMarker,
		MaxParts:             maxParts,
		IsTruncated:          page.IsTruncated,
	}
	for _, p := range page.Parts {
		out.Part = append(out.Part, s3xml.Part{
			PartNumber:   p.PartNumber,
			LastModified: p.LastModified,
			ETag:         quoteETag(p.ETag),
			Size:         p.Size,
		})
	}

	h.writeXML(c, http.StatusOK, out)
}
