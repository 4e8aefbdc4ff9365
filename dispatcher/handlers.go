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
	"strconv"
	"strings"
	"time"

	ginsdk "github.com/gin-gonic/gin"
	uuid "github.com/hashicorp/go-uuid"
	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/logger"
	"github.com/sabouaram/s3mockd/objectstore"
	"github.com/sabouaram/s3mockd/s3api"
	"github.com/sabouaram/s3mockd/s3xml"
)

// handlers holds the services every route handler dispatches into.
type handlers struct {
	bucket    *s3api.BucketService
	object    *s3api.ObjectService
	multipart *s3api.MultipartService
	log       logger.Logger
}

// objectKey returns the object key for a request matched against
// "/:bucket/*key", with its leading slash stripped. A request for
// "/bucket/" (no key at all) yields an empty string so callers can fall
// back to bucket-level handling.
func objectKey(c *ginsdk.Context) string {
	return strings.TrimPrefix(c.Param("key"), "/")
}

func requestID() string {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "00000000-0000-0000-0000-000000000000"
	}
	return id
}

// writeXML serializes v with the standard S3 XML envelope and status.
func (h *handlers) writeXML(c *ginsdk.Context, status int, v interface{}) {
	body, err := s3xml.Encode(v)
	if err != nil {
		h.writeError(c, err, c.Request.URL.Path)
		return
	}
	c.Data(status, "application/xml", body)
}

// writeError maps err to its HTTP status and S3 error envelope and
// writes it, logging anything that fell through to a generic
// InternalError.
func (h *handlers) writeError(c *ginsdk.Context, err error, resource string) {
	status, body := s3api.MapError(err, resource, requestID())

	if e, ok := err.(liberr.Error); !ok || e.Code() == liberr.CodeInternalError {
		h.log.Error("request failed", logger.Fields{"path": resource}, err)
	}

	out, eerr := s3xml.Encode(body)
	if eerr != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/xml", out)
}

// decodeBody reads and XML-decodes the request body into v.
func decodeBody(c *ginsdk.Context, v interface{}) liberr.Error {
	raw, err := c.GetRawData()
	if err != nil {
		return liberr.CodeInvalidRequest.Error(err)
	}
	if len(raw) == 0 {
		return nil
	}
	return s3xml.Decode(raw, v)
}

// parsePreconditions reads the conditional-request headers off an
// incoming GET/HEAD/PUT.
func parsePreconditions(c *ginsdk.Context) objectstore.Preconditions {
	var p objectstore.Preconditions
	p.IfMatch = c.GetHeader("If-Match")
	p.IfNoneMatch = c.GetHeader("If-None-Match")

	if v := c.GetHeader("If-Unmodified-Since"); v != "" {
		if t, err := http.ParseTime(v); err == nil {
			p.IfUnmodifiedSince = t
		}
	}
	if v := c.GetHeader("If-Modified-Since"); v != "" {
		if t, err := http.ParseTime(v); err == nil {
			p.IfModifiedSince = t
		}
	}

	return p
}

// parseRequestHeaders builds the RequestHeaders s3api.BuildPutOptions
// needs out of a PUT/CreateMultipartUpload/CopyObject-with-REPLACE
// request.
func parseRequestHeaders(c *ginsdk.Context) (s3api.RequestHeaders, liberr.Error) {
	userMeta, err := s3api.ParseUserMetadata(c.Request.Header)
	if err != nil {
		return s3api.RequestHeaders{}, err
	}

	rh := s3api.RequestHeaders{
		UserMeta:           userMeta,
		ContentType:        c.GetHeader("Content-Type"),
		ContentEncoding:    c.GetHeader("Content-Encoding"),
		ContentLanguage:    c.GetHeader("Content-Language"),
		ContentDisposition: c.GetHeader("Content-Disposition"),
		CacheControl:       c.GetHeader("Cache-Control"),
		Expires:            c.GetHeader("Expires"),
		CannedACL:          c.GetHeader("X-Amz-Acl"),
		Tagging:            c.GetHeader("X-Amz-Tagging"),
		SSEAlgorithm:       c.GetHeader("X-Amz-Server-Side-Encryption"),
		SSEKMSKeyID:        c.GetHeader("X-Amz-Server-Side-Encryption-Aws-Kms-Key-Id"),
		ChecksumAlgorithm:  c.GetHeader("X-Amz-Sdk-Checksum-Algorithm"),
		ContentMD5:         c.GetHeader("Content-MD5"),
		StorageClass:       c.GetHeader("X-Amz-Storage-Class"),
	}

	if rh.ChecksumAlgorithm != "" {
		rh.ChecksumValue = c.GetHeader("X-Amz-Checksum-" + strings.ToUpper(rh.ChecksumAlgorithm))
	}

	if hold := c.GetHeader("X-Amz-Object-Lock-Legal-Hold"); hold != "" {
		rh.LegalHold = strings.EqualFold(hold, "ON")
	}

	if mode := c.GetHeader("X-Amz-Object-Lock-Mode"); mode != "" {
		rh.RetentionMode = mode
		if until := c.GetHeader("X-Amz-Object-Lock-Retain-Until-Date"); until != "" {
			if t, terr := time.Parse(time.RFC3339, until); terr == nil {
				rh.RetainUntil = t
			}
		}
	}

	return rh, nil
}

// queryInt parses a query parameter as a non-negative int, returning
// def when absent or malformed.
func queryInt(c *ginsdk.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
