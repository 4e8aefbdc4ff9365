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
	"strings"

	sdktps "github.com/aws/aws-sdk-go-v2/service/s3/types"
	ginsdk "github.com/gin-gonic/gin"
	"github.com/sabouaram/s3mockd/bucketstore"
	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/headers"
	"github.com/sabouaram/s3mockd/s3xml"
)

func sdktpsRetentionMode(s string) sdktps.ObjectLockRetentionMode {
	return sdktps.ObjectLockRetentionMode(s)
}

// aclGrantsFromRequest resolves a PutBucketAcl/PutObjectAcl request's
// grants, preferring the canned x-amz-acl header (the common case) and
// falling back to parsing an AccessControlPolicy XML body when no
// canned ACL header was sent.
func aclGrantsFromRequest(c *ginsdk.Context) ([]bucketstore.ACLGrant, liberr.Error) {
	if canned := c.GetHeader("X-Amz-Acl"); canned != "" {
		grants, err := headers.CannedACLGrants(canned)
		if err != nil {
			return nil, err
		}
		out := make([]bucketstore.ACLGrant, 0, len(grants))
		for _, g := range grants {
			out = append(out, bucketstore.ACLGrant{Permission: g.Permission, GranteeURI: g.GranteeURI})
		}
		return out, nil
	}

	var body s3xml.AccessControlPolicy
	if err := decodeBody(c, &body); err != nil {
		return nil, err
	}

	out := make([]bucketstore.ACLGrant, 0, len(body.AccessControlList.Grant))
	for _, g := range body.AccessControlList.Grant {
		if g.Permission == "FULL_CONTROL" && g.Grantee.Type == "CanonicalUser" {
			// The owner's implicit full-control grant; not stored
			// separately since aclDTO always re-adds it.
			continue
		}
		out = append(out, bucketstore.ACLGrant{Permission: sdktps.Permission(g.Permission), GranteeURI: g.Grantee.URI})
	}
	return out, nil
}

func ownerDTO(o bucketstore.Owner) s3xml.Owner {
	return s3xml.Owner{ID: o.ID, DisplayName: o.DisplayName}
}

func (h *handlers) listBuckets(c *ginsdk.Context) {
	list, err := h.bucket.ListBuckets()
	if err != nil {
		h.writeError(c, err, "/")
		return
	}

	res := s3xml.ListAllMyBucketsResult{Owner: ownerDTO(bucketstore.DefaultOwner)}
	for _, m := range list {
		res.Buckets.Bucket = append(res.Buckets.Bucket, s3xml.Bucket{Name: m.Name, CreationDate: m.CreatedAt})
	}

	h.writeXML(c, http.StatusOK, res)
}

// bucketPut handles bucket creation and every bucket-level config PUT
// (versioning, tagging, acl, policy, cors, lifecycle, object-lock,
// ownershipControls, encryption): both share the PUT method and are
// disambiguated only by which subresource query key, if any, is
// present.
func (h *handlers) bucketPut(c *ginsdk.Context) {
	name := c.Param("bucket")
	q := c.Request.URL.Query()
	resource := "/" + name

	switch {
	case has(q, "versioning"):
		var body s3xml.VersioningConfiguration
		if err := decodeBody(c, &body); err != nil {
			h.writeError(c, err, resource)
			return
		}
		if err := h.bucket.PutVersioning(name, bucketstore.Versioning(body.Status)); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusOK)

	case has(q, "tagging"):
		var body s3xml.Tagging
		if err := decodeBody(c, &body); err != nil {
			h.writeError(c, err, resource)
			return
		}
		tags := make([]bucketstore.Tag, 0, len(body.TagSet.Tag))
		for _, t := range body.TagSet.Tag {
			tags = append(tags, bucketstore.Tag{Key: t.Key, Value: t.Value})
		}
		if err := h.bucket.PutTagging(name, tags); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusOK)

	case has(q, "acl"):
		grants, err := aclGrantsFromRequest(c)
		if err != nil {
			h.writeError(c, err, resource)
			return
		}
		if err := h.bucket.PutACL(name, grants); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusOK)

	case has(q, "policy"):
		raw, rerr := c.GetRawData()
		if rerr != nil {
			h.writeError(c, liberr.CodeInvalidRequest.Error(rerr), resource)
			return
		}
		if err := h.bucket.PutPolicy(name, raw); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusOK)

	case has(q, "cors"):
		raw, rerr := c.GetRawData()
		if rerr != nil {
			h.writeError(c, liberr.CodeInvalidRequest.Error(rerr), resource)
			return
		}
		if err := h.bucket.PutCORS(name, raw); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusOK)

	case has(q, "lifecycle"):
		raw, rerr := c.GetRawData()
		if rerr != nil {
			h.writeError(c, liberr.CodeInvalidRequest.Error(rerr), resource)
			return
		}
		if err := h.bucket.PutLifecycle(name, raw); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusOK)

	case has(q, "object-lock"):
		var body objectLockConfiguration
		if err := decodeBody(c, &body); err != nil {
			h.writeError(c, err, resource)
			return
		}
		cfg := &bucketstore.ObjectLockConfig{Enabled: strings.EqualFold(body.ObjectLockEnabled, "Enabled")}
		if body.Rule != nil {
			cfg.Mode = sdktpsRetentionMode(body.Rule.DefaultRetention.Mode)
			cfg.Days = body.Rule.DefaultRetention.Days
			cfg.Years = body.Rule.DefaultRetention.Years
		}
		if err := h.bucket.PutObjectLock(name, cfg); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusOK)

	case has(q, "ownershipControls"):
		var body ownershipControls
		if err := decodeBody(c, &body); err != nil {
			h.writeError(c, err, resource)
			return
		}
		if err := h.bucket.PutOwnership(name, body.Rule.ObjectOwnership); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusOK)

	case has(q, "encryption"):
		raw, rerr := c.GetRawData()
		if rerr != nil {
			h.writeError(c, liberr.CodeInvalidRequest.Error(rerr), resource)
			return
		}
		if err := h.bucket.PutEncryption(name, raw); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusOK)

	default:
		lockEnabled := strings.EqualFold(c.GetHeader("X-Amz-Bucket-Object-Lock-Enabled"), "true")
		if _, err := h.bucket.CreateBucket(name, c.GetHeader("X-Amz-Acl"), c.GetHeader("X-Amz-Object-Ownership"), lockEnabled); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusOK)
	}
}

func (h *handlers) bucketDelete(c *ginsdk.Context) {
	name := c.Param("bucket")
	q := c.Request.URL.Query()
	resource := "/" + name

	switch {
	case has(q, "tagging"):
		if err := h.bucket.DeleteTagging(name); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusNoContent)

	case has(q, "policy"):
		if err := h.bucket.DeletePolicy(name); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusNoContent)

	case has(q, "cors"):
		if err := h.bucket.DeleteCORS(name); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusNoContent)

	case has(q, "lifecycle"):
		if err := h.bucket.DeleteLifecycle(name); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusNoContent)

	case has(q, "encryption"):
		if err := h.bucket.DeleteEncryption(name); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusNoContent)

	default:
		if err := h.bucket.DeleteBucket(name); err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *handlers) bucketHead(c *ginsdk.Context) {
	name := c.Param("bucket")

	if _, err := h.bucket.GetBucket(name); err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	c.Status(http.StatusOK)
}

// bucketGet disambiguates every bucket-level subresource GET plus
// plain ListObjects(V1/V2), per the dispatch priority order in §4.6.
func (h *handlers) bucketGet(c *ginsdk.Context) {
	name := c.Param("bucket")
	q := c.Request.URL.Query()
	resource := "/" + name

	switch {
	case has(q, "versioning"):
		v, err := h.bucket.GetVersioning(name)
		if err != nil {
			h.writeError(c, err, resource)
			return
		}
		h.writeXML(c, http.StatusOK, s3xml.VersioningConfiguration{Status: string(v)})

	case has(q, "tagging"):
		tags, err := h.bucket.GetTagging(name)
		if err != nil {
			h.writeError(c, err, resource)
			return
		}
		h.writeXML(c, http.StatusOK, taggingDTO(tags))

	case has(q, "acl"):
		grants, owner, err := h.bucket.GetACL(name)
		if err != nil {
			h.writeError(c, err, resource)
			return
		}
		h.writeXML(c, http.StatusOK, aclDTO(owner, grants))

	case has(q, "policy"):
		body, err := h.bucket.GetPolicy(name)
		if err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Data(http.StatusOK, "application/json", body)

	case has(q, "cors"):
		body, err := h.bucket.GetCORS(name)
		if err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Data(http.StatusOK, "application/xml", body)

	case has(q, "lifecycle"):
		body, err := h.bucket.GetLifecycle(name)
		if err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Data(http.StatusOK, "application/xml", body)

	case has(q, "object-lock"):
		cfg, err := h.bucket.GetObjectLock(name)
		if err != nil {
			h.writeError(c, err, resource)
			return
		}
		h.writeXML(c, http.StatusOK, objectLockDTO(cfg))

	case has(q, "ownershipControls"):
		own, err := h.bucket.GetOwnership(name)
		if err != nil {
			h.writeError(c, err, resource)
			return
		}
		h.writeXML(c, http.StatusOK, ownershipDTO(string(own)))

	case has(q, "encryption"):
		body, err := h.bucket.GetEncryption(name)
		if err != nil {
			h.writeError(c, err, resource)
			return
		}
		c.Data(http.StatusOK, "application/xml", body)

	case has(q, "uploads"):
		h.listMultipartUploads(c, name)

	case has(q, "location"):
		region, err := h.bucket.Location(name)
		if err != nil {
			h.writeError(c, err, resource)
			return
		}
		h.writeXML(c, http.StatusOK, s3xml.LocationConstraint{Value: region})

	case q.Get("list-type") == "2":
		h.listObjectsV2(c, name)

	case has(q, "versions"):
		h.listObjectVersions(c, name)

	default:
		h.listObjectsV1(c, name)
	}
}

// bucketPost handles the only bucket-level POST operation this
// emulator supports: multi-object delete (?delete).
func (h *handlers) bucketPost(c *ginsdk.Context) {
	name := c.Param("bucket")
	q := c.Request.URL.Query()
	resource := "/" + name

	if has(q, "delete") {
		h.deleteMultiple(c, name)
		return
	}

	h.writeError(c, liberr.CodeInvalidRequest.Errorf("unsupported bucket POST request"), resource)
}

func has(q map[string][]string, key string) bool {
	_, ok := q[key]
	return ok
}

func taggingDTO(tags []headers.Tag) s3xml.Tagging {
	var out s3xml.Tagging
	for _, t := range tags {
		out.TagSet.Tag = append(out.TagSet.Tag, s3xml.Tag{Key: t.Key, Value: t.Value})
	}
	return out
}

func aclDTO(owner bucketstore.Owner, grants []bucketstore.ACLGrant) s3xml.AccessControlPolicy {
	out := s3xml.AccessControlPolicy{Owner: ownerDTO(owner)}
	out.AccessControlList.Grant = append(out.AccessControlList.Grant, s3xml.Grant{
		Grantee:    s3xml.CanonicalUserGrantee(owner.ID, owner.DisplayName),
		Permission: "FULL_CONTROL",
	})
	for _, g := range grants {
		out.AccessControlList.Grant = append(out.AccessControlList.Grant, s3xml.Grant{
			Grantee:    s3xml.GroupGrantee(g.GranteeURI),
			Permission: string(g.Permission),
		})
	}
	return out
}

// ownershipControls is the small XML shape PutBucketOwnershipControls
// needs; it doesn't carry enough structure to live in s3xml's shared
// bucket DTOs, so it's kept local to the dispatcher.
type ownershipRule struct {
	ObjectOwnership string `xml:"ObjectOwnership"`
}

type ownershipControls struct {
	Rule ownershipRule `xml:"Rule"`
}

func ownershipDTO(v string) ownershipControls {
	return ownershipControls{Rule: ownershipRule{ObjectOwnership: v}}
}

type objectLockConfiguration struct {
	ObjectLockEnabled string `xml:"ObjectLockEnabled,omitempty"`
	Rule              *struct {
		DefaultRetention struct {
			Mode  string `xml:"Mode,omitempty"`
			Days  int    `xml:"Days,omitempty"`
			Years int    `xml:"Years,omitempty"`
		} `xml:"DefaultRetention"`
	} `xml:"Rule,omitempty"`
}

func objectLockDTO(cfg *bucketstore.ObjectLockConfig) objectLockConfiguration {
	out := objectLockConfiguration{}
	if cfg == nil || !cfg.Enabled {
		return out
	}
	out.ObjectLockEnabled = "Enabled"
	out.Rule = &struct {
		DefaultRetention struct {
			Mode  string `xml:"Mode,omitempty"`
			Days  int    `xml:"Days,omitempty"`
			Years int    `xml:"Years,omitempty"`
		} `xml:"DefaultRetention"`
	}{}
	out.Rule.DefaultRetention.Mode = string(cfg.Mode)
	out.Rule.DefaultRetention.Days = cfg.Days
	out.Rule.DefaultRetention.Years = cfg.Years
	return out
}
