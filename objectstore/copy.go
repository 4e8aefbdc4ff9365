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
	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/s3lock"
)

// MetadataDirective mirrors x-amz-metadata-directive.
type MetadataDirective string

const (
	MetadataDirectiveCopy    MetadataDirective = "COPY"
	MetadataDirectiveReplace MetadataDirective = "REPLACE"
)

// TaggingDirective mirrors x-amz-tagging-directive.
type TaggingDirective string

const (
	TaggingDirectiveCopy    TaggingDirective = "COPY"
	TaggingDirectiveReplace TaggingDirective = "REPLACE"
)

// CopyOptions carries the directives and replacement values a
// CopyObject/UploadPartCopy request may supply.
type CopyOptions struct {
	SourceVersionID   string
	MetadataDirective MetadataDirective
	TaggingDirective  TaggingDirective
	Preconditions     Preconditions
	Replace           PutOptions // used verbatim when a directive is REPLACE
}

// Copy reads srcKey's bytes (at SourceVersionID, or its current version)
// and writes them as a new version of dstKey, honoring the
// metadata/tagging directives. Source and destination locks are always
// acquired in sorted order to avoid deadlocking against a concurrent
// reverse copy.
func (s *Store) Copy(srcBucket, srcKey, dstBucket, dstKey string, opt CopyOptions) (*Version, liberr.Error) {
	unlock := s.lock.LockMulti(
		s3lock.ObjectKey(srcBucket, srcKey),
		s3lock.ObjectKey(dstBucket, dstKey),
	)
	defer unlock()

	srcVer, err := s.resolveLocked(srcBucket, srcKey, opt.SourceVersionID)
	if err != nil {
		return nil, err
	}

	if !opt.Preconditions.IsZero() {
		if perr := opt.Preconditions.Evaluate(srcVer); perr != nil {
			return nil, perr
		}
	}

	srcFile, oerr := s.openLocked(srcBucket, srcKey, srcVer.VersionID)
	if oerr != nil {
		return nil, oerr
	}
	defer srcFile.Close()

	put := PutOptions{
		UserMeta:     srcVer.UserMeta,
		SystemMeta:   srcVer.SystemMeta,
		Tags:         srcVer.Tags,
		ACL:          srcVer.ACL,
		StorageClass: srcVer.StorageClass,
	}

	if opt.MetadataDirective == MetadataDirectiveReplace {
		put.UserMeta = opt.Replace.UserMeta
		put.SystemMeta = opt.Replace.SystemMeta
		put.SSE = opt.Replace.SSE
		put.StorageClass = opt.Replace.StorageClass
	}

	if opt.TaggingDirective == TaggingDirectiveReplace {
		put.Tags = opt.Replace.Tags
	}

	return s.putLocked(dstBucket, dstKey, srcFile, put)
}

// IsZero reports whether no conditional header was set.
func (p Preconditions) IsZero() bool {
	return p.IfMatch == "" && p.IfNoneMatch == "" && p.IfUnmodifiedSince.IsZero() && p.IfModifiedSince.IsZero()
}
