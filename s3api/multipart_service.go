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

	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/kmsregistry"
	"github.com/sabouaram/s3mockd/logger"
	"github.com/sabouaram/s3mockd/multipartstore"
	"github.com/sabouaram/s3mockd/objectstore"
)

// MultipartService validates and orchestrates multipart-upload
// requests over multipartstore.
type MultipartService struct {
	store *multipartstore.Store
	kms   *kmsregistry.Registry
	log   logger.Logger
}

func NewMultipartService(store *multipartstore.Store, kms *kmsregistry.Registry, log logger.Logger) *MultipartService {
	return &MultipartService{store: store, kms: kms, log: log}
}

func (s *MultipartService) Create(bucket, key string, rh RequestHeaders) (*multipartstore.UploadMeta, liberr.Error) {
	opt, err := BuildPutOptions(rh, s.kms)
	if err != nil {
		return nil, err
	}
	return s.store.Create(bucket, key, opt)
}

func (s *MultipartService) UploadPart(bucket, key, uploadID string, partNumber int, body io.Reader) (*multipartstore.PartMeta, liberr.Error) {
	return s.store.UploadPart(bucket, key, uploadID, partNumber, body)
}

func (s *MultipartService) UploadPartCopy(bucket, key, uploadID string, partNumber int, srcBucket, srcKey, srcVersionID string, rng *multipartstore.ObjectRange) (*multipartstore.PartMeta, liberr.Error) {
	return s.store.UploadPartCopy(bucket, key, uploadID, partNumber, srcBucket, srcKey, srcVersionID, rng)
}

func (s *MultipartService) Complete(bucket, key, uploadID string, parts []multipartstore.CompletedPart) (*objectstore.Version, liberr.Error) {
	return s.store.CompleteMultipartUpload(bucket, key, uploadID, parts)
}

func (s *MultipartService) Abort(bucket, key, uploadID string) liberr.Error {
	return s.store.Abort(bucket, key, uploadID)
}

func (s *MultipartService) ListUploads(bucket, prefix, keyMarker, uploadIDMarker string, maxUploads int) (*multipartstore.UploadsPage, liberr.Error) {
	return s.store.ListMultipartUploads(bucket, prefix, keyMarker, uploadIDMarker, maxUploads)
}

func (s *MultipartService) ListParts(bucket, key, uploadID string, partNumberMarker, maxParts int) (*multipartstore.PartsPage, liberr.Error) {
	return s.store.ListParts(bucket, key, uploadID, partNumberMarker, maxParts)
}
