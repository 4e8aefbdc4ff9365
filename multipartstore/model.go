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

// Package multipartstore implements the staged-part upload workflow:
// each in-progress upload gets its own directory holding one file per
// part plus a small metadata sidecar, mirroring the per-version layout
// objectstore uses for completed objects.
package multipartstore

import (
	"time"

	sdktps "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sabouaram/s3mockd/headers"
	"github.com/sabouaram/s3mockd/objectstore"
)

const (
	UploadsDir   = "uploads"
	PartsDir     = "parts"
	UploadFile   = "uploadMetadata.json"
	MinPartSize  = 5 * 1024 * 1024
	MaxPartCount = 10000
)

// UploadMeta is the sidecar stored at uploads/<uploadId>/uploadMetadata.json.
type UploadMeta struct {
	Bucket       string
	Key          string
	UploadID     string
	Initiated    time.Time
	UserMeta     map[string]string
	SystemMeta   objectstore.SystemMeta
	Tags         []headers.Tag
	ACL          []objectstore.ACLGrant
	SSE          *objectstore.SSE
	StorageClass sdktps.StorageClass
}

// PartMeta is the sidecar stored at uploads/<uploadId>/parts/<n>.json.
type PartMeta struct {
	PartNumber   int
	Size         int64
	ETag         string
	LastModified time.Time
}

// CompletedPart is one entry of a CompleteMultipartUpload request body.
type CompletedPart struct {
	PartNumber int
	ETag       string
}
