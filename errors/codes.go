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

package errors

// Domain error codes for the S3 emulator. Codes are grouped by the
// component that raises them and deliberately start at 1000 to stay
// clear of any HTTP-status-shaped codes a caller might also register.
const (
	// Bucket Store
	CodeNoSuchBucket CodeError = 1000 + iota
	CodeBucketAlreadyExists
	CodeBucketAlreadyOwnedByYou
	CodeBucketNotEmpty
	CodeInvalidBucketName

	// Object Store
	CodeNoSuchKey
	CodeNoSuchVersion
	CodeInvalidRange
	CodePreconditionFailed
	CodeNotModified
	CodeBadDigest
	CodeInvalidTag
	CodeAccessDenied

	// Multipart Engine
	CodeNoSuchUpload
	CodeInvalidPart
	CodeInvalidPartOrder
	CodeEntityTooSmall

	// KMS Key Registry
	CodeKMSKeyNotFound

	// Generic
	CodeInvalidRequest
	CodeMalformedXML
	CodeInternalError
)

func init() {
	RegisterCode(CodeNoSuchBucket, "The specified bucket does not exist")
	RegisterCode(CodeBucketAlreadyExists, "The requested bucket name is not available")
	RegisterCode(CodeBucketAlreadyOwnedByYou, "Your previous request to create the named bucket succeeded and you already own it")
	RegisterCode(CodeBucketNotEmpty, "The bucket you tried to delete is not empty")
	RegisterCode(CodeInvalidBucketName, "The specified bucket is not valid")

	RegisterCode(CodeNoSuchKey, "The specified key does not exist")
	RegisterCode(CodeNoSuchVersion, "The specified version does not exist")
	RegisterCode(CodeInvalidRange, "The requested range is not satisfiable")
	RegisterCode(CodePreconditionFailed, "At least one of the pre-conditions you specified did not hold")
	RegisterCode(CodeNotModified, "Not Modified")
	RegisterCode(CodeBadDigest, "The Content-MD5 or checksum you specified did not match what was received")
	RegisterCode(CodeInvalidTag, "The tagging you provided is not valid")
	RegisterCode(CodeAccessDenied, "Access Denied")

	RegisterCode(CodeNoSuchUpload, "The specified upload does not exist")
	RegisterCode(CodeInvalidPart, "One or more of the specified parts could not be found")
	RegisterCode(CodeInvalidPartOrder, "The list of parts was not in ascending order")
	RegisterCode(CodeEntityTooSmall, "Your proposed upload is smaller than the minimum allowed object size")

	RegisterCode(CodeKMSKeyNotFound, "The specified KMS key does not exist")

	RegisterCode(CodeInvalidRequest, "Invalid Request")
	RegisterCode(CodeMalformedXML, "The XML you provided was not well-formed")
	RegisterCode(CodeInternalError, "We encountered an internal error, please try again")
}
