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
	"crypto/sha1"
	"crypto/sha256"
	"hash"
	"hash/crc32"

	sdktps "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// checksumHasher returns the secondary hash.Hash a PUT should compute
// alongside the always-present MD5, or nil when no checksum algorithm
// was requested.
func checksumHasher(algo sdktps.ChecksumAlgorithm) hash.Hash {
	switch algo {
	case sdktps.ChecksumAlgorithmCrc32:
		return crc32.NewIEEE()
	case sdktps.ChecksumAlgorithmCrc32c:
		return crc32.New(crc32.MakeTable(crc32.Castagnoli))
	case sdktps.ChecksumAlgorithmSha1:
		return sha1.New()
	case sdktps.ChecksumAlgorithmSha256:
		return sha256.New()
	default:
		return nil
	}
}
