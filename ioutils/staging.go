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

// Package ioutils generalizes nabbar/golib/ioutils.FileProgress for the
// one thing the object/multipart stores need: stream a request body to a
// temp file beside its final destination, hashing as it goes, then
// atomically publish or discard it. The teacher's full FileProgress
// (arbitrary open modes, increment/reset callbacks, byte-wise readers)
// has no host here; every store write follows this single path.
package ioutils

import (
	"crypto/md5"
	"hash"
	"io"
	"os"
	"path/filepath"

	liberr "github.com/sabouaram/s3mockd/errors"
)

// StagingWriter streams bytes to a temp file created inside dir,
// computing MD5 (and, optionally, a secondary checksum) in a single
// pass. Callers must call either Commit or Abort exactly once.
type StagingWriter struct {
	dir  string
	f    *os.File
	md5  hash.Hash
	alt  hash.Hash
	size int64
	w    io.Writer
}

// NewStagingWriter creates a temp file inside dir (creating dir first if
// it is missing) and returns a StagingWriter ready to receive bytes. alt may be
// nil when no secondary checksum was requested.
func NewStagingWriter(dir string, alt hash.Hash) (*StagingWriter, liberr.Error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, liberr.CodeInternalError.Error(err)
	}

	f, err := os.CreateTemp(dir, ".upload-*.tmp")
	if err != nil {
		return nil, liberr.CodeInternalError.Error(err)
	}

	sw := &StagingWriter{dir: dir, f: f, md5: md5.New(), alt: alt}
	writers := []io.Writer{f, sw.md5}
	if alt != nil {
		writers = append(writers, alt)
	}
	sw.w = io.MultiWriter(writers...)
	return sw, nil
}

// Write implements io.Writer, forwarding to the temp file and both hashes.
func (s *StagingWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.size += int64(n)
	return n, err
}

// ReadFrom streams src directly into the staging file, matching the
// single-pass hashing contract of Write.
func (s *StagingWriter) ReadFrom(src io.Reader) (int64, error) {
	n, err := io.Copy(s.w, src)
	s.size += n
	return n, err
}

// Size returns the number of bytes written so far.
func (s *StagingWriter) Size() int64 { return s.size }

// MD5Sum returns the running MD5 digest of everything written so far.
func (s *StagingWriter) MD5Sum() []byte { return s.md5.Sum(nil) }

// AltSum returns the running secondary-checksum digest, or nil if none
// was requested.
func (s *StagingWriter) AltSum() []byte {
	if s.alt == nil {
		return nil
	}
	return s.alt.Sum(nil)
}

// Commit closes the temp file and atomically renames it to dest,
// which must be on the same filesystem as dir (dest's parent directory
// is created if missing).
func (s *StagingWriter) Commit(dest string) liberr.Error {
	if err := s.f.Close(); err != nil {
		_ = os.Remove(s.f.Name())
		return liberr.CodeInternalError.Error(err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		_ = os.Remove(s.f.Name())
		return liberr.CodeInternalError.Error(err)
	}

	if err := os.Rename(s.f.Name(), dest); err != nil {
		_ = os.Remove(s.f.Name())
		return liberr.CodeInternalError.Error(err)
	}

	return nil
}

// Abort removes the temp file without publishing it. Safe to call after
// Commit has already succeeded (no-op, file is already gone).
func (s *StagingWriter) Abort() {
	_ = s.f.Close()
	_ = os.Remove(s.f.Name())
}
