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

// Package kmsregistry holds the fixed set of symbolic KMS key ids this
// instance will accept for SSE-KMS requests. It performs no
// cryptography: object bytes are always stored in the clear, and an SSE
// header only ever records which algorithm/key id a client asked for.
package kmsregistry

import (
	"sync"

	liberr "github.com/sabouaram/s3mockd/errors"
)

// Registry is an allow-list of key ids, configured at startup and
// replaceable at runtime when the config file backing it changes.
type Registry struct {
	mu  sync.RWMutex
	ids map[string]bool
}

func New(ids []string) *Registry {
	r := &Registry{}
	r.Replace(ids)
	return r
}

// Replace swaps the allow-list atomically, used by config live-reload
// when validKmsKeys changes on disk.
func (r *Registry) Replace(ids []string) {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	r.mu.Lock()
	r.ids = m
	r.mu.Unlock()
}

// Validate returns CodeKMSKeyNotFound if keyID is non-empty and not in
// the allow-list. An empty keyID (SSE-S3 or no encryption requested)
// always validates.
func (r *Registry) Validate(keyID string) liberr.Error {
	if keyID == "" {
		return nil
	}
	r.mu.RLock()
	ok := r.ids[keyID]
	r.mu.RUnlock()
	if ok {
		return nil
	}
	return liberr.CodeKMSKeyNotFound.Error()
}

// Keys returns the configured key ids, for diagnostics/listing.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, id)
	}
	return out
}
