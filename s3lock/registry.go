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

// Package s3lock implements the keyed reader/writer lock registry
// required by the concurrency model: writes are serialized per bucket
// and per (bucket,key), reads may overlap freely, and idle locks are
// reclaimed instead of growing the table forever.
package s3lock

import (
	"sync"
)

type entry struct {
	mu  sync.RWMutex
	ref int
}

// Registry is a concurrent map from an arbitrary string key to a
// reference-counted RWMutex. Entries are created on first use and
// removed once their last holder releases them, so the table never
// grows past the number of keys with in-flight operations.
type Registry struct {
	mu sync.Mutex
	m  map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{m: make(map[string]*entry)}
}

func (r *Registry) acquire(key string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.m[key]
	if !ok {
		e = &entry{}
		r.m[key] = e
	}
	e.ref++
	return e
}

func (r *Registry) release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.m[key]; ok {
		e.ref--
		if e.ref <= 0 {
			delete(r.m, key)
		}
	}
}

// Unlock releases a lock previously obtained from Lock or RLock.
type Unlock func()

// Lock takes an exclusive (write) lock on key. The returned Unlock must
// be called exactly once to release it and allow the entry to be
// reclaimed.
func (r *Registry) Lock(key string) Unlock {
	e := r.acquire(key)
	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		r.release(key)
	}
}

// RLock takes a shared (read) lock on key.
func (r *Registry) RLock(key string) Unlock {
	e := r.acquire(key)
	e.mu.RLock()
	return func() {
		e.mu.RUnlock()
		r.release(key)
	}
}

// LockMulti takes exclusive locks on all given keys, always in sorted
// lexicographic order, so callers locking more than one key (CopyObject
// source+destination) never deadlock against each other regardless of
// call order. Duplicate keys (a self-copy, where source and destination
// are the same (bucket,key)) are locked only once: taking the same
// mutex twice from one goroutine would otherwise deadlock against
// itself.
func (r *Registry) LockMulti(keys ...string) Unlock {
	sorted := append([]string(nil), keys...)
	sortStrings(sorted)

	unlocks := make([]Unlock, 0, len(sorted))
	for i, k := range sorted {
		if i > 0 && k == sorted[i-1] {
			continue
		}
		unlocks = append(unlocks, r.Lock(k))
	}

	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// BucketKey builds the lock key for bucket-level config mutations.
func BucketKey(bucket string) string {
	return "b:" + bucket
}

// ObjectKey builds the lock key for a (bucket,key) object, the unit of
// serialization for PUT/DELETE/CopyObject-destination/CompleteMultipartUpload.
func ObjectKey(bucket, key string) string {
	return "o:" + bucket + "\x00" + key
}

// PartKey builds the lock key for a single part of a single multipart
// upload, so different parts of the same upload proceed in parallel.
func PartKey(bucket, key, uploadID string, partNumber int) string {
	return "p:" + bucket + "\x00" + key + "\x00" + uploadID + "\x00" + itoa(partNumber)
}

// UploadKey builds the lock key serializing an upload's own lifecycle
// operations (Create/Complete/Abort), independent of its individual
// parts' keys.
func UploadKey(bucket, key, uploadID string) string {
	return "u:" + bucket + "\x00" + key + "\x00" + uploadID
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
