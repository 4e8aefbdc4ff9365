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

package s3lock_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sabouaram/s3mockd/s3lock"
)

func TestLockExcludesConcurrentWriters(t *testing.T) {
	r := s3lock.NewRegistry()

	var active int32
	var sawOverlap bool
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := r.Lock("k")
			defer unlock()

			n := atomic.AddInt32(&active, 1)
			if n > 1 {
				mu.Lock()
				sawOverlap = true
				mu.Unlock()
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&active, -1)
		}()
	}
	wg.Wait()

	if sawOverlap {
		t.Fatalf("two writers held the same key's lock concurrently")
	}
}

func TestRLockAllowsOverlap(t *testing.T) {
	r := s3lock.NewRegistry()

	var active int32
	var sawOverlap bool
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := r.RLock("k")
			defer unlock()

			n := atomic.AddInt32(&active, 1)
			if n > 1 {
				mu.Lock()
				sawOverlap = true
				mu.Unlock()
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&active, -1)
		}()
	}
	wg.Wait()

	if !sawOverlap {
		t.Fatalf("concurrent readers never overlapped; RLock appears to serialize")
	}
}

func TestLockMultiIsOrderIndependent(t *testing.T) {
	r := s3lock.NewRegistry()

	done := make(chan struct{})
	go func() {
		unlock := r.LockMulti("b", "a")
		defer unlock()
		time.Sleep(5 * time.Millisecond)
		close(done)
	}()

	// Give the first goroutine a chance to acquire its locks before the
	// second one races it in the opposite key order.
	time.Sleep(time.Millisecond)

	unlock := r.LockMulti("a", "b")
	select {
	case <-done:
	default:
		t.Fatalf("second LockMulti acquired before the first released, despite reversed key order")
	}
	unlock()
}

func TestLockMultiDedupesRepeatedKeys(t *testing.T) {
	r := s3lock.NewRegistry()

	done := make(chan struct{})
	go func() {
		unlock := r.LockMulti("o:b\x00k", "o:b\x00k")
		close(done)
		time.Sleep(5 * time.Millisecond)
		unlock()
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("LockMulti with a repeated key deadlocked instead of locking it once")
	}
}

func TestBucketObjectPartKeysAreDistinctNamespaces(t *testing.T) {
	if s3lock.BucketKey("b") == s3lock.ObjectKey("b", "") {
		t.Fatalf("bucket and object keys collide for the same name")
	}
	if s3lock.ObjectKey("b", "k") == s3lock.PartKey("b", "k", "u", 1) {
		t.Fatalf("object and part keys collide")
	}
	if s3lock.PartKey("b", "k", "u", 1) == s3lock.PartKey("b", "k", "u", 2) {
		t.Fatalf("distinct part numbers produced the same lock key")
	}
	if s3lock.UploadKey("b", "k", "u") == s3lock.PartKey("b", "k", "u", 1) {
		t.Fatalf("upload and part keys collide")
	}
}
