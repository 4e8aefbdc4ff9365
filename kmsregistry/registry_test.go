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

package kmsregistry_test

import (
	"sort"
	"testing"

	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/kmsregistry"
)

func TestValidateEmptyKeyAlwaysOK(t *testing.T) {
	r := kmsregistry.New(nil)
	if err := r.Validate(""); err != nil {
		t.Fatalf("Validate(\"\") = %v, want nil", err)
	}
}

func TestValidateKnownKey(t *testing.T) {
	r := kmsregistry.New([]string{"key-a", "key-b"})
	if err := r.Validate("key-a"); err != nil {
		t.Fatalf("Validate(known) = %v, want nil", err)
	}
}

func TestValidateUnknownKey(t *testing.T) {
	r := kmsregistry.New([]string{"key-a"})
	err := r.Validate("key-z")
	if err == nil {
		t.Fatalf("Validate(unknown) = nil, want an error")
	}
	if err.Code() != liberr.CodeKMSKeyNotFound {
		t.Fatalf("Code() = %v, want CodeKMSKeyNotFound", err.Code())
	}
}

func TestReplaceSwapsAllowList(t *testing.T) {
	r := kmsregistry.New([]string{"old"})
	if err := r.Validate("old"); err != nil {
		t.Fatalf("old key should validate before Replace: %v", err)
	}

	r.Replace([]string{"new"})

	if err := r.Validate("old"); err == nil {
		t.Fatalf("old key still validates after Replace")
	}
	if err := r.Validate("new"); err != nil {
		t.Fatalf("new key does not validate after Replace: %v", err)
	}
}

func TestKeysReflectsCurrentAllowList(t *testing.T) {
	r := kmsregistry.New([]string{"a", "b", "c"})
	got := r.Keys()
	sort.Strings(got)

	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}
}

func TestKeysEmptyForNilRegistry(t *testing.T) {
	r := kmsregistry.New(nil)
	if got := r.Keys(); len(got) != 0 {
		t.Fatalf("Keys() = %v, want empty", got)
	}
}
