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

package objectstore_test

import (
	"testing"
	"time"

	liberr "github.com/sabouaram/s3mockd/errors"
	"github.com/sabouaram/s3mockd/objectstore"
)

func versionAt(etag string, mod time.Time) *objectstore.Version {
	return &objectstore.Version{ETag: etag, LastModified: mod}
}

func TestPreconditionsIfMatchFails(t *testing.T) {
	p := objectstore.Preconditions{IfMatch: `"abc"`}
	v := versionAt("def", time.Now())

	err := p.Evaluate(v)
	if err == nil || err.Code() != liberr.CodePreconditionFailed {
		t.Fatalf("Evaluate(mismatched If-Match) = %v, want CodePreconditionFailed", err)
	}
}

func TestPreconditionsIfMatchWildcard(t *testing.T) {
	p := objectstore.Preconditions{IfMatch: "*"}
	v := versionAt("anything", time.Now())

	if err := p.Evaluate(v); err != nil {
		t.Fatalf("Evaluate(If-Match: *) = %v, want nil", err)
	}
}

func TestPreconditionsIfNoneMatchReturnsNotModified(t *testing.T) {
	p := objectstore.Preconditions{IfNoneMatch: `"same"`}
	v := versionAt("same", time.Now())

	err := p.Evaluate(v)
	if err == nil || err.Code() != liberr.CodeNotModified {
		t.Fatalf("Evaluate(matching If-None-Match) = %v, want CodeNotModified", err)
	}
}

func TestPreconditionsIfUnmodifiedSinceFails(t *testing.T) {
	now := time.Now()
	p := objectstore.Preconditions{IfUnmodifiedSince: now.Add(-time.Hour)}
	v := versionAt("e", now)

	err := p.Evaluate(v)
	if err == nil || err.Code() != liberr.CodePreconditionFailed {
		t.Fatalf("Evaluate(stale If-Unmodified-Since) = %v, want CodePreconditionFailed", err)
	}
}

func TestPreconditionsIfModifiedSinceNotModified(t *testing.T) {
	now := time.Now()
	p := objectstore.Preconditions{IfModifiedSince: now.Add(time.Hour)}
	v := versionAt("e", now)

	err := p.Evaluate(v)
	if err == nil || err.Code() != liberr.CodeNotModified {
		t.Fatalf("Evaluate(future If-Modified-Since) = %v, want CodeNotModified", err)
	}
}

func TestPreconditionsEvaluationOrderIfMatchBeforeIfNoneMatch(t *testing.T) {
	// If-Match fails first, even though If-None-Match would also apply;
	// RFC 7232 order must surface PreconditionFailed, not NotModified.
	p := objectstore.Preconditions{IfMatch: `"nope"`, IfNoneMatch: `"same"`}
	v := versionAt("same", time.Now())

	err := p.Evaluate(v)
	if err == nil || err.Code() != liberr.CodePreconditionFailed {
		t.Fatalf("Evaluate() = %v, want CodePreconditionFailed (If-Match takes precedence)", err)
	}
}

func TestPreconditionsNoHeadersPasses(t *testing.T) {
	p := objectstore.Preconditions{}
	v := versionAt("e", time.Now())

	if err := p.Evaluate(v); err != nil {
		t.Fatalf("Evaluate(no preconditions) = %v, want nil", err)
	}
}
