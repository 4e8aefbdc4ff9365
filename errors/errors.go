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

// Package errors provides a tagged-error type used across this module's
// domain packages instead of bare `error`. An Error carries a numeric
// CodeError (see code.go) and an optional chain of parent errors, so the
// HTTP edge can recover the original S3 error code without string
// matching.
package errors

import (
	"fmt"
	"strings"
)

// Error is returned by every domain-level operation (bucketstore,
// objectstore, multipartstore, kmsregistry, dispatcher) instead of the
// standard error interface.
type Error interface {
	error

	// Code returns the CodeError this Error was created with.
	Code() CodeError

	// Add appends parent errors to this Error's chain.
	Add(parent ...error) Error

	// Has reports whether the given CodeError appears anywhere in this
	// Error's chain (including itself).
	Has(code CodeError) bool

	// Parents returns the direct parent errors of this Error.
	Parents() []Error
}

type ers struct {
	c CodeError
	m string
	p []Error
}

// New creates a new Error with the given code, message, and parent errors.
// Parents that are nil, or non-nil errors with an empty message, are
// dropped silently so call sites can pass raw SDK/os errors without
// checking for nil first.
func New(code CodeError, message string, parents ...error) Error {
	e := &ers{c: code, m: message}
	return e.Add(parents...)
}

// Newf is New with fmt.Sprintf-style message formatting.
func Newf(code CodeError, format string, args ...interface{}) Error {
	return New(code, fmt.Sprintf(format, args...))
}

// IfError returns nil if none of the given errors are non-nil; otherwise
// it returns a new Error of the given code wrapping all non-nil errors.
func IfError(code CodeError, message string, errs ...error) Error {
	var has bool
	for _, e := range errs {
		if e != nil {
			has = true
			break
		}
	}
	if !has {
		return nil
	}
	return New(code, message, errs...)
}

func (e *ers) Error() string {
	if e == nil {
		return ""
	}

	parts := make([]string, 0, 1+len(e.p))
	if e.m != "" {
		parts = append(parts, e.m)
	}
	for _, p := range e.p {
		if p != nil && p.Error() != "" {
			parts = append(parts, p.Error())
		}
	}
	return strings.Join(parts, ": ")
}

func (e *ers) Code() CodeError {
	if e == nil {
		return UnknownError
	}
	return e.c
}

func (e *ers) Add(parents ...error) Error {
	if e == nil {
		return nil
	}
	for _, p := range parents {
		if p == nil {
			continue
		}
		if pe, ok := p.(Error); ok {
			if pe == nil {
				continue
			}
			e.p = append(e.p, pe)
		} else if p.Error() != "" {
			e.p = append(e.p, &ers{c: UnknownError, m: p.Error()})
		}
	}
	return e
}

func (e *ers) Has(code CodeError) bool {
	if e == nil {
		return false
	}
	if e.c == code {
		return true
	}
	for _, p := range e.p {
		if p.Has(code) {
			return true
		}
	}
	return false
}

func (e *ers) Parents() []Error {
	if e == nil {
		return nil
	}
	return e.p
}
