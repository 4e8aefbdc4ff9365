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

import (
	"fmt"
	"strconv"
)

// CodeError is a numeric error code, analogous to an HTTP status but
// scoped to this module's domain errors. Zero is reserved for
// UnknownError.
type CodeError uint16

const (
	UnknownError CodeError = 0
	UnknownMessage         = "unknown error"
)

var registry = make(map[CodeError]string)

// RegisterCode associates a human-readable message with a CodeError.
// Called from codes.go's package init for every S3 domain error.
func RegisterCode(code CodeError, message string) {
	registry[code] = message
}

// Message returns the registered message for this code, or
// UnknownMessage if it was never registered.
func (c CodeError) Message() string {
	if m, ok := registry[c]; ok {
		return m
	}
	return UnknownMessage
}

// Error builds a new Error carrying this code and its registered
// message, optionally wrapping parent errors.
func (c CodeError) Error(parents ...error) Error {
	return New(c, c.Message(), parents...)
}

// Errorf builds a new Error carrying this code and a formatted message,
// independent of the code's registered message.
func (c CodeError) Errorf(format string, args ...interface{}) Error {
	return New(c, fmt.Sprintf(format, args...))
}

func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}
