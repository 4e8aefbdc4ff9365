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

package bucketstore_test

import (
	"strings"
	"testing"

	"github.com/sabouaram/s3mockd/bucketstore"
)

func TestValidateNameAccepts(t *testing.T) {
	for _, name := range []string{
		"abc",
		strings.Repeat("a", 63),
		"my-bucket",
		"my.bucket.name",
		"bucket123",
	} {
		if err := bucketstore.ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}
}

func TestValidateNameRejects(t *testing.T) {
	cases := map[string]string{
		"too short":            "ab",
		"too long":             strings.Repeat("a", 64),
		"adjacent dots":        "my..bucket",
		"leading dot":          ".bucket",
		"trailing dot":         "bucket.",
		"leading hyphen":       "-bucket",
		"trailing hyphen":      "bucket-",
		"ip address shaped":    "192.168.1.1",
		"uppercase":            "MyBucket",
		"underscore":           "my_bucket",
		"empty":                "",
	}

	for desc, name := range cases {
		if err := bucketstore.ValidateName(name); err == nil {
			t.Errorf("%s: ValidateName(%q) = nil, want an error", desc, name)
		}
	}
}
