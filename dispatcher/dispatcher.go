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

// Package dispatcher routes S3 REST requests to the bucket/object/
// multipart services using the path-plus-query-parameter disambiguation
// convention the real S3 API relies on: the same path segment maps to
// different operations depending on method and which query keys are
// present. It wraps a gin engine with an outer handler that rewrites
// virtual-hosted-style requests (bucket in the Host header) onto
// path-style before gin's router ever sees them.
package dispatcher

import (
	"net"
	"net/http"
	"strings"

	ginsdk "github.com/gin-gonic/gin"
	"github.com/sabouaram/s3mockd/bucketstore"
	"github.com/sabouaram/s3mockd/logger"
	"github.com/sabouaram/s3mockd/s3api"
)

// Dispatcher is the http.Handler the httpserver listeners serve.
type Dispatcher struct {
	engine *ginsdk.Engine
	log    logger.Logger
}

// New builds the full route table over the given services.
func New(bucket *s3api.BucketService, object *s3api.ObjectService, multipart *s3api.MultipartService, log logger.Logger) *Dispatcher {
	ginsdk.SetMode(ginsdk.ReleaseMode)

	e := ginsdk.New()
	e.Use(ginsdk.Recovery())

	d := &Dispatcher{engine: e, log: log}
	h := &handlers{bucket: bucket, object: object, multipart: multipart, log: log}

	e.GET("/", h.listBuckets)

	e.PUT("/:bucket", h.bucketPut)
	e.DELETE("/:bucket", h.bucketDelete)
	e.HEAD("/:bucket", h.bucketHead)
	e.GET("/:bucket", h.bucketGet)
	e.POST("/:bucket", h.bucketPost)

	e.PUT("/:bucket/*key", h.objectPut)
	e.GET("/:bucket/*key", h.objectGet)
	e.HEAD("/:bucket/*key", h.objectHead)
	e.DELETE("/:bucket/*key", h.objectDelete)
	e.POST("/:bucket/*key", h.objectPost)

	return d
}

// ServeHTTP rewrites virtual-hosted-style requests onto path-style,
// then hands off to the gin engine. This has to happen before gin's
// router runs its tree lookup, which only ever looks at the request
// already in hand; a gin-level middleware registered with Use runs too
// late to affect routing.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rewriteVirtualHostedStyle(r)
	d.engine.ServeHTTP(w, r)
}

// rewriteVirtualHostedStyle prefixes the request path with the bucket
// name when the Host header looks like "<bucket>.<rest>" rather than a
// bare hostname or IP literal. It is a heuristic, not a strict virtual-
// hosting implementation: any syntactically valid bucket name in the
// leading label is accepted, and an unknown bucket simply surfaces as
// NoSuchBucket downstream exactly as a bad path-style request would.
func rewriteVirtualHostedStyle(r *http.Request) {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	if host == "" || net.ParseIP(host) != nil {
		return
	}

	labels := strings.SplitN(host, ".", 2)
	if len(labels) < 2 {
		return
	}

	candidate := labels[0]
	if bucketstore.ValidateName(candidate) != nil {
		return
	}

	r.URL.Path = "/" + candidate + r.URL.Path
	if r.URL.RawPath != "" {
		r.URL.RawPath = "/" + candidate + r.URL.RawPath
	}
}
