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

// Package httpserver runs the emulator's plain-HTTP and TLS listeners,
// generalizing nabbar/golib/httpserver/run.sRun's Start/Stop pair (one
// *http.Server, tracked running state, graceful Shutdown) to a small
// fixed pool of at most two listeners instead of the teacher's dynamic
// pool of named servers: this process always has exactly an HTTP port
// and an HTTPS port, either of which may be disabled by a zero port.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sabouaram/s3mockd/logger"
)

// shutdownTimeout bounds how long Stop waits for in-flight requests to
// finish, mirroring the teacher's run.sRun.Stop default.
const shutdownTimeout = 10 * time.Second

// listener wraps a single *http.Server with the Start/Stop lifecycle
// the teacher's sRun implements, trimmed to what this process needs:
// no Restart, no WaitNotify subscriber list.
type listener struct {
	name string
	srv  *http.Server
	tls  bool

	mu      sync.Mutex
	running bool
	err     error
}

// Pool is the set of listeners this process exposes: at most one plain
// HTTP and one HTTPS, matching spec.md §6's "one HTTPS port and one
// HTTP port" requirement.
type Pool struct {
	log       logger.Logger
	listeners []*listener
}

// New builds a Pool with an HTTP listener on httpPort (if non-zero) and
// an HTTPS listener on httpsPort (if non-zero) serving handler. When
// certFile/keyFile are both empty, an in-memory self-signed certificate
// is generated for the HTTPS listener, matching the teacher's
// testhelpers.GenerateTempCert idiom but without touching disk.
func New(handler http.Handler, httpPort, httpsPort int, certFile, keyFile string, log logger.Logger) (*Pool, error) {
	p := &Pool{log: log}

	if httpPort != 0 {
		p.listeners = append(p.listeners, &listener{
			name: "http",
			srv:  &http.Server{Addr: fmt.Sprintf(":%d", httpPort), Handler: handler},
		})
	}

	if httpsPort != 0 {
		tlsCfg, err := loadTLSConfig(certFile, keyFile)
		if err != nil {
			return nil, err
		}

		p.listeners = append(p.listeners, &listener{
			name: "https",
			tls:  true,
			srv:  &http.Server{Addr: fmt.Sprintf(":%d", httpsPort), Handler: handler, TLSConfig: tlsCfg},
		})
	}

	return p, nil
}

// Start launches every configured listener in its own goroutine and
// returns immediately; listener failures are logged, not returned,
// since by the time one fails the others may already be serving
// traffic.
func (p *Pool) Start() {
	for _, l := range p.listeners {
		l.start(p.log)
	}
}

func (l *listener) start(log logger.Logger) {
	l.mu.Lock()
	l.running = true
	l.err = nil
	l.mu.Unlock()

	go func() {
		log.Info("server is starting", logger.Fields{"listener": l.name, "addr": l.srv.Addr})

		var err error
		if l.tls {
			err = l.srv.ListenAndServeTLS("", "")
		} else {
			err = l.srv.ListenAndServe()
		}

		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}

		l.mu.Lock()
		l.running = false
		l.err = err
		l.mu.Unlock()

		log.Entry(logger.InfoLevel, "server stopped").Data(logger.Fields{"listener": l.name}).ErrorAdd(err).Log()
	}()
}

// Stop gracefully shuts down every listener, waiting for in-flight
// requests to finish until ctx's deadline, or up to shutdownTimeout
// when ctx has none.
func (p *Pool) Stop(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
	}

	var firstErr error
	for _, l := range p.listeners {
		if err := l.srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// Err returns the first listener error recorded after it stopped
// running unexpectedly, or nil if every listener is still running or
// stopped cleanly.
func (p *Pool) Err() error {
	for _, l := range p.listeners {
		l.mu.Lock()
		err := l.err
		l.mu.Unlock()
		if err != nil {
			return err
		}
	}
	return nil
}

// Empty reports whether the pool has no listeners configured (both
// ports zero), the condition main treats as a bind-failure-equivalent
// misconfiguration.
func (p *Pool) Empty() bool {
	return len(p.listeners) == 0
}
