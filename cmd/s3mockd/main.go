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

// Command s3mockd boots the bucket/object/multipart stores, wires them
// into the request dispatcher, and serves the emulator over plain HTTP
// and/or HTTPS until signaled to stop. Bootstrap, flag/config wiring,
// and listener plumbing live here precisely because spec.md marks them
// out of the core's scope; everything this file calls into is the part
// the spec does cover.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	sdktps "github.com/aws/aws-sdk-go-v2/service/s3/types"
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"

	"github.com/sabouaram/s3mockd/bucketstore"
	"github.com/sabouaram/s3mockd/config"
	"github.com/sabouaram/s3mockd/dispatcher"
	"github.com/sabouaram/s3mockd/httpserver"
	"github.com/sabouaram/s3mockd/kmsregistry"
	"github.com/sabouaram/s3mockd/logger"
	"github.com/sabouaram/s3mockd/multipartstore"
	"github.com/sabouaram/s3mockd/objectstore"
	"github.com/sabouaram/s3mockd/s3api"
	"github.com/sabouaram/s3mockd/s3lock"
)

// shutdownGrace bounds how long serve waits for in-flight requests to
// drain before forcing listeners closed on signal.
const shutdownGrace = 10 * time.Second

func main() {
	os.Exit(run())
}

// run builds the cobra command and executes it, returning the process
// exit code: 0 on clean shutdown, non-zero on bind failure or
// root-directory creation failure, per spec.md §6.
func run() int {
	vpr := spfvpr.New()
	var exitCode int32

	cmd := &spfcbr.Command{
		Use:   "s3mockd",
		Short: "A local, in-process emulator of the S3 object-storage HTTP API",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			code, err := serve(cmd.Context(), vpr)
			atomic.StoreInt32(&exitCode, int32(code))
			return err
		},
		SilenceUsage: true,
	}

	var configFile string
	cmd.Flags().StringVar(&configFile, "config", "", "optional YAML/JSON/TOML config file (live-reloaded)")

	if err := config.RegisterFlags(cmd, vpr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cmd.PreRunE = func(cmd *spfcbr.Command, args []string) error {
		if configFile == "" {
			return nil
		}
		vpr.SetConfigFile(configFile)
		return vpr.ReadInConfig()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	cmd.SetContext(ctx)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exitCode == 0 {
			exitCode = 1
		}
	}

	return int(exitCode)
}

// serve builds every component from settings and blocks until ctx is
// canceled (SIGINT/SIGTERM) or a listener fails outright.
func serve(ctx context.Context, vpr *spfvpr.Viper) (int, error) {
	settings := config.Load(vpr)
	log := logger.New(logger.ParseLevel(settings.LogLevel))

	if err := os.MkdirAll(settings.Root, 0o755); err != nil {
		log.Error("failed to create root directory", logger.Fields{"root": settings.Root}, err)
		return 1, err
	}

	lock := s3lock.NewRegistry()
	buckets := bucketstore.New(settings.Root, lock)
	objects := objectstore.New(buckets, lock)
	multiparts := multipartstore.New(buckets, objects, lock)
	kms := kmsregistry.New(settings.ValidKmsKeys)

	for _, name := range settings.InitialBuckets {
		if _, err := buckets.CreateBucket(name, settings.Region, sdktps.ObjectOwnershipBucketOwnerEnforced, nil); err != nil {
			log.Error("failed to create initial bucket", logger.Fields{"bucket": name}, err)
		}
	}

	config.Watch(vpr, func(s config.Settings) {
		kms.Replace(s.ValidKmsKeys)
		for _, name := range s.InitialBuckets {
			if _, err := buckets.GetBucket(name); err == nil {
				continue
			}
			if _, err := buckets.CreateBucket(name, settings.Region, sdktps.ObjectOwnershipBucketOwnerEnforced, nil); err != nil {
				log.Error("failed to create initial bucket", logger.Fields{"bucket": name}, err)
			}
		}
	})

	bucketSvc := s3api.NewBucketService(buckets, settings.Region, log)
	objectSvc := s3api.NewObjectService(objects, kms, log)
	multipartSvc := s3api.NewMultipartService(multiparts, kms, log)

	handler := dispatcher.New(bucketSvc, objectSvc, multipartSvc, log)

	pool, err := httpserver.New(handler, settings.HTTPPort, settings.HTTPSPort, settings.CertFile, settings.KeyFile, log)
	if err != nil {
		log.Error("failed to configure listeners", nil, err)
		return 1, err
	}
	if pool.Empty() {
		err := fmt.Errorf("both http-port and https-port are 0; nothing to serve")
		log.Error("no listener configured", nil, err)
		return 1, err
	}

	pool.Start()
	log.Info("s3mockd is serving", logger.Fields{"root": settings.Root, "httpPort": settings.HTTPPort, "httpsPort": settings.HTTPSPort})

	<-ctx.Done()

	log.Info("shutting down", nil)
	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := pool.Stop(stopCtx); err != nil {
		log.Error("error during shutdown", nil, err)
	}

	if !settings.RetainFilesOnExit {
		if err := os.RemoveAll(settings.Root); err != nil {
			log.Error("failed to remove root directory on exit", logger.Fields{"root": settings.Root}, err)
		}
	}

	return 0, nil
}
