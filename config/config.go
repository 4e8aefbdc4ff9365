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

// Package config binds the emulator's settings to spf13/viper, the way
// nabbar/golib/config's components bind theirs, trimmed to a single flat
// Settings value instead of a dependency-ordered component tree: this
// process has no sub-servers to sequence, only one set of options to
// load once and selectively live-reload.
package config

import (
	"fmt"
	"os"
	"time"

	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"
)

// Settings holds every option spec.md §6 names plus the ambient
// certFile/keyFile/logLevel fields the teacher's own httpserver and
// logger components expect to be configurable.
type Settings struct {
	Root              string
	RetainFilesOnExit bool
	InitialBuckets    []string
	ValidKmsKeys      []string
	Region            string
	HTTPPort          int
	HTTPSPort         int
	CertFile          string
	KeyFile           string
	LogLevel          string
}

// defaultRoot mirrors spec.md's "<tmp>/s3mockFileStore<epoch-ms>" rule
// for an unset root.
func defaultRoot() string {
	return fmt.Sprintf("%s/s3mockFileStore%d", os.TempDir(), time.Now().UnixMilli())
}

// RegisterFlags wires every Settings field onto cmd's flag set and
// binds it into vpr, exactly as nabbar/golib/config.Component.RegisterFlag
// does per-component: the flag is the override, the bound viper key is
// what callers read back after Load.
func RegisterFlags(cmd *spfcbr.Command, vpr *spfvpr.Viper) error {
	flags := cmd.Flags()

	flags.String("root", "", "filesystem root for bucket/object state (default: a fresh temp directory)")
	flags.Bool("retain-files-on-exit", false, "skip removing the root directory on clean shutdown")
	flags.StringSlice("initial-buckets", nil, "bucket names to create empty on startup")
	flags.StringSlice("valid-kms-keys", nil, "symbolic SSE-KMS key ids this instance accepts")
	flags.String("region", "us-east-1", "region label advertised in LocationConstraint responses")
	flags.Int("http-port", 0, "HTTP listener port (0 disables the plain-HTTP listener)")
	flags.Int("https-port", 0, "HTTPS listener port (0 disables the TLS listener)")
	flags.String("cert-file", "", "TLS certificate file for the HTTPS listener (generated in-memory if empty)")
	flags.String("key-file", "", "TLS key file for the HTTPS listener (generated in-memory if empty)")
	flags.String("log-level", "info", "log level: debug, info, warning, error, fatal")

	for _, name := range []string{
		"root", "retain-files-on-exit", "initial-buckets", "valid-kms-keys",
		"region", "http-port", "https-port", "cert-file", "key-file", "log-level",
	} {
		if err := vpr.BindPFlag(name, flags.Lookup(name)); err != nil {
			return err
		}
	}

	return nil
}

// Load reads the bound flags/config-file/env values out of vpr into a
// Settings value, filling in the empty-root default spec.md §6 calls
// for.
func Load(vpr *spfvpr.Viper) Settings {
	s := Settings{
		Root:              vpr.GetString("root"),
		RetainFilesOnExit: vpr.GetBool("retain-files-on-exit"),
		InitialBuckets:    vpr.GetStringSlice("initial-buckets"),
		ValidKmsKeys:      vpr.GetStringSlice("valid-kms-keys"),
		Region:            vpr.GetString("region"),
		HTTPPort:          vpr.GetInt("http-port"),
		HTTPSPort:         vpr.GetInt("https-port"),
		CertFile:          vpr.GetString("cert-file"),
		KeyFile:           vpr.GetString("key-file"),
		LogLevel:          vpr.GetString("log-level"),
	}

	if s.Root == "" {
		s.Root = defaultRoot()
	}

	return s
}
