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

package config_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"

	"github.com/sabouaram/s3mockd/config"
)

func newBoundCommand() (*spfcbr.Command, *spfvpr.Viper) {
	cmd := &spfcbr.Command{Use: "s3mockd"}
	vpr := spfvpr.New()
	Expect(config.RegisterFlags(cmd, vpr)).To(Succeed())
	return cmd, vpr
}

var _ = Describe("config", func() {
	It("defaults an empty root to a fresh temp directory", func() {
		_, vpr := newBoundCommand()

		s := config.Load(vpr)
		Expect(s.Root).NotTo(BeEmpty())
		Expect(strings.HasPrefix(filepath.Base(s.Root), "s3mockFileStore")).To(BeTrue())
		Expect(s.Region).To(Equal("us-east-1"))
		Expect(s.LogLevel).To(Equal("info"))
	})

	It("reads explicit flag values instead of defaults", func() {
		cmd, vpr := newBoundCommand()
		Expect(cmd.Flags().Set("root", "/srv/s3mockd")).To(Succeed())
		Expect(cmd.Flags().Set("initial-buckets", "alpha,beta")).To(Succeed())
		Expect(cmd.Flags().Set("valid-kms-keys", "key-a")).To(Succeed())
		Expect(cmd.Flags().Set("http-port", "19090")).To(Succeed())
		Expect(cmd.Flags().Set("retain-files-on-exit", "true")).To(Succeed())

		s := config.Load(vpr)
		Expect(s.Root).To(Equal("/srv/s3mockd"))
		Expect(s.InitialBuckets).To(Equal([]string{"alpha", "beta"}))
		Expect(s.ValidKmsKeys).To(Equal([]string{"key-a"}))
		Expect(s.HTTPPort).To(Equal(19090))
		Expect(s.RetainFilesOnExit).To(BeTrue())
	})

	It("is a no-op when no config file backs the viper instance", func() {
		_, vpr := newBoundCommand()
		called := false
		config.Watch(vpr, func(config.Settings) { called = true })
		Expect(called).To(BeFalse())
	})

	It("re-reads settings when the bound config file changes", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "s3mockd.yaml")
		Expect(os.WriteFile(path, []byte("valid-kms-keys:\n  - key-a\n"), 0o644)).To(Succeed())

		_, vpr := newBoundCommand()
		vpr.SetConfigFile(path)
		Expect(vpr.ReadInConfig()).To(Succeed())

		seen := make(chan config.Settings, 1)
		config.Watch(vpr, func(s config.Settings) { seen <- s })

		Expect(os.WriteFile(path, []byte("valid-kms-keys:\n  - key-a\n  - key-b\n"), 0o644)).To(Succeed())

		Eventually(seen).Should(Receive(WithTransform(func(s config.Settings) []string {
			return s.ValidKmsKeys
		}, Equal([]string{"key-a", "key-b"}))))
	})
})
