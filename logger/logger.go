/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the interface every package in this module logs through.
type Logger interface {
	SetLevel(lvl Level)
	Entry(lvl Level, message string) Entry
	Debug(message string, fields Fields)
	Info(message string, fields Fields)
	Warning(message string, fields Fields)
	Error(message string, fields Fields, err error)
}

// Fields is structured context attached to a log entry, mirroring the
// teacher's logger/fields package in shape (a simple string-keyed map).
type Fields map[string]interface{}

type logger struct {
	l *logrus.Logger
}

// New returns a Logger writing to stderr in text format, matching the
// teacher's default hookstderr sink.
func New(lvl Level) Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(lvl.logrus())
	return &logger{l: l}
}

func (g *logger) SetLevel(lvl Level) {
	g.l.SetLevel(lvl.logrus())
}

func (g *logger) Entry(lvl Level, message string) Entry {
	return &entry{g: g.l, lvl: lvl, message: message, fields: Fields{}}
}

func (g *logger) Debug(message string, fields Fields) {
	g.Entry(DebugLevel, message).Data(fields).Log()
}

func (g *logger) Info(message string, fields Fields) {
	g.Entry(InfoLevel, message).Data(fields).Log()
}

func (g *logger) Warning(message string, fields Fields) {
	g.Entry(WarnLevel, message).Data(fields).Log()
}

func (g *logger) Error(message string, fields Fields, err error) {
	g.Entry(ErrorLevel, message).Data(fields).ErrorAdd(err).Log()
}

// Entry is a fluent builder mirroring nabbar/golib/logger/entry.Entry,
// trimmed to the fields this module actually populates.
type Entry interface {
	Data(fields Fields) Entry
	ErrorAdd(err error) Entry
	Log()
}

type entry struct {
	g       *logrus.Logger
	lvl     Level
	message string
	fields  Fields
	err     error
}

func (e *entry) Data(fields Fields) Entry {
	for k, v := range fields {
		e.fields[k] = v
	}
	return e
}

func (e *entry) ErrorAdd(err error) Entry {
	if err != nil {
		e.err = err
	}
	return e
}

func (e *entry) Log() {
	f := logrus.Fields{}
	for k, v := range e.fields {
		f[k] = v
	}
	if e.err != nil {
		f["error"] = e.err.Error()
	}
	e.g.WithFields(f).Log(e.lvl.logrus(), e.message)
}
