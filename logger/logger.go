/*
 * MIT License
 *
 * Copyright (c) 2021 Nicolas JUHEL
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
 */

package logger

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"
	"time"

	"github.com/sirupsen/logrus"
)

type logger struct {
	mu  sync.Mutex
	err *logrus.Logger
	acc *fileAppender
	tpl *template.Template
}

// New builds a Logger from the error_log / access_log / access_log_format
// triplet of the configuration. A malformed access log template falls back
// to DefaultAccessLogFormat so the server never refuses to start over a
// cosmetic logging detail.
func New(cfg Config) Logger {
	l := &logger{
		err: logrus.New(),
		acc: newFileAppender(cfg.AccessLogPath),
	}

	l.err.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.err.SetOutput(newFileAppender(cfg.ErrorLogPath))
	l.err.SetLevel(logrus.InfoLevel)

	format := cfg.AccessLogFormat
	if format == "" {
		format = DefaultAccessLogFormat
	}

	tpl, err := template.New("access_log").Parse(format)
	if err != nil {
		tpl, _ = template.New("access_log").Parse(DefaultAccessLogFormat)
	}
	l.tpl = tpl

	return l
}

func (l *logger) Access(e AccessEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var buf bytes.Buffer

	view := struct {
		RemoteAddr string
		RemoteUser string
		TimeLocal  string
		Method     string
		Status     int
		BytesSent  string
	}{
		RemoteAddr: e.RemoteAddr,
		RemoteUser: e.RemoteUser,
		TimeLocal:  e.TimeLocal.Format("02/Jan/2006:15:04:05 -0700"),
		Method:     fmt.Sprintf("%-5s", e.Method),
		Status:     e.Status,
		BytesSent:  fmt.Sprintf("%8.3f", float64(e.BytesSent)/1000.0),
	}

	if err := l.tpl.Execute(&buf, view); err != nil {
		return
	}

	buf.WriteByte('\n')
	_, _ = l.acc.Write(buf.Bytes())
}

func (l *logger) Error(funcName, file string, line int, err error) {
	if err == nil {
		return
	}

	l.err.WithFields(logrus.Fields{
		"func": funcName,
		"file": file,
		"line": line,
		"time": time.Now().Format("02-01-2006 15:04:05"),
	}).Error(err.Error())
}

func (l *logger) Errorf(funcName, file string, line int, pattern string, args ...any) {
	l.Error(funcName, file, line, fmt.Errorf(pattern, args...))
}

func (l *logger) Close() error {
	return nil
}
