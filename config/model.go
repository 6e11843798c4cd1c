/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package config is the typed tree the rest of the program is wired from:
// logging knobs, HTTP globals, and the named virtual server table.
package config

// LogFiles holds the global logging knobs.
type LogFiles struct {
	ErrorLog    string `mapstructure:"error_log" json:"error_log" yaml:"error_log" toml:"error_log" validate:"required"`
	AccessLog   string `mapstructure:"access_log" json:"access_log" yaml:"access_log" toml:"access_log" validate:"required"`
	EventsLimit int    `mapstructure:"events_limit" json:"events_limit" yaml:"events_limit" toml:"events_limit" validate:"gt=0"`
}

// HTTP holds the HTTP-wide globals and the virtual server table.
type HTTP struct {
	AccessLogFormat string                    `mapstructure:"access_log_format" json:"access_log_format" yaml:"access_log_format" toml:"access_log_format"`
	Timeout         int                       `mapstructure:"timeout" json:"timeout" yaml:"timeout" toml:"timeout"`
	SizeLimit       int64                     `mapstructure:"size_limit" json:"size_limit" yaml:"size_limit" toml:"size_limit" validate:"gt=0"`
	Servers         map[string]*VirtualServer `mapstructure:"servers" json:"servers" yaml:"servers" toml:"servers" validate:"dive"`
}

// Config is the root of the typed configuration tree.
type Config struct {
	LogFiles LogFiles `mapstructure:"log_files" json:"log_files" yaml:"log_files" toml:"log_files"`
	HTTP     HTTP     `mapstructure:"http" json:"http" yaml:"http" toml:"http"`
}

// SizeLimitBytes converts the configured size_limit (KB) to bytes, as used
// by the oversize gate.
func (h HTTP) SizeLimitBytes() int64 {
	return h.SizeLimit * 1024
}
