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

// Config mirrors the `log_files` / `access_log_format` section of the
// program configuration.
type Config struct {
	ErrorLogPath    string `mapstructure:"error_log" json:"error_log" yaml:"error_log" toml:"error_log"`
	AccessLogPath   string `mapstructure:"access_log" json:"access_log" yaml:"access_log" toml:"access_log"`
	AccessLogFormat string `mapstructure:"access_log_format" json:"access_log_format" yaml:"access_log_format" toml:"access_log_format"`
	EventsLimit     int    `mapstructure:"events_limit" json:"events_limit" yaml:"events_limit" toml:"events_limit"`
}

// DefaultAccessLogFormat mirrors a combined-log-style line: remote_addr,
// remote_user, time_local, method, status, bytes_sent.
const DefaultAccessLogFormat = `{{.RemoteAddr}} - {{.RemoteUser}} [{{.TimeLocal}}] "{{.Method}}" {{.Status}} {{.BytesSent}}`
