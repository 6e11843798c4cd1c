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

package config

import (
	"regexp"
	"strings"
	"sync"
)

// Redirection is one configured {source, target} rewrite rule.
type Redirection struct {
	Source string `mapstructure:"source" json:"source" yaml:"source" toml:"source" validate:"required"`
	Target string `mapstructure:"target" json:"target" yaml:"target" toml:"target" validate:"required"`
}

// VirtualServer is the policy + routing descriptor for one configured host.
type VirtualServer struct {
	Name              string        `mapstructure:"-" json:"-" yaml:"-" toml:"-"`
	IPAddr            string        `mapstructure:"ip_addr" json:"ip_addr" yaml:"ip_addr" toml:"ip_addr" validate:"required,ip4"`
	Hostname          string        `mapstructure:"hostname" json:"hostname" yaml:"hostname" toml:"hostname"`
	Ports             []uint16      `mapstructure:"ports" json:"ports" yaml:"ports" toml:"ports" validate:"required,min=1"`
	RootDirectory     string        `mapstructure:"root_directory" json:"root_directory" yaml:"root_directory" toml:"root_directory" validate:"required"`
	ErrorPath         string        `mapstructure:"error_path" json:"error_path" yaml:"error_path" toml:"error_path" validate:"required"`
	DefaultFile       string        `mapstructure:"default_file" json:"default_file" yaml:"default_file" toml:"default_file" validate:"required"`
	UploadLimit       int64         `mapstructure:"upload_limit" json:"upload_limit" yaml:"upload_limit" toml:"upload_limit"`
	AcceptedMethods   []string      `mapstructure:"accepted_methods" json:"accepted_methods" yaml:"accepted_methods" toml:"accepted_methods" validate:"required,min=1"`
	DirectoryListing  bool          `mapstructure:"directory_listing" json:"directory_listing" yaml:"directory_listing" toml:"directory_listing"`
	Redirections      []Redirection `mapstructure:"redirections" json:"redirections" yaml:"redirections" toml:"redirections"`
	Exclusion         []string      `mapstructure:"exclusion" json:"exclusion" yaml:"exclusion" toml:"exclusion"`

	exclusionOnce sync.Once
	exclusionRe   *regexp.Regexp
}

// AcceptsMethod reports whether the method is configured, case-insensitively.
func (v *VirtualServer) AcceptsMethod(method string) bool {
	for _, m := range v.AcceptedMethods {
		if strings.EqualFold(m, method) {
			return true
		}
	}

	return false
}

// MatchesHost reports whether this virtual server handles the given
// Host/port pair: the host must match either ip_addr or hostname, and the
// port must be one of the configured listening ports.
func (v *VirtualServer) MatchesHost(host string, port uint16) bool {
	if host != v.IPAddr && host != v.Hostname {
		return false
	}

	for _, p := range v.Ports {
		if p == port {
			return true
		}
	}

	return false
}

// RedirectionFor returns the configured target for a source location, and
// whether that target is itself the source of another redirection — the
// caller uses the second flag to refuse a chained redirect outright.
func (v *VirtualServer) RedirectionFor(location string) (target string, ok bool, loop bool) {
	for _, r := range v.Redirections {
		if r.Source == location {
			ok = true
			target = r.Target
			break
		}
	}

	if !ok {
		return "", false, false
	}

	for _, r := range v.Redirections {
		if r.Source == target {
			return target, true, true
		}
	}

	return target, true, false
}

// Excluded reports whether name matches one of the configured exclusion
// patterns. The regex set is compiled once and reused. Applied uniformly to
// files and directories, the stricter of the two behaviors observed in
// comparable servers.
func (v *VirtualServer) Excluded(name string) bool {
	v.exclusionOnce.Do(func() {
		if len(v.Exclusion) == 0 {
			return
		}

		pattern := "(?:" + strings.Join(v.Exclusion, ")|(?:") + ")"
		v.exclusionRe, _ = regexp.Compile(pattern)
	})

	if v.exclusionRe == nil {
		return false
	}

	return v.exclusionRe.MatchString(name)
}
