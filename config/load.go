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
	"fmt"
	"net"

	libval "github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	liberr "github.com/Cheikh-Nakamoto/Localhost/errors"
)

const (
	ErrorConfigRead errorCode = iota + liberr.MinPkgConfig
	ErrorConfigUnmarshal
	ErrorConfigValidate
)

type errorCode = liberr.CodeError

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgConfig, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorConfigRead:
		return "cannot read configuration file"
	case ErrorConfigUnmarshal:
		return "cannot decode configuration into the typed model"
	case ErrorConfigValidate:
		return "configuration failed validation"
	}

	return ""
}

// Load reads the configuration from path (any format viper supports: toml,
// yaml, json) and decodes it into the typed model.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, liberr.New(ErrorConfigRead, "read config", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, liberr.New(ErrorConfigUnmarshal, "unmarshal config", err)
	}

	for name, srv := range cfg.HTTP.Servers {
		srv.Name = name
	}

	return cfg, nil
}

// Validate first drops every virtual server whose ip_addr does not parse as
// IPv4 — such a server is unroutable and is removed rather than treated as
// fatal — and then runs struct-level validation on what remains. It returns
// the names of the servers it dropped so the caller can log them.
func (c *Config) Validate() ([]string, error) {
	dropped := make([]string, 0)

	for name, srv := range c.HTTP.Servers {
		if ip := net.ParseIP(srv.IPAddr); ip == nil || ip.To4() == nil {
			dropped = append(dropped, name)
			delete(c.HTTP.Servers, name)
		}
	}

	validate := libval.New()
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(libval.ValidationErrors); ok {
			e := liberr.New(ErrorConfigValidate, "validate config")
			for _, fe := range verrs {
				e.Add(fmt.Errorf("field %s failed constraint %s", fe.StructNamespace(), fe.ActualTag()))
			}
			return dropped, e
		}

		return dropped, liberr.New(ErrorConfigValidate, "validate config", err)
	}

	return dropped, nil
}
