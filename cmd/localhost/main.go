/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Cheikh-Nakamoto/Localhost/config"
	"github.com/Cheikh-Nakamoto/Localhost/logger"
	"github.com/Cheikh-Nakamoto/Localhost/render"
	"github.com/Cheikh-Nakamoto/Localhost/router"
	"github.com/Cheikh-Nakamoto/Localhost/script"
	"github.com/Cheikh-Nakamoto/Localhost/session"
	"github.com/Cheikh-Nakamoto/Localhost/vhost"
)

var (
	configPath  string
	templateDir string
)

func main() {
	root := &cobra.Command{
		Use:   "localhost",
		Short: "Serve configured virtual hosts over a single-threaded event loop",
		RunE:  run,
	}

	root.Flags().StringVarP(&configPath, "config", "c", "config.toml", "path to the server configuration file")
	root.Flags().StringVar(&templateDir, "templates", "./src/templates", "directory holding the listing/error templates")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	dropped, err := cfg.Validate()
	for _, name := range dropped {
		fmt.Fprintf(os.Stderr, "dropping virtual server %q: invalid ip_addr\n", name)
	}
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		ErrorLogPath:    cfg.LogFiles.ErrorLog,
		AccessLogPath:   cfg.LogFiles.AccessLog,
		AccessLogFormat: cfg.HTTP.AccessLogFormat,
		EventsLimit:     cfg.LogFiles.EventsLimit,
	})
	defer func() { _ = log.Close() }()

	rend := render.New(templateDir)
	runner := script.New(map[string]string{".rb": "ruby"}, 5*time.Second)
	sessions := session.NewStore()

	handlers := make([]*vhost.Handler, 0, len(cfg.HTTP.Servers))
	for _, vs := range cfg.HTTP.Servers {
		handlers = append(handlers, vhost.NewHandler(vs, &cfg.HTTP, log, rend, runner))
	}

	r, err := router.New(handlers, &cfg.HTTP, sessions, log)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	for _, vs := range cfg.HTTP.Servers {
		if err := r.AddServer(vs); err != nil {
			return err
		}
	}

	return r.Run()
}
