// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package recovery

import (
	"log"
	"net/http"
	"runtime"

	"hostmux.dev/router"
)

// Option defines functional options for recovery middleware configuration.
type Option func(*config)

// config holds the configuration for the recovery middleware.
type config struct {
	stackTrace      bool
	stackSize       int
	logger          func(c *router.Context, err any, stack []byte)
	handler         func(c *router.Context, err any)
	disableStackAll bool
}

func defaultConfig() *config {
	return &config{
		stackTrace:      true,
		stackSize:       4 << 10,
		disableStackAll: true,
		logger:          defaultLogger,
		handler:         defaultHandler,
	}
}

func defaultLogger(_ *router.Context, err any, stack []byte) {
	log.Printf("[Recovery] panic recovered:\n%v\n%s", err, stack)
}

func defaultHandler(c *router.Context, _ any) {
	c.Response.JSON(http.StatusInternalServerError, map[string]any{
		"error": "Internal server error",
		"code":  "INTERNAL_ERROR",
	})
}

// New returns a middleware that recovers from panics in request
// handlers. It logs the panic, optionally captures a stack trace, and
// writes a 500 response via the configured handler.
//
// This middleware runs as the pipeline's own recovery layer; the
// Router's own top-level recover (router.go's runWithRecovery) is a
// last-resort backstop for panics this middleware never got a chance to
// catch (e.g. a panic in a middleware registered before it).
//
// Basic usage:
//
//	r.RegisterMiddleware("recovery", recovery.New())
//
// With custom configuration:
//
//	r.RegisterMiddleware("recovery", recovery.New(
//	    recovery.WithStackTrace(true),
//	    recovery.WithStackSize(8<<10),
//	    recovery.WithLogger(customLogger),
//	))
func New(opts ...Option) router.MiddlewareFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *router.Context) {
		defer func() {
			if err := recover(); err != nil {
				var stack []byte
				if cfg.stackTrace {
					buf := make([]byte, cfg.stackSize)
					stack = buf[:runtime.Stack(buf, !cfg.disableStackAll)]
				}
				if cfg.logger != nil {
					cfg.logger(c, err, stack)
				}
				if cfg.handler != nil {
					cfg.handler(c, err)
				}
				c.Abort()
			}
		}()

		c.Next()
	}
}
