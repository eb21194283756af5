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

package requestid

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"hostmux.dev/router"
)

type contextKey struct{}

// Option defines functional options for requestid middleware configuration.
type Option func(*config)

// config holds the configuration for the requestid middleware.
type config struct {
	headerName    string
	generator     func() string
	allowClientID bool
}

// defaultConfig returns the default configuration for requestid middleware.
func defaultConfig() *config {
	return &config{
		headerName:    "X-Request-ID",
		generator:     generateUUIDv7,
		allowClientID: true,
	}
}

// generateUUIDv7 generates a UUID v7 string for request IDs.
// UUID v7 is time-ordered and lexicographically sortable (RFC 9562).
func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ulidEntropy is a shared entropy source for ULID generation, giving
// monotonic ordering within the same millisecond across requests.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

// generateULID generates a ULID string for request IDs: time-ordered,
// lexicographically sortable, and a compact 26 characters.
func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// New returns a middleware that adds a unique request ID to each request,
// for distributed tracing and log correlation across the domains a
// single Router serves.
//
// By default, UUID v7 is used. The middleware checks the configured
// header for a client-supplied ID first (when allowed), generates one
// otherwise, and echoes it back in the response header.
//
// Basic usage (UUID v7 by default):
//
//	r.RegisterMiddleware("requestid", requestid.New())
//
// Using ULID (shorter, 26 characters):
//
//	r.RegisterMiddleware("requestid", requestid.New(requestid.WithULID()))
//
// Custom header name:
//
//	r.RegisterMiddleware("requestid", requestid.New(
//	    requestid.WithHeader("X-Correlation-ID"),
//	))
//
// Disable client IDs:
//
//	r.RegisterMiddleware("requestid", requestid.New(
//	    requestid.WithAllowClientID(false),
//	))
//
// Accessing the request ID in handlers:
//
//	func handler(c *router.Context) any {
//	    id := requestid.Get(c)
//	    return map[string]string{"request_id": id}
//	}
func New(opts ...Option) router.MiddlewareFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *router.Context) {
		var requestID string
		if cfg.allowClientID {
			requestID = c.Request.Header.Get(cfg.headerName)
		}
		if requestID == "" {
			requestID = cfg.generator()
		}

		c.Response.Headers.Set(cfg.headerName, requestID)

		ctx := context.WithValue(c.Request.Context(), contextKey{}, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Get retrieves the request ID from the context.
// Returns an empty string if no request ID has been set.
//
// Example:
//
//	func handler(c *router.Context) any {
//	    log.Printf("processing request %s", requestid.Get(c))
//	    return nil
//	}
func Get(c *router.Context) string {
	if requestID, ok := c.Request.Context().Value(contextKey{}).(string); ok {
		return requestID
	}
	return ""
}
