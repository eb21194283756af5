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

package router

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"hostmux.dev/router/compiler"
)

func TestContext_NextRunsMiddlewareThenHandlerOnce(t *testing.T) {
	t.Parallel()
	var order []string
	c := acquireContext()
	defer releaseContext(c)

	c.Response = newResponse()
	c.middleware = []*compiler.MiddlewareRef{
		{Name: "one", Fn: MiddlewareFunc(func(ctx *Context) {
			order = append(order, "one")
			ctx.Next()
		})},
		{Name: "two", Fn: MiddlewareFunc(func(ctx *Context) {
			order = append(order, "two")
			ctx.Next()
		})},
	}
	c.handler = func(ctx *Context) any {
		order = append(order, "handler")
		return nil
	}
	c.index = -1
	c.Next()

	assert.Equal(t, []string{"one", "two", "handler"}, order)
}

func TestContext_HandlerReturningResponseValueTakesEffect(t *testing.T) {
	t.Parallel()
	c := acquireContext()
	defer releaseContext(c)

	c.Response = newResponse()
	c.handler = func(ctx *Context) any {
		out := newResponse()
		out.SetStatus(http.StatusTeapot)
		out.Body = []byte("i'm a teapot")
		return out
	}
	c.index = -1
	c.Next()

	assert.Equal(t, http.StatusTeapot, c.Response.Status)
	assert.Equal(t, "i'm a teapot", string(c.Response.Body))
}

func TestContext_HandlerReturningResponseStructValueTakesEffect(t *testing.T) {
	t.Parallel()
	c := acquireContext()
	defer releaseContext(c)

	c.Response = newResponse()
	c.handler = func(ctx *Context) any {
		return Response{Status: http.StatusAccepted, Headers: make(http.Header), Body: []byte("queued")}
	}
	c.index = -1
	c.Next()

	assert.Equal(t, http.StatusAccepted, c.Response.Status)
	assert.Equal(t, "queued", string(c.Response.Body))
}

func TestContext_AbortStopsChainEvenIfNextCalledAfter(t *testing.T) {
	t.Parallel()
	var ranHandler bool
	c := acquireContext()
	defer releaseContext(c)

	c.Response = newResponse()
	c.middleware = []*compiler.MiddlewareRef{
		{Name: "deny", Fn: MiddlewareFunc(func(ctx *Context) {
			ctx.Abort()
			ctx.Next() // must be a no-op once aborted
		})},
	}
	c.handler = func(ctx *Context) any {
		ranHandler = true
		return nil
	}
	c.index = -1
	c.Next()

	assert.True(t, c.IsAborted())
	assert.False(t, ranHandler)
}

func TestContext_DispatchSetsAndClearsAmbientSlots(t *testing.T) {
	t.Parallel()
	var domainDuringHandler, localeDuringHandler string
	c := acquireContext()
	defer releaseContext(c)

	c.Response = newResponse()
	c.handler = func(ctx *Context) any {
		domainDuringHandler = ctx.Domain()
		localeDuringHandler = ctx.Locale()
		return nil
	}
	c.dispatch("shop.example.com", "fr")

	assert.Equal(t, "shop.example.com", domainDuringHandler)
	assert.Equal(t, "fr", localeDuringHandler)
	assert.Empty(t, c.Domain())
	assert.Empty(t, c.Locale())
}

func TestContext_DispatchClearsAmbientSlotsEvenOnPanic(t *testing.T) {
	t.Parallel()
	c := acquireContext()
	defer releaseContext(c)

	c.Response = newResponse()
	c.handler = func(ctx *Context) any { panic("boom") }

	assert.Panics(t, func() { c.dispatch("shop.example.com", "") })
	assert.Empty(t, c.Domain())
}

func TestContext_WithDomainRestoresPreviousValueOnExit(t *testing.T) {
	t.Parallel()
	c := acquireContext()
	defer releaseContext(c)

	c.setAmbient("outer.example.com", "")
	var insideDomain string
	c.WithDomain("inner.example.com", func() {
		insideDomain = c.Domain()
	})

	assert.Equal(t, "inner.example.com", insideDomain)
	assert.Equal(t, "outer.example.com", c.Domain())
}

func TestContext_WithDomainRestoresOnPanic(t *testing.T) {
	t.Parallel()
	c := acquireContext()
	defer releaseContext(c)

	c.setAmbient("outer.example.com", "")
	assert.Panics(t, func() {
		c.WithDomain("inner.example.com", func() { panic("boom") })
	})
	assert.Equal(t, "outer.example.com", c.Domain())
}

func TestContextPool_ReleaseResetsEveryField(t *testing.T) {
	t.Parallel()
	c := acquireContext()
	c.Response = newResponse()
	c.domain = "x"
	c.locale = "y"
	c.routeName = "z"
	c.params = map[string]string{"a": "b"}
	c.aborted = true
	c.index = 3

	releaseContext(c)

	c2 := acquireContext()
	defer releaseContext(c2)
	assert.Nil(t, c2.Response)
	assert.Empty(t, c2.domain)
	assert.Empty(t, c2.locale)
	assert.Empty(t, c2.routeName)
	assert.Nil(t, c2.params)
	assert.False(t, c2.aborted)
	assert.Equal(t, -1, c2.index)
}
