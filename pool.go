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

import "sync"

// contextPool recycles Context values across requests to keep the hot
// dispatch path allocation-free for the Context itself (the Response's
// body buffer and the params map still allocate per request, same as the
// teacher's pooled-but-not-zero-alloc-everywhere Context).
var contextPool = sync.Pool{
	New: func() any {
		return &Context{index: -1}
	},
}

func acquireContext() *Context {
	ctx, ok := contextPool.Get().(*Context)
	if !ok {
		// Only reachable if something outside this package put a
		// non-Context value into the pool, which can't happen since the
		// pool is unexported.
		panic("router: context pool corruption")
	}
	return ctx
}

func releaseContext(c *Context) {
	c.reset()
	contextPool.Put(c)
}
