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

import "net/http"

// Adapter lets transports other than net/http (an in-memory test driver,
// an RPC gateway, a queue consumer replaying recorded requests) drive the
// same compiled Router without depending on http.ResponseWriter (§7). An
// Adapter is responsible for producing a *http.Request the matcher can
// read Host/Method/Path/headers from, and for doing whatever it wants
// with the finished *Response.
type Adapter interface {
	Dispatch(req *http.Request) *Response
}

// RouterAdapter drives a Router directly, bypassing ServeHTTP's
// http.ResponseWriter plumbing entirely — useful for adapters that only
// need the buffered Response value (testadapter uses this).
type RouterAdapter struct {
	Router *Router
}

// Dispatch matches and runs req against the adapter's Router and returns
// the finished, buffered Response without ever touching an
// http.ResponseWriter.
func (a *RouterAdapter) Dispatch(req *http.Request) *Response {
	rec := &bufferingResponseWriter{}
	a.Router.ServeHTTP(rec, req)
	if rec.resp == nil {
		// ServeHTTP always calls WriteHeader via writeResponse, but guard
		// against a nil Response (e.g. a handler that never writes) so
		// callers never have to nil-check.
		rec.WriteHeader(http.StatusOK)
	}
	return rec.resp
}

// bufferingResponseWriter captures what ServeHTTP/writeResponse would
// have sent to a live connection, for Adapters that want the Response
// value itself rather than bytes on a socket.
type bufferingResponseWriter struct {
	resp    *Response
	header  http.Header
	status  int
	written bool
}

func (b *bufferingResponseWriter) Header() http.Header {
	if b.header == nil {
		b.header = make(http.Header)
	}
	return b.header
}

func (b *bufferingResponseWriter) WriteHeader(status int) {
	if !b.written {
		b.status = status
		b.written = true
		b.resp = &Response{Status: status, Headers: b.Header()}
	}
}

func (b *bufferingResponseWriter) Write(p []byte) (int, error) {
	if !b.written {
		b.WriteHeader(http.StatusOK)
	}
	b.resp.Body = append(b.resp.Body, p...)
	return len(p), nil
}

// writeResponse writes a fully-buffered Response out through a live
// http.ResponseWriter in one shot: headers, then status line, then body.
// This is the one place the buffered Response model rejoins net/http's
// streaming ResponseWriter contract.
func writeResponse(w http.ResponseWriter, resp *Response) {
	header := w.Header()
	for k, vs := range resp.Headers {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}
