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
	"encoding/json"
	"net/http"
)

// Response is the pipeline runner's mutable, in-memory response value.
// Unlike the teacher's Context, which wraps http.ResponseWriter and lets
// handlers stream directly to the transport, Response is fully buffered:
// the runner owns it for the request's lifetime and hands the finished
// value to the adapter at termination in one shot. This matches the
// resource discipline in §5 ("no streaming at this layer") and the
// language-neutral Response shape in §6 ({status, headers, body}).
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte

	sent bool
}

// ResponseTriple is the {status, headers, body} form a handler may
// return directly; normalize passes it through unchanged.
type ResponseTriple struct {
	Status  int
	Headers http.Header
	Body    []byte
}

func newResponse() *Response {
	return &Response{Status: http.StatusOK, Headers: make(http.Header)}
}

// SetStatus sets the response status code.
func (r *Response) SetStatus(code int) *Response {
	r.Status = code
	return r
}

// SetHeader sets (replacing any existing value) a response header.
func (r *Response) SetHeader(key, value string) *Response {
	r.Headers.Set(key, value)
	return r
}

// AppendHeader appends a value to an existing response header, or
// creates it if absent. Useful for headers with multiple values such as
// Set-Cookie or Link.
func (r *Response) AppendHeader(key, value string) *Response {
	r.Headers.Add(key, value)
	return r
}

// Write appends raw bytes to the response body, satisfying io.Writer.
func (r *Response) Write(p []byte) (int, error) {
	r.Body = append(r.Body, p...)
	return len(p), nil
}

// WriteString appends a string to the response body.
func (r *Response) WriteString(s string) *Response {
	r.Body = append(r.Body, s...)
	return r
}

// JSON encodes v as the response body with status and
// application/json, matching the handler contract's "mapping becomes a
// JSON-encoded body" rule.
func (r *Response) JSON(status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.Status = status
	r.Headers.Set("Content-Type", "application/json; charset=utf-8")
	r.Body = body
	return nil
}

// Text sets the response body to s with status and text/plain.
func (r *Response) Text(status int, s string) *Response {
	r.Status = status
	r.Headers.Set("Content-Type", "text/plain; charset=utf-8")
	r.Body = []byte(s)
	return r
}

// Redirect sets up a 301/302-class short-circuit response: a Location
// header, the given status, and an empty body, per §4.5/§6.
func (r *Response) Redirect(status int, location string) *Response {
	r.Status = status
	r.Headers.Set("Location", location)
	r.Body = nil
	return r
}
