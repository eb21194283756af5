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

import "encoding/json"

// HandlerFunc is the terminal callable in a route's pipeline. Its return
// value is normalized into the Context's Response by normalize, per the
// handler contract in §4.3.
type HandlerFunc func(*Context) any

// MiddlewareFunc is a pipeline step. Call c.Next() to advance to the next
// middleware (and eventually the handler); return without calling it
// (optionally after c.Abort()) to halt the chain. This is the
// Go-idiomatic rendering of the language-neutral "return nil vs return a
// value" continuation contract — kept from the teacher's Context.Next()
// chain rather than forcing handlers and middleware into the same
// return-value shape.
type MiddlewareFunc func(*Context)

// normalize converts a handler's return value into the Context's
// Response: a map becomes a JSON body with application/json, a string
// becomes text/plain, a ResponseTriple or *Response passes through, and
// any other value is JSON-encoded as a best-effort mapping.
func normalize(v any, resp *Response) *Response {
	switch val := v.(type) {
	case nil:
		return resp
	case *Response:
		return val
	case Response:
		return &val
	case ResponseTriple:
		resp.Status = val.Status
		for k, vs := range val.Headers {
			for _, vv := range vs {
				resp.Headers.Add(k, vv)
			}
		}
		resp.Body = val.Body
		return resp
	case string:
		resp.Headers.Set("Content-Type", "text/plain; charset=utf-8")
		resp.Body = []byte(val)
		return resp
	case []byte:
		resp.Body = val
		return resp
	default:
		return jsonify(resp, val)
	}
}

func jsonify(resp *Response, v any) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		resp.Status = 500
		resp.Headers.Set("Content-Type", "text/plain; charset=utf-8")
		resp.Body = []byte("failed to encode handler response: " + err.Error())
		return resp
	}
	resp.Headers.Set("Content-Type", "application/json; charset=utf-8")
	resp.Body = body
	return resp
}
