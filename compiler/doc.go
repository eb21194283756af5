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

// Package compiler turns a declarative route specification into a flat,
// ordered table of compiled routes plus a name index for reverse URL
// generation.
//
// A Spec can come from YAML (ParseYAML, preserving key declaration order
// via yaml.Node so locale and middleware merge order is deterministic) or
// be built programmatically with a Builder. Either way Compile runs the
// same depth-first walk: resolve each node's own "use" list against
// inherited middleware, emit a CompiledRoute per method key, recurse into
// path-segment children, and expand localized route defs into one record
// per declared locale.
package compiler
