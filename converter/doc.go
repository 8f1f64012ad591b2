// Copyright 2026 The Rivaas Authors
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

// Package converter turns request strings into typed model-factory arguments
// and back.
//
// Every route declares its arguments explicitly with [Argument]. The
// pipeline resolves one [Converter] per argument from, in order, an explicit
// converter, an explicit type, or the type of the default value:
//
//	args := []converter.Argument{
//	    converter.Arg("id", 0),               // int converter, default 0
//	    converter.Arg("q", nil),              // string converter
//	    converter.Typed[[]string]("tag"),     // list converter
//	}
//	convs, err := converter.DeriveConverters(args, converter.NewRegistry())
//
// Arguments not consumed by path variables become URL (query) parameters, see
// [SplitParameters].
package converter
