// Copyright 2025 Garrett Albright
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package commonmark_test

import (
	"os"

	"github.com/GarrettAlbright/commonmark"
)

func Example() {
	parser := commonmark.NewInlineParser()
	refs := make(commonmark.ReferenceMap)
	refs.Define("commonmark", commonmark.LinkDefinition{Destination: "https://commonmark.org/"})

	root := parser.Parse([]byte("Visit *[CommonMark][commonmark]*!"), refs)
	commonmark.RenderHTML(os.Stdout, root)
	// Output:
	// Visit <em><a href="https://commonmark.org/">CommonMark</a></em>!
}

func ExampleWalk() {
	parser := commonmark.NewInlineParser()
	root := parser.Parse([]byte("plain [linked](/url) `code`"), nil)

	commonmark.Walk(root, func(inline *commonmark.Inline, entering bool) commonmark.WalkStatus {
		if entering && inline.Kind() == commonmark.LinkKind {
			os.Stdout.WriteString(inline.Destination() + "\n")
		}
		return commonmark.WalkContinue
	})
	// Output:
	// /url
}
