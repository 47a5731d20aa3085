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

package commonmark

// WalkStatus is returned by a [Visitor] to control a [Walk].
type WalkStatus int

const (
	// WalkContinue proceeds with the traversal.
	WalkContinue WalkStatus = iota
	// WalkSkipChildren proceeds without descending into the
	// current node's children.
	WalkSkipChildren
	// WalkStop ends the traversal immediately.
	WalkStop
)

// A Visitor is called twice per node during a [Walk]:
// once entering the node, before its children,
// and once leaving it.
// The entering call's status controls descent;
// WalkSkipChildren on the leaving call is treated as WalkContinue.
type Visitor func(inline *Inline, entering bool) WalkStatus

// Walk traverses the tree rooted at inline in depth-first order.
func Walk(inline *Inline, visitor Visitor) {
	walk(inline, visitor)
}

func walk(inline *Inline, visitor Visitor) WalkStatus {
	status := visitor(inline, true)
	if status == WalkStop {
		return WalkStop
	}
	if status != WalkSkipChildren {
		for c := inline.FirstChild(); c != nil; c = c.NextSibling() {
			if walk(c, visitor) == WalkStop {
				return WalkStop
			}
		}
	}
	if visitor(inline, false) == WalkStop {
		return WalkStop
	}
	return WalkContinue
}
