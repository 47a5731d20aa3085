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

import (
	"fmt"
	"sync"
)

// InlineKind is an enumeration of values returned by [*Inline.Kind].
// Beyond the built-in kinds,
// extensions may mint their own kinds with [NewInlineKind].
type InlineKind uint16

const (
	// RootKind is the container node returned by [*InlineParser.Parse],
	// holding one block's inline content as its children.
	RootKind InlineKind = 1 + iota
	TextKind
	SoftLineBreakKind
	HardLineBreakKind
	CodeSpanKind
	EmphasisKind
	StrongKind
	LinkKind
	ImageKind
)

var inlineKinds = struct {
	mu    sync.Mutex
	names []string
}{
	names: []string{
		"",
		"Root",
		"Text",
		"SoftLineBreak",
		"HardLineBreak",
		"CodeSpan",
		"Emphasis",
		"Strong",
		"Link",
		"Image",
	},
}

// NewInlineKind registers a new node kind with the given name
// and returns its value.
// It is intended to be called during package initialization or
// while an extension environment is being built,
// never during parsing.
func NewInlineKind(name string) InlineKind {
	inlineKinds.mu.Lock()
	defer inlineKinds.mu.Unlock()
	inlineKinds.names = append(inlineKinds.names, name)
	return InlineKind(len(inlineKinds.names) - 1)
}

// String returns the name the kind was registered with.
func (kind InlineKind) String() string {
	inlineKinds.mu.Lock()
	defer inlineKinds.mu.Unlock()
	if int(kind) < len(inlineKinds.names) && kind != 0 {
		return inlineKinds.names[kind]
	}
	return fmt.Sprintf("InlineKind(%d)", uint16(kind))
}

// ExtensionData is arbitrary payload attached to an extension-defined
// inline node.
// Payloads advertise behavior to the engine and the renderer
// by implementing capability interfaces like [LinkUnwrapper].
type ExtensionData interface{}

// LinkUnwrapper is the capability implemented by extension payloads
// whose nodes must degrade to literal text
// when they end up inside a resolved [link] or image description,
// like an autolinked mention.
//
// [link]: https://spec.commonmark.org/0.30/#links
type LinkUnwrapper interface {
	UnwrapText() []byte
}

// Inline represents CommonMark content elements like text, links, or emphasis.
// Inlines form a tree:
// every node holds its parent, its siblings, and its children
// and can be relinked in constant time.
type Inline struct {
	kind       InlineKind
	parent     *Inline
	firstChild *Inline
	lastChild  *Inline
	prev       *Inline
	next       *Inline

	literal []byte
	dest    string
	title   string
	ext     ExtensionData
}

// NewInline returns a new unattached node of the given kind.
func NewInline(kind InlineKind) *Inline {
	return &Inline{kind: kind}
}

// NewText returns a new unattached [TextKind] node with the given literal.
func NewText(literal []byte) *Inline {
	return &Inline{kind: TextKind, literal: literal}
}

// Kind returns the type of inline node
// or zero if the node is nil.
func (inline *Inline) Kind() InlineKind {
	if inline == nil {
		return 0
	}
	return inline.kind
}

// Parent returns the node this node is a child of, if any.
func (inline *Inline) Parent() *Inline {
	if inline == nil {
		return nil
	}
	return inline.parent
}

// FirstChild returns the first child of the node, if any.
func (inline *Inline) FirstChild() *Inline {
	if inline == nil {
		return nil
	}
	return inline.firstChild
}

// LastChild returns the last child of the node, if any.
func (inline *Inline) LastChild() *Inline {
	if inline == nil {
		return nil
	}
	return inline.lastChild
}

// PrevSibling returns the node immediately before this one
// under the same parent, if any.
func (inline *Inline) PrevSibling() *Inline {
	if inline == nil {
		return nil
	}
	return inline.prev
}

// NextSibling returns the node immediately after this one
// under the same parent, if any.
func (inline *Inline) NextSibling() *Inline {
	if inline == nil {
		return nil
	}
	return inline.next
}

// ChildCount returns the number of children the node has.
// Calling ChildCount on nil returns 0.
func (inline *Inline) ChildCount() int {
	n := 0
	for c := inline.FirstChild(); c != nil; c = c.next {
		n++
	}
	return n
}

// Literal returns the node's text content.
// For [TextKind] and [CodeSpanKind] this is the rendered text;
// for [ImageKind] it is the flattened image description.
func (inline *Inline) Literal() []byte {
	if inline == nil {
		return nil
	}
	return inline.literal
}

// SetLiteral replaces the node's text content.
func (inline *Inline) SetLiteral(literal []byte) {
	inline.literal = literal
}

// Destination returns the node's link destination,
// or the empty string if the node does not carry one.
func (inline *Inline) Destination() string {
	if inline == nil {
		return ""
	}
	return inline.dest
}

// SetDestination replaces the node's link destination.
func (inline *Inline) SetDestination(dest string) {
	inline.dest = dest
}

// Title returns the node's link title,
// or the empty string if the node does not carry one.
func (inline *Inline) Title() string {
	if inline == nil {
		return ""
	}
	return inline.title
}

// SetTitle replaces the node's link title.
func (inline *Inline) SetTitle(title string) {
	inline.title = title
}

// Data returns the extension payload attached to the node, if any.
func (inline *Inline) Data() ExtensionData {
	if inline == nil {
		return nil
	}
	return inline.ext
}

// SetData attaches an extension payload to the node.
func (inline *Inline) SetData(data ExtensionData) {
	inline.ext = data
}

// TextContent returns the concatenated literal text of the node's subtree.
// Line breaks contribute a newline
// and images contribute their flattened description.
func (inline *Inline) TextContent() []byte {
	return inline.appendTextContent(nil)
}

func (inline *Inline) appendTextContent(dst []byte) []byte {
	switch inline.Kind() {
	case 0:
		return dst
	case SoftLineBreakKind, HardLineBreakKind:
		return append(dst, '\n')
	case TextKind, CodeSpanKind, ImageKind:
		return append(dst, inline.literal...)
	}
	if inline.firstChild == nil {
		return append(dst, inline.literal...)
	}
	for c := inline.firstChild; c != nil; c = c.next {
		dst = c.appendTextContent(dst)
	}
	return dst
}

// Unlink detaches the node from its parent and siblings.
// Both directions of every severed link are updated
// before Unlink returns.
func (inline *Inline) Unlink() {
	if inline.prev != nil {
		inline.prev.next = inline.next
	} else if inline.parent != nil {
		inline.parent.firstChild = inline.next
	}
	if inline.next != nil {
		inline.next.prev = inline.prev
	} else if inline.parent != nil {
		inline.parent.lastChild = inline.prev
	}
	inline.parent = nil
	inline.prev = nil
	inline.next = nil
}

// AppendChild detaches child from its current position
// and adds it as the node's last child.
func (inline *Inline) AppendChild(child *Inline) {
	child.Unlink()
	child.parent = inline
	if inline.lastChild != nil {
		inline.lastChild.next = child
		child.prev = inline.lastChild
	} else {
		inline.firstChild = child
	}
	inline.lastChild = child
}

// InsertBefore detaches sibling from its current position
// and inserts it immediately before the node under the same parent.
func (inline *Inline) InsertBefore(sibling *Inline) {
	sibling.Unlink()
	sibling.parent = inline.parent
	sibling.next = inline
	sibling.prev = inline.prev
	if inline.prev != nil {
		inline.prev.next = sibling
	} else if inline.parent != nil {
		inline.parent.firstChild = sibling
	}
	inline.prev = sibling
}

// InsertAfter detaches sibling from its current position
// and inserts it immediately after the node under the same parent.
func (inline *Inline) InsertAfter(sibling *Inline) {
	sibling.Unlink()
	sibling.parent = inline.parent
	sibling.prev = inline
	sibling.next = inline.next
	if inline.next != nil {
		inline.next.prev = sibling
	} else if inline.parent != nil {
		inline.parent.lastChild = sibling
	}
	inline.next = sibling
}

// ReplaceWith inserts repl at the node's position in the tree
// and detaches the node.
// The node's children are not moved.
func (inline *Inline) ReplaceWith(repl *Inline) {
	inline.InsertBefore(repl)
	inline.Unlink()
}
