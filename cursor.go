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

import "unicode/utf8"

// A Cursor is a repositionable view over one block's text.
// Speculative parsing takes a snapshot with [Cursor.Save],
// advances freely,
// and rolls back with [Cursor.Restore] on failure;
// restoring a saved state is equivalent to never having advanced past it.
type Cursor struct {
	source []byte
	pos    int
}

// CursorState is a copyable snapshot of a [Cursor]'s position.
type CursorState struct {
	pos int
}

// Position returns the byte offset the snapshot was taken at.
func (state CursorState) Position() int {
	return state.pos
}

// NewCursor returns a cursor positioned at the start of source.
func NewCursor(source []byte) *Cursor {
	return &Cursor{source: source}
}

// Source returns the text the cursor reads from.
// Callers must not modify the returned slice.
func (c *Cursor) Source() []byte {
	return c.source
}

// Position returns the cursor's byte offset from the start of the text.
func (c *Cursor) Position() int {
	return c.pos
}

// Remaining returns the number of bytes left before end of input.
func (c *Cursor) Remaining() int {
	return len(c.source) - c.pos
}

// Current returns the byte at the cursor position,
// or 0 at end of input.
func (c *Cursor) Current() byte {
	return c.Peek(0)
}

// Peek returns the byte at the given offset from the cursor position
// without advancing.
// It returns 0 rather than failing when the offset is out of range.
func (c *Cursor) Peek(offset int) byte {
	i := c.pos + offset
	if i < 0 || i >= len(c.source) {
		return 0
	}
	return c.source[i]
}

// PeekRune decodes the rune at the cursor position.
// At end of input it reports a space,
// which is what the flanking rules treat document boundaries as.
func (c *Cursor) PeekRune() rune {
	if c.pos >= len(c.source) {
		return ' '
	}
	r, _ := utf8.DecodeRune(c.source[c.pos:])
	return r
}

// PrevRune decodes the rune ending just before the cursor position.
// At the start of input it reports a space.
func (c *Cursor) PrevRune() rune {
	if c.pos <= 0 {
		return ' '
	}
	r, _ := utf8.DecodeLastRune(c.source[:c.pos])
	return r
}

// AdvanceBy moves the cursor n bytes forward,
// stopping at end of input.
func (c *Cursor) AdvanceBy(n int) {
	c.pos += n
	if c.pos > len(c.source) {
		c.pos = len(c.source)
	}
}

// AdvanceToNextNonSpaceOrNewline moves the cursor past
// any spaces, tabs, and line endings.
func (c *Cursor) AdvanceToNextNonSpaceOrNewline() {
	for c.pos < len(c.source) {
		switch c.source[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

// Slice returns source text between two byte offsets.
// Callers must not modify the returned slice.
func (c *Cursor) Slice(start, end int) []byte {
	return c.source[start:end]
}

// Save takes a snapshot of the cursor for a later [Cursor.Restore].
func (c *Cursor) Save() CursorState {
	return CursorState{pos: c.pos}
}

// Restore rewinds the cursor to a previously saved state.
func (c *Cursor) Restore(state CursorState) {
	c.pos = state.pos
}
