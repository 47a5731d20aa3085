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

import "testing"

func TestCursorPeek(t *testing.T) {
	c := NewCursor([]byte("ab"))
	if got := c.Current(); got != 'a' {
		t.Errorf("Current() = %q; want 'a'", got)
	}
	if got := c.Peek(1); got != 'b' {
		t.Errorf("Peek(1) = %q; want 'b'", got)
	}
	if got := c.Peek(2); got != 0 {
		t.Errorf("Peek(2) = %q; want 0", got)
	}
	if got := c.Peek(-1); got != 0 {
		t.Errorf("Peek(-1) = %q; want 0", got)
	}
}

func TestCursorAdvanceClamps(t *testing.T) {
	c := NewCursor([]byte("abc"))
	c.AdvanceBy(10)
	if got := c.Position(); got != 3 {
		t.Errorf("Position() after over-advance = %d; want 3", got)
	}
	if got := c.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d; want 0", got)
	}
	if got := c.Current(); got != 0 {
		t.Errorf("Current() at end = %q; want 0", got)
	}
}

func TestCursorRuneBoundaries(t *testing.T) {
	c := NewCursor([]byte("aé"))
	if got := c.PrevRune(); got != ' ' {
		t.Errorf("PrevRune() at start = %q; want ' '", got)
	}
	c.AdvanceBy(1)
	if got := c.PrevRune(); got != 'a' {
		t.Errorf("PrevRune() = %q; want 'a'", got)
	}
	if got := c.PeekRune(); got != 'é' {
		t.Errorf("PeekRune() = %q; want 'é'", got)
	}
	c.AdvanceBy(2)
	if got := c.PeekRune(); got != ' ' {
		t.Errorf("PeekRune() at end = %q; want ' '", got)
	}
	if got := c.PrevRune(); got != 'é' {
		t.Errorf("PrevRune() at end = %q; want 'é'", got)
	}
}

// Restoring a snapshot must behave as if the intervening advances
// never happened,
// since speculative scans rely on it.
func TestCursorSaveRestore(t *testing.T) {
	c := NewCursor([]byte("hello world"))
	c.AdvanceBy(3)
	state := c.Save()
	if got := state.Position(); got != 3 {
		t.Errorf("Save().Position() = %d; want 3", got)
	}

	c.AdvanceBy(5)
	c.AdvanceToNextNonSpaceOrNewline()
	c.Restore(state)

	if got := c.Position(); got != 3 {
		t.Errorf("Position() after Restore = %d; want 3", got)
	}
	if got := c.Current(); got != 'l' {
		t.Errorf("Current() after Restore = %q; want 'l'", got)
	}
}

func TestCursorAdvanceToNextNonSpaceOrNewline(t *testing.T) {
	c := NewCursor([]byte(" \t\r\n x"))
	c.AdvanceToNextNonSpaceOrNewline()
	if got := c.Current(); got != 'x' {
		t.Errorf("Current() = %q; want 'x'", got)
	}

	c = NewCursor([]byte("   "))
	c.AdvanceToNextNonSpaceOrNewline()
	if got := c.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d; want 0", got)
	}
}
