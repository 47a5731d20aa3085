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

// A Delimiter is a [delimiter stack] entry:
// one potential emphasis or bracket marker
// awaiting confirmation by the emphasis processor
// or the bracket resolver.
//
// [delimiter stack]: https://spec.commonmark.org/0.30/#delimiter-stack
type Delimiter struct {
	char           byte
	length         int
	originalLength int
	node           *Inline
	index          int
	active         bool
	canOpen        bool
	canClose       bool

	prev *Delimiter
	next *Delimiter
}

// Char returns the delimiter's trigger character.
// A bracket opened by "![" reports '!'.
func (d *Delimiter) Char() byte {
	return d.char
}

// Length returns the number of delimiter characters not yet consumed
// by pairing.
func (d *Delimiter) Length() int {
	return d.length
}

// OriginalLength returns the length of the delimiter run as scanned,
// which the rule-of-three check depends on.
func (d *Delimiter) OriginalLength() int {
	return d.originalLength
}

// Node returns the placeholder text node holding the delimiter's
// characters.
func (d *Delimiter) Node() *Inline {
	return d.node
}

// CanOpen reports whether the delimiter run may open a construct
// per the flanking rules.
func (d *Delimiter) CanOpen() bool {
	return d.canOpen
}

// CanClose reports whether the delimiter run may close a construct
// per the flanking rules.
func (d *Delimiter) CanClose() bool {
	return d.canClose
}

// Active reports whether the delimiter is still eligible for matching.
// Once cleared the flag is never set again.
func (d *Delimiter) Active() bool {
	return d.active
}

// delimiterStack is an ordered, doubly linked list of delimiters
// in scan order, bottom to top.
type delimiterStack struct {
	bottom *Delimiter
	top    *Delimiter
}

// push appends d at the top of the stack.
func (s *delimiterStack) push(d *Delimiter) {
	d.prev = s.top
	d.next = nil
	if s.top != nil {
		s.top.next = d
	} else {
		s.bottom = d
	}
	s.top = d
}

// searchByCharacter scans backward from the top of the stack
// for the nearest delimiter whose trigger character is in chars.
// It returns nil if there is none.
func (s *delimiterStack) searchByCharacter(chars ...byte) *Delimiter {
	for d := s.top; d != nil; d = d.prev {
		for _, c := range chars {
			if d.char == c {
				return d
			}
		}
	}
	return nil
}

// remove unlinks d from the stack.
// The node tree is left untouched.
func (s *delimiterStack) remove(d *Delimiter) {
	if d.prev != nil {
		d.prev.next = d.next
	} else {
		s.bottom = d.next
	}
	if d.next != nil {
		d.next.prev = d.prev
	} else {
		s.top = d.prev
	}
	d.prev = nil
	d.next = nil
}

// removeEarlierMatches deactivates every still-active delimiter
// with the given trigger character.
// The bracket resolver calls it after a link resolves,
// since links may not contain other links.
func (s *delimiterStack) removeEarlierMatches(char byte) {
	for d := s.top; d != nil; d = d.prev {
		if d.char == char && d.active {
			d.active = false
		}
	}
}

// removeAll drops every delimiter above the given stack position.
// Passing nil empties the stack.
func (s *delimiterStack) removeAll(after *Delimiter) {
	for s.top != nil && s.top != after {
		s.remove(s.top)
	}
}
