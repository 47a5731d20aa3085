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
	"unicode"
	"unicode/utf8"
)

// A DelimiterProcessor pairs opening and closing delimiter runs
// of its trigger character into wrapper nodes.
// Processors for '*' and '_' are built in;
// extensions register others with [WithDelimiterProcessor].
type DelimiterProcessor interface {
	// IsDelimiter reports whether b is the processor's trigger character.
	IsDelimiter(b byte) bool
	// CanOpenCloser reports whether the two delimiter runs are
	// compatible beyond the flanking rules,
	// for example run-length restrictions
	// or the emphasis rule of three.
	CanOpenCloser(opener, closer *Delimiter) bool
	// OnMatch returns the wrapper node for a successful pairing
	// consuming the given number of delimiter characters from each side.
	OnMatch(consumed int) *Inline
}

const (
	openerFlag = 1 << iota
	closerFlag
)

// emphasisFlags determines whether the given [delimiter run]
// [can open emphasis] and/or [can close emphasis].
//
// [delimiter run]: https://spec.commonmark.org/0.30/#delimiter-run
// [can open emphasis]: https://spec.commonmark.org/0.30/#can-open-emphasis
// [can close emphasis]: https://spec.commonmark.org/0.30/#can-close-emphasis
func emphasisFlags(source []byte, start, end int) uint8 {
	var flags uint8
	prevChar := ' '
	if start > 0 {
		prevChar, _ = utf8.DecodeLastRune(source[:start])
	}
	nextChar := ' '
	if end < len(source) {
		nextChar, _ = utf8.DecodeRune(source[end:])
	}
	leftFlanking := !isUnicodeWhitespace(nextChar) &&
		(!isUnicodePunctuation(nextChar) || isUnicodeWhitespace(prevChar) || isUnicodePunctuation(prevChar))
	rightFlanking := !isUnicodeWhitespace(prevChar) &&
		(!isUnicodePunctuation(prevChar) || isUnicodeWhitespace(nextChar) || isUnicodePunctuation(nextChar))
	if leftFlanking && (source[start] != '_' || !rightFlanking || isUnicodePunctuation(prevChar)) {
		flags |= openerFlag
	}
	if rightFlanking && (source[start] != '_' || !leftFlanking || isUnicodePunctuation(nextChar)) {
		flags |= closerFlag
	}
	return flags
}

// Flanking reports whether the delimiter run source[start:end]
// can open and/or close a construct per the flanking rules.
// It is exported for extensions that make open/close decisions
// outside the delimiter stack,
// like smart punctuation quotes.
func Flanking(source []byte, start, end int) (canOpen, canClose bool) {
	flags := emphasisFlags(source, start, end)
	return flags&openerFlag != 0, flags&closerFlag != 0
}

// emphasisDelimiterProcessor is the built-in processor for '*' and '_'.
type emphasisDelimiterProcessor struct {
	char byte
}

func (p emphasisDelimiterProcessor) IsDelimiter(b byte) bool {
	return b == p.char
}

// CanOpenCloser enforces rules 9 and 10 of
// [emphasis and strong emphasis]:
// if one of the delimiters can both open and close emphasis,
// the sum of the original run lengths must not be a multiple of three
// unless both lengths are themselves multiples of three.
//
// [emphasis and strong emphasis]: https://spec.commonmark.org/0.30/#emphasis-and-strong-emphasis
func (p emphasisDelimiterProcessor) CanOpenCloser(opener, closer *Delimiter) bool {
	return !(opener.CanClose() || closer.CanOpen()) ||
		(opener.OriginalLength()+closer.OriginalLength())%3 != 0 ||
		(opener.OriginalLength()%3 == 0 && closer.OriginalLength()%3 == 0)
}

func (p emphasisDelimiterProcessor) OnMatch(consumed int) *Inline {
	if consumed >= 2 {
		return NewInline(StrongKind)
	}
	return NewInline(EmphasisKind)
}

// parseDelimiterRun scans a run of the current delimiter character,
// adds its placeholder text node to the tree,
// and pushes a stack entry recording the flanking flags.
func (pc *Context) parseDelimiterRun() {
	source := pc.cursor.Source()
	start := pc.cursor.Position()
	char := source[start]
	end := start + 1
	for end < len(source) && source[end] == char {
		end++
	}

	node := NewText(source[start:end])
	pc.AppendNode(node)
	flags := emphasisFlags(source, start, end)
	pc.delimiters.push(&Delimiter{
		char:           char,
		length:         end - start,
		originalLength: end - start,
		node:           node,
		index:          -1,
		active:         true,
		canOpen:        flags&openerFlag != 0,
		canClose:       flags&closerFlag != 0,
	})
	pc.cursor.AdvanceBy(end - start)
}

// processDelimiters implements the [process emphasis procedure]
// to convert delimiters to emphasis spans,
// generalized over the registered delimiter processors.
// Only delimiters above stackBottom are considered,
// and all of them are off the stack when it returns.
//
// [process emphasis procedure]: https://spec.commonmark.org/0.30/#process-emphasis
func (pc *Context) processDelimiters(stackBottom *Delimiter) {
	var closer *Delimiter
	if stackBottom == nil {
		closer = pc.delimiters.bottom
	} else {
		closer = stackBottom.next
	}

	for closer != nil {
		processor := pc.parser.processors[closer.char]
		if processor == nil || !closer.canClose {
			closer = closer.next
			continue
		}

		// Look back in the stack, staying above stackBottom,
		// for the first matching potential opener.
		opener := closer.prev
		for opener != stackBottom && opener != nil {
			if opener.char == closer.char && opener.canOpen &&
				processor.CanOpenCloser(opener, closer) {
				break
			}
			opener = opener.prev
		}
		if opener == stackBottom || opener == nil {
			next := closer.next
			if !closer.canOpen {
				// It can never be an opener either;
				// its text stays literal.
				pc.delimiters.remove(closer)
			}
			closer = next
			continue
		}

		consumed := 1
		if opener.length >= 2 && closer.length >= 2 {
			consumed = 2
		}
		wrapper := processor.OnMatch(consumed)

		// Consume the matched characters from the placeholder nodes.
		opener.length -= consumed
		closer.length -= consumed
		opener.node.SetLiteral(opener.node.Literal()[:opener.length])
		closer.node.SetLiteral(closer.node.Literal()[consumed:])

		// Splice the wrapper in after the opener and
		// move the enclosed nodes into it.
		opener.node.InsertAfter(wrapper)
		for n := wrapper.NextSibling(); n != nil && n != closer.node; {
			next := n.NextSibling()
			wrapper.AppendChild(n)
			n = next
		}

		// Delimiters between the opener and closer were skipped
		// without matching; drop them from the stack.
		for d := opener.next; d != nil && d != closer; {
			next := d.next
			pc.delimiters.remove(d)
			d = next
		}

		if opener.length == 0 {
			opener.node.Unlink()
			pc.delimiters.remove(opener)
		}
		if closer.length == 0 {
			next := closer.next
			closer.node.Unlink()
			pc.delimiters.remove(closer)
			closer = next
		}
	}

	pc.delimiters.removeAll(stackBottom)
}

func isASCIIPunctuation(b byte) bool {
	return ('!' <= b && b <= '/') ||
		(':' <= b && b <= '@') ||
		('[' <= b && b <= '`') ||
		('{' <= b && b <= '~')
}

// isUnicodeWhitespace reports whether r is a [Unicode whitespace character].
//
// [Unicode whitespace character]: https://spec.commonmark.org/0.30/#unicode-whitespace-character
func isUnicodeWhitespace(r rune) bool {
	return r == '\t' || r == '\r' || r == '\n' || r == '\f' ||
		unicode.Is(unicode.Zs, r)
}

// isUnicodePunctuation reports whether r is a [punctuation character].
//
// [punctuation character]: https://spec.commonmark.org/0.30/#punctuation-character
func isUnicodePunctuation(r rune) bool {
	if r < 0x80 {
		return isASCIIPunctuation(byte(r))
	}
	return unicode.IsPunct(r)
}
