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

// maxLinkLabelLength is the limit on characters inside the brackets of a
// [link label].
//
// [link label]: https://spec.commonmark.org/0.30/#link-label
const maxLinkLabelLength = 999

// maxDestinationParenDepth caps nesting of balanced parentheses in a bare
// link destination, matching cmark.
const maxDestinationParenDepth = 32

// openBracket handles '[' and "![",
// adding a placeholder text node and a bracket delimiter
// remembering where the potential label text begins.
func (pc *Context) openBracket() {
	source := pc.cursor.Source()
	pos := pc.cursor.Position()
	char := source[pos]
	n := 1
	if char == '!' {
		n = 2
	}
	node := NewText(source[pos : pos+n])
	pc.AppendNode(node)
	pc.delimiters.push(&Delimiter{
		char:           char,
		length:         n,
		originalLength: n,
		node:           node,
		index:          pos + n,
		active:         true,
	})
	pc.cursor.AdvanceBy(n)
}

// closeBracket resolves a ']' against the nearest bracket opener,
// trying the inline link form and then the reference form,
// and restructures the tree into a Link or Image on success.
// Every failure leaves a literal "]" with the cursor
// exactly where it was before the attempt.
func (pc *Context) closeBracket() {
	cur := pc.cursor
	closerPos := cur.Position()
	before := cur.Save()

	opener := pc.delimiters.searchByCharacter('[', '!')
	if opener == nil {
		// No matching opener anywhere in the stack.
		pc.AppendNode(NewText(cur.Slice(closerPos, closerPos+1)))
		cur.AdvanceBy(1)
		return
	}
	if !opener.active {
		pc.delimiters.remove(opener)
		pc.AppendNode(NewText(cur.Slice(closerPos, closerPos+1)))
		cur.AdvanceBy(1)
		return
	}

	cur.AdvanceBy(1)
	afterCloser := cur.Save()

	var dest, title string
	matched := false
	if cur.Current() == '(' {
		dest, title, matched = scanInlineLink(cur)
	}
	if !matched && opener.index >= 0 {
		label, ok := scanLinkLabel(cur)
		if !ok || label == "" {
			// Collapsed or shortcut reference:
			// the label is the text between the brackets.
			// A collapsed "[]" is consumed;
			// a shortcut leaves the input after "]" untouched.
			label = string(cur.Slice(opener.index, closerPos))
			if !ok {
				cur.Restore(afterCloser)
			}
		}
		if def, found := pc.LookupReference(label); found {
			dest, title = def.Destination, def.Title
			matched = true
		}
	}
	if !matched {
		pc.delimiters.remove(opener)
		cur.Restore(before)
		pc.AppendNode(NewText(cur.Slice(closerPos, closerPos+1)))
		cur.AdvanceBy(1)
		return
	}

	isImage := opener.char == '!'
	kind := LinkKind
	if isImage {
		kind = ImageKind
	}
	link := NewInline(kind)
	link.SetDestination(dest)
	link.SetTitle(title)

	// The new node takes the opener placeholder's position and
	// adopts every node that followed it.
	opener.node.ReplaceWith(link)
	for n := link.NextSibling(); n != nil; {
		next := n.NextSibling()
		if u, ok := n.Data().(LinkUnwrapper); ok {
			// Links may not nest; degrade to literal text.
			link.AppendChild(NewText(u.UnwrapText()))
			n.Unlink()
		} else {
			link.AppendChild(n)
		}
		n = next
	}

	// Pair up any emphasis inside the label;
	// processDelimiters drops every delimiter the label consumed.
	pc.processDelimiters(opener)
	pc.delimiters.remove(opener)

	if isImage {
		// An image description carries no inline structure:
		// store the flattened text and detach the children.
		link.SetLiteral(link.TextContent())
		for c := link.FirstChild(); c != nil; c = link.FirstChild() {
			c.Unlink()
		}
	} else {
		pc.delimiters.removeEarlierMatches('[')
	}

	mergeAdjacentTextNodes(link)
}

// scanInlineLink scans the "(destination title)" tail of an
// [inline link] with the cursor placed on the opening parenthesis.
// On failure the cursor is rolled back to where it started.
//
// [inline link]: https://spec.commonmark.org/0.30/#inline-link
func scanInlineLink(cur *Cursor) (dest, title string, ok bool) {
	start := cur.Save()
	cur.AdvanceBy(1) // '('
	cur.AdvanceToNextNonSpaceOrNewline()

	dest, ok = scanLinkDestination(cur)
	if !ok {
		cur.Restore(start)
		return "", "", false
	}

	afterDest := cur.Position()
	cur.AdvanceToNextNonSpaceOrNewline()
	// A title is only allowed when whitespace separates it
	// from the destination.
	if cur.Position() > afterDest {
		if t, found := scanLinkTitle(cur); found {
			title = t
			cur.AdvanceToNextNonSpaceOrNewline()
		}
	}

	if cur.Current() != ')' {
		cur.Restore(start)
		return "", "", false
	}
	cur.AdvanceBy(1)
	return dest, title, true
}

// scanLinkDestination scans a [link destination]:
// either a possibly-empty angle-bracketed form with no line endings
// or unescaped brackets,
// or a bare form with balanced unescaped parentheses
// and no spaces or ASCII control characters.
//
// [link destination]: https://spec.commonmark.org/0.30/#link-destination
func scanLinkDestination(cur *Cursor) (string, bool) {
	source := cur.Source()
	start := cur.Position()
	if cur.Current() == '<' {
		for i := start + 1; i < len(source); i++ {
			switch source[i] {
			case '\n', '\r', '<':
				return "", false
			case '>':
				cur.AdvanceBy(i + 1 - start)
				return unescapeString(source[start+1 : i]), true
			case '\\':
				i++
			}
		}
		return "", false
	}

	depth := 0
	i := start
loop:
	for ; i < len(source); i++ {
		b := source[i]
		switch {
		case b == '(':
			depth++
			if depth > maxDestinationParenDepth {
				return "", false
			}
		case b == ')':
			if depth == 0 {
				break loop
			}
			depth--
		case b == '\\' && i+1 < len(source):
			i++
		case b == ' ' || b == '\t' || b == '\n' || b == '\r' || b < 0x20 || b == 0x7f:
			break loop
		}
	}
	if depth != 0 {
		return "", false
	}
	cur.AdvanceBy(i - start)
	return unescapeString(source[start:i]), true
}

// scanLinkTitle scans a [link title] delimited by double quotes,
// single quotes, or parentheses.
//
// [link title]: https://spec.commonmark.org/0.30/#link-title
func scanLinkTitle(cur *Cursor) (string, bool) {
	source := cur.Source()
	start := cur.Position()
	if start >= len(source) {
		return "", false
	}
	closer := source[start]
	switch closer {
	case '"', '\'':
	case '(':
		closer = ')'
	default:
		return "", false
	}
	for i := start + 1; i < len(source); i++ {
		switch source[i] {
		case closer:
			cur.AdvanceBy(i + 1 - start)
			return unescapeString(source[start+1 : i]), true
		case '(':
			if closer == ')' {
				return "", false
			}
		case '\\':
			i++
		}
	}
	return "", false
}

// scanLinkLabel scans a bracketed [link label] with the cursor on '['.
// It reports success with an empty label for the collapsed form "[]".
// Unescaped brackets inside the label
// and labels longer than 999 characters do not match.
//
// [link label]: https://spec.commonmark.org/0.30/#link-label
func scanLinkLabel(cur *Cursor) (string, bool) {
	source := cur.Source()
	start := cur.Position()
	if start >= len(source) || source[start] != '[' {
		return "", false
	}
	for i := start + 1; i < len(source); i++ {
		switch source[i] {
		case ']':
			if i-(start+1) > maxLinkLabelLength {
				return "", false
			}
			cur.AdvanceBy(i + 1 - start)
			return string(source[start+1 : i]), true
		case '[':
			return "", false
		case '\\':
			i++
		}
	}
	return "", false
}

// mergeAdjacentTextNodes collapses runs of adjacent plain text children
// into single nodes and drops empty ones.
// This is structural cleanup after tree surgery, not semantic.
func mergeAdjacentTextNodes(parent *Inline) {
	for c := parent.FirstChild(); c != nil; {
		next := c.NextSibling()
		if c.Kind() != TextKind || c.Data() != nil {
			mergeAdjacentTextNodes(c)
			c = next
			continue
		}
		if len(c.Literal()) == 0 {
			c.Unlink()
			c = next
			continue
		}
		for next != nil && next.Kind() == TextKind && next.Data() == nil {
			merged := append(append([]byte(nil), c.Literal()...), next.Literal()...)
			c.SetLiteral(merged)
			gone := next
			next = next.NextSibling()
			gone.Unlink()
		}
		c = next
	}
}
