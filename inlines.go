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

// Package commonmark parses [CommonMark] inline markup.
//
// The package implements the inline half of a CommonMark parser:
// given one block's text
// (as produced by a block-level container parser)
// and the document's link reference definitions,
// [*InlineParser.Parse] recognizes emphasis, links, images,
// code spans, autolinks, and extension-defined constructs
// and returns an inline node tree for a renderer.
//
// [CommonMark]: https://commonmark.org/
package commonmark

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// A TriggerParser is an extension hook that gets first right of refusal
// on its trigger characters during the inline scan.
// Parse reports whether it consumed input;
// returning false must leave the [Context]'s cursor untouched.
type TriggerParser interface {
	Triggers() []byte
	Parse(pc *Context) bool
}

// An Extender installs trigger parsers and delimiter processors
// into an [InlineParser].
type Extender interface {
	Extend(p *InlineParser)
}

// An Option configures an [InlineParser].
type Option func(*InlineParser)

// WithTriggerParser registers an extension trigger parser.
func WithTriggerParser(tp TriggerParser) Option {
	return func(p *InlineParser) {
		p.AddTriggerParser(tp)
	}
}

// WithDelimiterProcessor registers an extension delimiter processor.
func WithDelimiterProcessor(dp DelimiterProcessor) Option {
	return func(p *InlineParser) {
		p.AddDelimiterProcessor(dp)
	}
}

// WithExtension installs an extension bundle.
func WithExtension(e Extender) Option {
	return func(p *InlineParser) {
		e.Extend(p)
	}
}

// An InlineParser converts one block's text into an inline node tree.
// Its registrations are made once, before parsing begins,
// and are immutable afterwards;
// a single InlineParser may then be used for any number of
// sequential or concurrent Parse calls.
type InlineParser struct {
	triggers   map[byte][]TriggerParser
	processors map[byte]DelimiterProcessor
	specials   [256]bool
}

// NewInlineParser returns a parser with the built-in emphasis
// processors for '*' and '_' plus any registrations the options add.
func NewInlineParser(opts ...Option) *InlineParser {
	p := &InlineParser{
		triggers:   make(map[byte][]TriggerParser),
		processors: make(map[byte]DelimiterProcessor),
	}
	for _, c := range []byte("\\`&<\r\n[]!") {
		p.specials[c] = true
	}
	p.AddDelimiterProcessor(emphasisDelimiterProcessor{char: '*'})
	p.AddDelimiterProcessor(emphasisDelimiterProcessor{char: '_'})
	for _, o := range opts {
		o(p)
	}
	return p
}

// AddTriggerParser registers tp for each of its trigger characters.
// Parsers sharing a character are consulted in registration order.
func (p *InlineParser) AddTriggerParser(tp TriggerParser) {
	for _, c := range tp.Triggers() {
		p.triggers[c] = append(p.triggers[c], tp)
		p.specials[c] = true
	}
}

// AddDelimiterProcessor registers dp for every byte it claims.
func (p *InlineParser) AddDelimiterProcessor(dp DelimiterProcessor) {
	for i := 0; i < 256; i++ {
		if dp.IsDelimiter(byte(i)) {
			p.processors[byte(i)] = dp
			p.specials[byte(i)] = true
		}
	}
}

// A Context is the state of a single Parse call:
// the cursor over the block's text,
// the delimiter stack,
// the reference map,
// and the tree under construction.
// It is handed to trigger parsers during the scan.
type Context struct {
	parser     *InlineParser
	cursor     *Cursor
	refs       ReferenceMatcher
	container  *Inline
	delimiters delimiterStack
}

// Cursor returns the cursor over the block's text.
func (pc *Context) Cursor() *Cursor {
	return pc.cursor
}

// Source returns the block's text.
func (pc *Context) Source() []byte {
	return pc.cursor.Source()
}

// References returns the reference map for the document, which may be nil.
func (pc *Context) References() ReferenceMatcher {
	return pc.refs
}

// AppendNode adds a finished node after everything parsed so far.
func (pc *Context) AppendNode(node *Inline) {
	pc.container.AppendChild(node)
}

// LookupReference normalizes label and looks it up in the reference map.
func (pc *Context) LookupReference(label string) (LinkDefinition, bool) {
	if pc.refs == nil {
		return LinkDefinition{}, false
	}
	return pc.refs.MatchReference(NormalizeLabel(label))
}

// Parse scans one block's text left to right,
// letting registered handlers consume constructs,
// then pairs up any delimiters that remain.
// Markup that fails to form a construct degrades to literal text;
// Parse never rejects its input.
//
// refs supplies the document's link reference definitions
// and may be nil.
func (p *InlineParser) Parse(source []byte, refs ReferenceMatcher) *Inline {
	if bytes.IndexByte(source, 0) >= 0 {
		// NUL is replaced with the Unicode replacement character.
		source = bytes.ReplaceAll(source, []byte{0}, []byte("\ufffd"))
	}
	root := NewInline(RootKind)
	pc := &Context{
		parser:    p,
		cursor:    NewCursor(source),
		refs:      refs,
		container: root,
	}

	cur := pc.cursor
	plainStart := 0
	for cur.Position() < len(source) {
		pos := cur.Position()
		c := source[pos]
		if !p.specials[c] {
			cur.AdvanceBy(1)
			continue
		}
		if plainStart < pos {
			pc.AppendNode(NewText(source[plainStart:pos]))
		}

		handled := false
		for _, tp := range p.triggers[c] {
			if tp.Parse(pc) {
				handled = true
				break
			}
		}
		if !handled {
			switch c {
			case '\\':
				pc.parseBackslash()
				handled = true
			case '`':
				pc.parseCodeSpan()
				handled = true
			case '&':
				handled = pc.parseEntity()
			case '<':
				handled = pc.parseAutolink()
			case '\r', '\n':
				pc.parseLineBreak()
				handled = true
			case '[':
				pc.openBracket()
				handled = true
			case '!':
				if cur.Peek(1) == '[' {
					pc.openBracket()
					handled = true
				}
			case ']':
				pc.closeBracket()
				handled = true
			default:
				if p.processors[c] != nil {
					pc.parseDelimiterRun()
					handled = true
				}
			}
		}
		if handled {
			plainStart = cur.Position()
		} else {
			// Nothing claimed the character; it is literal text.
			plainStart = pos
			cur.AdvanceBy(1)
		}
	}
	if tail := bytes.TrimRight(source[plainStart:], " \t"); len(tail) > 0 {
		pc.AppendNode(NewText(tail))
	}

	pc.processDelimiters(nil)
	mergeAdjacentTextNodes(root)
	return root
}

// parseBackslash handles a [backslash escape],
// a backslash hard line break,
// or a literal backslash.
//
// [backslash escape]: https://spec.commonmark.org/0.30/#backslash-escapes
func (pc *Context) parseBackslash() {
	cur := pc.cursor
	source := cur.Source()
	pos := cur.Position()
	switch next := cur.Peek(1); {
	case next == '\n' || next == '\r':
		n := 2
		if next == '\r' && cur.Peek(2) == '\n' {
			n = 3
		}
		cur.AdvanceBy(n)
		for cur.Current() == ' ' || cur.Current() == '\t' {
			cur.AdvanceBy(1)
		}
		if cur.Remaining() == 0 {
			// Hard line breaks are not permitted at the end of a block.
			pc.AppendNode(NewText(source[pos : pos+1]))
			return
		}
		pc.AppendNode(NewInline(HardLineBreakKind))
	case isASCIIPunctuation(next):
		pc.AppendNode(NewText(source[pos+1 : pos+2]))
		cur.AdvanceBy(2)
	default:
		pc.AppendNode(NewText(source[pos : pos+1]))
		cur.AdvanceBy(1)
	}
}

// parseLineBreak handles a line ending inside the block's text,
// producing a hard line break when the preceding text
// ends with two or more spaces.
// Trailing whitespace before the break and
// leading whitespace after it are stripped.
func (pc *Context) parseLineBreak() {
	cur := pc.cursor

	hard := false
	if last := pc.container.LastChild(); last.Kind() == TextKind {
		lit := last.Literal()
		hard = bytes.HasSuffix(lit, []byte("  "))
		if trimmed := bytes.TrimRight(lit, " \t"); len(trimmed) == 0 {
			last.Unlink()
		} else {
			last.SetLiteral(trimmed)
		}
	}

	n := 1
	if cur.Current() == '\r' && cur.Peek(1) == '\n' {
		n = 2
	}
	cur.AdvanceBy(n)
	for cur.Current() == ' ' || cur.Current() == '\t' {
		cur.AdvanceBy(1)
	}
	if cur.Remaining() == 0 {
		// A line ending that closes the block produces no node.
		return
	}
	if hard {
		pc.AppendNode(NewInline(HardLineBreakKind))
	} else {
		pc.AppendNode(NewInline(SoftLineBreakKind))
	}
}

// parseCodeSpan handles a backtick [code span]:
// a run of backticks closed by a run of exactly the same length.
// An unclosed run stays literal.
//
// [code span]: https://spec.commonmark.org/0.30/#code-spans
func (pc *Context) parseCodeSpan() {
	cur := pc.cursor
	source := cur.Source()
	start := cur.Position()
	contentStart := start
	for contentStart < len(source) && source[contentStart] == '`' {
		contentStart++
	}
	runLength := contentStart - start

	for i := contentStart; i < len(source); {
		if source[i] != '`' {
			i++
			continue
		}
		closeLength := 1
		for i+closeLength < len(source) && source[i+closeLength] == '`' {
			closeLength++
		}
		if closeLength != runLength {
			i += closeLength
			continue
		}

		node := NewInline(CodeSpanKind)
		node.SetLiteral(normalizeCodeSpanContent(source[contentStart:i]))
		pc.AppendNode(node)
		cur.AdvanceBy(i + closeLength - start)
		return
	}

	// No closer; the backtick string is literal.
	pc.AppendNode(NewText(source[start:contentStart]))
	cur.AdvanceBy(runLength)
}

// normalizeCodeSpanContent converts line endings to spaces and
// strips one leading and trailing space
// when the content is padded on both sides and is not all spaces.
func normalizeCodeSpanContent(content []byte) []byte {
	normalized := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			normalized = append(normalized, ' ')
		case '\n':
			normalized = append(normalized, ' ')
		default:
			normalized = append(normalized, content[i])
		}
	}
	if len(normalized) >= 2 &&
		normalized[0] == ' ' && normalized[len(normalized)-1] == ' ' &&
		len(bytes.Trim(normalized, " ")) > 0 {
		normalized = normalized[1 : len(normalized)-1]
	}
	return normalized
}

// parseEntity handles an [entity reference] in plain text.
//
// [entity reference]: https://spec.commonmark.org/0.30/#entity-and-numeric-character-references
func (pc *Context) parseEntity() bool {
	decoded, end, ok := scanEntity(pc.Source(), pc.cursor.Position())
	if !ok {
		return false
	}
	pc.AppendNode(NewText(decoded))
	pc.cursor.AdvanceBy(end - pc.cursor.Position())
	return true
}

// scanEntity decodes an entity or numeric character reference
// starting at the '&' at source[pos].
func scanEntity(source []byte, pos int) (decoded []byte, end int, ok bool) {
	i := pos + 1
	if i < len(source) && source[i] == '#' {
		i++
		base := 10
		maxDigits := 7
		if i < len(source) && (source[i] == 'x' || source[i] == 'X') {
			i++
			base = 16
			maxDigits = 6
		}
		digitStart := i
		for i < len(source) && i-digitStart < maxDigits+1 && isDigitInBase(source[i], base) {
			i++
		}
		numDigits := i - digitStart
		if numDigits == 0 || numDigits > maxDigits || i >= len(source) || source[i] != ';' {
			return nil, 0, false
		}
		value, err := strconv.ParseInt(string(source[digitStart:i]), base, 32)
		r := rune(value)
		if err != nil || r == 0 || !utf8.ValidRune(r) {
			r = utf8.RuneError
		}
		return []byte(string(r)), i + 1, true
	}

	nameStart := i
	for i < len(source) && i-nameStart < 32 && isAlphanumeric(source[i]) {
		i++
	}
	if i == nameStart || i >= len(source) || source[i] != ';' {
		return nil, 0, false
	}
	candidate := string(source[pos : i+1])
	unescaped := html.UnescapeString(candidate)
	if unescaped == candidate || hasEntityResidue(unescaped) {
		// Not a known entity name.
		return nil, 0, false
	}
	return []byte(unescaped), i + 1, true
}

// hasEntityResidue reports whether unescaping an entity reference
// left undecoded name characters behind.
// [html.UnescapeString] also decodes legacy semicolon-less entities,
// so "&notit;" becomes "¬it;" even though "notit" is not an entity;
// only a complete name terminated by ';' counts here.
func hasEntityResidue(s string) bool {
	return len(s) >= 2 && s[len(s)-1] == ';' && isAlphanumeric(s[len(s)-2])
}

// unescapeString resolves backslash escapes and entity references,
// as applied to link destinations and titles.
func unescapeString(s []byte) string {
	sb := new(strings.Builder)
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		switch {
		case s[i] == '\\' && i+1 < len(s) && isASCIIPunctuation(s[i+1]):
			sb.WriteByte(s[i+1])
			i += 2
		case s[i] == '&':
			if decoded, end, ok := scanEntity(s, i); ok {
				sb.Write(decoded)
				i = end
			} else {
				sb.WriteByte(s[i])
				i++
			}
		default:
			sb.WriteByte(s[i])
			i++
		}
	}
	return sb.String()
}

var emailAutolinkRegexp = regexp.MustCompile(`^<([a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*)>`)

// parseAutolink handles a [URI or email autolink] in angle brackets.
// Raw HTML is not recognized by this parser;
// an unmatched '<' is literal text.
//
// [URI or email autolink]: https://spec.commonmark.org/0.30/#autolinks
func (pc *Context) parseAutolink() bool {
	cur := pc.cursor
	source := cur.Source()
	pos := cur.Position()

	if uri, end, ok := scanURIAutolink(source, pos); ok {
		link := NewInline(LinkKind)
		link.SetDestination(uri)
		link.AppendChild(NewText(source[pos+1 : end-1]))
		pc.AppendNode(link)
		cur.AdvanceBy(end - pos)
		return true
	}
	if m := emailAutolinkRegexp.FindSubmatch(source[pos:]); m != nil {
		link := NewInline(LinkKind)
		link.SetDestination("mailto:" + string(m[1]))
		link.AppendChild(NewText(m[1]))
		pc.AppendNode(link)
		cur.AdvanceBy(len(m[0]))
		return true
	}
	return false
}

// scanURIAutolink scans "<scheme:...>" at source[pos].
// Entities and backslash escapes are not processed inside autolinks.
func scanURIAutolink(source []byte, pos int) (uri string, end int, ok bool) {
	i := pos + 1
	if i >= len(source) || !isLetter(source[i]) {
		return "", 0, false
	}
	schemeStart := i
	for i < len(source) && isSchemeByte(source[i]) {
		i++
	}
	schemeLength := i - schemeStart
	if schemeLength < 2 || schemeLength > 32 || i >= len(source) || source[i] != ':' {
		return "", 0, false
	}
	for i < len(source) {
		b := source[i]
		switch {
		case b == '>':
			return string(source[pos+1 : i]), i + 1, true
		case b <= ' ' || b == '<' || b == 0x7f:
			return "", 0, false
		}
		i++
	}
	return "", 0, false
}

func isLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isAlphanumeric(b byte) bool {
	return isLetter(b) || ('0' <= b && b <= '9')
}

func isSchemeByte(b byte) bool {
	return isAlphanumeric(b) || b == '+' || b == '.' || b == '-'
}

func isDigitInBase(b byte, base int) bool {
	if base == 16 {
		return ('0' <= b && b <= '9') || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
	}
	return '0' <= b && b <= '9'
}
