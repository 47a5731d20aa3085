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
	"bytes"
	"fmt"
	"io"

	"go4.org/bytereplacer"
	"golang.org/x/net/html/atom"
)

// HTMLAppender is the capability implemented by extension payloads
// whose nodes render themselves.
// The renderer is passed back in so the payload can render
// the node's children.
type HTMLAppender interface {
	AppendHTML(dst []byte, inline *Inline, r *HTMLRenderer) []byte
}

// SoftBreakBehavior determines how [SoftLineBreakKind] nodes render.
type SoftBreakBehavior int

const (
	// SoftBreakNewline renders soft line breaks as newlines,
	// the CommonMark default.
	SoftBreakNewline SoftBreakBehavior = iota
	// SoftBreakSpace renders soft line breaks as single spaces.
	SoftBreakSpace
	// SoftBreakHarden renders soft line breaks as hard line breaks.
	SoftBreakHarden
)

// An HTMLRenderer converts a parsed inline tree into HTML.
// The zero value is a valid renderer using the CommonMark defaults.
//
// The renderer itself never emits markup beyond a fixed set of elements;
// untrusted destinations and titles are attribute-escaped.
type HTMLRenderer struct {
	// SoftBreakBehavior determines how soft line breaks are rendered.
	SoftBreakBehavior SoftBreakBehavior
}

// RenderHTML writes the inline tree rooted at root
// to the given writer as HTML
// using the default options for [HTMLRenderer].
func RenderHTML(w io.Writer, root *Inline) error {
	return (&HTMLRenderer{}).Render(w, root)
}

// Render writes the inline tree rooted at root
// to the given writer as HTML.
func (r *HTMLRenderer) Render(w io.Writer, root *Inline) error {
	if _, err := w.Write(r.AppendInline(nil, root)); err != nil {
		return fmt.Errorf("render inlines to html: %w", err)
	}
	return nil
}

// AppendInline appends the HTML for one node (and its subtree) to dst.
func (r *HTMLRenderer) AppendInline(dst []byte, inline *Inline) []byte {
	switch inline.Kind() {
	case RootKind:
		return r.AppendChildren(dst, inline)
	case TextKind:
		return append(dst, escapeHTML(inline.Literal())...)
	case SoftLineBreakKind:
		switch r.SoftBreakBehavior {
		case SoftBreakSpace:
			return append(dst, ' ')
		case SoftBreakHarden:
			return appendHardBreak(dst)
		default:
			return append(dst, '\n')
		}
	case HardLineBreakKind:
		return appendHardBreak(dst)
	case CodeSpanKind:
		dst = appendOpenTag(dst, atom.Code)
		dst = append(dst, escapeHTML(inline.Literal())...)
		return appendCloseTag(dst, atom.Code)
	case EmphasisKind:
		dst = appendOpenTag(dst, atom.Em)
		dst = r.AppendChildren(dst, inline)
		return appendCloseTag(dst, atom.Em)
	case StrongKind:
		dst = appendOpenTag(dst, atom.Strong)
		dst = r.AppendChildren(dst, inline)
		return appendCloseTag(dst, atom.Strong)
	case LinkKind:
		dst = append(dst, '<')
		dst = append(dst, atom.A.String()...)
		dst = append(dst, ` href="`...)
		dst = appendEscapedURL(dst, inline.Destination())
		dst = append(dst, '"')
		dst = appendTitleAttr(dst, inline.Title())
		dst = append(dst, '>')
		dst = r.AppendChildren(dst, inline)
		return appendCloseTag(dst, atom.A)
	case ImageKind:
		dst = append(dst, '<')
		dst = append(dst, atom.Img.String()...)
		dst = append(dst, ` src="`...)
		dst = appendEscapedURL(dst, inline.Destination())
		dst = append(dst, `" alt="`...)
		dst = append(dst, escapeHTML(inline.Literal())...)
		dst = append(dst, '"')
		dst = appendTitleAttr(dst, inline.Title())
		return append(dst, " />"...)
	default:
		if appender, ok := inline.Data().(HTMLAppender); ok {
			return appender.AppendHTML(dst, inline, r)
		}
		if inline.FirstChild() != nil {
			return r.AppendChildren(dst, inline)
		}
		return append(dst, escapeHTML(inline.Literal())...)
	}
}

// AppendChildren appends the HTML for the node's children to dst.
func (r *HTMLRenderer) AppendChildren(dst []byte, inline *Inline) []byte {
	for c := inline.FirstChild(); c != nil; c = c.NextSibling() {
		dst = r.AppendInline(dst, c)
	}
	return dst
}

func appendHardBreak(dst []byte) []byte {
	dst = append(dst, '<')
	dst = append(dst, atom.Br.String()...)
	return append(dst, " />\n"...)
}

func appendOpenTag(dst []byte, a atom.Atom) []byte {
	dst = append(dst, '<')
	dst = append(dst, a.String()...)
	return append(dst, '>')
}

func appendCloseTag(dst []byte, a atom.Atom) []byte {
	dst = append(dst, '<', '/')
	dst = append(dst, a.String()...)
	return append(dst, '>')
}

func appendTitleAttr(dst []byte, title string) []byte {
	if title == "" {
		return dst
	}
	dst = append(dst, ` title="`...)
	dst = append(dst, escapeHTML([]byte(title))...)
	return append(dst, '"')
}

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeHTML(b []byte) []byte {
	return htmlEscaper.Replace(bytes.Clone(b))
}

const hexUpper = "0123456789ABCDEF"

// appendEscapedURL percent-encodes the bytes of s that are not safe
// inside an href attribute,
// leaving existing percent escapes and URL syntax alone,
// and entity-escapes ampersands.
func appendEscapedURL(dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b == '&':
			dst = append(dst, "&amp;"...)
		case b == '"':
			dst = append(dst, "%22"...)
		case isURLSafe(b):
			dst = append(dst, b)
		default:
			dst = append(dst, '%', hexUpper[b>>4], hexUpper[b&0xf])
		}
	}
	return dst
}

func isURLSafe(b byte) bool {
	if isAlphanumeric(b) {
		return true
	}
	switch b {
	case '-', '_', '.', '~', '!', '*', '\'', '(', ')', ';', ':', '@', '=', '+', '$', ',', '/', '?', '#', '%':
		return true
	}
	return false
}
