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

package extension

import "github.com/GarrettAlbright/commonmark"

// DelKind is the node kind for strikethrough spans.
var DelKind = commonmark.NewInlineKind("Del")

// Strikethrough recognizes ~~struck text~~ per the
// [GFM strikethrough extension].
// Single tildes work too: ~struck~.
//
// [GFM strikethrough extension]: https://github.github.com/gfm/#strikethrough-extension-
type Strikethrough struct{}

// Extend implements [commonmark.Extender].
func (Strikethrough) Extend(p *commonmark.InlineParser) {
	p.AddDelimiterProcessor(strikethroughDelimiterProcessor{})
}

type strikethroughDelimiterProcessor struct{}

func (strikethroughDelimiterProcessor) IsDelimiter(b byte) bool {
	return b == '~'
}

// CanOpenCloser requires the opening and closing runs to have
// the same length, at most two tildes.
// Unlike emphasis, a longer run never matches in part.
func (strikethroughDelimiterProcessor) CanOpenCloser(opener, closer *commonmark.Delimiter) bool {
	return opener.OriginalLength() == closer.OriginalLength() &&
		opener.OriginalLength() <= 2
}

// OnMatch ignores the consumed count:
// strikethrough has no stronger form,
// so one or two tildes produce the same node.
func (strikethroughDelimiterProcessor) OnMatch(int) *commonmark.Inline {
	node := commonmark.NewInline(DelKind)
	node.SetData(delData{})
	return node
}

// delData renders a [DelKind] node as a <del> element.
type delData struct{}

func (delData) AppendHTML(dst []byte, inline *commonmark.Inline, r *commonmark.HTMLRenderer) []byte {
	dst = append(dst, "<del>"...)
	dst = r.AppendChildren(dst, inline)
	return append(dst, "</del>"...)
}
