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

import (
	"bytes"

	"github.com/GarrettAlbright/commonmark"
)

// SmartPunct replaces ASCII punctuation with typographic equivalents:
// straight quotes become curly,
// "..." becomes an ellipsis,
// and runs of hyphens become en and em dashes.
// The replacements follow cmark's --smart option.
type SmartPunct struct{}

// Extend implements [commonmark.Extender].
func (SmartPunct) Extend(p *commonmark.InlineParser) {
	p.AddTriggerParser(smartDashParser{})
	p.AddTriggerParser(smartEllipsisParser{})
	p.AddTriggerParser(smartQuoteParser{})
}

type smartDashParser struct{}

func (smartDashParser) Triggers() []byte {
	return []byte{'-'}
}

// Parse converts a run of two or more hyphens into dashes.
// A run divisible by three becomes em dashes,
// an even run becomes en dashes,
// and other runs become em dashes followed by one or two en dashes.
// A single hyphen is left alone.
func (smartDashParser) Parse(pc *commonmark.Context) bool {
	cur := pc.Cursor()
	source := pc.Source()
	start := cur.Position()
	end := start + 1
	for end < len(source) && source[end] == '-' {
		end++
	}
	n := end - start
	if n < 2 {
		return false
	}

	var em, en int
	switch {
	case n%3 == 0:
		em = n / 3
	case n%2 == 0:
		en = n / 2
	case n%3 == 2:
		em = (n - 2) / 3
		en = 1
	default:
		em = (n - 4) / 3
		en = 2
	}
	literal := bytes.Repeat([]byte("—"), em)
	literal = append(literal, bytes.Repeat([]byte("–"), en)...)
	pc.AppendNode(commonmark.NewText(literal))
	cur.AdvanceBy(n)
	return true
}

type smartEllipsisParser struct{}

func (smartEllipsisParser) Triggers() []byte {
	return []byte{'.'}
}

func (smartEllipsisParser) Parse(pc *commonmark.Context) bool {
	cur := pc.Cursor()
	if cur.Peek(1) != '.' || cur.Peek(2) != '.' {
		return false
	}
	pc.AppendNode(commonmark.NewText([]byte("…")))
	cur.AdvanceBy(3)
	return true
}

type smartQuoteParser struct{}

func (smartQuoteParser) Triggers() []byte {
	return []byte{'"', '\''}
}

// Parse replaces a straight quote with its curly form.
// The flanking rules decide the direction:
// a quote that can only open a span curls left,
// anything else curls right,
// which also covers apostrophes in contractions.
func (smartQuoteParser) Parse(pc *commonmark.Context) bool {
	cur := pc.Cursor()
	pos := cur.Position()
	canOpen, canClose := commonmark.Flanking(pc.Source(), pos, pos+1)
	opening := canOpen && !canClose

	var literal string
	if cur.Current() == '\'' {
		literal = "’"
		if opening {
			literal = "‘"
		}
	} else {
		literal = "”"
		if opening {
			literal = "“"
		}
	}
	pc.AppendNode(commonmark.NewText([]byte(literal)))
	cur.AdvanceBy(1)
	return true
}
