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
	"testing"

	"github.com/GarrettAlbright/commonmark"
)

func render(t *testing.T, p *commonmark.InlineParser, source string) string {
	t.Helper()
	root := p.Parse([]byte(source), nil)
	return string(new(commonmark.HTMLRenderer).AppendInline(nil, root))
}

func TestStrikethrough(t *testing.T) {
	tests := []struct {
		markdown string
		want     string
	}{
		{"~~Hi~~ Hello, world!", "<del>Hi</del> Hello, world!"},
		{"~one~ tilde", "<del>one</del> tilde"},
		{"~~nested *emphasis*~~", "<del>nested <em>emphasis</em></del>"},
		// Opening and closing runs must have the same length.
		{"~~no match~", "~~no match~"},
		{"~no match~~", "~no match~~"},
		// Runs of three or more tildes never match.
		{"~~~three~~~", "~~~three~~~"},
		{"a ~~ b", "a ~~ b"},
	}
	p := commonmark.NewInlineParser(commonmark.WithExtension(Strikethrough{}))
	for _, test := range tests {
		if got := render(t, p, test.markdown); got != test.want {
			t.Errorf("render(%q) = %q; want %q", test.markdown, got, test.want)
		}
	}
}

func TestStrikethroughNotRegistered(t *testing.T) {
	p := commonmark.NewInlineParser()
	if got, want := render(t, p, "~~Hi~~"), "~~Hi~~"; got != want {
		t.Errorf("render(%q) = %q; want %q", "~~Hi~~", got, want)
	}
}
