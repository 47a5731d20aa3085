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

func TestEmphasisFlags(t *testing.T) {
	tests := []struct {
		prefix string
		run    string
		suffix string
		want   uint8
	}{
		// Official examples for left-flanking and right-flanking:
		{"", "***", "abc", openerFlag},
		{"  ", "_", "abc", openerFlag},
		{"", "**", `"abc"`, openerFlag},
		{" ", "_", `"abc"`, openerFlag},
		{" abc", "***", "", closerFlag},
		{" abc", "_", "", closerFlag},
		{`"abc"`, "**", "", closerFlag},
		{`"abc"`, "_", "", closerFlag},
		{" abc", "***", "def", openerFlag | closerFlag},
		{`"abc"`, "_", `"def"`, openerFlag | closerFlag},
		{"abc ", "***", " def", 0},
		{"a ", "_", " b", 0},

		// Extra examples to demonstrate
		// https://spec.commonmark.org/0.30/#can-open-emphasis
		// and
		// https://spec.commonmark.org/0.30/#can-close-emphasis.
		{"aa", "_", `"bb"`, closerFlag},
		{`"bb"`, "_", "cc", openerFlag},
		{"foo-", "_", "(bar)", openerFlag | closerFlag},
		{"(bar)", "_", "", closerFlag},
		{"abc", "_", "def", 0},
		{"abc", "*", "def", openerFlag | closerFlag},
	}
	for _, test := range tests {
		source := test.prefix + test.run + test.suffix
		start := len(test.prefix)
		end := start + len(test.run)
		got := emphasisFlags([]byte(source), start, end)
		if got != test.want {
			t.Errorf("emphasisFlags(%q, %d, %d) = %#03b; want %#03b", source, start, end, got, test.want)
		}
	}
}

func TestFlanking(t *testing.T) {
	canOpen, canClose := Flanking([]byte(`don't`), 3, 4)
	if !canOpen || !canClose {
		t.Errorf(`Flanking("don't", 3, 4) = %t, %t; want true, true`, canOpen, canClose)
	}
	canOpen, canClose = Flanking([]byte(`"x"`), 0, 1)
	if !canOpen || canClose {
		t.Errorf(`Flanking("\"x\"", 0, 1) = %t, %t; want true, false`, canOpen, canClose)
	}
}

// TestRuleOfThree exercises rules 9 and 10 of emphasis processing
// through the public parser.
func TestRuleOfThree(t *testing.T) {
	tests := []struct {
		markdown string
		want     string
	}{
		{"*foo**bar*", "<em>foo**bar</em>"},
		{"**foo*bar**", "<strong>foo*bar</strong>"},
		{"*foo**bar***", "<em>foo<strong>bar</strong></em>"},
		{"**foo*bar**baz*", "<strong>foo*bar</strong>baz*"},
		{"foo***bar***baz", "foo<em><strong>bar</strong></em>baz"},
		{"foo******bar*********baz", "foo<strong><strong><strong>bar</strong></strong></strong>***baz"},
	}
	p := NewInlineParser()
	for _, test := range tests {
		root := p.Parse([]byte(test.markdown), nil)
		got := string((&HTMLRenderer{}).AppendInline(nil, root))
		if got != test.want {
			t.Errorf("render(%q) = %q; want %q", test.markdown, got, test.want)
		}
	}
}

func TestIsUnicodePunctuation(t *testing.T) {
	for _, r := range []rune{'!', '"', '*', '_', '~', '}', '¡', '§', '«', '・'} {
		if !isUnicodePunctuation(r) {
			t.Errorf("isUnicodePunctuation(%q) = false; want true", r)
		}
	}
	for _, r := range []rune{'a', 'Z', '5', ' ', 'é', '\n'} {
		if isUnicodePunctuation(r) {
			t.Errorf("isUnicodePunctuation(%q) = true; want false", r)
		}
	}
}
