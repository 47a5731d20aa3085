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
	"testing"

	"github.com/google/go-cmp/cmp"
)

// checkTree verifies that the tree rooted at parent is internally
// consistent in both directions of every link.
func checkTree(t *testing.T, parent *Inline) {
	t.Helper()
	var prev *Inline
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Parent() != parent {
			t.Errorf("child %v: Parent() = %v; want %v", c.Kind(), c.Parent().Kind(), parent.Kind())
		}
		if c.PrevSibling() != prev {
			t.Errorf("child %v: PrevSibling() mismatch", c.Kind())
		}
		prev = c
		checkTree(t, c)
	}
	if parent.LastChild() != prev {
		t.Errorf("%v: LastChild() mismatch", parent.Kind())
	}
}

func childLiterals(parent *Inline) []string {
	var got []string
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		got = append(got, string(c.Literal()))
	}
	return got
}

func TestAppendChild(t *testing.T) {
	root := NewInline(RootKind)
	a := NewText([]byte("a"))
	b := NewText([]byte("b"))
	root.AppendChild(a)
	root.AppendChild(b)

	checkTree(t, root)
	if diff := cmp.Diff([]string{"a", "b"}, childLiterals(root)); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
	if got := root.ChildCount(); got != 2 {
		t.Errorf("ChildCount() = %d; want 2", got)
	}

	// Appending an attached node moves it.
	other := NewInline(EmphasisKind)
	other.AppendChild(a)
	checkTree(t, root)
	checkTree(t, other)
	if diff := cmp.Diff([]string{"b"}, childLiterals(root)); diff != "" {
		t.Errorf("children after move (-want +got):\n%s", diff)
	}
}

func TestUnlink(t *testing.T) {
	root := NewInline(RootKind)
	a := NewText([]byte("a"))
	b := NewText([]byte("b"))
	c := NewText([]byte("c"))
	for _, n := range []*Inline{a, b, c} {
		root.AppendChild(n)
	}

	b.Unlink()
	checkTree(t, root)
	if diff := cmp.Diff([]string{"a", "c"}, childLiterals(root)); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
	if b.Parent() != nil || b.PrevSibling() != nil || b.NextSibling() != nil {
		t.Error("unlinked node retains tree pointers")
	}

	// Unlinking first and last children updates the parent's ends.
	a.Unlink()
	c.Unlink()
	checkTree(t, root)
	if root.FirstChild() != nil || root.LastChild() != nil {
		t.Error("emptied parent retains child pointers")
	}
}

func TestInsertSiblings(t *testing.T) {
	root := NewInline(RootKind)
	b := NewText([]byte("b"))
	root.AppendChild(b)

	a := NewText([]byte("a"))
	b.InsertBefore(a)
	c := NewText([]byte("c"))
	b.InsertAfter(c)

	checkTree(t, root)
	if diff := cmp.Diff([]string{"a", "b", "c"}, childLiterals(root)); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
}

func TestReplaceWith(t *testing.T) {
	root := NewInline(RootKind)
	a := NewText([]byte("a"))
	b := NewText([]byte("b"))
	c := NewText([]byte("c"))
	for _, n := range []*Inline{a, b, c} {
		root.AppendChild(n)
	}

	repl := NewInline(EmphasisKind)
	repl.SetLiteral([]byte("x"))
	b.ReplaceWith(repl)

	checkTree(t, root)
	if diff := cmp.Diff([]string{"a", "x", "c"}, childLiterals(root)); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
}

func TestTextContent(t *testing.T) {
	root := NewInline(RootKind)
	root.AppendChild(NewText([]byte("foo ")))
	em := NewInline(EmphasisKind)
	em.AppendChild(NewText([]byte("bar")))
	root.AppendChild(em)
	root.AppendChild(NewInline(SoftLineBreakKind))
	img := NewInline(ImageKind)
	img.SetLiteral([]byte("alt text"))
	root.AppendChild(img)

	if got, want := string(root.TextContent()), "foo bar\nalt text"; got != want {
		t.Errorf("TextContent() = %q; want %q", got, want)
	}
}

func TestNilAccessors(t *testing.T) {
	var inline *Inline
	if got := inline.Kind(); got != 0 {
		t.Errorf("nil.Kind() = %v; want 0", got)
	}
	if inline.Parent() != nil || inline.FirstChild() != nil || inline.LastChild() != nil ||
		inline.PrevSibling() != nil || inline.NextSibling() != nil {
		t.Error("nil accessors returned non-nil nodes")
	}
	if got := inline.ChildCount(); got != 0 {
		t.Errorf("nil.ChildCount() = %d; want 0", got)
	}
	if inline.Literal() != nil || inline.Destination() != "" || inline.Title() != "" || inline.Data() != nil {
		t.Error("nil content accessors returned values")
	}
}

func TestNewInlineKind(t *testing.T) {
	kind := NewInlineKind("TestWidget")
	if kind <= ImageKind {
		t.Errorf("NewInlineKind returned %d, colliding with built-in kinds", kind)
	}
	if got := kind.String(); got != "TestWidget" {
		t.Errorf("kind.String() = %q; want %q", got, "TestWidget")
	}
	if got := InlineKind(0).String(); got != "InlineKind(0)" {
		t.Errorf("InlineKind(0).String() = %q; want %q", got, "InlineKind(0)")
	}
}
