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
	"strings"

	"golang.org/x/text/cases"
)

// A type that implements ReferenceMatcher
// can look up link reference definitions by normalized label.
// The inline parser only reads from it;
// collecting definitions is the block parser's concern.
type ReferenceMatcher interface {
	MatchReference(normalizedLabel string) (LinkDefinition, bool)
}

// LinkDefinition is the data of a [link reference definition].
//
// [link reference definition]: https://spec.commonmark.org/0.30/#link-reference-definition
type LinkDefinition struct {
	Destination  string
	Title        string
	TitlePresent bool
}

// ReferenceMap is a mapping of [normalized labels] to link definitions.
//
// [normalized labels]: https://spec.commonmark.org/0.30/#matches
type ReferenceMap map[string]LinkDefinition

// MatchReference returns the definition for the normalized label.
func (m ReferenceMap) MatchReference(normalizedLabel string) (LinkDefinition, bool) {
	def, ok := m[normalizedLabel]
	return def, ok
}

// Define adds a definition under the label's normalized form.
// In case of conflicts,
// Define keeps the existing definition,
// matching CommonMark's use of the first definition in source order.
func (m ReferenceMap) Define(label string, def LinkDefinition) {
	normalized := NormalizeLabel(label)
	if normalized == "" {
		return
	}
	if _, exists := m[normalized]; exists {
		return
	}
	m[normalized] = def
}

// NormalizeLabel normalizes a link label for matching:
// leading and trailing whitespace is stripped,
// internal whitespace runs collapse to a single space,
// and the result is Unicode case-folded.
func NormalizeLabel(label string) string {
	sb := new(strings.Builder)
	sb.Grow(len(label))
	space := false
	for _, r := range strings.Trim(label, " \t\r\n") {
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteRune(r)
	}
	return cases.Fold().String(sb.String())
}
