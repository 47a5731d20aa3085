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

// Package extension provides inline parser extensions:
// strikethrough, smart punctuation, and autolinked mentions.
//
// Each extension implements [commonmark.Extender] and installs itself
// through [commonmark.WithExtension]:
//
//	parser := commonmark.NewInlineParser(
//		commonmark.WithExtension(extension.Strikethrough{}),
//	)
package extension

import "fmt"

// ConfigError describes extension configuration
// rejected during validation,
// naming the offending key.
// Configuration problems are always reported before any parsing begins,
// never at parse time.
type ConfigError struct {
	// Extension is the configuration section, for example "mentions".
	Extension string
	// Key is the path of the offending key within the section,
	// for example "github_handle.generator".
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configure %s: %s: %s", e.Extension, e.Key, e.Reason)
}
