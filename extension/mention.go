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
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/GarrettAlbright/commonmark"
)

// MentionKind is the node kind for a mention the generator
// declined to link.
// A mention that does resolve to a URL becomes an ordinary
// [commonmark.LinkKind] node with a [*Mention] payload.
var MentionKind = commonmark.NewInlineKind("Mention")

// A Mention is an identifier recognized after a configured prefix,
// like "@colinodell" or "#1234".
// It is attached as the payload of the node the mention produces.
type Mention struct {
	// Name is the configuration entry that recognized the mention,
	// for example "github_handle".
	Name string
	// Prefix is the configured leading string, for example "@".
	Prefix string
	// Identifier is the matched text after the prefix.
	Identifier string
	// URL is the resolved destination.
	// Leave it empty to keep the mention as plain text.
	URL string
}

// UnwrapText implements [commonmark.LinkUnwrapper]:
// a mention inside a link or image description
// degrades to its literal source text.
func (m *Mention) UnwrapText() []byte {
	return []byte(m.Prefix + m.Identifier)
}

// A MentionGenerator resolves a matched mention to a destination.
// It may modify and return the given mention,
// or return nil to reject the match
// and leave the source text alone.
type MentionGenerator interface {
	GenerateMention(mention *Mention) *Mention
}

// MentionGeneratorFunc adapts a function to the
// [MentionGenerator] interface.
type MentionGeneratorFunc func(mention *Mention) *Mention

// GenerateMention calls f(mention).
func (f MentionGeneratorFunc) GenerateMention(mention *Mention) *Mention {
	return f(mention)
}

// stringTemplateGenerator substitutes the identifier into a URL template.
type stringTemplateGenerator struct {
	template string
}

func (g stringTemplateGenerator) GenerateMention(mention *Mention) *Mention {
	mention.URL = strings.Replace(g.template, "%s", mention.Identifier, 1)
	return mention
}

// MentionConfig describes one mention type.
type MentionConfig struct {
	// Prefix is the string that introduces a mention, for example "@".
	Prefix string
	// Pattern is a bare regular expression (RE2 syntax) for the
	// identifier following the prefix.
	// It must not carry delimiters or flags;
	// matching is anchored at the prefix
	// and case sensitivity is controlled inline with (?i).
	Pattern string
	// Generator resolves matched mentions.
	// It may be a URL template string containing "%s",
	// a func(*Mention) *Mention,
	// or a [MentionGenerator].
	Generator any
}

// A MentionExtension autolinks configured mention patterns,
// like Twitter handles or issue numbers.
//
// A recognized mention whose generator supplies a URL
// produces a link wrapping the mention's source text.
// Inside a link or image description mentions are not linked
// and stay literal.
type MentionExtension struct {
	parsers []*mentionParser
}

// NewMentionExtension validates the given mention types
// and returns an extension recognizing all of them.
// Configuration problems are reported as a [*ConfigError] here,
// before any parsing happens.
func NewMentionExtension(configs map[string]MentionConfig) (*MentionExtension, error) {
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	ext := new(MentionExtension)
	for _, name := range names {
		mp, err := newMentionParser(name, configs[name])
		if err != nil {
			return nil, err
		}
		ext.parsers = append(ext.parsers, mp)
	}
	return ext, nil
}

// Extend implements [commonmark.Extender].
func (e *MentionExtension) Extend(p *commonmark.InlineParser) {
	for _, mp := range e.parsers {
		p.AddTriggerParser(mp)
	}
}

func newMentionParser(name string, config MentionConfig) (*mentionParser, error) {
	if config.Prefix == "" {
		return nil, &ConfigError{
			Extension: "mentions",
			Key:       name + ".prefix",
			Reason:    "prefix must be a non-empty string",
		}
	}
	if config.Pattern == "" {
		return nil, &ConfigError{
			Extension: "mentions",
			Key:       name + ".pattern",
			Reason:    "pattern must be a non-empty string",
		}
	}
	if delimited, flags := looksDelimited(config.Pattern); delimited {
		reason := "pattern must be a bare expression without delimiters"
		if flags != "" {
			reason = fmt.Sprintf("pattern must be a bare expression without delimiters; move flags %q inline, like (?%s)", flags, flags)
		}
		return nil, &ConfigError{
			Extension: "mentions",
			Key:       name + ".pattern",
			Reason:    reason,
		}
	}
	pattern, err := regexp.Compile(`\A(?:` + config.Pattern + `)`)
	if err != nil {
		return nil, &ConfigError{
			Extension: "mentions",
			Key:       name + ".pattern",
			Reason:    fmt.Sprintf("invalid pattern: %v", err),
		}
	}
	generator, cfgErr := resolveGenerator(name, config.Generator)
	if cfgErr != nil {
		return nil, cfgErr
	}
	return &mentionParser{
		name:      name,
		prefix:    config.Prefix,
		pattern:   pattern,
		generator: generator,
	}, nil
}

// looksDelimited reports whether pattern appears to be wrapped in
// PCRE-style delimiters,
// possibly with trailing flag letters, like "/\w+/i".
func looksDelimited(pattern string) (delimited bool, flags string) {
	if len(pattern) < 2 || pattern[0] != '/' {
		return false, ""
	}
	end := strings.LastIndexByte(pattern[1:], '/')
	if end < 0 {
		return false, ""
	}
	flags = pattern[end+2:]
	for i := 0; i < len(flags); i++ {
		if !('a' <= flags[i] && flags[i] <= 'z') {
			return false, ""
		}
	}
	return true, flags
}

func resolveGenerator(name string, generator any) (MentionGenerator, error) {
	switch g := generator.(type) {
	case nil:
		return nil, &ConfigError{
			Extension: "mentions",
			Key:       name + ".generator",
			Reason:    "a generator is required",
		}
	case string:
		if !strings.Contains(g, "%s") {
			return nil, &ConfigError{
				Extension: "mentions",
				Key:       name + ".generator",
				Reason:    `a URL template must contain a "%s" placeholder`,
			}
		}
		return stringTemplateGenerator{template: g}, nil
	case MentionGenerator:
		return g, nil
	case func(*Mention) *Mention:
		return MentionGeneratorFunc(g), nil
	default:
		return nil, &ConfigError{
			Extension: "mentions",
			Key:       name + ".generator",
			Reason:    fmt.Sprintf("unsupported generator type %T; use a URL template string, a func(*Mention) *Mention, or a MentionGenerator", generator),
		}
	}
}

// ParseMentionConfig converts a decoded configuration map
// (for example from a JSON or YAML settings file)
// into mention types for [NewMentionExtension].
// Each entry maps a mention type name to a map with
// "prefix", "pattern", and "generator" keys.
func ParseMentionConfig(raw map[string]any) (map[string]MentionConfig, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	configs := make(map[string]MentionConfig, len(raw))
	for _, name := range names {
		entry, ok := raw[name].(map[string]any)
		if !ok {
			return nil, &ConfigError{
				Extension: "mentions",
				Key:       name,
				Reason:    fmt.Sprintf("entry must be a map, not %T", raw[name]),
			}
		}
		if _, found := entry["symbol"]; found {
			return nil, &ConfigError{
				Extension: "mentions",
				Key:       name + ".symbol",
				Reason:    `the "symbol" option was renamed to "prefix"`,
			}
		}
		config := MentionConfig{Generator: entry["generator"]}
		keys := make([]string, 0, len(entry))
		for key := range entry {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			switch key {
			case "prefix":
				config.Prefix, ok = entry[key].(string)
			case "pattern":
				config.Pattern, ok = entry[key].(string)
			case "generator":
				ok = true
			default:
				return nil, &ConfigError{
					Extension: "mentions",
					Key:       name + "." + key,
					Reason:    "unknown option",
				}
			}
			if !ok {
				return nil, &ConfigError{
					Extension: "mentions",
					Key:       name + "." + key,
					Reason:    fmt.Sprintf("must be a string, not %T", entry[key]),
				}
			}
		}
		configs[name] = config
	}
	return configs, nil
}

// mentionParser recognizes one configured mention type.
type mentionParser struct {
	name      string
	prefix    string
	pattern   *regexp.Regexp
	generator MentionGenerator
}

func (mp *mentionParser) Triggers() []byte {
	return []byte{mp.prefix[0]}
}

func (mp *mentionParser) Parse(pc *commonmark.Context) bool {
	cur := pc.Cursor()
	source := pc.Source()
	pos := cur.Position()
	if !bytes.HasPrefix(source[pos:], []byte(mp.prefix)) {
		return false
	}
	// "foo@bar" must not mention bar;
	// the prefix cannot follow a word character.
	if prev := cur.PrevRune(); prev == '_' || unicode.IsLetter(prev) || unicode.IsDigit(prev) {
		return false
	}
	match := mp.pattern.Find(source[pos+len(mp.prefix):])
	if match == nil {
		return false
	}

	length := len(mp.prefix) + len(match)
	text := source[pos : pos+length]
	mention := mp.generator.GenerateMention(&Mention{
		Name:       mp.name,
		Prefix:     mp.prefix,
		Identifier: string(match),
	})
	switch {
	case mention == nil:
		pc.AppendNode(commonmark.NewText(text))
	case mention.URL == "":
		node := commonmark.NewInline(MentionKind)
		node.SetLiteral(text)
		node.SetData(mention)
		pc.AppendNode(node)
	default:
		link := commonmark.NewInline(commonmark.LinkKind)
		link.SetDestination(mention.URL)
		link.SetData(mention)
		link.AppendChild(commonmark.NewText(text))
		pc.AppendNode(link)
	}
	cur.AdvanceBy(length)
	return true
}
