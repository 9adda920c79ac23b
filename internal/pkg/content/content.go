// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package content renders and summarizes user-authored question and answer bodies.
package content

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in bodies is dropped by the renderer; only markdown constructs survive.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// RenderMarkdown converts a markdown body into HTML.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// PlainText renders the body and strips markup, collapsing whitespace.
func PlainText(source string) string {
	rendered, err := RenderMarkdown(source)
	if err != nil {
		rendered = source
	}
	text := tagPattern.ReplaceAllString(rendered, " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

// Excerpt returns at most max runes of the plain text, ending with an ellipsis when cut.
func Excerpt(source string, max int) string {
	text := PlainText(source)
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:max])) + "…"
}
