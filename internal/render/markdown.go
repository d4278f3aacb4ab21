// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render converts session descriptions from markdown to sanitized HTML.
package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer is a reusable sanitization policy for user-authored content.
// UGCPolicy allows safe formatting tags while stripping scripts and handlers.
var htmlSanitizer = bluemonday.UGCPolicy()

// Markdown converts markdown text to sanitized HTML.
func Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// Sanitize strips unsafe HTML from raw text without markdown conversion.
func Sanitize(source string) string {
	return htmlSanitizer.Sanitize(source)
}
