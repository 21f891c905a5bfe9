// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markup renders story bodies. Authors write Markdown; rendered
// output is sanitized so a story body can never inject script into a
// reader's page.
package markup

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// bodySanitizer uses bluemonday's UGCPolicy which allows safe HTML tags
// for user-generated content while stripping potentially dangerous
// elements like <script>, event handlers, etc.
var bodySanitizer = bluemonday.UGCPolicy()

var markdown = goldmark.New()

// RenderBody converts a Markdown story body to sanitized HTML.
func RenderBody(body string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("rendering body: %w", err)
	}
	return template.HTML(bodySanitizer.SanitizeBytes(buf.Bytes())), nil
}

// SanitizeBody strips dangerous HTML from a raw body without rendering
// Markdown. Used when accepting body text on write.
func SanitizeBody(body string) string {
	return bodySanitizer.Sanitize(body)
}
