package renderer

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var emailMarkdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML converts report markdown to the HTML body of an email. Tables are
// the whole point of the reports, so the table extension is always on.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := emailMarkdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("cannot convert report to HTML: %w", err)
	}
	return buf.String(), nil
}
