package renderer

import (
	"bytes"

	md "github.com/nao1215/markdown"
	"github.com/tbower/tradebook"
)

// AlertsMarkdown renders the day's price alerts as a bullet list.
func AlertsMarkdown(alerts []tradebook.Alert) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Stock alerts")
	if len(alerts) == 0 {
		doc.PlainText("Nothing notable today.")
		return doc.String()
	}
	var lines []string
	for _, a := range alerts {
		lines = append(lines, a.String())
	}
	doc.BulletList(lines...)
	return doc.String()
}
