// Package renderer turns engine outputs into markdown summaries, HTML
// email bodies and PNG charts.
package renderer

import "os"

// writeFile writes rendered bytes to a path, creating or truncating it.
func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
