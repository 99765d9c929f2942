package cli

import "strings"

// indentLines keeps multi-line values aligned under their report label.
func indentLines(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
