package importer

import "regexp"

// Vendor exports wrap the actual table in a free-text preamble and
// often a trailing disclaimer block. The table itself never contains
// a blank line, so a run of contiguous non-blank lines starting at
// the header is the whole table.

// csvBlockPattern builds the extractor for one dialect: the literal
// start of its header line, then every following non-blank line.
func csvBlockPattern(headerPrefix string) *regexp.Regexp {
	return regexp.MustCompile(headerPrefix + `(?:[^\r\n]+\r?\n?)+`)
}

// extractBlock returns the embedded table, or "" when the header is
// not present. A vendor renaming a column lands here, not in an
// error: the document simply no longer matches the dialect.
func extractBlock(text string, pattern *regexp.Regexp) string {
	return pattern.FindString(text)
}
