package adjlist

import (
	"fmt"
	"strings"
)

// Separator divides a line's source label from its neighbor list.
const Separator = "->"

// Parse failure reasons.
const (
	ReasonMissingSeparator  = "missing \"->\" separator"
	ReasonRepeatedSeparator = "more than one \"->\" separator"
	ReasonEmptySource       = "empty source label"
	ReasonEmptyNeighbor     = "empty neighbor label"
)

// ParseError reports a malformed line. Line is 1-based.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Entry is one parsed line: a source label and its declared neighbors.
type Entry struct {
	Line      int
	Source    string
	Neighbors []string
}

// Parse splits text into entries, one per non-blank line of the form
// "SOURCE->N1,N2,...". Every label is trimmed of surrounding whitespace.
// Blank lines are skipped, so empty text yields no entries and no error.
// The first malformed line stops parsing with a *ParseError.
func Parse(text string) ([]Entry, error) {
	var entries []Entry
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, reason := parseLine(line)
		if reason != "" {
			return nil, &ParseError{Line: i + 1, Text: line, Reason: reason}
		}
		entry.Line = i + 1
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseLine returns the failure reason for a malformed line, or "".
func parseLine(line string) (Entry, string) {
	source, rest, found := strings.Cut(line, Separator)
	if !found {
		return Entry{}, ReasonMissingSeparator
	}
	if strings.Contains(rest, Separator) {
		return Entry{}, ReasonRepeatedSeparator
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return Entry{}, ReasonEmptySource
	}

	tokens := strings.Split(rest, ",")
	neighbors := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return Entry{}, ReasonEmptyNeighbor
		}
		neighbors = append(neighbors, tok)
	}
	return Entry{Source: source, Neighbors: neighbors}, ""
}
