package sheet

import (
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Row is one parsed record, keyed by header name.
type Row map[string]string

// Table is the result of a successful parse: the ordered rows, the
// header list from the first line, and which delimiter strategy
// succeeded (kept for diagnostics).
type Table struct {
	Rows     []Row
	Headers  []string
	Strategy string
}

// ParseError reports that no delimiter strategy produced any data rows.
// Malformed input is an expected, recoverable case: the error carries a
// snippet of the first line so the user can see what was loaded.
type ParseError struct {
	Snippet string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse file as delimited text (first line: %q)", e.Snippet)
}

const snippetLen = 200

var delimiterCandidates = []rune{',', '\t', ';', '|'}

// Parse ingests raw delimited text into a Table. The input may itself
// be base64-encoded (some store frontends upload it that way); that is
// detected heuristically and decoded first. Delimiter strategies are
// tried in fixed priority order until one yields at least one data row:
// auto-detected delimiter, then forced comma, tab, semicolon and pipe.
func Parse(text string) (*Table, error) {
	text = maybeDecodeBase64(text)
	text = strings.TrimPrefix(text, bom)

	if delim, ok := detectDelimiter(text); ok {
		if t := parseWith(text, delim); t != nil {
			t.Strategy = "auto:" + delimiterName(delim)
			return t, nil
		}
	}
	for _, delim := range delimiterCandidates {
		if t := parseWith(text, delim); t != nil {
			t.Strategy = delimiterName(delim)
			return t, nil
		}
	}
	return nil, &ParseError{Snippet: firstLineSnippet(text)}
}

// parseWith attempts a single delimiter. Returns nil when the attempt
// yields no data rows.
func parseWith(text string, delim rune) *Table {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil || len(records) < 2 {
		return nil
	}

	headers := make([]string, 0, len(records[0]))
	for _, h := range records[0] {
		headers = append(headers, strings.TrimSpace(strings.TrimPrefix(h, bom)))
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}

	return &Table{Rows: rows, Headers: headers}
}

// blankRecord reports whether every field is empty or whitespace, which
// also covers lines consisting only of delimiters.
func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// detectDelimiter picks the candidate occurring most often in the first
// non-blank line.
func detectDelimiter(text string) (rune, bool) {
	line := firstNonBlankLine(text)
	var best rune
	bestCount := 0
	for _, d := range delimiterCandidates {
		if c := strings.Count(line, string(d)); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best, bestCount > 0
}

func delimiterName(d rune) string {
	switch d {
	case ',':
		return "comma"
	case '\t':
		return "tab"
	case ';':
		return "semicolon"
	case '|':
		return "pipe"
	}
	return string(d)
}

func firstNonBlankLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

func firstLineSnippet(text string) string {
	line := text
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimRight(line, "\r")
	if len(line) > snippetLen {
		// back off to a rune boundary so the snippet stays valid UTF-8
		cut := snippetLen
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		line = line[:cut]
	}
	return line
}

// base64Pattern matches text restricted to the base64 alphabet (plus
// whitespace and trailing padding). All four supported delimiters except
// tab fall outside the alphabet, so genuine CSV text fails fast.
var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/\s]+={0,2}\s*$`)

// maybeDecodeBase64 guesses whether the text is a base64-encoded file
// body rather than literal CSV. The guess is best-effort: the charset
// must match, the decode must succeed, and the decoded bytes must look
// like delimited text. A file whose content happens to be restricted to
// the base64 alphabet can in principle be misclassified; the worst case
// is a parse failure downstream, which surfaces as a normal parse error.
func maybeDecodeBase64(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 8 || !base64Pattern.MatchString(trimmed) {
		return text
	}

	compact := strings.Join(strings.Fields(trimmed), "")
	decoded, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return text
	}
	if !utf8.Valid(decoded) {
		return text
	}
	if !strings.ContainsAny(string(decoded), ",\t;|\n") {
		return text
	}
	return string(decoded)
}
