package sheet

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func joinLines(delim string, rows ...[]string) string {
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(strings.Join(r, delim))
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestParse_RoundTripAllDelimiters(t *testing.T) {
	header := []string{"Barcode", "Name", "On Hand", "Reserved"}
	data := [][]string{
		{"123", "Apple", "10", "2"},
		{"ABC-999", "Banana", "5", "0"},
	}

	delims := map[string]string{
		"comma":     ",",
		"tab":       "\t",
		"semicolon": ";",
		"pipe":      "|",
	}

	for name, d := range delims {
		t.Run(name, func(t *testing.T) {
			text := joinLines(d, header, data[0], data[1])
			table, err := Parse(text)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(table.Rows) != 2 {
				t.Fatalf("got %d rows, want 2", len(table.Rows))
			}
			if len(table.Headers) != 4 {
				t.Fatalf("got headers %v, want 4", table.Headers)
			}
			if table.Rows[0]["Name"] != "Apple" || table.Rows[0]["On Hand"] != "10" {
				t.Errorf("row 0 mismatch: %v", table.Rows[0])
			}
			if table.Rows[1]["Barcode"] != "ABC-999" || table.Rows[1]["Reserved"] != "0" {
				t.Errorf("row 1 mismatch: %v", table.Rows[1])
			}
		})
	}
}

func TestParse_SkipsBlankAndDelimiterOnlyLines(t *testing.T) {
	text := "Barcode,Name,On Hand\n\n,,\n   \n123,Apple,10\n"
	table, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("got %d rows, want 1: %v", len(table.Rows), table.Rows)
	}
	if table.Rows[0]["Barcode"] != "123" {
		t.Errorf("unexpected row: %v", table.Rows[0])
	}
}

func TestParse_StripsBOM(t *testing.T) {
	text := "\uFEFFBarcode,Name,On Hand\n123,Apple,10\n"
	table, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if table.Headers[0] != "Barcode" {
		t.Errorf("header 0 = %q, want %q", table.Headers[0], "Barcode")
	}
	if table.Rows[0]["Barcode"] != "123" {
		t.Errorf("BOM header broke row lookup: %v", table.Rows[0])
	}
}

func TestParse_ShortRowPadsEmpty(t *testing.T) {
	text := "Barcode,Name,On Hand,Reserved\n123,Apple,10\n"
	table, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := table.Rows[0]["Reserved"]; got != "" {
		t.Errorf("Reserved = %q, want empty", got)
	}
}

func TestParse_Base64Input(t *testing.T) {
	plain := "Barcode,Name,On Hand\n123,Apple,10\n"
	encoded := base64.StdEncoding.EncodeToString([]byte(plain))

	table, err := Parse(encoded)
	if err != nil {
		t.Fatalf("Parse failed on base64 input: %v", err)
	}
	if table.Rows[0]["Name"] != "Apple" {
		t.Errorf("unexpected row: %v", table.Rows[0])
	}
}

func TestParse_TotalFailure(t *testing.T) {
	_, err := Parse("just one line with no delimiters at all")
	if err == nil {
		t.Fatal("expected error for unparseable input")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if !strings.Contains(pe.Snippet, "just one line") {
		t.Errorf("snippet missing first line: %q", pe.Snippet)
	}
}

func TestParse_FailureSnippetTruncated(t *testing.T) {
	long := strings.Repeat("x", 500)
	_, err := Parse(long)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if len(pe.Snippet) > snippetLen {
		t.Errorf("snippet length %d exceeds %d", len(pe.Snippet), snippetLen)
	}
}

func TestParse_FailureSnippetKeepsValidUTF8(t *testing.T) {
	// 3-byte runes land the byte limit mid-rune
	long := strings.Repeat("日", 100)
	_, err := Parse(long)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if len(pe.Snippet) > snippetLen {
		t.Errorf("snippet length %d exceeds %d", len(pe.Snippet), snippetLen)
	}
	if !utf8.ValidString(pe.Snippet) {
		t.Errorf("snippet truncated mid-rune: %q", pe.Snippet)
	}
}

func TestMaybeDecodeBase64_LeavesLiteralCSV(t *testing.T) {
	plain := "Barcode,Name,On Hand\n123,Apple,10\n"
	if got := maybeDecodeBase64(plain); got != plain {
		t.Errorf("literal CSV was rewritten: %q", got)
	}
}

func TestMaybeDecodeBase64_RejectsNonDelimitedPayload(t *testing.T) {
	// Valid base64, but the decoded bytes do not look like delimited text.
	encoded := base64.StdEncoding.EncodeToString([]byte("hello"))
	if got := maybeDecodeBase64(encoded); got != encoded {
		t.Errorf("payload without delimiters was decoded: %q", got)
	}
}
