package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phyten/duskify/internal/engine"
)

var sampleChanges = []engine.Change{
	{
		Index:          0,
		Tag:            "body",
		Path:           "html > body",
		Property:       "background-color",
		From:           "rgb(255, 255, 255)",
		To:             "rgb(10, 10, 10)",
		FromBrightness: 255,
		ToBrightness:   10,
	},
	{
		Index:          0,
		Tag:            "body",
		Path:           "html > body",
		Property:       "color",
		From:           "rgb(51, 51, 51)",
		To:             "rgb(227, 227, 227)",
		FromBrightness: 51,
		ToBrightness:   227,
		Contrast:       12.5,
	},
	{
		Index:          3,
		Tag:            "a",
		Path:           "html > body > p > a",
		Property:       "color",
		From:           "#0066cc",
		To:             "rgb(102, 178, 255)",
		FromBrightness: 83.1,
		ToBrightness:   152.9,
		Contrast:       6.4,
	},
}

func TestWriteCSV(t *testing.T) {
	sel, err := ResolveFields("index,tag,property,from,to,contrast", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleChanges, sel); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	assertGolden(t, "want-csv.csv", buf.String())
	if !strings.Contains(buf.String(), "\r\n") {
		t.Fatal("CSV output should use CRLF line endings")
	}
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNDJSON(&buf, sampleChanges); err != nil {
		t.Fatalf("WriteNDJSON failed: %v", err)
	}
	output := buf.String()
	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	if len(lines) != len(sampleChanges) {
		t.Fatalf("expected %d lines, got %d", len(sampleChanges), len(lines))
	}
	for i, line := range lines {
		if !json.Valid([]byte(line)) {
			t.Fatalf("line %d is not valid JSON: %s", i, line)
		}
		var c engine.Change
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			t.Fatalf("failed to decode line %d: %v", i, err)
		}
	}
	if strings.Contains(output, "\\u003e") {
		t.Fatal("HTML characters should not be escaped in NDJSON output")
	}
	assertGolden(t, "want-ndjson.ndjson", output)
}

func TestWriteMarkdownTable(t *testing.T) {
	sel, err := ResolveFields("tag,property,from,to", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteMarkdownTable(&buf, sampleChanges, sel); err != nil {
		t.Fatalf("WriteMarkdownTable failed: %v", err)
	}
	assertGolden(t, "want-md.md", buf.String())
}

func TestEscapeMarkdownCell(t *testing.T) {
	got := escapeMarkdownCell("a|b\r\nc")
	if got != "a\\|b<br>c" {
		t.Fatalf("escapeMarkdownCell mismatch: %q", got)
	}
}

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	path := filepath.Join("testdata", name)
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", name, err)
	}
	if diff := diffStrings(string(want), got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func diffStrings(want, got string) string {
	if want == got {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("want:\n")
	buf.WriteString(want)
	if !strings.HasSuffix(want, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("got:\n")
	buf.WriteString(got)
	return buf.String()
}
