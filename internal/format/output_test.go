package format

import (
	"bytes"
	"strings"
	"testing"
)

type row struct {
	Index int      `json:"index"`
	ID    string   `json:"id"`
	Tags  []string `json:"tags"`
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []row{{Index: 1, ID: "2026012201", Tags: []string{"work"}}}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `[{"index":1,"id":"2026012201","tags":["work"]}]` + "\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWrite_YAMLUsesJSONNames(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, row{Index: 2, ID: "2026012101", Tags: []string{"a", "b"}}, YAML, false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"id: \"2026012101\"", "index: 2", "tags:\n  - a\n  - b"} {
		if !strings.Contains(out, want) {
			t.Fatalf("yaml output missing %q:\n%s", want, out)
		}
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
