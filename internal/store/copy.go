package store

import (
	"fmt"
	"strings"

	"braindump/internal/outline"
)

// RuleLine separates entries in a CopyBlob.
const RuleLine = "---"

// IntroLine identifies an entry in copied text, e.g.
// "Brain Dump #2 | Date: 22/01/2026 | Tags: work, health".
func IntroLine(e Entry) string {
	parts := []string{}
	if e.Index > 0 {
		parts = append(parts, fmt.Sprintf("Brain Dump #%d", e.Index))
	} else {
		parts = append(parts, "Brain Dump "+e.ID)
	}
	parts = append(parts, "Date: "+e.Date.Format("02/01/2006"))
	if len(e.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(e.Tags, ", "))
	}
	return strings.Join(parts, " | ")
}

// CopyBlob concatenates entries for the clipboard: each entry is its intro
// line followed by its body, and consecutive entries are separated by exactly
// one RuleLine.
func CopyBlob(entries []Entry) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		body := strings.Trim(e.rawBody, "\n")
		if body == "" {
			body = strings.TrimRight(outline.Render(outline.Compact(e.Body)), "\n")
		}
		block := IntroLine(e)
		if body != "" {
			block += "\n\n" + body
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n"+RuleLine+"\n\n") + "\n"
}

// CopyText is what `dump copy` puts on the clipboard: one lead line naming
// the entries, then their CopyBlob.
func CopyText(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	refs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Index > 0 {
			refs = append(refs, fmt.Sprint(e.Index))
		} else {
			refs = append(refs, e.ID)
		}
	}
	lead := "Here is a copy of my brain dump #" + refs[0] + ":"
	if len(refs) > 1 {
		lead = "Here is a copy of my brain dumps #" + strings.Join(refs, ", ") + ":"
	}
	return lead + "\n\n" + CopyBlob(entries)
}
