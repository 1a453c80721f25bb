package store

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"braindump/internal/outline"

	"gopkg.in/yaml.v3"
)

const fmDelim = "---"

// Entry is one journal file: frontmatter metadata plus a bullet body.
type Entry struct {
	ID          string           `json:"id"`
	Index       int              `json:"index,omitempty"` // 1-based "Nth most recent", 0 when unknown
	Date        time.Time        `json:"-"`
	Synthesised bool             `json:"synthesised"`
	Tags        []string         `json:"tags"`
	Body        []outline.Bullet `json:"body,omitempty"`
	Path        string           `json:"path"`

	// rawBody is the body text exactly as read, so metadata-only updates
	// do not reformat hand-edited content.
	rawBody string
}

// DateString returns the entry date as YYYY-MM-DD.
func (e Entry) DateString() string {
	return e.Date.Format(dateLayout)
}

// RawBody returns the body text as stored on disk.
func (e Entry) RawBody() string {
	return e.rawBody
}

type frontmatter struct {
	Date        string    `yaml:"date"`
	Synthesised bool      `yaml:"synthesised"`
	Tags        yaml.Node `yaml:"tags"`
}

// encodeFrontmatter writes the three keys in their fixed order with tags in
// flow style, e.g. `tags: [work, health]`.
func encodeFrontmatter(date time.Time, synthesised bool, tags []string) ([]byte, error) {
	tagSeq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, t := range tags {
		tagSeq.Content = append(tagSeq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t})
	}
	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "date"},
			{Kind: yaml.ScalarNode, Value: date.Format(dateLayout)},
			{Kind: yaml.ScalarNode, Value: "synthesised"},
			{Kind: yaml.ScalarNode, Value: strconv.FormatBool(synthesised)},
			{Kind: yaml.ScalarNode, Value: "tags"},
			tagSeq,
		},
	}

	var buf bytes.Buffer
	buf.WriteString(fmDelim + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteString(fmDelim + "\n")
	return buf.Bytes(), nil
}

// marshal renders the entry file with body as given.
func (e Entry) marshal(body string) ([]byte, error) {
	fm, err := encodeFrontmatter(e.Date, e.Synthesised, e.Tags)
	if err != nil {
		return nil, err
	}
	return append(fm, body...), nil
}

// splitFrontmatter separates the leading --- delimited block from the body.
func splitFrontmatter(data []byte) (fm []byte, body string, ok bool) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(text, fmDelim+"\n") {
		return nil, text, false
	}
	rest := text[len(fmDelim)+1:]
	if strings.HasPrefix(rest, fmDelim+"\n") || rest == fmDelim {
		return nil, strings.TrimPrefix(strings.TrimPrefix(rest, fmDelim), "\n"), true
	}
	idx := strings.Index(rest, "\n"+fmDelim)
	if idx < 0 {
		return nil, text, false
	}
	after := rest[idx+1+len(fmDelim):]
	if after != "" && after[0] != '\n' {
		return nil, text, false
	}
	return []byte(rest[:idx+1]), strings.TrimPrefix(after, "\n"), true
}

// parseEntry decodes an entry file. Missing or partial frontmatter falls back
// to the date encoded in the ID.
func parseEntry(id, path string, data []byte) (Entry, error) {
	date, _, err := ParseID(id)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{ID: id, Date: date, Path: path, Tags: []string{}}

	fmBytes, body, ok := splitFrontmatter(data)
	e.rawBody = body
	e.Body = outline.Parse(body)
	if !ok || len(bytes.TrimSpace(fmBytes)) == 0 {
		return e, nil
	}

	var fm frontmatter
	if err := yaml.Unmarshal(fmBytes, &fm); err != nil {
		return e, fmt.Errorf("frontmatter: %w", err)
	}
	e.Synthesised = fm.Synthesised
	if d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(fm.Date), time.Local); err == nil {
		e.Date = d
	}
	tags, err := decodeTags(&fm.Tags)
	if err != nil {
		return e, err
	}
	e.Tags = tags
	return e, nil
}

func decodeTags(n *yaml.Node) ([]string, error) {
	out := []string{}
	switch n.Kind {
	case 0:
		return out, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return out, nil
		}
		for _, t := range strings.Split(n.Value, ",") {
			out = appendTag(out, t)
		}
		return out, nil
	case yaml.SequenceNode:
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return nil, errors.New("frontmatter: tags must be a list of strings")
			}
			out = appendTag(out, c.Value)
		}
		return out, nil
	default:
		return nil, errors.New("frontmatter: tags must be a list of strings")
	}
}

// normalizeTag lowercases and trims a tag; tags compare case-insensitively.
func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

func appendTag(tags []string, t string) []string {
	t = normalizeTag(t)
	if t == "" || containsTag(tags, t) {
		return tags
	}
	return append(tags, t)
}

func containsTag(tags []string, t string) bool {
	for _, x := range tags {
		if x == t {
			return true
		}
	}
	return false
}
