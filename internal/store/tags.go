package store

// TagChange reports the effect of SetTags.
type TagChange struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Tags    []string `json:"tags"`
}

// SetTags adds then removes tags. A tag named in both lists ends up present:
// add wins. Tags are lowercased and keep their insertion order.
func (s Store) SetTags(e Entry, add, remove []string) (TagChange, error) {
	cur, err := s.read(e.ID)
	if err != nil {
		return TagChange{}, err
	}

	adding := []string{}
	for _, t := range add {
		adding = appendTag(adding, t)
	}

	ch := TagChange{Added: []string{}, Removed: []string{}}
	tags := append([]string{}, cur.Tags...)
	for _, t := range adding {
		if !containsTag(tags, t) {
			tags = append(tags, t)
			ch.Added = append(ch.Added, t)
		}
	}
	for _, t := range remove {
		t = normalizeTag(t)
		if t == "" || containsTag(adding, t) || !containsTag(tags, t) {
			continue
		}
		tags = removeTag(tags, t)
		ch.Removed = append(ch.Removed, t)
	}
	ch.Tags = tags

	cur.Tags = tags
	if err := s.write(cur, cur.rawBody); err != nil {
		return TagChange{}, err
	}
	return ch, nil
}

// ToggleSynthesised flips the synthesised flag and returns the new value.
func (s Store) ToggleSynthesised(e Entry) (bool, error) {
	cur, err := s.read(e.ID)
	if err != nil {
		return false, err
	}
	cur.Synthesised = !cur.Synthesised
	if err := s.write(cur, cur.rawBody); err != nil {
		return false, err
	}
	return cur.Synthesised, nil
}

func removeTag(tags []string, t string) []string {
	out := tags[:0:0]
	for _, x := range tags {
		if x != t {
			out = append(out, x)
		}
	}
	return out
}
