// Package category resolves raw labels against a many-to-many category
// mapping. A label may belong to several categories; such ambiguity is
// returned to the caller as a ManyMatches result instead of being resolved.
package category

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags the shape of a Match.
type Kind int

const (
	NoMatch Kind = iota
	OneMatch
	ManyMatches
)

func (k Kind) String() string {
	switch k {
	case OneMatch:
		return "one"
	case ManyMatches:
		return "many"
	default:
		return "none"
	}
}

// Match is the tagged result of Resolve.
type Match struct {
	names []string
}

// Kind reports whether the match is empty, unique or ambiguous.
func (m Match) Kind() Kind {
	switch len(m.names) {
	case 0:
		return NoMatch
	case 1:
		return OneMatch
	default:
		return ManyMatches
	}
}

// Name returns the single category name. It is empty unless Kind is OneMatch.
func (m Match) Name() string {
	if len(m.names) != 1 {
		return ""
	}
	return m.names[0]
}

// Names returns every matching category in mapping order.
func (m Match) Names() []string {
	return append([]string(nil), m.names...)
}

// Label renders the match as a report key: "" for NoMatch, the name for
// OneMatch and the names joined with "|" for ManyMatches.
func (m Match) Label() string {
	return strings.Join(m.names, "|")
}

func (m Match) String() string {
	switch m.Kind() {
	case NoMatch:
		return "<none>"
	case OneMatch:
		return m.names[0]
	default:
		return "[" + strings.Join(m.names, ", ") + "]"
	}
}

// Single builds a OneMatch result; useful in tests and for fixed categories.
func Single(name string) Match { return Match{names: []string{name}} }

// Category is one canonical category and the raw labels that belong to it.
type Category struct {
	Name   string
	Labels []string
}

// Mapping is an ordered list of categories. Order matters: it is the order of
// names in a ManyMatches result.
type Mapping []Category

// Resolve returns every category whose labels contain value. Comparison is
// exact and case-sensitive.
func (m Mapping) Resolve(value string) Match {
	var names []string
	for _, c := range m {
		for _, l := range c.Labels {
			if l == value {
				names = append(names, c.Name)
				break
			}
		}
	}
	return Match{names: names}
}

// Names lists the category names in order.
func (m Mapping) Names() []string {
	out := make([]string, len(m))
	for i, c := range m {
		out[i] = c.Name
	}
	return out
}

// UnmarshalJSON decodes an object of name -> label | [labels], preserving the
// key order of the source document. A name given twice is an error.
func (m *Mapping) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		*m = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("category mapping: expected object, got %v", tok)
	}
	var out Mapping
	seen := map[string]bool{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("category mapping: expected key, got %v", tok)
		}
		if seen[name] {
			return fmt.Errorf("category mapping: duplicate category %q", name)
		}
		seen[name] = true
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("category mapping %q: %w", name, err)
		}
		labels, err := decodeLabels(raw)
		if err != nil {
			return fmt.Errorf("category mapping %q: %w", name, err)
		}
		out = append(out, Category{Name: name, Labels: labels})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

func decodeLabels(raw json.RawMessage) ([]string, error) {
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, fmt.Errorf("labels must be a string or an array of strings")
	}
	return many, nil
}

// MarshalJSON writes the mapping as an ordered object of label arrays.
func (m Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		labels := c.Labels
		if labels == nil {
			labels = []string{}
		}
		v, err := json.Marshal(labels)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
