package finna

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoInstitution is returned when a record lacks institutions[0].translated
var ErrNoInstitution = errors.New("record has no institution")

// Record is a single search result. Its text leaves are kept in the order
// they appear in the response document.
type Record struct {
	fields  map[string]any
	leaves  []string
	ordered bool
}

// NewRecord wraps already decoded fields. Without a source document the text
// is walked in sorted key order.
func NewRecord(fields map[string]any) Record {
	return Record{fields: fields}
}

// UnmarshalJSON decodes the fields and collects every string and number leaf
// in document order
func (r *Record) UnmarshalJSON(data []byte) error {
	fields := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	if fields == nil {
		fields = make(map[string]any)
	}

	var leaves []string
	dec = json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := collectTokens(dec, &leaves); err != nil {
		return fmt.Errorf("failed to walk record: %w", err)
	}

	r.fields = fields
	r.leaves = leaves
	r.ordered = true
	return nil
}

// collectTokens reads one JSON value, skipping object keys
func collectTokens(dec *json.Decoder, leaves *[]string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		object := v == '{'
		for dec.More() {
			if object {
				if _, err := dec.Token(); err != nil {
					return err
				}
			}
			if err := collectTokens(dec, leaves); err != nil {
				return err
			}
		}
		// closing delimiter
		_, err := dec.Token()
		return err
	case string:
		if v != "" {
			*leaves = append(*leaves, v)
		}
	case json.Number:
		*leaves = append(*leaves, v.String())
	}
	return nil
}

// ID returns the record identifier, if any
func (r Record) ID() string {
	id, _ := r.fields["id"].(string)
	return id
}

// Institution returns the translated name of the first contributing institution
func (r Record) Institution() (string, error) {
	list, ok := r.fields["institutions"].([]any)
	if !ok || len(list) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoInstitution, r.ID())
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoInstitution, r.ID())
	}
	name, ok := first["translated"].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoInstitution, r.ID())
	}
	return name, nil
}

// Text flattens every string and number in the record into one
// space-separated string
func (r Record) Text() string {
	if r.ordered {
		return strings.Join(r.leaves, " ")
	}
	var parts []string
	collectText(r.fields, &parts)
	return strings.Join(parts, " ")
}

func collectText(v any, parts *[]string) {
	switch val := v.(type) {
	case string:
		if val != "" {
			*parts = append(*parts, val)
		}
	case json.Number:
		*parts = append(*parts, val.String())
	case float64:
		*parts = append(*parts, fmt.Sprint(val))
	case []any:
		for _, item := range val {
			collectText(item, parts)
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectText(val[k], parts)
		}
	}
}
