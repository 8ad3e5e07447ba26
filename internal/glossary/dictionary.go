// Package glossary loads versioned term dictionaries and finds fixed term
// translations in a text so they can be injected into translation prompts.
package glossary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"codeberg.org/snonux/transbridge/internal/language"
)

// Format identifies the encoding of a dictionary document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Entry is a single dictionary term with its aliases and fixed translations
type Entry struct {
	ID       string                     `json:"id" yaml:"id"`
	Aliases  map[language.Code][]string `json:"aliases" yaml:"aliases"`
	Targets  map[language.Code]string   `json:"targets" yaml:"targets"`
	Category string                     `json:"category,omitempty" yaml:"category,omitempty"`
	Note     string                     `json:"note,omitempty" yaml:"note,omitempty"`
}

// Dictionary is an immutable set of entries loaded from one file. It is safe
// for concurrent use.
type Dictionary struct {
	Name    string
	Version string
	Entries []Entry
}

// ValidationError names the field of a dictionary document that is malformed
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid dictionary: %s: %s", e.Field, e.Reason)
}

// Load reads and validates a dictionary file. The format is chosen by the
// file extension; anything but .yaml/.yml is treated as JSON.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}

	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}

	dict, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dict, nil
}

// Parse decodes and validates an in-memory dictionary document
func Parse(data []byte, format Format) (*Dictionary, error) {
	var doc map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}
	if doc == nil {
		return nil, &ValidationError{Field: "document", Reason: "empty"}
	}

	return validate(doc)
}

func validate(doc map[string]any) (*Dictionary, error) {
	name, err := requireString(doc, "name", "name")
	if err != nil {
		return nil, err
	}
	version, err := requireString(doc, "version", "version")
	if err != nil {
		return nil, err
	}

	raw, ok := doc["entries"]
	if !ok {
		return nil, &ValidationError{Field: "entries", Reason: "missing"}
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, &ValidationError{Field: "entries", Reason: "must be an array"}
	}

	dict := &Dictionary{Name: name, Version: version, Entries: make([]Entry, 0, len(items))}
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		field := fmt.Sprintf("entries[%d]", i)
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &ValidationError{Field: field, Reason: "must be an object"}
		}

		entry, err := parseEntry(field, obj)
		if err != nil {
			return nil, err
		}
		if seen[entry.ID] {
			return nil, &ValidationError{Field: field + ".id", Reason: fmt.Sprintf("duplicate id %q", entry.ID)}
		}
		seen[entry.ID] = true
		dict.Entries = append(dict.Entries, entry)
	}

	return dict, nil
}

func parseEntry(field string, obj map[string]any) (Entry, error) {
	id, err := requireString(obj, "id", field+".id")
	if err != nil {
		return Entry{}, err
	}
	entry := Entry{
		ID:      id,
		Aliases: make(map[language.Code][]string),
		Targets: make(map[language.Code]string),
	}

	if raw, ok := obj["aliases"]; ok {
		aliases, ok := raw.(map[string]any)
		if !ok {
			return Entry{}, &ValidationError{Field: field + ".aliases", Reason: "must be an object"}
		}
		for key, v := range aliases {
			langField := field + ".aliases." + key
			lang, err := language.Parse(key)
			if err != nil {
				return Entry{}, &ValidationError{Field: langField, Reason: "unknown language"}
			}
			list, ok := v.([]any)
			if !ok {
				return Entry{}, &ValidationError{Field: langField, Reason: "must be an array"}
			}
			for j, a := range list {
				s, ok := a.(string)
				if !ok || strings.TrimSpace(s) == "" {
					return Entry{}, &ValidationError{Field: fmt.Sprintf("%s[%d]", langField, j), Reason: "empty alias"}
				}
				entry.Aliases[lang] = append(entry.Aliases[lang], s)
			}
		}
	}

	if raw, ok := obj["targets"]; ok {
		targets, ok := raw.(map[string]any)
		if !ok {
			return Entry{}, &ValidationError{Field: field + ".targets", Reason: "must be an object"}
		}
		for key, v := range targets {
			targetField := field + ".targets." + key
			lang, err := language.Parse(key)
			if err != nil {
				return Entry{}, &ValidationError{Field: targetField, Reason: "unknown language"}
			}
			s, ok := v.(string)
			if !ok || strings.TrimSpace(s) == "" {
				return Entry{}, &ValidationError{Field: targetField, Reason: "must be a non-empty string"}
			}
			entry.Targets[lang] = s
		}
	}

	if entry.Category, err = optionalString(obj, "category", field+".category"); err != nil {
		return Entry{}, err
	}
	if entry.Note, err = optionalString(obj, "note", field+".note"); err != nil {
		return Entry{}, err
	}

	return entry, nil
}

func requireString(obj map[string]any, key, field string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", &ValidationError{Field: field, Reason: "missing"}
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", &ValidationError{Field: field, Reason: "must be a non-empty string"}
	}
	return s, nil
}

func optionalString(obj map[string]any, key, field string) (string, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", &ValidationError{Field: field, Reason: "must be a string"}
	}
	return s, nil
}
