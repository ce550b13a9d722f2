package ner

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultProviders is the built-in gazetteer of known insurance providers,
// used when no gazetteer file is configured. Matches are case-sensitive
// exact substrings and take priority over generic recognizer output, since
// generic models are unreliable at organization names in this domain.
var DefaultProviders = []string{
	"Aetna",
	"Cigna",
	"UnitedHealthcare",
	"Anthem",
	"Humana",
	"Blue Cross Blue Shield",
}

// Gazetteer holds the known-provider list for custom PROVIDER matching.
type Gazetteer struct {
	providers []string
}

type gazetteerFile struct {
	Providers []string `yaml:"providers"`
}

// NewGazetteer returns a gazetteer over the given provider names, falling
// back to DefaultProviders when the list is empty.
func NewGazetteer(providers []string) *Gazetteer {
	if len(providers) == 0 {
		providers = DefaultProviders
	}
	return &Gazetteer{providers: providers}
}

// LoadGazetteer reads a YAML file of the form {providers: [...]}.
func LoadGazetteer(path string) (*Gazetteer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gazetteer: %w", err)
	}
	var f gazetteerFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse gazetteer: %w", err)
	}
	if len(f.Providers) == 0 {
		return nil, fmt.Errorf("gazetteer %s lists no providers", path)
	}
	return NewGazetteer(f.Providers), nil
}

// Match returns one PROVIDER entity per gazetteer name found in text, in
// gazetteer order. Matching is case-sensitive exact substring.
func (g *Gazetteer) Match(text string) []Entity {
	var out []Entity
	for _, p := range g.providers {
		if strings.Contains(text, p) {
			out = append(out, Entity{Kind: KindProvider, Text: p})
		}
	}
	return out
}
