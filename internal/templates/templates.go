// Package templates is the registry of sandbox environments the backend can
// launch. Definitions live in an embedded YAML file so the frontend, backend
// and this gateway agree on template IDs.
package templates

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed templates.yaml
var templatesYAML []byte

// Template describes one sandbox environment.
type Template struct {
	Name         string   `yaml:"name"`
	Lib          []string `yaml:"lib"`
	File         string   `yaml:"file"`
	Instructions string   `yaml:"instructions"`
	Port         int      `yaml:"port"`
}

// Registry holds the known templates keyed by template ID.
type Registry struct {
	templates map[string]Template
}

// Load parses the embedded template definitions.
func Load() (*Registry, error) {
	var parsed map[string]Template
	if err := yaml.Unmarshal(templatesYAML, &parsed); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Registry{templates: parsed}, nil
}

// NormalizeID strips the -dev suffix used by locally built sandbox images.
func NormalizeID(id string) string {
	return strings.TrimSuffix(id, "-dev")
}

// Get returns the template for an ID, tolerating the -dev suffix.
func (r *Registry) Get(id string) (Template, bool) {
	t, ok := r.templates[NormalizeID(id)]
	return t, ok
}

// IDs returns all template IDs in stable order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ToPrompt renders the template catalogue as the numbered list the system
// prompt embeds.
func (r *Registry) ToPrompt() string {
	var b strings.Builder
	for i, id := range r.IDs() {
		t := r.templates[id]
		port := "none"
		if t.Port != 0 {
			port = fmt.Sprintf("%d", t.Port)
		}
		file := t.File
		if file == "" {
			file = "none"
		}
		fmt.Fprintf(&b, "%d. %s: %q. File: %s. Dependencies installed: %s. Port: %s.\n",
			i+1, id, t.Instructions, file, strings.Join(t.Lib, ", "), port)
	}
	return strings.TrimRight(b.String(), "\n")
}
