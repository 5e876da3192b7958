// Package catalog loads the portfolio's project records from a JSON file or
// URL and validates them.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Link is an external link shown on a project page.
type Link struct {
	Href  string `json:"href" validate:"required"`
	Label string `json:"label"`
}

// Project is one portfolio entry.
type Project struct {
	Slug      string   `json:"slug" validate:"required"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary,omitempty"`
	Timeframe string   `json:"timeframe,omitempty"`
	Role      string   `json:"role,omitempty"`
	Purpose   string   `json:"purpose,omitempty"`
	Outcomes  string   `json:"outcomes,omitempty"`
	Hero      string   `json:"hero,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Links     []Link   `json:"links,omitempty" validate:"dive"`
	Overview  []string `json:"overview,omitempty"`
	Process   []string `json:"process,omitempty"`
	Results   []string `json:"results,omitempty"`
}

// Validate checks the struct-level constraints of a single record.
func (p *Project) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// Catalog is the ordered, immutable set of projects loaded for one render pass.
type Catalog struct {
	Projects []Project
}

// Len returns the number of projects.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Projects)
}

// Find returns the project with the given slug. When no project matches, or
// slug is empty, the first project is returned. ok is false only for an
// empty catalog.
func (c *Catalog) Find(slug string) (Project, bool) {
	if c.Len() == 0 {
		return Project{}, false
	}
	if slug != "" {
		for _, p := range c.Projects {
			if p.Slug == slug {
				return p, true
			}
		}
	}
	return c.Projects[0], true
}

// Validate checks every record and slug uniqueness.
func (c *Catalog) Validate() error {
	seen := make(map[string]int, c.Len())
	for i := range c.Projects {
		p := &c.Projects[i]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("project %d (%q): %w", i, p.Slug, err)
		}
		if prev, dup := seen[p.Slug]; dup {
			return fmt.Errorf("duplicate slug %q at projects %d and %d", p.Slug, prev, i)
		}
		seen[p.Slug] = i
	}
	return nil
}

// MarshalJSON encodes the catalog as a bare array, the on-disk format.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	if c.Projects == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Projects)
}

// Write stores the catalog as indented JSON.
func (c *Catalog) Write(path string) error {
	projects := c.Projects
	if projects == nil {
		projects = []Project{}
	}
	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling catalog: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing catalog to %s: %w", path, err)
	}
	return nil
}
