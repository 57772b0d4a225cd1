// Package majors holds the reference dataset of university degree programs
// and the matching logic that scores them against student interests.
//
// The dataset is embedded at build time and loaded once; accessors return
// copies so callers can never mutate the shared records.
package majors

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/ready4uni/advisor-go/internal/errors"
)

//go:embed majors.json
var embeddedDataset []byte

// Major is one degree program with its admission grade requirements.
// Requirement grades use the Portuguese 0-20 scale.
type Major struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	NamePT       string             `json:"name_pt,omitempty"`
	Description  string             `json:"description"`
	Requirements map[string]float64 `json:"requirements"`
	Keywords     []string           `json:"keywords"`
	CareerPaths  []string           `json:"career_paths"`
	Universities []string           `json:"universities"`
}

// clone returns a deep copy so callers cannot mutate catalog state.
func (m Major) clone() Major {
	out := m
	out.Requirements = make(map[string]float64, len(m.Requirements))
	for k, v := range m.Requirements {
		out.Requirements[k] = v
	}
	out.Keywords = append([]string(nil), m.Keywords...)
	out.CareerPaths = append([]string(nil), m.CareerPaths...)
	out.Universities = append([]string(nil), m.Universities...)
	return out
}

// Catalog is an immutable collection of majors.
type Catalog struct {
	majors []Major
}

// New parses and validates a majors dataset.
// Each record must carry id, name, description and requirements; requirement
// grades must be within [0,20]; ids must be unique.
func New(data []byte) (*Catalog, error) {
	var records []Major
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse majors dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("majors dataset is empty: %w", errors.ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(records))
	for i, m := range records {
		switch {
		case m.ID == "":
			return nil, fmt.Errorf("major at index %d missing id: %w", i, errors.ErrInvalidInput)
		case m.Name == "":
			return nil, fmt.Errorf("major %q missing name: %w", m.ID, errors.ErrInvalidInput)
		case m.Description == "":
			return nil, fmt.Errorf("major %q missing description: %w", m.ID, errors.ErrInvalidInput)
		case len(m.Requirements) == 0:
			return nil, fmt.Errorf("major %q missing requirements: %w", m.ID, errors.ErrInvalidInput)
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("duplicate major id %q: %w", m.ID, errors.ErrInvalidInput)
		}
		seen[m.ID] = struct{}{}
		for subject, grade := range m.Requirements {
			if grade < 0 || grade > 20 {
				return nil, fmt.Errorf("major %q requirement %q grade %.1f out of range [0,20]: %w", m.ID, subject, grade, errors.ErrInvalidInput)
			}
		}
	}

	return &Catalog{majors: records}, nil
}

var (
	defaultCatalog *Catalog
	defaultErr     error
	defaultOnce    sync.Once
)

// Default returns the catalog built from the embedded dataset.
// The dataset is parsed once; a malformed embedded file is a startup bug and
// surfaces as an error from every call.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = New(embeddedDataset)
	})
	return defaultCatalog, defaultErr
}

// Len returns the number of majors in the catalog.
func (c *Catalog) Len() int {
	return len(c.majors)
}

// All returns a copy of every major in dataset order.
func (c *Catalog) All() []Major {
	out := make([]Major, len(c.majors))
	for i, m := range c.majors {
		out[i] = m.clone()
	}
	return out
}

// Names returns every major name in dataset order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.majors))
	for i, m := range c.majors {
		names[i] = m.Name
	}
	return names
}

// ByID looks up a major by its unique id.
func (c *Catalog) ByID(id string) (Major, bool) {
	for _, m := range c.majors {
		if m.ID == id {
			return m.clone(), true
		}
	}
	return Major{}, false
}

// ByName looks up a major by exact name, case-insensitive.
func (c *Catalog) ByName(name string) (Major, bool) {
	lower := strings.ToLower(name)
	for _, m := range c.majors {
		if strings.ToLower(m.Name) == lower {
			return m.clone(), true
		}
	}
	return Major{}, false
}

// Resolve finds a major by exact name first, then by substring match against
// the English and localized names. Returns ErrMajorNotFound when nothing hits.
func (c *Catalog) Resolve(name string) (Major, error) {
	if m, ok := c.ByName(name); ok {
		return m, nil
	}
	lower := strings.ToLower(name)
	for _, m := range c.majors {
		if strings.Contains(strings.ToLower(m.Name), lower) {
			return m.clone(), nil
		}
		if m.NamePT != "" && strings.Contains(strings.ToLower(m.NamePT), lower) {
			return m.clone(), nil
		}
	}
	return Major{}, fmt.Errorf("major %q: %w", name, errors.ErrMajorNotFound)
}
