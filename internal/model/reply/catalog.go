package reply

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml samples/*
var embedded embed.FS

var (
	ErrEmptyCatalog      = errors.New("catalog has no templates")
	ErrDuplicateTemplate = errors.New("duplicate template name")
	ErrMissingKeywords   = errors.New("template has no keywords")
)

// Catalog holds the ordered reply templates plus the greeting and fallback replies.
type Catalog struct {
	Greeting  Template
	Fallback  Template
	templates []Template
}

type catalogFile struct {
	Greeting  Template   `yaml:"greeting"`
	Fallback  Template   `yaml:"fallback"`
	Templates []Template `yaml:"templates"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		data, err := embedded.ReadFile("catalog.yaml")
		if err != nil {
			panic(fmt.Sprintf("reply: read embedded catalog: %v", err))
		}
		samples, err := fs.Sub(embedded, "samples")
		if err != nil {
			panic(fmt.Sprintf("reply: open embedded samples: %v", err))
		}
		defaultCatalog, err = Load(data, samples)
		if err != nil {
			panic(fmt.Sprintf("reply: load embedded catalog: %v", err))
		}
	})
	return defaultCatalog
}

// Load parses a YAML catalog. Code sample files named by templates are read from samples.
func Load(data []byte, samples fs.FS) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(file.Templates))
	for i := range file.Templates {
		tpl := &file.Templates[i]
		tpl.Name = strings.TrimSpace(tpl.Name)
		if tpl.Name == "" {
			return nil, fmt.Errorf("template #%d: name is required", i)
		}
		if _, dup := seen[tpl.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTemplate, tpl.Name)
		}
		seen[tpl.Name] = struct{}{}

		keywords := make([]string, 0, len(tpl.Keywords))
		for _, kw := range tpl.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingKeywords, tpl.Name)
		}
		tpl.Keywords = keywords

		if err := attachSample(tpl, samples); err != nil {
			return nil, err
		}
	}

	if file.Fallback.Name == "" {
		file.Fallback.Name = "fallback"
	}
	if file.Greeting.Name == "" {
		file.Greeting.Name = "greeting"
	}

	return &Catalog{
		Greeting:  file.Greeting,
		Fallback:  file.Fallback,
		templates: file.Templates,
	}, nil
}

func attachSample(tpl *Template, samples fs.FS) error {
	if tpl.CodeFile == "" {
		return nil
	}
	if samples == nil {
		return fmt.Errorf("template %s: code sample %q requested but no samples provided", tpl.Name, tpl.CodeFile)
	}
	body, err := fs.ReadFile(samples, path.Clean(tpl.CodeFile))
	if err != nil {
		return fmt.Errorf("template %s: read code sample: %w", tpl.Name, err)
	}
	tpl.CodeSample = strings.TrimRight(string(body), "\n")
	return nil
}

// Templates returns the keyword templates in priority order.
func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	for i, tpl := range c.templates {
		out[i] = tpl.Clone()
	}
	return out
}

// Lookup finds a template by name, including the fallback and greeting.
func (c *Catalog) Lookup(name string) (Template, bool) {
	switch name {
	case c.Fallback.Name:
		return c.Fallback.Clone(), true
	case c.Greeting.Name:
		return c.Greeting.Clone(), true
	}
	for _, tpl := range c.templates {
		if tpl.Name == name {
			return tpl.Clone(), true
		}
	}
	return Template{}, false
}
