package material

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed grades.yaml
var gradesYAML []byte

type Grade struct {
	Name        string  `yaml:"name" json:"name"`
	YieldStress float64 `yaml:"yield_stress" json:"yield_stress"`
	Description string  `yaml:"description" json:"description"`
}

// Catalog is an immutable set of grades.
type Catalog struct {
	def    string
	grades map[string]Grade
}

type catalogFile struct {
	Default string  `yaml:"default"`
	Grades  []Grade `yaml:"grades"`
}

// ParseCatalog reads a grade catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse grade catalog: %w", err)
	}
	c := &Catalog{def: f.Default, grades: make(map[string]Grade, len(f.Grades))}
	for _, g := range f.Grades {
		if g.Name == "" {
			return nil, fmt.Errorf("grade catalog: grade without name")
		}
		if !(g.YieldStress > 0) {
			return nil, fmt.Errorf("grade %s: yield stress must be positive", g.Name)
		}
		if _, dup := c.grades[g.Name]; dup {
			return nil, fmt.Errorf("grade catalog: duplicate grade %s", g.Name)
		}
		c.grades[g.Name] = g
	}
	if _, ok := c.grades[c.def]; !ok {
		return nil, fmt.Errorf("grade catalog: default grade %q not defined", c.def)
	}
	return c, nil
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(gradesYAML)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Default() Grade { return c.grades[c.def] }

func (c *Catalog) Lookup(name string) (Grade, error) {
	if name == "" {
		return c.Default(), nil
	}
	g, ok := c.grades[name]
	if !ok {
		return Grade{}, fmt.Errorf("unknown grade %q", name)
	}
	return g, nil
}

// Grades lists the catalog by ascending yield stress.
func (c *Catalog) Grades() []Grade {
	out := make([]Grade, 0, len(c.grades))
	for _, g := range c.grades {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].YieldStress == out[j].YieldStress {
			return out[i].Name < out[j].Name
		}
		return out[i].YieldStress < out[j].YieldStress
	})
	return out
}
