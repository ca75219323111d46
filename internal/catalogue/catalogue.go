package catalogue

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Catalogue is the process-wide set of algorithm specs. It is filled at startup
// and only read afterwards.
type Catalogue struct {
	mu    sync.RWMutex
	specs map[string]Spec
	order []string
}

func New(specs ...Spec) (*Catalogue, error) {
	c := &Catalogue{specs: make(map[string]Spec)}
	for _, s := range specs {
		if err := c.Add(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Default returns a catalogue holding the built-in specs.
func Default() *Catalogue {
	c, err := New(Builtin()...)
	if err != nil {
		panic(err)
	}
	return c
}

func normID(id string) string { return strings.ToUpper(strings.TrimSpace(id)) }

func (c *Catalogue) Add(s Spec) error {
	s = s.clone()
	s.ID = normID(s.ID)
	for i, m := range s.BlockModes {
		s.BlockModes[i] = strings.ToLower(m)
	}
	s.DefaultBlockMode = strings.ToLower(s.DefaultBlockMode)
	if err := s.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.specs[s.ID]; dup {
		return fmt.Errorf("algorithm %s already in catalogue", s.ID)
	}
	c.specs[s.ID] = s
	c.order = append(c.order, s.ID)
	return nil
}

func (c *Catalogue) Lookup(id string) (Spec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.specs[normID(id)]
	if !ok {
		return Spec{}, false
	}
	return s.clone(), true
}

func (c *Catalogue) All() []Spec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Spec, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.specs[id].clone())
	}
	return out
}

type fileFormat struct {
	Algorithms []Spec `yaml:"algorithms"`
}

// LoadFile adds the specs listed under `algorithms:` in a YAML file. Nothing is
// added when any entry is invalid.
func (c *Catalogue) LoadFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalogue: %w", err)
	}
	return c.load(raw)
}

func (c *Catalogue) load(raw []byte) (int, error) {
	var f fileFormat
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("parse catalogue: %w", err)
	}
	staged, err := New(c.All()...)
	if err != nil {
		return 0, err
	}
	for _, s := range f.Algorithms {
		if err := staged.Add(s); err != nil {
			return 0, fmt.Errorf("catalogue entry: %w", err)
		}
	}
	for _, s := range f.Algorithms {
		_ = c.Add(s)
	}
	return len(f.Algorithms), nil
}
