package profile

import (
	"fmt"
	"sort"
	"sync"

	"automapper/node"
)

// Configuration is the registry of type maps merged from profiles. The last
// registered map of a pair wins. Once sealed it is read only.
type Configuration struct {
	mu     sync.RWMutex
	maps   map[node.TypePair]*TypeMap
	sealed bool
}

func NewConfiguration(profiles ...*Profile) (*Configuration, error) {
	cfg := &Configuration{maps: make(map[node.TypePair]*TypeMap)}
	for _, p := range profiles {
		if err := cfg.AddProfile(p); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// AddProfile merges the type maps of p. Nothing is merged when p recorded
// builder errors.
func (c *Configuration) AddProfile(p *Profile) error {
	if p == nil {
		return ErrNilProfile
	}

	if err := p.Err(); err != nil {
		return fmt.Errorf("invalid profile %q: %w", p.name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed {
		return fmt.Errorf("add profile %q: %w", p.name, ErrSealed)
	}

	if c.maps == nil {
		c.maps = make(map[node.TypePair]*TypeMap)
	}

	for _, tm := range p.maps {
		c.maps[tm.pair] = tm.clone()
	}

	return nil
}

// Lookup returns the type map of the pair. Pointer types are stripped.
func (c *Configuration) Lookup(pair node.TypePair) (*TypeMap, bool) {
	pair = node.PairOf(pair.Src, pair.Dst)

	c.mu.RLock()
	defer c.mu.RUnlock()

	tm, ok := c.maps[pair]

	return tm, ok
}

// Pairs returns every configured pair ordered by its string form.
func (c *Configuration) Pairs() []node.TypePair {
	c.mu.RLock()
	pairs := make([]node.TypePair, 0, len(c.maps))
	for pair := range c.maps {
		pairs = append(pairs, pair)
	}
	c.mu.RUnlock()

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].String() < pairs[j].String() })

	return pairs
}

// Seal forbids further changes.
func (c *Configuration) Seal() {
	c.mu.Lock()
	c.sealed = true
	c.mu.Unlock()
}

func (c *Configuration) IsSealed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.sealed
}
