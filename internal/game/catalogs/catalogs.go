// Package catalogs loads the static reference data of the game: role
// definitions with their abilities, and the ambient event template pools.
// Ability cooldowns and ranges are reference data only; nothing in the engine
// enforces them.
package catalogs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Catalogs struct {
	Roles   []RoleDef
	Ambient AmbientCatalog
}

type RoleDef struct {
	Name      string       `yaml:"name"`
	Objective string       `yaml:"objective"`
	Abilities []AbilityDef `yaml:"abilities"`
}

type AbilityDef struct {
	Name     string `yaml:"name"`
	Cooldown int    `yaml:"cooldown"`
	Duration int    `yaml:"duration"`
	Range    string `yaml:"range"` // "self", "same_room", "adjacent_room", "all"
}

// AmbientCatalog holds template pools for the ambient generator. Templates
// contain a %s placeholder for the room name. The Hard pool is only drawn
// from on hard difficulty, in addition to the base pool.
type AmbientCatalog struct {
	Base []string `yaml:"base"`
	Hard []string `yaml:"hard"`
}

// Pool returns the template pool for a difficulty.
func (a AmbientCatalog) Pool(difficulty string) []string {
	if difficulty != "hard" {
		return a.Base
	}
	pool := make([]string, 0, len(a.Base)+len(a.Hard))
	pool = append(pool, a.Base...)
	pool = append(pool, a.Hard...)
	return pool
}

// Role returns the role definition at index i mod len, for round-robin
// assignment.
func (c *Catalogs) Role(i int) RoleDef {
	return c.Roles[i%len(c.Roles)]
}

// Ability looks up an ability definition by name across all roles.
func (c *Catalogs) Ability(name string) (AbilityDef, bool) {
	for _, r := range c.Roles {
		for _, a := range r.Abilities {
			if a.Name == name {
				return a, true
			}
		}
	}
	return AbilityDef{}, false
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	var roles struct {
		Roles []RoleDef `yaml:"roles"`
	}
	if err := readYAML(filepath.Join(configDir, "roles.yaml"), &roles); err != nil {
		return nil, err
	}
	c.Roles = roles.Roles
	if len(c.Roles) == 0 {
		return nil, fmt.Errorf("roles.yaml: no roles defined")
	}

	var events struct {
		Ambient AmbientCatalog `yaml:"ambient"`
	}
	if err := readYAML(filepath.Join(configDir, "events.yaml"), &events); err != nil {
		return nil, err
	}
	c.Ambient = events.Ambient
	if len(c.Ambient.Base) == 0 {
		return nil, fmt.Errorf("events.yaml: empty ambient template pool")
	}
	for _, pool := range [][]string{c.Ambient.Base, c.Ambient.Hard} {
		for _, t := range pool {
			// Templates are Sprintf'd with the room name; anything else
			// renders garbage at tick time, so reject it at load time.
			if strings.Count(t, "%s") != 1 || strings.Count(t, "%") != 1 {
				return nil, fmt.Errorf("events.yaml: ambient template %q must contain exactly one %%s", t)
			}
		}
	}

	return &c, nil
}

func readYAML(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}
