/*
Package game
File: catalog.go
Description:
    Loads and indexes the static game catalog (worlds, properties, upgrades,
    store items, NPCs) from YAML. The catalog is read once at startup and
    never mutated; every other component consumes it through id lookups that
    return an explicit "found" flag rather than assuming presence.
*/

package game

import (
	_ "embed"
	"fmt"
	"os"

	errors "github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// BalanceConfig stores the tuning values for a fresh session.
type BalanceConfig struct {
	StartingResources ResourceBag `yaml:"starting_resources" json:"starting_resources"` // Holdings of a new player
	StartingWorldID   string      `yaml:"starting_world_id" json:"starting_world_id"`   // World a new player begins in
}

// catalogFile mirrors the YAML layout of the catalog document.
type catalogFile struct {
	Balance    BalanceConfig `yaml:"game_balance"`
	Worlds     []World       `yaml:"worlds"`
	Properties []Property    `yaml:"properties"`
	Upgrades   []Upgrade     `yaml:"upgrades"`
	Items      []StoreItem   `yaml:"items"`
	NPCs       []NPC         `yaml:"npcs"`
}

// Catalog is the read-only indexed configuration table set.
// Slices keep the YAML declaration order (used for display and for
// deterministic iteration); the maps provide the id lookups.
type Catalog struct {
	Balance    BalanceConfig
	Worlds     []World
	Properties []Property
	Upgrades   []Upgrade
	Items      []StoreItem
	NPCs       []NPC

	worldsByID     map[string]int
	propertiesByID map[string]int
	upgradesByID   map[string]int
	itemsByID      map[string]int
	npcsByID       map[string]int
}

// LoadCatalog reads and indexes a catalog from a YAML file on disk.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return ParseCatalog(raw)
}

// DefaultCatalog returns the built-in catalog shipped with the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		// The embedded catalog is validated by tests; failing to parse it
		// means the binary itself is broken.
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// ParseCatalog unmarshals catalog YAML, builds the id indexes and validates
// referential integrity.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		Balance:    f.Balance,
		Worlds:     f.Worlds,
		Properties: f.Properties,
		Upgrades:   f.Upgrades,
		Items:      f.Items,
		NPCs:       f.NPCs,

		worldsByID:     make(map[string]int, len(f.Worlds)),
		propertiesByID: make(map[string]int, len(f.Properties)),
		upgradesByID:   make(map[string]int, len(f.Upgrades)),
		itemsByID:      make(map[string]int, len(f.Items)),
		npcsByID:       make(map[string]int, len(f.NPCs)),
	}

	el := errors.NewErrorList()
	index := func(kind string, into map[string]int, i int, id string) {
		if id == "" {
			el.Add(fmt.Errorf("%s entry %d has an empty id", kind, i))
			return
		}
		if _, dup := into[id]; dup {
			el.Add(fmt.Errorf("duplicate %s id %q", kind, id))
			return
		}
		into[id] = i
	}
	for i, w := range c.Worlds {
		index("world", c.worldsByID, i, w.ID)
	}
	for i, p := range c.Properties {
		index("property", c.propertiesByID, i, p.ID)
	}
	for i, u := range c.Upgrades {
		index("upgrade", c.upgradesByID, i, u.ID)
	}
	for i, it := range c.Items {
		index("item", c.itemsByID, i, it.ID)
	}
	for i, n := range c.NPCs {
		index("npc", c.npcsByID, i, n.ID)
	}
	if err := el.Err(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// WorldByID looks up a world. The second return is false when absent.
func (c *Catalog) WorldByID(id string) (World, bool) {
	i, ok := c.worldsByID[id]
	if !ok {
		return World{}, false
	}
	return c.Worlds[i], true
}

// PropertyByID looks up a property.
func (c *Catalog) PropertyByID(id string) (Property, bool) {
	i, ok := c.propertiesByID[id]
	if !ok {
		return Property{}, false
	}
	return c.Properties[i], true
}

// UpgradeByID looks up an upgrade.
func (c *Catalog) UpgradeByID(id string) (Upgrade, bool) {
	i, ok := c.upgradesByID[id]
	if !ok {
		return Upgrade{}, false
	}
	return c.Upgrades[i], true
}

// ItemByID looks up a store item.
func (c *Catalog) ItemByID(id string) (StoreItem, bool) {
	i, ok := c.itemsByID[id]
	if !ok {
		return StoreItem{}, false
	}
	return c.Items[i], true
}

// NPCByID looks up an NPC.
func (c *Catalog) NPCByID(id string) (NPC, bool) {
	i, ok := c.npcsByID[id]
	if !ok {
		return NPC{}, false
	}
	return c.NPCs[i], true
}

// Validate checks every cross-reference inside the catalog and aggregates
// all problems into one error list so a broken catalog is reported in full.
func (c *Catalog) Validate() error {
	el := errors.NewErrorList()

	if c.Balance.StartingWorldID == "" {
		el.Add(fmt.Errorf("game_balance.starting_world_id is required"))
	} else if _, ok := c.worldsByID[c.Balance.StartingWorldID]; !ok {
		el.Add(fmt.Errorf("game_balance.starting_world_id %q is not a world", c.Balance.StartingWorldID))
	}

	for _, w := range c.Worlds {
		if !validResource(w.ClickResource) {
			el.Add(fmt.Errorf("world %q: unknown click resource %q", w.ID, w.ClickResource))
		}
		// The click value bag must carry exactly the click resource.
		if len(w.BaseClickValue) != 1 || w.BaseClickValue.Amount(w.ClickResource) == 0 {
			el.Add(fmt.Errorf("world %q: base_click_value must have exactly one entry, keyed by %q", w.ID, w.ClickResource))
		}
		for _, id := range w.PropertyIDs {
			if _, ok := c.propertiesByID[id]; !ok {
				el.Add(fmt.Errorf("world %q: unknown property %q", w.ID, id))
			}
		}
		for _, id := range w.UpgradeIDs {
			if _, ok := c.upgradesByID[id]; !ok {
				el.Add(fmt.Errorf("world %q: unknown upgrade %q", w.ID, id))
			}
		}
		for _, id := range w.ItemIDs {
			if _, ok := c.itemsByID[id]; !ok {
				el.Add(fmt.Errorf("world %q: unknown item %q", w.ID, id))
			}
		}
		if w.InitialNPCID != "" {
			if _, ok := c.npcsByID[w.InitialNPCID]; !ok {
				el.Add(fmt.Errorf("world %q: unknown initial npc %q", w.ID, w.InitialNPCID))
			}
		}
	}

	for _, p := range c.Properties {
		if _, ok := c.worldsByID[p.WorldID]; !ok {
			el.Add(fmt.Errorf("property %q: unknown world %q", p.ID, p.WorldID))
		}
		if !validResource(p.Produces) {
			el.Add(fmt.Errorf("property %q: unknown production resource %q", p.ID, p.Produces))
		}
		if len(p.BaseProduction) != 1 {
			el.Add(fmt.Errorf("property %q: base_production must have exactly one entry", p.ID))
		}
	}

	for _, u := range c.Upgrades {
		switch u.Type {
		case UpgradeClickBoost, UpgradePropertyBoost, UpgradeGlobalMultiplier, UpgradeWorldSpecific:
		default:
			el.Add(fmt.Errorf("upgrade %q: unknown type %q", u.ID, u.Type))
		}
		if u.Type == UpgradePropertyBoost {
			if _, ok := c.propertiesByID[u.TargetPropertyID]; !ok {
				el.Add(fmt.Errorf("upgrade %q: unknown target property %q", u.ID, u.TargetPropertyID))
			}
		}
		// clickBoost world ids scope the boost; empty means "all worlds".
		if u.Type == UpgradeClickBoost && u.WorldID != "" {
			if _, ok := c.worldsByID[u.WorldID]; !ok {
				el.Add(fmt.Errorf("upgrade %q: unknown world %q", u.ID, u.WorldID))
			}
		}
	}

	for _, n := range c.NPCs {
		if _, ok := c.worldsByID[n.WorldID]; !ok {
			el.Add(fmt.Errorf("npc %q: unknown world %q", n.ID, n.WorldID))
		}
		if n.BasePrompt == "" {
			el.Add(fmt.Errorf("npc %q: base_prompt is required", n.ID))
		}
	}

	return el.Err()
}

func validResource(r ResourceType) bool {
	for _, known := range AllResourceTypes {
		if r == known {
			return true
		}
	}
	return false
}
