/*
Package game
File: models.go
Description:
    Defines all data structures (Structs) used throughout the Cosmic Conquest universe.
    This file serves as the "schema" for the application, mapping directly to
    YAML catalog files and JSON API responses.

    No logic is performed here beyond small container helpers; the economy and
    transition rules live in economy.go and reducer.go.
*/

package game

import "encoding/json"

// ResourceType is the closed enumeration of currencies a player can hold.
type ResourceType string

const (
	ResourceGold          ResourceType = "GOLD"
	ResourceMana          ResourceType = "MANA"
	ResourceCrystals      ResourceType = "CRYSTALS"
	ResourceDataFragments ResourceType = "DATA_FRAGMENTS"
)

// AllResourceTypes lists every resource in display order.
// Iterating this slice keeps production output deterministic.
var AllResourceTypes = []ResourceType{
	ResourceGold,
	ResourceMana,
	ResourceCrystals,
	ResourceDataFragments,
}

// ResourceBag maps a ResourceType to a non-negative amount.
// An absent key means zero. Used for holdings, costs, rates and deltas.
type ResourceBag map[ResourceType]float64

// Amount returns the stored value, defaulting to 0 for absent keys.
func (b ResourceBag) Amount(r ResourceType) float64 {
	return b[r]
}

// Clone returns an independent copy of the bag.
func (b ResourceBag) Clone() ResourceBag {
	out := make(ResourceBag, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// AddBag adds every entry of delta into the bag (absent keys default to 0).
func (b ResourceBag) AddBag(delta ResourceBag) {
	for r, amt := range delta {
		b[r] += amt
	}
}

// CanAfford reports whether every resource named in cost is covered by the
// current holdings. Resources not named in the cost are unconstrained.
func (b ResourceBag) CanAfford(cost ResourceBag) bool {
	for r, amt := range cost {
		if b[r] < amt {
			return false
		}
	}
	return true
}

// Spend subtracts cost from the bag. Callers must check CanAfford first;
// affordability and deduction always use the same pre-action snapshot.
func (b ResourceBag) Spend(cost ResourceBag) {
	for r, amt := range cost {
		b[r] -= amt
	}
}

// First returns the single populated entry of a one-entry bag (base click
// values and base production rates are configured this way). Returns 0 on an
// empty bag.
func (b ResourceBag) First() float64 {
	for _, v := range b {
		return v
	}
	return 0
}

// StringSet is an insertion-ordered set of string ids.
// Purchase order is preserved so upgrade enumeration is deterministic, and
// the JSON form is a plain array, matching the persisted save schema.
type StringSet struct {
	order []string
	index map[string]struct{}
}

// NewStringSet builds a set from the given ids, deduplicating in order.
func NewStringSet(ids ...string) *StringSet {
	s := &StringSet{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id if not already present.
func (s *StringSet) Add(id string) {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
}

// Has reports membership.
func (s *StringSet) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// Values returns the members in insertion order. The returned slice is a copy.
func (s *StringSet) Values() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of members.
func (s *StringSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Clone returns an independent copy of the set.
func (s *StringSet) Clone() *StringSet {
	return NewStringSet(s.Values()...)
}

// MarshalJSON encodes the set as an ordered array of ids.
func (s *StringSet) MarshalJSON() ([]byte, error) {
	if s == nil || s.order == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.order)
}

// UnmarshalJSON decodes an array of ids, tolerating duplicates by
// deduplicating into the set.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = *NewStringSet(ids...)
	return nil
}

// Property is a catalog entry for a passive producer.
type Property struct {
	ID             string       `yaml:"id" json:"id"`
	Name           string       `yaml:"name" json:"name"`
	WorldID        string       `yaml:"world_id" json:"world_id"` // World the property belongs to
	Cost           ResourceBag  `yaml:"cost" json:"cost"`
	BaseProduction ResourceBag  `yaml:"base_production" json:"base_production"` // Amount per second, single entry
	Produces       ResourceType `yaml:"production_resource" json:"production_resource"`
	Description    string       `yaml:"description" json:"description"`
	Icon           string       `yaml:"icon" json:"icon"`
}

// UpgradeType tags the four upgrade behaviors.
type UpgradeType string

const (
	UpgradeClickBoost       UpgradeType = "clickBoost"
	UpgradePropertyBoost    UpgradeType = "propertyBoost"
	UpgradeGlobalMultiplier UpgradeType = "globalMultiplier"
	UpgradeWorldSpecific    UpgradeType = "worldSpecific"
)

// Upgrade is a catalog entry for a one-time purchasable boost.
// Semantics depend on Type; see economy.go and reducer.go.
type Upgrade struct {
	ID                string      `yaml:"id" json:"id"`
	Name              string      `yaml:"name" json:"name"`
	Cost              ResourceBag `yaml:"cost" json:"cost"`
	Description       string      `yaml:"description" json:"description"`
	EffectDescription string      `yaml:"effect_description" json:"effect_description"`
	Type              UpgradeType `yaml:"type" json:"type"`
	WorldID           string      `yaml:"world_id,omitempty" json:"world_id,omitempty"`                     // clickBoost scope / globalMultiplier target key
	TargetPropertyID  string      `yaml:"target_property_id,omitempty" json:"target_property_id,omitempty"` // propertyBoost target
	Value             float64     `yaml:"value" json:"value"`                                               // Fractional increase (0.1 = +10%) or flat amount
	Icon              string      `yaml:"icon" json:"icon"`
}

// StoreItem is a catalog entry for an inventory item. Item effects are a
// closed set of special cases keyed by id, not a general effect language.
type StoreItem struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Cost        ResourceBag `yaml:"cost" json:"cost"`
	Type        string      `yaml:"type" json:"type"` // "weapon", "armor" or "tool"
	Description string      `yaml:"description" json:"description"`
	Effects     string      `yaml:"effects,omitempty" json:"effects,omitempty"` // Display string, e.g. "+10% Gold from clicks"
	Icon        string      `yaml:"icon" json:"icon"`
}

// World is a catalog entry for an explorable world, including the theming
// the browser client needs to dress it up.
type World struct {
	ID                 string       `yaml:"id" json:"id"`
	Name               string       `yaml:"name" json:"name"`
	UnlockCost         ResourceBag  `yaml:"unlock_cost" json:"unlock_cost"`           // Empty cost = always affordable
	BaseClickValue     ResourceBag  `yaml:"base_click_value" json:"base_click_value"` // Exactly one populated entry
	ClickResource      ResourceType `yaml:"click_resource" json:"click_resource"`
	InitialNPCID       string       `yaml:"initial_npc_id,omitempty" json:"initial_npc_id,omitempty"`
	PropertyIDs        []string     `yaml:"available_property_ids" json:"available_property_ids"`
	UpgradeIDs         []string     `yaml:"available_upgrade_ids" json:"available_upgrade_ids"`
	ItemIDs            []string     `yaml:"available_item_ids,omitempty" json:"available_item_ids,omitempty"`
	BackgroundColor    string       `yaml:"background_color" json:"background_color"`
	TextColor          string       `yaml:"text_color" json:"text_color"`
	AccentColor        string       `yaml:"accent_color" json:"accent_color"`
	ButtonClass        string       `yaml:"button_class" json:"button_class"`
	BackgroundImageURL string       `yaml:"background_image_url,omitempty" json:"background_image_url,omitempty"`
	AmbientSound       string       `yaml:"ambient_sound,omitempty" json:"ambient_sound,omitempty"`
}

// NPC is a catalog entry for a dialogue character.
type NPC struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	WorldID    string `yaml:"world_id" json:"world_id"`
	BasePrompt string `yaml:"base_prompt" json:"base_prompt"` // Prefix for text-service dialogue requests
	Icon       string `yaml:"icon" json:"icon"`
}

// ServiceStatus tags the session-scoped availability of the text service.
type ServiceStatus string

const (
	ServiceLoading ServiceStatus = "loading"
	ServiceReady   ServiceStatus = "ready"
	ServiceError   ServiceStatus = "error"
)

// OwnedProperty records how many units of a property the player holds.
type OwnedProperty struct {
	Count   int    `json:"count"`
	WorldID string `json:"worldId"`
}

// PlayerState is the mutable root of the game. Exactly one instance exists
// per session and it is mutated exclusively by Apply in reducer.go.
type PlayerState struct {
	Resources         ResourceBag              `json:"resources"`
	OwnedProperties   map[string]OwnedProperty `json:"ownedProperties"`
	PurchasedUpgrades *StringSet               `json:"purchasedUpgrades"` // Append-only
	Inventory         *StringSet               `json:"inventory"`         // Append-only
	UnlockedWorlds    *StringSet               `json:"unlockedWorlds"`    // Always contains the starting world
	CurrentWorldID    string                   `json:"currentWorldId"`    // Always a member of UnlockedWorlds

	// Lazily fetched text caches, never invalidated within a session.
	NPCDialogues        map[string]string `json:"npcDialogues"`
	WorldDescriptions   map[string]string `json:"worldDescriptions"`
	ItemFlavorTexts     map[string]string `json:"itemFlavorTexts"`
	PropertyFlavorTexts map[string]string `json:"propertyFlavorTexts"`

	// Session-scoped text-service availability. Not carried across loads.
	APIKeyState ServiceStatus `json:"apiKeyState"`
}

// Clone returns a deep copy of the state. Apply works on a clone so a
// rejected action can hand back the untouched original.
func (s *PlayerState) Clone() *PlayerState {
	owned := make(map[string]OwnedProperty, len(s.OwnedProperties))
	for id, op := range s.OwnedProperties {
		owned[id] = op
	}
	return &PlayerState{
		Resources:           s.Resources.Clone(),
		OwnedProperties:     owned,
		PurchasedUpgrades:   s.PurchasedUpgrades.Clone(),
		Inventory:           s.Inventory.Clone(),
		UnlockedWorlds:      s.UnlockedWorlds.Clone(),
		CurrentWorldID:      s.CurrentWorldID,
		NPCDialogues:        cloneTextCache(s.NPCDialogues),
		WorldDescriptions:   cloneTextCache(s.WorldDescriptions),
		ItemFlavorTexts:     cloneTextCache(s.ItemFlavorTexts),
		PropertyFlavorTexts: cloneTextCache(s.PropertyFlavorTexts),
		APIKeyState:         s.APIKeyState,
	}
}

func cloneTextCache(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
