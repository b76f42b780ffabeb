/*
Package game
File: economy.go
Description:
    The production side of the economy: computes the aggregate per-tick
    resource yield from the player's holdings and the catalog.

    ComputeProduction is a pure function and is re-evaluated from scratch on
    every tick; holdings can change between ticks so nothing is memoized.
*/

package game

import "sort"

// Item ids with hard-coded production effects. The store's effect set is a
// closed list of special cases, not a general effect language.
const (
	itemBasicToolkit     = "basic_toolkit"
	itemExplorerPack     = "explorer_pack"
	itemHarvestingScythe = "harvesting_scythe"

	propertyManaSpring = "mana_spring"
)

// ComputeProduction returns the amount of each resource to add for one tick
// (nominally one second of wall-clock time).
//
// Order matters: property output with stacking propertyBoost upgrades first,
// then globalMultiplier upgrades, then item bonuses.
func ComputeProduction(state *PlayerState, catalog *Catalog) ResourceBag {
	production := make(ResourceBag, len(AllResourceTypes))
	for _, r := range AllResourceTypes {
		production[r] = 0
	}

	// 1. Per-property output. Boost upgrades compound multiplicatively in
	// purchase order; several boosts targeting the same property all apply.
	for _, propertyID := range sortedPropertyIDs(state) {
		owned := state.OwnedProperties[propertyID]
		prop, ok := catalog.PropertyByID(propertyID)
		if !ok {
			continue
		}

		yield := prop.BaseProduction.First() * float64(owned.Count)
		for _, upgradeID := range state.PurchasedUpgrades.Values() {
			up, ok := catalog.UpgradeByID(upgradeID)
			if !ok {
				continue
			}
			if up.Type == UpgradePropertyBoost && up.TargetPropertyID == propertyID {
				yield *= 1 + up.Value
			}
		}
		production[prop.Produces] += yield
	}

	// 2. Global multipliers. The upgrade's world_id field doubles as the
	// resource key here, and the multiplier only lands when that resource
	// already has a non-zero accumulator this tick. Long-standing behavior,
	// kept as-is; see DESIGN.md.
	for _, upgradeID := range state.PurchasedUpgrades.Values() {
		up, ok := catalog.UpgradeByID(upgradeID)
		if !ok {
			continue
		}
		if up.Type == UpgradeGlobalMultiplier {
			if v := production[ResourceType(up.WorldID)]; v != 0 {
				production[ResourceType(up.WorldID)] = v * (1 + up.Value)
			}
		}
	}

	// 3. Item bonuses.
	for _, itemID := range state.Inventory.Values() {
		switch itemID {
		case itemBasicToolkit:
			// 5% on data fragments; a zero accumulator stays zero.
			if production[ResourceDataFragments] != 0 {
				production[ResourceDataFragments] *= 1.05
			} else {
				production[ResourceDataFragments] = 0
			}
		case itemHarvestingScythe:
			// Flat 20% of the unboosted mana spring rate per owned spring.
			// Deliberately does not compound with propertyBoost upgrades.
			spring, ok := catalog.PropertyByID(propertyManaSpring)
			if !ok {
				continue
			}
			count := state.OwnedProperties[propertyManaSpring].Count
			bonus := spring.BaseProduction.First() * float64(count) * 0.20
			production[spring.Produces] += bonus
		}
	}

	return production
}

// sortedPropertyIDs returns the owned property ids in a stable order so
// tick output is deterministic across runs.
func sortedPropertyIDs(state *PlayerState) []string {
	ids := make([]string, 0, len(state.OwnedProperties))
	for id := range state.OwnedProperties {
		ids = append(ids, id)
	}
	// Go map iteration order is not stable; sort lexically instead.
	sort.Strings(ids)
	return ids
}
