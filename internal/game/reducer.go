/*
Package game
File: reducer.go
Description:
    The transition engine. Apply takes the current PlayerState and exactly
    one Action and produces the next state. It never fails on well-formed
    input: an unaffordable purchase returns the input state untouched, so
    the caller can rely on every returned state satisfying the invariants
    (non-negative resources, current world unlocked, append-only sets).
*/

package game

import "log"

// Apply performs one state transition. The input state is never mutated;
// accepted actions work on a clone and rejected ones return the input as-is.
// Actions are applied one at a time by the session, so affordability checks
// and deductions always see the same pre-action snapshot.
func Apply(state *PlayerState, action Action, catalog *Catalog) *PlayerState {
	switch a := action.(type) {

	case ClickGather:
		next := state.Clone()
		clickValue := clickYield(state, a.World, catalog)
		next.Resources[a.World.ClickResource] += clickValue
		return next

	case BuyProperty:
		if !state.Resources.CanAfford(a.Property.Cost) {
			return state
		}
		next := state.Clone()
		next.Resources.Spend(a.Property.Cost)
		owned := next.OwnedProperties[a.Property.ID]
		next.OwnedProperties[a.Property.ID] = OwnedProperty{
			Count:   owned.Count + 1,
			WorldID: a.Property.WorldID,
		}
		return next

	case BuyUpgrade:
		if !state.Resources.CanAfford(a.Upgrade.Cost) {
			return state
		}
		next := state.Clone()
		next.Resources.Spend(a.Upgrade.Cost)
		next.PurchasedUpgrades.Add(a.Upgrade.ID)
		return next

	case BuyItem:
		if !state.Resources.CanAfford(a.Item.Cost) {
			return state
		}
		next := state.Clone()
		next.Resources.Spend(a.Item.Cost)
		next.Inventory.Add(a.Item.ID)
		return next

	case UnlockWorld:
		// An empty unlock cost is always affordable (the starting world).
		if !state.Resources.CanAfford(a.World.UnlockCost) {
			return state
		}
		next := state.Clone()
		next.Resources.Spend(a.World.UnlockCost)
		next.UnlockedWorlds.Add(a.World.ID)
		// Unlocking also travels there.
		next.CurrentWorldID = a.World.ID
		return next

	case ChangeWorld:
		next := state.Clone()
		next.CurrentWorldID = a.WorldID
		return next

	case ApplyProductionDelta:
		next := state.Clone()
		next.Resources.AddBag(a.Delta)
		return next

	case SetCachedText:
		next := state.Clone()
		switch a.Kind {
		case TextNPCDialogue:
			next.NPCDialogues[a.ID] = a.Text
		case TextWorldDesc:
			next.WorldDescriptions[a.ID] = a.Text
		case TextItemFlavor:
			next.ItemFlavorTexts[a.ID] = a.Text
		case TextPropertyFlavor:
			next.PropertyFlavorTexts[a.ID] = a.Text
		default:
			log.Printf("Reducer: unknown text kind %q, dropping", a.Kind)
			return state
		}
		return next

	case LoadGame:
		// Replace wholesale, but keep the current session's service status:
		// connectivity belongs to the session, not the save.
		next := a.Snapshot.Clone()
		next.APIKeyState = state.APIKeyState
		return next

	case SetServiceStatus:
		next := state.Clone()
		next.APIKeyState = a.Status
		return next

	default:
		// The Action union is sealed; hitting this means a new variant was
		// added without a reducer arm.
		log.Printf("Reducer: unhandled action %T, state unchanged", action)
		return state
	}
}

// clickYield computes the value of one manual gather click in a world.
func clickYield(state *PlayerState, world World, catalog *Catalog) float64 {
	base := world.BaseClickValue.First()
	clickValue := base

	// Click boosts apply when scoped to this world or unscoped (global).
	// Small boost values (< 5) scale with the base click amount; larger
	// values add as flat amounts. See DESIGN.md before changing this.
	for _, upgradeID := range state.PurchasedUpgrades.Values() {
		up, ok := catalog.UpgradeByID(upgradeID)
		if !ok {
			continue
		}
		if up.Type == UpgradeClickBoost && (up.WorldID == world.ID || up.WorldID == "") {
			if up.Value < 5 {
				clickValue += up.Value * base
			} else {
				clickValue += up.Value
			}
		}
	}

	// Item bonuses tied to the click resource.
	for _, itemID := range state.Inventory.Values() {
		if itemID == itemExplorerPack && world.ClickResource == ResourceGold {
			clickValue *= 1.10
		}
	}

	return clickValue
}
