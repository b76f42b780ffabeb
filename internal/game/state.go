/*
Package game
File: state.go
Description:
    Builds the initial PlayerState for a fresh session. Persisted sessions
    are restored through the persist package and a LoadGame action instead.
*/

package game

// NewInitialState returns the built-in starting snapshot: the catalog's
// starting resources, the starting world unlocked and current, empty
// holdings and text caches, and the text service still loading.
func NewInitialState(catalog *Catalog) *PlayerState {
	resources := make(ResourceBag, len(AllResourceTypes))
	for _, r := range AllResourceTypes {
		resources[r] = catalog.Balance.StartingResources.Amount(r)
	}

	return &PlayerState{
		Resources:           resources,
		OwnedProperties:     make(map[string]OwnedProperty),
		PurchasedUpgrades:   NewStringSet(),
		Inventory:           NewStringSet(),
		UnlockedWorlds:      NewStringSet(catalog.Balance.StartingWorldID),
		CurrentWorldID:      catalog.Balance.StartingWorldID,
		NPCDialogues:        make(map[string]string),
		WorldDescriptions:   make(map[string]string),
		ItemFlavorTexts:     make(map[string]string),
		PropertyFlavorTexts: make(map[string]string),
		APIKeyState:         ServiceLoading,
	}
}
