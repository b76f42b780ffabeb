/*
Package game
File: actions.go
Description:
    The closed set of actions the transition engine understands. Actions are
    a sealed tagged union: each variant implements the unexported isAction
    marker, so no package outside game can invent new ones and the switch in
    reducer.go stays exhaustive.
*/

package game

// Action is one discrete state transition request.
type Action interface {
	isAction()
}

// TextKind selects which cache a SetCachedText action writes into.
type TextKind string

const (
	TextNPCDialogue    TextKind = "npc"
	TextWorldDesc      TextKind = "world"
	TextItemFlavor     TextKind = "item"
	TextPropertyFlavor TextKind = "property"
)

// ClickGather adds one manual click's yield of the world's click resource.
type ClickGather struct {
	World World
}

// BuyProperty purchases one unit of a property, if affordable.
type BuyProperty struct {
	Property Property
}

// BuyUpgrade purchases an upgrade, if affordable. The engine does not reject
// an already-owned id; the presenting layer filters those out.
type BuyUpgrade struct {
	Upgrade Upgrade
}

// BuyItem purchases a store item, if affordable. Same repeat-id rule as
// BuyUpgrade.
type BuyItem struct {
	Item StoreItem
}

// UnlockWorld pays a world's unlock cost, adds it to the unlocked set and
// travels there.
type UnlockWorld struct {
	World World
}

// ChangeWorld sets the current world. Callers only invoke this for worlds
// that are already unlocked.
type ChangeWorld struct {
	WorldID string
}

// ApplyProductionDelta adds a tick's production to the holdings.
type ApplyProductionDelta struct {
	Delta ResourceBag
}

// SetCachedText writes externally fetched text into one of the caches.
// Last write wins; rewriting the same text is a no-op.
type SetCachedText struct {
	Kind TextKind
	ID   string
	Text string
}

// LoadGame replaces the state wholesale with a restored snapshot.
type LoadGame struct {
	Snapshot *PlayerState
}

// SetServiceStatus records the text service's session-scoped availability.
type SetServiceStatus struct {
	Status ServiceStatus
}

func (ClickGather) isAction()          {}
func (BuyProperty) isAction()          {}
func (BuyUpgrade) isAction()           {}
func (BuyItem) isAction()              {}
func (UnlockWorld) isAction()          {}
func (ChangeWorld) isAction()          {}
func (ApplyProductionDelta) isAction() {}
func (SetCachedText) isAction()        {}
func (LoadGame) isAction()             {}
func (SetServiceStatus) isAction()     {}
