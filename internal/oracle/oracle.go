/*
Package oracle
File: oracle.go
Description:
    The text-lookup collaborator: an asynchronous prompt-in, text-out
    service used to enrich the game with NPC dialogue, world descriptions
    and flavor text. The core treats a failed lookup as "no text available";
    nothing here can stall or corrupt the state machine.
*/

package oracle

import (
	"context"
	"fmt"

	"github.com/everforgeworks/cosmic-conquest/internal/game"
)

// TextService turns a prompt into a piece of generated text. Implementations
// may fail (network, auth); callers decide how to degrade.
type TextService interface {
	Lookup(ctx context.Context, prompt string) (string, error)
}

// FallbackDialogue is cached for an NPC when a dialogue lookup fails, so
// the player sees something instead of a dead modal.
const FallbackDialogue = "I seem to be having trouble communicating right now. Try again later."

// NPCPrompt assembles the dialogue prompt: the NPC's base persona, a short
// summary of where the player stands, and the traveler's opening line.
func NPCPrompt(npc game.NPC, state *game.PlayerState, catalog *game.Catalog) string {
	worldName := state.CurrentWorldID
	if w, ok := catalog.WorldByID(state.CurrentWorldID); ok {
		worldName = w.Name
	}
	summary := fmt.Sprintf("Current World: %s. Gold: %g. Mana: %g. Fragments: %g.",
		worldName,
		state.Resources.Amount(game.ResourceGold),
		state.Resources.Amount(game.ResourceMana),
		state.Resources.Amount(game.ResourceDataFragments),
	)
	return fmt.Sprintf("%s\n%s\n\nTraveler says: \"Greetings.\"\n\nYour response:", npc.BasePrompt, summary)
}

// WorldPrompt asks for a short world description.
func WorldPrompt(world game.World) string {
	return fmt.Sprintf("Generate a short, evocative, and slightly mysterious description (2-3 sentences) for a game world named %q. Focus on its unique atmosphere and potential secrets.", world.Name)
}

// ItemPrompt asks for store item flavor text.
func ItemPrompt(item game.StoreItem) string {
	return fmt.Sprintf("Generate a short, intriguing piece of flavor text (1-2 sentences) for a game item.\nItem Name: %s\nItem Type: %s\nItem Description: %s\nFlavor Text:",
		item.Name, item.Type, item.Description)
}

// PropertyPrompt asks for property flavor text.
func PropertyPrompt(prop game.Property) string {
	return fmt.Sprintf("Generate a short, intriguing piece of flavor text (1-2 sentences) for a game property (a building or installation).\nProperty Name: %s\nProperty Description: %s\nFlavor Text:",
		prop.Name, prop.Description)
}
