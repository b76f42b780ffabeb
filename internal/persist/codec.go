/*
Package persist
File: codec.go
Description:
    Serializes PlayerState to and from the opaque save blob. The wire form
    is zstd-compressed JSON with the three set-valued fields flattened to
    string arrays. Decoding validates the JSON against an embedded schema
    before any of it reaches a PlayerState, so a corrupt blob yields an
    error and never a half-populated state.
*/

package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/everforgeworks/cosmic-conquest/internal/game"
)

var saveSchema = jsonschema.MustCompileString("save.schema.json", saveSchemaJSON)

// Encode converts a PlayerState into the compressed save blob.
func Encode(state *game.PlayerState) ([]byte, error) {
	// PlayerState's StringSet fields marshal as ordered arrays, which is
	// exactly the persisted sequence form the schema expects.
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encoding save: %w", err)
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	if _, err := enc.Write(raw); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("compressing save: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("compressing save: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode converts a save blob back into a PlayerState. Any structural
// problem - bad compression frame, invalid JSON, schema violation, a
// current world missing from the unlocked set - is returned as an error so
// the caller can discard the blob and start from the initial snapshot.
func Decode(blob []byte) (*game.PlayerState, error) {
	dec, err := zstd.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decompressing save: %w", err)
	}

	// Validate the shape before binding to the typed struct.
	var loose any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil, fmt.Errorf("parsing save: %w", err)
	}
	if err := saveSchema.Validate(loose); err != nil {
		return nil, fmt.Errorf("save failed schema validation: %w", err)
	}

	var state game.PlayerState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("binding save: %w", err)
	}
	normalize(&state)

	// Duplicates in the persisted arrays are tolerated (StringSet dedupes
	// on decode), but a current world outside the unlocked set is not.
	if !state.UnlockedWorlds.Has(state.CurrentWorldID) {
		return nil, fmt.Errorf("save names current world %q but it is not unlocked", state.CurrentWorldID)
	}

	return &state, nil
}

// normalize fills in any containers JSON left nil so downstream code can
// index them without nil checks.
func normalize(state *game.PlayerState) {
	if state.Resources == nil {
		state.Resources = make(game.ResourceBag)
	}
	if state.OwnedProperties == nil {
		state.OwnedProperties = make(map[string]game.OwnedProperty)
	}
	if state.PurchasedUpgrades == nil {
		state.PurchasedUpgrades = game.NewStringSet()
	}
	if state.Inventory == nil {
		state.Inventory = game.NewStringSet()
	}
	if state.UnlockedWorlds == nil {
		state.UnlockedWorlds = game.NewStringSet()
	}
	if state.NPCDialogues == nil {
		state.NPCDialogues = make(map[string]string)
	}
	if state.WorldDescriptions == nil {
		state.WorldDescriptions = make(map[string]string)
	}
	if state.ItemFlavorTexts == nil {
		state.ItemFlavorTexts = make(map[string]string)
	}
	if state.PropertyFlavorTexts == nil {
		state.PropertyFlavorTexts = make(map[string]string)
	}
}
