package persist

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pixil98/go-testutil"

	"github.com/everforgeworks/cosmic-conquest/internal/game"
)

// compress wraps raw JSON in the zstd frame Decode expects.
func compress(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	if _, err := enc.Write(raw); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("compress: %v", err)
	}
	return buf.Bytes()
}

// baseSaveJSON is a minimal valid save document for mutation in tests.
func baseSaveJSON() map[string]any {
	return map[string]any{
		"resources":           map[string]any{"GOLD": 10, "DATA_FRAGMENTS": 0},
		"ownedProperties":     map[string]any{},
		"purchasedUpgrades":   []any{},
		"inventory":           []any{},
		"unlockedWorlds":      []any{"primordia"},
		"currentWorldId":      "primordia",
		"npcDialogues":        map[string]any{},
		"worldDescriptions":   map[string]any{},
		"itemFlavorTexts":     map[string]any{},
		"propertyFlavorTexts": map[string]any{},
		"apiKeyState":         "loading",
	}
}

func encodeSave(t *testing.T, doc map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal save doc: %v", err)
	}
	return compress(t, raw)
}

func TestCodec_RoundTrip(t *testing.T) {
	catalog := game.DefaultCatalog()
	state := game.NewInitialState(catalog)
	state.Resources[game.ResourceDataFragments] = 42.5
	state.OwnedProperties["data_node_alpha"] = game.OwnedProperty{Count: 3, WorldID: "primordia"}
	state.PurchasedUpgrades.Add("data_tap_efficiency_1")
	state.Inventory.Add("basic_toolkit")
	state.UnlockedWorlds.Add("verdant_grove")
	state.NPCDialogues["archivist_zane"] = "Welcome back."
	state.APIKeyState = game.ServiceReady

	blob, err := Encode(state)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !reflect.DeepEqual(got, state) {
		t.Errorf("round trip changed the state:\n got %+v\nwant %+v", got, state)
	}
	// Insertion order of set fields survives the array form.
	testutil.AssertEqual(t, "first unlocked", got.UnlockedWorlds.Values()[0], "primordia")
}

func TestDecode_DeduplicatesSetArrays(t *testing.T) {
	doc := baseSaveJSON()
	doc["unlockedWorlds"] = []any{"primordia", "primordia", "verdant_grove"}
	doc["inventory"] = []any{"basic_toolkit", "basic_toolkit"}

	state, err := Decode(encodeSave(t, doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	testutil.AssertEqual(t, "unlocked worlds", state.UnlockedWorlds.Len(), 2)
	testutil.AssertEqual(t, "inventory", state.Inventory.Len(), 1)
}

func TestDecode_RejectsGarbage(t *testing.T) {
	cases := map[string][]byte{
		"not zstd":     []byte("definitely not a save"),
		"zstd not json": compress(t, []byte("still not json")),
	}
	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(blob); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestDecode_SchemaViolations(t *testing.T) {
	mutate := map[string]func(doc map[string]any){
		"negative resource": func(doc map[string]any) {
			doc["resources"] = map[string]any{"GOLD": -1}
		},
		"unknown resource key": func(doc map[string]any) {
			doc["resources"] = map[string]any{"WHEAT": 5}
		},
		"missing current world": func(doc map[string]any) {
			delete(doc, "currentWorldId")
		},
		"empty unlocked worlds": func(doc map[string]any) {
			doc["unlockedWorlds"] = []any{}
		},
		"bad service status": func(doc map[string]any) {
			doc["apiKeyState"] = "on fire"
		},
		"owned property count not integer": func(doc map[string]any) {
			doc["ownedProperties"] = map[string]any{
				"data_node_alpha": map[string]any{"count": 1.5, "worldId": "primordia"},
			}
		},
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			doc := baseSaveJSON()
			fn(doc)
			if _, err := Decode(encodeSave(t, doc)); err == nil {
				t.Errorf("expected a schema error")
			}
		})
	}
}

func TestDecode_CurrentWorldMustBeUnlocked(t *testing.T) {
	doc := baseSaveJSON()
	doc["currentWorldId"] = "verdant_grove" // unlockedWorlds only has primordia

	_, err := Decode(encodeSave(t, doc))
	testutil.AssertErrorContains(t, err, "not unlocked")
}
