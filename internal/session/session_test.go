package session

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/everforgeworks/cosmic-conquest/internal/game"
	"github.com/everforgeworks/cosmic-conquest/internal/persist"
)

func TestNew_FreshStart(t *testing.T) {
	catalog := game.DefaultCatalog()
	sess := New(catalog, persist.NewMemoryStore())

	state := sess.Snapshot()
	testutil.AssertEqual(t, "gold", state.Resources[game.ResourceGold], 10.0)
	testutil.AssertEqual(t, "world", state.CurrentWorldID, "primordia")
	testutil.AssertEqual(t, "status", state.APIKeyState, game.ServiceLoading)
}

func TestDispatch_WritesThroughToStore(t *testing.T) {
	catalog := game.DefaultCatalog()
	store := persist.NewMemoryStore()
	sess := New(catalog, store)

	world, _ := catalog.WorldByID("primordia")
	sess.Dispatch(game.ClickGather{World: world})

	blob, found, err := store.Get(persist.SaveKey)
	if err != nil || !found {
		t.Fatalf("expected a persisted save, found=%v err=%v", found, err)
	}
	saved, err := persist.Decode(blob)
	if err != nil {
		t.Fatalf("decode persisted save: %v", err)
	}
	testutil.AssertEqual(t, "persisted fragments", saved.Resources[game.ResourceDataFragments], 1.0)
}

func TestNew_RestoresSaveButKeepsServiceStatus(t *testing.T) {
	catalog := game.DefaultCatalog()
	store := persist.NewMemoryStore()

	// First session plays a bit, flags the service ready, and saves.
	first := New(catalog, store)
	first.Dispatch(game.SetServiceStatus{Status: game.ServiceReady})
	world, _ := catalog.WorldByID("primordia")
	first.Dispatch(game.ClickGather{World: world})
	first.Dispatch(game.ClickGather{World: world})

	// Second session restores the progress but starts its own service
	// handshake from scratch.
	second := New(catalog, store)
	state := second.Snapshot()
	testutil.AssertEqual(t, "restored fragments", state.Resources[game.ResourceDataFragments], 2.0)
	testutil.AssertEqual(t, "status reset", state.APIKeyState, game.ServiceLoading)
}

func TestNew_DiscardsCorruptSave(t *testing.T) {
	catalog := game.DefaultCatalog()
	store := persist.NewMemoryStore()
	if err := store.Set(persist.SaveKey, []byte("scrambled bits")); err != nil {
		t.Fatalf("seed corrupt save: %v", err)
	}

	sess := New(catalog, store)

	state := sess.Snapshot()
	testutil.AssertEqual(t, "fresh gold", state.Resources[game.ResourceGold], 10.0)

	// The corrupt blob is gone, not waiting to fail the next boot too.
	_, found, err := store.Get(persist.SaveKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	testutil.AssertEqual(t, "corrupt save deleted", found, false)
}

func TestTick_AppliesProduction(t *testing.T) {
	catalog := game.DefaultCatalog()
	sess := New(catalog, persist.NewMemoryStore())

	// Hand the player a mana spring, then tick twice.
	snapshot := sess.Snapshot()
	snapshot.OwnedProperties["mana_spring"] = game.OwnedProperty{Count: 1, WorldID: "primordia"}
	sess.Dispatch(game.LoadGame{Snapshot: snapshot})

	sess.Tick()
	state := sess.Tick()

	testutil.AssertEqual(t, "mana after two ticks", state.Resources[game.ResourceMana], 2.0)
}

func TestSubscribe_NotifiedPerAction(t *testing.T) {
	catalog := game.DefaultCatalog()
	sess := New(catalog, persist.NewMemoryStore())

	var seen []game.Action
	sess.Subscribe(func(state *game.PlayerState, action game.Action) {
		seen = append(seen, action)
	})

	world, _ := catalog.WorldByID("primordia")
	sess.Dispatch(game.ClickGather{World: world})
	sess.Tick()

	testutil.AssertEqual(t, "notifications", len(seen), 2)
	if _, ok := seen[0].(game.ClickGather); !ok {
		t.Errorf("first notification was %T, want ClickGather", seen[0])
	}
	if _, ok := seen[1].(game.ApplyProductionDelta); !ok {
		t.Errorf("second notification was %T, want ApplyProductionDelta", seen[1])
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	catalog := game.DefaultCatalog()
	sess := New(catalog, persist.NewMemoryStore())

	snapshot := sess.Snapshot()
	snapshot.Resources[game.ResourceGold] = 1_000_000

	testutil.AssertEqual(t, "session gold", sess.Snapshot().Resources[game.ResourceGold], 10.0)
}

func TestReplaceCatalog(t *testing.T) {
	catalog := game.DefaultCatalog()
	sess := New(catalog, persist.NewMemoryStore())

	fresh := game.DefaultCatalog()
	sess.ReplaceCatalog(fresh)

	if sess.Catalog() != fresh {
		t.Errorf("catalog was not swapped")
	}
}
