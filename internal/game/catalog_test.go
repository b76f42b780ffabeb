package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	testutil.AssertEqual(t, "worlds", len(catalog.Worlds), 2)
	testutil.AssertEqual(t, "properties", len(catalog.Properties), 4)
	testutil.AssertEqual(t, "upgrades", len(catalog.Upgrades), 4)
	testutil.AssertEqual(t, "items", len(catalog.Items), 3)
	testutil.AssertEqual(t, "npcs", len(catalog.NPCs), 2)
	testutil.AssertEqual(t, "starting world", catalog.Balance.StartingWorldID, "primordia")
	testutil.AssertEqual(t, "starting gold", catalog.Balance.StartingResources.Amount(ResourceGold), 10.0)
}

func TestCatalogLookups(t *testing.T) {
	catalog := DefaultCatalog()

	world, ok := catalog.WorldByID("verdant_grove")
	testutil.AssertEqual(t, "world found", ok, true)
	testutil.AssertEqual(t, "world click resource", world.ClickResource, ResourceGold)

	prop, ok := catalog.PropertyByID("mana_spring")
	testutil.AssertEqual(t, "property found", ok, true)
	testutil.AssertEqual(t, "property produces", prop.Produces, ResourceMana)

	if _, ok := catalog.WorldByID("atlantis"); ok {
		t.Errorf("lookup of an unknown world reported found")
	}
	if _, ok := catalog.UpgradeByID(""); ok {
		t.Errorf("lookup of an empty upgrade id reported found")
	}
}

func TestParseCatalog_AggregatesAllProblems(t *testing.T) {
	// One document, three independent faults. All must surface at once.
	broken := []byte(`
game_balance:
  starting_world_id: nowhere
worlds:
  - id: primordia
    name: Primordia
    unlock_cost: {}
    base_click_value:
      DATA_FRAGMENTS: 1
    click_resource: DATA_FRAGMENTS
    available_property_ids: [ghost_property]
    available_upgrade_ids: []
properties:
  - id: farm
    name: Farm
    world_id: primordia
    cost:
      GOLD: 10
    base_production:
      WHEAT: 1
    production_resource: WHEAT
`)
	_, err := ParseCatalog(broken)
	if err == nil {
		t.Fatalf("expected validation errors, got none")
	}
	testutil.AssertErrorContains(t, err, `starting_world_id "nowhere"`)
	testutil.AssertErrorContains(t, err, `unknown property "ghost_property"`)
	testutil.AssertErrorContains(t, err, `unknown production resource "WHEAT"`)
}

func TestParseCatalog_DuplicateIDs(t *testing.T) {
	broken := []byte(`
game_balance:
  starting_world_id: primordia
worlds:
  - id: primordia
    name: One
    unlock_cost: {}
    base_click_value:
      GOLD: 1
    click_resource: GOLD
  - id: primordia
    name: Two
    unlock_cost: {}
    base_click_value:
      GOLD: 1
    click_resource: GOLD
`)
	_, err := ParseCatalog(broken)
	testutil.AssertErrorContains(t, err, `duplicate world id "primordia"`)
}

func TestParseCatalog_PropertyBoostNeedsTarget(t *testing.T) {
	broken := []byte(`
game_balance:
  starting_world_id: primordia
worlds:
  - id: primordia
    name: Primordia
    unlock_cost: {}
    base_click_value:
      GOLD: 1
    click_resource: GOLD
upgrades:
  - id: dangler
    name: Dangler
    cost: {}
    type: propertyBoost
    target_property_id: no_such_property
    value: 0.5
`)
	_, err := ParseCatalog(broken)
	testutil.AssertErrorContains(t, err, `unknown target property "no_such_property"`)
}

func TestParseCatalog_RejectsMalformedYAML(t *testing.T) {
	_, err := ParseCatalog([]byte("worlds: [unterminated"))
	if err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestLoadCatalog_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, defaultCatalogYAML, 0o644); err != nil {
		t.Fatalf("write temp catalog: %v", err)
	}

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	testutil.AssertEqual(t, "worlds", len(catalog.Worlds), 2)

	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
