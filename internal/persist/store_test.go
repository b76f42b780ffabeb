package persist

import (
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

// exerciseStore runs the contract every BlobStore backend must satisfy.
func exerciseStore(t *testing.T, store BlobStore) {
	t.Helper()

	// Empty store: miss, no error.
	_, found, err := store.Get(SaveKey)
	if err != nil {
		t.Fatalf("get on empty store: %v", err)
	}
	testutil.AssertEqual(t, "empty store hit", found, false)

	// Write then read back.
	if err := store.Set(SaveKey, []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	blob, found, err := store.Get(SaveKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	testutil.AssertEqual(t, "found", found, true)
	testutil.AssertEqual(t, "blob", string(blob), "v1")

	// Overwrite.
	if err := store.Set(SaveKey, []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	blob, _, err = store.Get(SaveKey)
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	testutil.AssertEqual(t, "overwritten blob", string(blob), "v2")

	// Delete, including a second delete of the now-absent key.
	if err := store.Delete(SaveKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, found, err = store.Get(SaveKey)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	testutil.AssertEqual(t, "deleted", found, false)
	if err := store.Delete(SaveKey); err != nil {
		t.Errorf("deleting an absent key should be a no-op, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	exerciseStore(t, store)
}

func TestMemoryStore_CopiesBlobs(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	original := []byte("pristine")
	if err := store.Set(SaveKey, original); err != nil {
		t.Fatalf("set: %v", err)
	}
	original[0] = 'X'

	blob, _, err := store.Get(SaveKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	testutil.AssertEqual(t, "stored copy", string(blob), "pristine")

	blob[0] = 'Y'
	again, _, _ := store.Get(SaveKey)
	testutil.AssertEqual(t, "reader copy", string(again), "pristine")
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()
	exerciseStore(t, store)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves.db")

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := store.Set(SaveKey, []byte("survives")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer reopened.Close()

	blob, found, err := reopened.Get(SaveKey)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	testutil.AssertEqual(t, "found", found, true)
	testutil.AssertEqual(t, "blob", string(blob), "survives")
}

func TestOpenSQLite_RejectsEmptyPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Errorf("expected an error for an empty path")
	}
}
