/*
Package persist
File: store.go
Description:
    The blob store abstraction the session saves through. The core only
    needs get/set/delete of an opaque blob under a fixed key; backends are
    an in-memory map (tests), SQLite (default) and Postgres (opt-in).
*/

package persist

// SaveKey is the key the player save is stored under. It matches the
// browser build's localStorage key so saves stay recognizable.
const SaveKey = "cosmicClickerConquestSave"

// BlobStore is a synchronous opaque key/value store.
type BlobStore interface {
	// Get returns the blob stored under key. The second return is false
	// when the key is absent.
	Get(key string) ([]byte, bool, error)

	// Set stores blob under key, replacing any prior value.
	Set(key string, blob []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	Close() error
}
