/*
Package session
File: session.go
Description:
    Owns the single PlayerState for the running game. Every mutation funnels
    through Dispatch, which applies exactly one action at a time via the
    transition engine, writes the new state through to the blob store, and
    notifies listeners (the WebSocket hub) with a fresh snapshot.

    The tick scheduler lives here too: a 1-second heartbeat recomputes
    production from the current holdings and dispatches it as an ordinary
    resource-delta action, so ticks and player actions share one ordering.
*/

package session

import (
	"log"
	"sync"
	"time"

	"github.com/everforgeworks/cosmic-conquest/internal/game"
	"github.com/everforgeworks/cosmic-conquest/internal/persist"
)

// Listener is notified after every applied action with a snapshot of the
// resulting state. Listeners must not block; the session holds no lock while
// calling them but dispatches wait for them to return.
type Listener func(state *game.PlayerState, action game.Action)

// Session is the single-writer owner of the game state.
type Session struct {
	mu      sync.RWMutex
	state   *game.PlayerState
	catalog *game.Catalog
	store   persist.BlobStore

	listenerMu sync.RWMutex
	listeners  []Listener

	tickStop chan struct{}
	tickDone chan struct{}
}

// New builds a session from the catalog and blob store. If a save exists
// and decodes cleanly it is loaded; a corrupt save is discarded with a log
// line and the session starts from the initial snapshot.
func New(catalog *game.Catalog, store persist.BlobStore) *Session {
	s := &Session{
		state:   game.NewInitialState(catalog),
		catalog: catalog,
		store:   store,
	}

	blob, found, err := store.Get(persist.SaveKey)
	if err != nil {
		log.Printf("Save: read failed, starting fresh: %v", err)
		return s
	}
	if !found {
		return s
	}

	snapshot, err := persist.Decode(blob)
	if err != nil {
		// Recovered locally: drop the blob, keep the initial snapshot.
		log.Printf("Save: discarding corrupt save: %v", err)
		if derr := store.Delete(persist.SaveKey); derr != nil {
			log.Printf("Save: could not delete corrupt save: %v", derr)
		}
		return s
	}

	// LoadGame keeps the session's own service status, not the save's.
	s.state = game.Apply(s.state, game.LoadGame{Snapshot: snapshot}, catalog)
	log.Printf("Save: restored session in world %q", s.state.CurrentWorldID)
	return s
}

// Subscribe registers a listener for post-action snapshots.
func (s *Session) Subscribe(l Listener) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Dispatch applies one action. Actions are serialized under the state lock,
// so each one sees a fully settled prior state. The new state is persisted
// best-effort before the lock is released.
func (s *Session) Dispatch(action game.Action) *game.PlayerState {
	s.mu.Lock()
	s.state = game.Apply(s.state, action, s.catalog)
	snapshot := s.state.Clone()
	s.persistLocked()
	s.mu.Unlock()

	s.listenerMu.RLock()
	listeners := s.listeners
	s.listenerMu.RUnlock()
	for _, l := range listeners {
		l(snapshot, action)
	}
	return snapshot
}

// persistLocked writes the current state through to the store. Failures are
// logged and swallowed; persistence is best-effort and never blocks play.
func (s *Session) persistLocked() {
	blob, err := persist.Encode(s.state)
	if err != nil {
		log.Printf("Save: encode failed: %v", err)
		return
	}
	if err := s.store.Set(persist.SaveKey, blob); err != nil {
		log.Printf("Save: write failed: %v", err)
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() *game.PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Catalog returns the active catalog.
func (s *Session) Catalog() *game.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// ReplaceCatalog swaps in a freshly loaded catalog (SIGHUP hot reload).
func (s *Session) ReplaceCatalog(catalog *game.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = catalog
}

// Tick runs one production tick immediately: compute the per-tick yield
// from the current holdings and apply it as a resource delta.
func (s *Session) Tick() *game.PlayerState {
	s.mu.RLock()
	delta := game.ComputeProduction(s.state, s.catalog)
	s.mu.RUnlock()
	return s.Dispatch(game.ApplyProductionDelta{Delta: delta})
}

// StartTicker begins the production heartbeat. Stop with StopTicker.
func (s *Session) StartTicker(interval time.Duration) {
	if s.tickStop != nil {
		return
	}
	s.tickStop = make(chan struct{})
	s.tickDone = make(chan struct{})

	go func() {
		defer close(s.tickDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Tick()
			case <-s.tickStop:
				return
			}
		}
	}()
}

// StopTicker halts the production heartbeat and waits for it to exit.
func (s *Session) StopTicker() {
	if s.tickStop == nil {
		return
	}
	close(s.tickStop)
	<-s.tickDone
	s.tickStop = nil
	s.tickDone = nil
}
