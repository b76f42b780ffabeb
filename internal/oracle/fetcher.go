/*
Package oracle
File: fetcher.go
Description:
    Fire-and-forget enrichment tasks. Each (kind, id) pair gets at most one
    outstanding lookup; results come back into the state machine as ordinary
    Set-cached-text actions, never as direct mutation. Stale completions are
    harmless: the cache write is idempotent per key.
*/

package oracle

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/everforgeworks/cosmic-conquest/internal/game"
	"github.com/everforgeworks/cosmic-conquest/internal/session"
)

// Fetcher launches deduplicated text lookups against a TextService and
// posts the results to the session.
type Fetcher struct {
	service TextService
	session *session.Session
	timeout time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
	wg       sync.WaitGroup
}

// NewFetcher wires a fetcher to the session. A zero timeout defaults to 30s.
func NewFetcher(service TextService, sess *session.Session, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		service:  service,
		session:  sess,
		timeout:  timeout,
		inFlight: make(map[string]struct{}),
	}
}

// Wait blocks until all in-flight lookups settle. Used in tests and on
// shutdown; gameplay never waits on lookups.
func (f *Fetcher) Wait() {
	f.wg.Wait()
}

// RequestNPCDialogue fetches dialogue for an NPC. Returns true if a lookup
// was started, false if it was suppressed (cached, in flight, service not
// ready, or unknown id). A failed lookup caches the fixed fallback line so
// the player is not left staring at nothing.
func (f *Fetcher) RequestNPCDialogue(npcID string) bool {
	state := f.session.Snapshot()
	catalog := f.session.Catalog()
	npc, ok := catalog.NPCByID(npcID)
	if !ok {
		return false
	}
	if _, cached := state.NPCDialogues[npcID]; cached {
		return false
	}
	prompt := NPCPrompt(npc, state, catalog)
	return f.launch(game.TextNPCDialogue, npcID, state, prompt, FallbackDialogue)
}

// RequestWorldDescription fetches a world's description.
func (f *Fetcher) RequestWorldDescription(worldID string) bool {
	state := f.session.Snapshot()
	world, ok := f.session.Catalog().WorldByID(worldID)
	if !ok {
		return false
	}
	if _, cached := state.WorldDescriptions[worldID]; cached {
		return false
	}
	return f.launch(game.TextWorldDesc, worldID, state, WorldPrompt(world), "")
}

// RequestItemFlavor fetches flavor text for a store item.
func (f *Fetcher) RequestItemFlavor(itemID string) bool {
	state := f.session.Snapshot()
	item, ok := f.session.Catalog().ItemByID(itemID)
	if !ok {
		return false
	}
	if _, cached := state.ItemFlavorTexts[itemID]; cached {
		return false
	}
	return f.launch(game.TextItemFlavor, itemID, state, ItemPrompt(item), "")
}

// RequestPropertyFlavor fetches flavor text for a property.
func (f *Fetcher) RequestPropertyFlavor(propertyID string) bool {
	state := f.session.Snapshot()
	prop, ok := f.session.Catalog().PropertyByID(propertyID)
	if !ok {
		return false
	}
	if _, cached := state.PropertyFlavorTexts[propertyID]; cached {
		return false
	}
	return f.launch(game.TextPropertyFlavor, propertyID, state, PropertyPrompt(prop), "")
}

// launch starts the one-shot task for a key unless suppressed. fallback,
// when non-empty, is cached on failure instead of leaving the key empty.
func (f *Fetcher) launch(kind game.TextKind, id string, state *game.PlayerState, prompt, fallback string) bool {
	// Reduced mode: without a ready service no lookups are issued at all.
	if state.APIKeyState != game.ServiceReady {
		return false
	}

	key := fmt.Sprintf("%s_%s", kind, id)
	f.mu.Lock()
	if _, busy := f.inFlight[key]; busy {
		f.mu.Unlock()
		return false
	}
	f.inFlight[key] = struct{}{}
	f.mu.Unlock()

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer func() {
			f.mu.Lock()
			delete(f.inFlight, key)
			f.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()

		text, err := f.service.Lookup(ctx, prompt)
		if err != nil {
			log.Printf("Oracle: lookup %s failed: %v", key, err)
			if fallback == "" {
				return
			}
			text = fallback
		}
		f.session.Dispatch(game.SetCachedText{Kind: kind, ID: id, Text: text})
	}()
	return true
}
