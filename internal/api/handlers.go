/*
Package api
File: handlers.go
Description:
    HTTP handlers for the REST API. These functions decode incoming JSON
    requests, resolve catalog ids, dispatch actions into the session, and
    return JSON responses.

    Key responsibilities:
    - Input validation (is the JSON valid? does the id exist in the catalog?)
    - Dispatching actions (clicks, purchases, travel) into the session
    - Triggering fire-and-forget text lookups via the oracle fetcher

    An unaffordable purchase is not an error: the engine leaves the state
    unchanged and the response reports applied=false.
*/

package api

import (
	"encoding/json"
	"net/http"

	"github.com/everforgeworks/cosmic-conquest/internal/game"
	"github.com/everforgeworks/cosmic-conquest/internal/oracle"
	"github.com/everforgeworks/cosmic-conquest/internal/session"
)

// Server bundles the session, the text fetcher and the hub behind the
// HTTP surface. The fetcher may be nil when the text service is down.
type Server struct {
	session *session.Session
	fetcher *oracle.Fetcher
	hub     *Hub
}

// NewServer wires the handlers and subscribes the hub to session updates.
func NewServer(sess *session.Session, fetcher *oracle.Fetcher, hub *Hub) *Server {
	s := &Server{session: sess, fetcher: fetcher, hub: hub}

	sess.Subscribe(func(state *game.PlayerState, action game.Action) {
		switch action.(type) {
		case game.ApplyProductionDelta:
			// Ticks are frequent; push just the holdings.
			hub.Broadcast("production_pulse", state.Resources)
		default:
			hub.Broadcast("state_update", state)
		}
	})
	return s
}

// Routes registers every endpoint on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Information endpoints
	mux.HandleFunc("/api/state", s.handleGetState)
	mux.HandleFunc("/api/catalog", s.handleGetCatalog)

	// Action endpoints
	mux.HandleFunc("/api/click", s.handleClick)
	mux.HandleFunc("/api/properties/buy", s.handleBuyProperty)
	mux.HandleFunc("/api/upgrades/buy", s.handleBuyUpgrade)
	mux.HandleFunc("/api/store/buy", s.handleBuyItem)
	mux.HandleFunc("/api/worlds/unlock", s.handleUnlockWorld)
	mux.HandleFunc("/api/worlds/travel", s.handleTravel)
	mux.HandleFunc("/api/reset", s.handleReset)

	// Text enrichment endpoints
	mux.HandleFunc("/api/npc/dialogue", s.handleNPCDialogue)
	mux.HandleFunc("/api/worlds/describe", s.handleWorldDescription)
	mux.HandleFunc("/api/store/flavor", s.handleItemFlavor)
	mux.HandleFunc("/api/properties/flavor", s.handlePropertyFlavor)

	// Real-time push
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(s.hub, w, r)
	})

	return mux
}

// Request DTOs. These structs define exactly what the client sends us.

type worldRequest struct {
	WorldID string `json:"world_id"`
}

type propertyRequest struct {
	PropertyID string `json:"property_id"`
}

type upgradeRequest struct {
	UpgradeID string `json:"upgrade_id"`
}

type itemRequest struct {
	ItemID string `json:"item_id"`
}

type npcRequest struct {
	NPCID string `json:"npc_id"`
}

// actionResponse reports whether a cost-gated action landed, plus the
// resulting state either way.
type actionResponse struct {
	Applied bool              `json:"applied"`
	State   *game.PlayerState `json:"state"`
}

// textResponse reports the cached text (if any) and whether a lookup was
// just started for it.
type textResponse struct {
	Text     string `json:"text,omitempty"`
	Fetching bool   `json:"fetching"`
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

// handleGetState returns the current player snapshot.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.session.Snapshot())
}

// handleGetCatalog returns the full static catalog.
func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.session.Catalog()
	writeJSON(w, map[string]interface{}{
		"game_balance": c.Balance,
		"worlds":       c.Worlds,
		"properties":   c.Properties,
		"upgrades":     c.Upgrades,
		"items":        c.Items,
		"npcs":         c.NPCs,
	})
}

// handleClick applies one manual gather click in the named world.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req worldRequest
	if !decodeBody(w, r, &req) {
		return
	}
	world, ok := s.session.Catalog().WorldByID(req.WorldID)
	if !ok {
		http.Error(w, "World not found", http.StatusNotFound)
		return
	}
	state := s.session.Dispatch(game.ClickGather{World: world})
	writeJSON(w, actionResponse{Applied: true, State: state})
}

// handleBuyProperty purchases one unit of a property.
func (s *Server) handleBuyProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	prop, ok := s.session.Catalog().PropertyByID(req.PropertyID)
	if !ok {
		http.Error(w, "Property not found", http.StatusNotFound)
		return
	}
	before := s.session.Snapshot().OwnedProperties[prop.ID].Count
	state := s.session.Dispatch(game.BuyProperty{Property: prop})
	writeJSON(w, actionResponse{
		Applied: state.OwnedProperties[prop.ID].Count > before,
		State:   state,
	})
}

// handleBuyUpgrade purchases an upgrade. Re-buying an owned upgrade is
// filtered by the client; the engine simply deducts again.
func (s *Server) handleBuyUpgrade(w http.ResponseWriter, r *http.Request) {
	var req upgradeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	up, ok := s.session.Catalog().UpgradeByID(req.UpgradeID)
	if !ok {
		http.Error(w, "Upgrade not found", http.StatusNotFound)
		return
	}
	affordable := s.session.Snapshot().Resources.CanAfford(up.Cost)
	state := s.session.Dispatch(game.BuyUpgrade{Upgrade: up})
	writeJSON(w, actionResponse{Applied: affordable, State: state})
}

// handleBuyItem purchases a store item.
func (s *Server) handleBuyItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, ok := s.session.Catalog().ItemByID(req.ItemID)
	if !ok {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}
	affordable := s.session.Snapshot().Resources.CanAfford(item.Cost)
	state := s.session.Dispatch(game.BuyItem{Item: item})
	writeJSON(w, actionResponse{Applied: affordable, State: state})
}

// handleUnlockWorld pays a world's unlock cost and travels there.
func (s *Server) handleUnlockWorld(w http.ResponseWriter, r *http.Request) {
	var req worldRequest
	if !decodeBody(w, r, &req) {
		return
	}
	world, ok := s.session.Catalog().WorldByID(req.WorldID)
	if !ok {
		http.Error(w, "World not found", http.StatusNotFound)
		return
	}
	state := s.session.Dispatch(game.UnlockWorld{World: world})
	writeJSON(w, actionResponse{
		Applied: state.CurrentWorldID == world.ID,
		State:   state,
	})
}

// handleTravel switches the current world. The engine itself trusts its
// caller here, so the unlocked check lives at this edge.
func (s *Server) handleTravel(w http.ResponseWriter, r *http.Request) {
	var req worldRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := s.session.Catalog().WorldByID(req.WorldID); !ok {
		http.Error(w, "World not found", http.StatusNotFound)
		return
	}
	if !s.session.Snapshot().UnlockedWorlds.Has(req.WorldID) {
		http.Error(w, "World is locked", http.StatusConflict)
		return
	}
	state := s.session.Dispatch(game.ChangeWorld{WorldID: req.WorldID})
	writeJSON(w, actionResponse{Applied: true, State: state})
}

// handleReset wipes the session back to the initial snapshot.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	fresh := game.NewInitialState(s.session.Catalog())
	state := s.session.Dispatch(game.LoadGame{Snapshot: fresh})
	writeJSON(w, actionResponse{Applied: true, State: state})
}

// handleNPCDialogue returns cached dialogue for an NPC, kicking off a
// lookup when none is cached yet.
func (s *Server) handleNPCDialogue(w http.ResponseWriter, r *http.Request) {
	var req npcRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := s.session.Catalog().NPCByID(req.NPCID); !ok {
		http.Error(w, "NPC not found", http.StatusNotFound)
		return
	}
	state := s.session.Snapshot()
	if text, ok := state.NPCDialogues[req.NPCID]; ok {
		writeJSON(w, textResponse{Text: text})
		return
	}
	fetching := false
	if s.fetcher != nil {
		fetching = s.fetcher.RequestNPCDialogue(req.NPCID)
	}
	writeJSON(w, textResponse{Fetching: fetching})
}

// handleWorldDescription returns or requests a world's description.
func (s *Server) handleWorldDescription(w http.ResponseWriter, r *http.Request) {
	var req worldRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := s.session.Catalog().WorldByID(req.WorldID); !ok {
		http.Error(w, "World not found", http.StatusNotFound)
		return
	}
	state := s.session.Snapshot()
	if text, ok := state.WorldDescriptions[req.WorldID]; ok {
		writeJSON(w, textResponse{Text: text})
		return
	}
	fetching := false
	if s.fetcher != nil {
		fetching = s.fetcher.RequestWorldDescription(req.WorldID)
	}
	writeJSON(w, textResponse{Fetching: fetching})
}

// handleItemFlavor returns or requests flavor text for a store item.
func (s *Server) handleItemFlavor(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := s.session.Catalog().ItemByID(req.ItemID); !ok {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}
	state := s.session.Snapshot()
	if text, ok := state.ItemFlavorTexts[req.ItemID]; ok {
		writeJSON(w, textResponse{Text: text})
		return
	}
	fetching := false
	if s.fetcher != nil {
		fetching = s.fetcher.RequestItemFlavor(req.ItemID)
	}
	writeJSON(w, textResponse{Fetching: fetching})
}

// handlePropertyFlavor returns or requests flavor text for a property.
func (s *Server) handlePropertyFlavor(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := s.session.Catalog().PropertyByID(req.PropertyID); !ok {
		http.Error(w, "Property not found", http.StatusNotFound)
		return
	}
	state := s.session.Snapshot()
	if text, ok := state.PropertyFlavorTexts[req.PropertyID]; ok {
		writeJSON(w, textResponse{Text: text})
		return
	}
	fetching := false
	if s.fetcher != nil {
		fetching = s.fetcher.RequestPropertyFlavor(req.PropertyID)
	}
	writeJSON(w, textResponse{Fetching: fetching})
}

// CORSMiddleware lets the browser client talk to the server across domains.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
