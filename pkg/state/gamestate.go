// Package state holds the per-session game state and the command executor.
// State is an explicit value passed into and returned from every operation;
// nothing in this package mutates shared data.
package state

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tugruldev/lighthouse-quest/pkg/lang"
	"github.com/tugruldev/lighthouse-quest/pkg/world"
)

// Named boolean flags used by the game rules. Per-room visited markers use
// VisitedFlag.
const (
	FlagDoorUnlocked = "lighthouseDoorUnlocked"
	FlagLanternLit   = "lanternLit"
)

// Password is the secret revealed when the game completes. Earlier revisions
// of the game disagreed on this value; TUGRUL_AI is canonical.
const Password = "TUGRUL_AI"

// PuzzleProgress tracks the six puzzle milestones. Milestones are monotone:
// once set within a session, they are never reset.
type PuzzleProgress struct {
	FoundLantern bool `json:"foundLantern"`
	FoundKey     bool `json:"foundKey"`
	LitLantern   bool `json:"litLantern"`
	UnlockedDoor bool `json:"unlockedDoor"`
	ReachedTop   bool `json:"reachedTop"`
	LitBeacon    bool `json:"litBeacon"`
}

// Complete reports whether every milestone has been reached.
func (p PuzzleProgress) Complete() bool {
	return p.FoundLantern && p.FoundKey && p.LitLantern &&
		p.UnlockedDoor && p.ReachedTop && p.LitBeacon
}

// Count returns how many milestones have been reached.
func (p PuzzleProgress) Count() int {
	n := 0
	for _, b := range []bool{p.FoundLantern, p.FoundKey, p.LitLantern, p.UnlockedDoor, p.ReachedTop, p.LitBeacon} {
		if b {
			n++
		}
	}
	return n
}

// Merge ORs another progress record into this one. The echo from the
// translation service is untrusted, so a merge can set milestones but never
// clear them.
func (p PuzzleProgress) Merge(other PuzzleProgress) PuzzleProgress {
	return PuzzleProgress{
		FoundLantern: p.FoundLantern || other.FoundLantern,
		FoundKey:     p.FoundKey || other.FoundKey,
		LitLantern:   p.LitLantern || other.LitLantern,
		UnlockedDoor: p.UnlockedDoor || other.UnlockedDoor,
		ReachedTop:   p.ReachedTop || other.ReachedTop,
		LitBeacon:    p.LitBeacon || other.LitBeacon,
	}
}

// GameState is the full state of one play session. It lives in the client
// and rides along in every request body; the server holds nothing between
// requests.
type GameState struct {
	CurrentRoomID  string          `json:"currentRoomId"`
	Inventory      []string        `json:"inventory"`
	Flags          map[string]bool `json:"flags"`
	PuzzleProgress PuzzleProgress  `json:"puzzleProgress"`
	GameComplete   bool            `json:"gameComplete"`
	Password       string          `json:"password,omitempty"`
	Language       string          `json:"language"`
}

// NewGameState returns the starting state for a session in the given locale.
func NewGameState(w *world.World, language string) GameState {
	gs := GameState{
		CurrentRoomID: w.StartRoom(),
		Inventory:     []string{},
		Flags:         map[string]bool{},
		Language:      lang.Normalize(language),
	}
	gs.Flags[VisitedFlag(w.StartRoom())] = true
	return gs
}

// VisitedFlag names the per-room visited marker.
func VisitedFlag(roomID string) string {
	return "visited_" + roomID
}

// Validate checks that the snapshot is internally consistent with the world.
func (gs GameState) Validate(w *world.World) error {
	if _, ok := w.GetRoom(gs.CurrentRoomID); !ok {
		return fmt.Errorf("currentRoomId %q does not reference an existing room", gs.CurrentRoomID)
	}
	seen := make(map[string]bool, len(gs.Inventory))
	for _, item := range gs.Inventory {
		if _, ok := w.GetItem(item); !ok {
			return fmt.Errorf("inventory contains unknown item %q", item)
		}
		if seen[item] {
			return fmt.Errorf("inventory contains duplicate item %q", item)
		}
		seen[item] = true
	}
	return nil
}

// clone returns a deep copy so the executor can mutate freely and return a
// new value without touching the caller's snapshot.
func (gs GameState) clone() GameState {
	out := gs
	out.Inventory = make([]string, len(gs.Inventory))
	copy(out.Inventory, gs.Inventory)
	out.Flags = make(map[string]bool, len(gs.Flags))
	for k, v := range gs.Flags {
		out.Flags[k] = v
	}
	return out
}

// Flag reads a named flag, treating absence as false.
func (gs GameState) Flag(name string) bool {
	return gs.Flags[name]
}

// HasItem reports whether the item is in the player's inventory.
func (gs GameState) HasItem(itemID string) bool {
	for _, it := range gs.Inventory {
		if it == itemID {
			return true
		}
	}
	return false
}

// ItemsInRoom derives the current item set of a room: the world's starting
// placement minus anything the player carries. Together with the executor's
// take rule this keeps every item in exactly one place.
func (gs GameState) ItemsInRoom(w *world.World, roomID string) []string {
	items := make([]string, 0, 2)
	for _, item := range w.RoomItems(roomID) {
		if !gs.HasItem(item) {
			items = append(items, item)
		}
	}
	return items
}

// refreshCompletion recomputes gameComplete from the milestones. Completion
// is latched: a true value never reverts, and the password is set exactly
// when the latch first closes.
func (gs GameState) refreshCompletion() GameState {
	if gs.GameComplete {
		return gs
	}
	if gs.PuzzleProgress.Complete() {
		gs.GameComplete = true
		gs.Password = Password
	}
	return gs
}

// MergeProgress folds an untrusted progress echo into the state and
// recomputes completion. Engine-computed milestones always win.
func (gs GameState) MergeProgress(echo PuzzleProgress) GameState {
	gs.PuzzleProgress = gs.PuzzleProgress.Merge(echo)
	return gs.refreshCompletion()
}

// Summary renders a compact human-readable snapshot for the translation
// prompt: room, exits, reachable items, inventory, flags and progress.
func (gs GameState) Summary(w *world.World) string {
	var b strings.Builder

	room, ok := w.GetRoom(gs.CurrentRoomID)
	fmt.Fprintf(&b, "current_room: %s\n", gs.CurrentRoomID)
	if ok {
		dirs := make([]string, 0, len(room.Exits))
		for dir := range room.Exits {
			dirs = append(dirs, dir)
		}
		sort.Strings(dirs)
		pairs := make([]string, 0, len(dirs))
		for _, dir := range dirs {
			pairs = append(pairs, fmt.Sprintf("%s->%s", dir, room.Exits[dir]))
		}
		fmt.Fprintf(&b, "exits: %s\n", strings.Join(pairs, ", "))
	}
	fmt.Fprintf(&b, "items_here: %s\n", joinOrNone(gs.ItemsInRoom(w, gs.CurrentRoomID)))
	fmt.Fprintf(&b, "inventory: %s\n", joinOrNone(gs.Inventory))

	flagNames := make([]string, 0, len(gs.Flags))
	for name, set := range gs.Flags {
		if set {
			flagNames = append(flagNames, name)
		}
	}
	sort.Strings(flagNames)
	fmt.Fprintf(&b, "flags: %s\n", joinOrNone(flagNames))
	fmt.Fprintf(&b, "puzzle_progress: %d/6 (foundLantern=%t foundKey=%t litLantern=%t unlockedDoor=%t reachedTop=%t litBeacon=%t)\n",
		gs.PuzzleProgress.Count(),
		gs.PuzzleProgress.FoundLantern, gs.PuzzleProgress.FoundKey,
		gs.PuzzleProgress.LitLantern, gs.PuzzleProgress.UnlockedDoor,
		gs.PuzzleProgress.ReachedTop, gs.PuzzleProgress.LitBeacon)
	fmt.Fprintf(&b, "game_complete: %t\n", gs.GameComplete)
	fmt.Fprintf(&b, "language: %s", gs.Language)

	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
