// Package world holds the static room graph and item definitions for the
// lighthouse scenario. The world is read-only after Load; per-session
// mutation (items picked up, doors unlocked) lives entirely in game state.
package world

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Canonical item identifiers. These are the only values that ever appear in
// inventories or room item sets.
const (
	ItemLantern  = "lantern"
	ItemSmallKey = "smallKey"
)

// Room identifiers referenced by game rules.
const (
	RoomPier               = "pier"
	RoomBeach              = "beach"
	RoomLighthouseExterior = "lighthouseExterior"
	RoomLighthouseInterior = "lighthouseInterior"
	RoomLighthouseTop      = "lighthouseTop"
)

//go:embed world.yaml
var worldYAML []byte

// Room is a node in the location graph. Exits map direction words to
// destination room ids. Items is the starting placement; whether an item is
// still here for a given session is derived from that session's inventory.
type Room struct {
	ID    string            `json:"id" yaml:"-"`
	Name  map[string]string `json:"name" yaml:"name"`
	Short map[string]string `json:"short" yaml:"short"`
	Long  map[string]string `json:"long" yaml:"long"`
	Exits map[string]string `json:"exits" yaml:"exits"`
	Items []string          `json:"items,omitempty" yaml:"items"`
}

// Item is a static definition; items never change after load.
type Item struct {
	ID          string            `json:"id" yaml:"-"`
	Description map[string]string `json:"description" yaml:"description"`
}

// World is the fixed location graph. Safe for concurrent reads.
type World struct {
	startRoom  string
	lockedRoom string
	rooms      map[string]Room
	items      map[string]Item
}

type worldDoc struct {
	StartRoom  string          `yaml:"start_room"`
	LockedRoom string          `yaml:"locked_room"`
	Rooms      map[string]Room `yaml:"rooms"`
	Items      map[string]Item `yaml:"items"`
}

// Load parses and validates the embedded world definition.
func Load() (*World, error) {
	var doc worldDoc
	if err := yaml.Unmarshal(worldYAML, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse world definition: %w", err)
	}

	w := &World{
		startRoom:  doc.StartRoom,
		lockedRoom: doc.LockedRoom,
		rooms:      make(map[string]Room, len(doc.Rooms)),
		items:      make(map[string]Item, len(doc.Items)),
	}
	for id, item := range doc.Items {
		item.ID = id
		w.items[id] = item
	}
	for id, room := range doc.Rooms {
		room.ID = id
		w.rooms[id] = room
	}

	if err := w.validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// MustLoad is Load for callers that treat a broken embedded definition as a
// programming error.
func MustLoad() *World {
	w, err := Load()
	if err != nil {
		panic(err)
	}
	return w
}

func (w *World) validate() error {
	if _, ok := w.rooms[w.startRoom]; !ok {
		return fmt.Errorf("start room %q is not defined", w.startRoom)
	}
	if _, ok := w.rooms[w.lockedRoom]; !ok {
		return fmt.Errorf("locked room %q is not defined", w.lockedRoom)
	}
	seen := make(map[string]string) // item id -> room id
	for id, room := range w.rooms {
		for dir, dest := range room.Exits {
			if _, ok := w.rooms[dest]; !ok {
				return fmt.Errorf("room %q exit %q references unknown room %q", id, dir, dest)
			}
		}
		for _, item := range room.Items {
			if _, ok := w.items[item]; !ok {
				return fmt.Errorf("room %q places unknown item %q", id, item)
			}
			if prev, dup := seen[item]; dup {
				return fmt.Errorf("item %q placed in both %q and %q", item, prev, id)
			}
			seen[item] = id
		}
	}
	return nil
}

// StartRoom is where new sessions begin.
func (w *World) StartRoom() string {
	return w.startRoom
}

// LockedRoom is the room whose entry is gated by the door-unlocked flag.
func (w *World) LockedRoom() string {
	return w.lockedRoom
}

// GetRoom returns the room and whether it exists.
func (w *World) GetRoom(id string) (Room, bool) {
	room, ok := w.rooms[id]
	return room, ok
}

// GetItem returns the item definition and whether it exists.
func (w *World) GetItem(id string) (Item, bool) {
	item, ok := w.items[id]
	return item, ok
}

// RoomItems returns the starting item placement for a room. Unknown rooms
// yield an empty set.
func (w *World) RoomItems(id string) []string {
	room, ok := w.rooms[id]
	if !ok {
		return nil
	}
	items := make([]string, len(room.Items))
	copy(items, room.Items)
	return items
}

// HomeRoom returns the room an item is originally placed in, or "" if the
// item is not placed anywhere.
func (w *World) HomeRoom(itemID string) string {
	for id, room := range w.rooms {
		for _, item := range room.Items {
			if item == itemID {
				return id
			}
		}
	}
	return ""
}
