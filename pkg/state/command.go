package state

import (
	"strings"

	"github.com/tugruldev/lighthouse-quest/pkg/world"
)

// CommandType is the closed vocabulary of engine commands. Every recognized
// verb maps to one of these; new verbs require a new constant and an
// executor branch, not a string fallback.
type CommandType string

const (
	CmdLook      CommandType = "look"
	CmdGo        CommandType = "go"
	CmdTake      CommandType = "take"
	CmdInventory CommandType = "inventory"
	CmdExamine   CommandType = "examine"
	CmdUse       CommandType = "use"
	CmdUnknown   CommandType = "unknown"
)

// Command is one parsed engine command: a verb plus its optional argument
// (a direction for go, an item word for take/examine/use).
type Command struct {
	Type CommandType
	Arg  string
}

// directions are the bare words accepted as aliases for "go <direction>".
var directions = map[string]bool{
	"north":   true,
	"south":   true,
	"east":    true,
	"west":    true,
	"up":      true,
	"down":    true,
	"inside":  true,
	"outside": true,
}

var verbs = map[string]CommandType{
	"look":      CmdLook,
	"l":         CmdLook,
	"go":        CmdGo,
	"take":      CmdTake,
	"get":       CmdTake,
	"inventory": CmdInventory,
	"inv":       CmdInventory,
	"i":         CmdInventory,
	"examine":   CmdExamine,
	"x":         CmdExamine,
	"use":       CmdUse,
}

// ParseCommand splits a command string into verb and argument. Matching is
// case-insensitive and whitespace-delimited; a bare direction word is
// shorthand for "go <direction>". Unrecognized verbs come back as
// CmdUnknown with the raw input preserved in Arg.
func ParseCommand(input string) Command {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) == 0 {
		return Command{Type: CmdUnknown}
	}

	verb := fields[0]
	arg := strings.Join(fields[1:], " ")

	if directions[verb] && arg == "" {
		return Command{Type: CmdGo, Arg: verb}
	}
	cmd, ok := verbs[verb]
	if !ok {
		return Command{Type: CmdUnknown, Arg: strings.Join(fields, " ")}
	}
	return Command{Type: cmd, Arg: arg}
}

// Result reports what the executor did with a command.
type Result struct {
	// Success is false when the command was recognized but could not be
	// applied: a missing exit, a locked door, an item that isn't here.
	Success bool

	// Command is the parsed command that was applied.
	Command Command
}

// Execute applies one command string to a state snapshot and returns the
// new snapshot. The input snapshot is never modified. Unknown verbs are
// accepted with no effect, deferring to narration.
func Execute(w *world.World, gs GameState, command string) (GameState, Result) {
	cmd := ParseCommand(command)
	next := gs.clone()

	switch cmd.Type {
	case CmdLook, CmdInventory:
		// Pure description; the caller renders it.
		return next, Result{Success: true, Command: cmd}

	case CmdGo:
		return executeGo(w, next, cmd)

	case CmdTake:
		return executeTake(w, next, cmd)

	case CmdExamine:
		return executeExamine(w, next, cmd)

	case CmdUse:
		return executeUse(w, next, cmd)

	case CmdUnknown:
		return next, Result{Success: true, Command: cmd}
	}

	// Unreachable with a closed vocabulary.
	return next, Result{Success: false, Command: cmd}
}

func executeGo(w *world.World, gs GameState, cmd Command) (GameState, Result) {
	room, ok := w.GetRoom(gs.CurrentRoomID)
	if !ok {
		return gs, Result{Success: false, Command: cmd}
	}
	dest, ok := room.Exits[cmd.Arg]
	if !ok {
		return gs, Result{Success: false, Command: cmd}
	}
	if dest == w.LockedRoom() && !gs.Flag(FlagDoorUnlocked) {
		return gs, Result{Success: false, Command: cmd}
	}

	gs.CurrentRoomID = dest
	gs.Flags[VisitedFlag(dest)] = true
	if dest == world.RoomLighthouseTop {
		gs.PuzzleProgress.ReachedTop = true
		gs = gs.refreshCompletion()
	}
	return gs, Result{Success: true, Command: cmd}
}

func executeTake(w *world.World, gs GameState, cmd Command) (GameState, Result) {
	itemID, ok := world.ResolveItem(cmd.Arg)
	if !ok {
		return gs, Result{Success: false, Command: cmd}
	}
	present := false
	for _, it := range gs.ItemsInRoom(w, gs.CurrentRoomID) {
		if it == itemID {
			present = true
			break
		}
	}
	if !present {
		return gs, Result{Success: false, Command: cmd}
	}

	gs.Inventory = append(gs.Inventory, itemID)
	switch itemID {
	case world.ItemLantern:
		gs.PuzzleProgress.FoundLantern = true
	case world.ItemSmallKey:
		gs.PuzzleProgress.FoundKey = true
	}
	gs = gs.refreshCompletion()
	return gs, Result{Success: true, Command: cmd}
}

func executeExamine(w *world.World, gs GameState, cmd Command) (GameState, Result) {
	itemID, ok := world.ResolveItem(cmd.Arg)
	if !ok {
		return gs, Result{Success: false, Command: cmd}
	}
	if gs.HasItem(itemID) {
		return gs, Result{Success: true, Command: cmd}
	}
	for _, it := range gs.ItemsInRoom(w, gs.CurrentRoomID) {
		if it == itemID {
			return gs, Result{Success: true, Command: cmd}
		}
	}
	return gs, Result{Success: false, Command: cmd}
}

func executeUse(w *world.World, gs GameState, cmd Command) (GameState, Result) {
	itemID, ok := world.ResolveItem(cmd.Arg)
	if !ok || !gs.HasItem(itemID) {
		return gs, Result{Success: false, Command: cmd}
	}

	switch {
	case itemID == world.ItemSmallKey && gs.CurrentRoomID == world.RoomLighthouseExterior:
		// Idempotent: unlocking an unlocked door still succeeds.
		gs.Flags[FlagDoorUnlocked] = true
		gs.PuzzleProgress.UnlockedDoor = true

	case itemID == world.ItemLantern && gs.CurrentRoomID == world.RoomLighthouseTop:
		// The beacon needs a burning lantern.
		if !gs.Flag(FlagLanternLit) {
			return gs, Result{Success: false, Command: cmd}
		}
		gs.PuzzleProgress.LitBeacon = true

	case itemID == world.ItemLantern:
		// Lighting the lantern anywhere below the lamp room. Idempotent.
		gs.Flags[FlagLanternLit] = true
		gs.PuzzleProgress.LitLantern = true

	default:
		// Any other item/room pairing: accepted, nothing changes.
		return gs, Result{Success: true, Command: cmd}
	}

	gs = gs.refreshCompletion()
	return gs, Result{Success: true, Command: cmd}
}
