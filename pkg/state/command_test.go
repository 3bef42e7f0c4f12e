package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tugruldev/lighthouse-quest/pkg/world"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		wantType CommandType
		wantArg  string
	}{
		{"look", CmdLook, ""},
		{"l", CmdLook, ""},
		{"LOOK", CmdLook, ""},
		{"  look  ", CmdLook, ""},
		{"go north", CmdGo, "north"},
		{"GO NORTH", CmdGo, "north"},
		{"north", CmdGo, "north"},
		{"inside", CmdGo, "inside"},
		{"down", CmdGo, "down"},
		{"take lantern", CmdTake, "lantern"},
		{"get lantern", CmdTake, "lantern"},
		{"take small key", CmdTake, "small key"},
		{"inventory", CmdInventory, ""},
		{"inv", CmdInventory, ""},
		{"i", CmdInventory, ""},
		{"examine key", CmdExamine, "key"},
		{"x key", CmdExamine, "key"},
		{"use key", CmdUse, "key"},
		{"dance wildly", CmdUnknown, "dance wildly"},
		{"", CmdUnknown, ""},
		{"   ", CmdUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := ParseCommand(tt.input)
			assert.Equal(t, tt.wantType, cmd.Type)
			assert.Equal(t, tt.wantArg, cmd.Arg)
		})
	}
}

func TestExecuteLookAndInventory(t *testing.T) {
	w := testWorld(t)
	gs := NewGameState(w, "en")

	for _, input := range []string{"look", "l", "inventory", "inv", "i"} {
		next, result := Execute(w, gs, input)
		assert.True(t, result.Success, "command %q", input)
		assert.Equal(t, gs.CurrentRoomID, next.CurrentRoomID)
		assert.Equal(t, gs.Inventory, next.Inventory)
	}
}

func TestExecuteGo(t *testing.T) {
	w := testWorld(t)

	t.Run("valid exit moves the player", func(t *testing.T) {
		gs := NewGameState(w, "en")
		next, result := Execute(w, gs, "go north")
		assert.True(t, result.Success)
		assert.Equal(t, world.RoomBeach, next.CurrentRoomID)
		assert.True(t, next.Flags[VisitedFlag(world.RoomBeach)])
	})

	t.Run("bare direction works as alias", func(t *testing.T) {
		gs := NewGameState(w, "en")
		next, result := Execute(w, gs, "north")
		assert.True(t, result.Success)
		assert.Equal(t, world.RoomBeach, next.CurrentRoomID)
	})

	t.Run("missing exit never mutates state", func(t *testing.T) {
		gs := NewGameState(w, "en")
		next, result := Execute(w, gs, "go south")
		assert.False(t, result.Success)
		assert.Equal(t, world.RoomPier, next.CurrentRoomID)
	})

	t.Run("locked room blocks entry until the flag is set", func(t *testing.T) {
		gs := NewGameState(w, "en")
		gs.CurrentRoomID = world.RoomLighthouseExterior

		next, result := Execute(w, gs, "go inside")
		assert.False(t, result.Success)
		assert.Equal(t, world.RoomLighthouseExterior, next.CurrentRoomID)

		// Monotone unlock: once the flag is set, the transition always works.
		gs.Flags[FlagDoorUnlocked] = true
		next, result = Execute(w, gs, "go inside")
		assert.True(t, result.Success)
		assert.Equal(t, world.RoomLighthouseInterior, next.CurrentRoomID)
	})

	t.Run("reaching the top sets the milestone", func(t *testing.T) {
		gs := NewGameState(w, "en")
		gs.CurrentRoomID = world.RoomLighthouseInterior

		next, result := Execute(w, gs, "go up")
		assert.True(t, result.Success)
		assert.Equal(t, world.RoomLighthouseTop, next.CurrentRoomID)
		assert.True(t, next.PuzzleProgress.ReachedTop)
	})
}

func TestExecuteTake(t *testing.T) {
	w := testWorld(t)

	t.Run("take from current room", func(t *testing.T) {
		gs := NewGameState(w, "en")
		gs.CurrentRoomID = world.RoomBeach

		next, result := Execute(w, gs, "take lantern")
		assert.True(t, result.Success)
		assert.Equal(t, []string{world.ItemLantern}, next.Inventory)
		assert.True(t, next.PuzzleProgress.FoundLantern)
		assert.Empty(t, next.ItemsInRoom(w, world.RoomBeach), "item must leave the room set")
	})

	t.Run("synonyms resolve, Turkish included", func(t *testing.T) {
		gs := NewGameState(w, "tr")
		gs.CurrentRoomID = world.RoomBeach

		next, result := Execute(w, gs, "take fener")
		assert.True(t, result.Success)
		assert.Equal(t, []string{world.ItemLantern}, next.Inventory)
	})

	t.Run("item not in room fails", func(t *testing.T) {
		gs := NewGameState(w, "en")
		next, result := Execute(w, gs, "take lantern")
		assert.False(t, result.Success)
		assert.Empty(t, next.Inventory)
	})

	t.Run("taking twice fails the second time", func(t *testing.T) {
		gs := NewGameState(w, "en")
		gs.CurrentRoomID = world.RoomBeach

		gs, result := Execute(w, gs, "take lantern")
		assert.True(t, result.Success)

		next, result := Execute(w, gs, "take lantern")
		assert.False(t, result.Success)
		assert.Equal(t, []string{world.ItemLantern}, next.Inventory, "never duplicated")
	})

	t.Run("unrecognized item word fails", func(t *testing.T) {
		gs := NewGameState(w, "en")
		gs.CurrentRoomID = world.RoomBeach
		_, result := Execute(w, gs, "take seagull")
		assert.False(t, result.Success)
	})
}

func TestExecuteExamine(t *testing.T) {
	w := testWorld(t)

	gs := NewGameState(w, "en")
	gs.CurrentRoomID = world.RoomBeach

	// In the room: visible.
	next, result := Execute(w, gs, "examine lantern")
	assert.True(t, result.Success)
	assert.Equal(t, gs.Inventory, next.Inventory, "examine never mutates")

	// Not here and not carried: fails.
	_, result = Execute(w, gs, "x key")
	assert.False(t, result.Success)

	// In inventory: visible anywhere.
	gs.Inventory = []string{world.ItemSmallKey}
	_, result = Execute(w, gs, "x key")
	assert.True(t, result.Success)
}

func TestExecuteUse(t *testing.T) {
	w := testWorld(t)

	t.Run("key unlocks the door in the entrance room, idempotently", func(t *testing.T) {
		gs := NewGameState(w, "en")
		gs.CurrentRoomID = world.RoomLighthouseExterior
		gs.Inventory = []string{world.ItemSmallKey}

		gs, result := Execute(w, gs, "use key")
		assert.True(t, result.Success)
		assert.True(t, gs.Flags[FlagDoorUnlocked])
		assert.True(t, gs.PuzzleProgress.UnlockedDoor)

		// Second use: still a success, no duplicate effect.
		gs, result = Execute(w, gs, "use key")
		assert.True(t, result.Success)
		assert.True(t, gs.Flags[FlagDoorUnlocked])
	})

	t.Run("key elsewhere is accepted with no effect", func(t *testing.T) {
		gs := NewGameState(w, "en")
		gs.Inventory = []string{world.ItemSmallKey}

		next, result := Execute(w, gs, "use key")
		assert.True(t, result.Success)
		assert.False(t, next.Flags[FlagDoorUnlocked])
		assert.False(t, next.PuzzleProgress.UnlockedDoor)
	})

	t.Run("lantern lights anywhere below the top", func(t *testing.T) {
		gs := NewGameState(w, "en")
		gs.Inventory = []string{world.ItemLantern}

		gs, result := Execute(w, gs, "use lantern")
		assert.True(t, result.Success)
		assert.True(t, gs.Flags[FlagLanternLit])
		assert.True(t, gs.PuzzleProgress.LitLantern)

		// Idempotent.
		gs, result = Execute(w, gs, "use lantern")
		assert.True(t, result.Success)
		assert.True(t, gs.Flags[FlagLanternLit])
	})

	t.Run("unlit lantern at the top fails and sets no milestone", func(t *testing.T) {
		gs := NewGameState(w, "en")
		gs.CurrentRoomID = world.RoomLighthouseTop
		gs.Inventory = []string{world.ItemLantern}

		next, result := Execute(w, gs, "use lantern")
		assert.False(t, result.Success)
		assert.False(t, next.PuzzleProgress.LitBeacon)
	})

	t.Run("lit lantern at the top lights the beacon", func(t *testing.T) {
		gs := NewGameState(w, "en")
		gs.CurrentRoomID = world.RoomLighthouseTop
		gs.Inventory = []string{world.ItemLantern}
		gs.Flags[FlagLanternLit] = true

		next, result := Execute(w, gs, "use lantern")
		assert.True(t, result.Success)
		assert.True(t, next.PuzzleProgress.LitBeacon)
	})

	t.Run("use requires possession", func(t *testing.T) {
		gs := NewGameState(w, "en")
		gs.CurrentRoomID = world.RoomLighthouseExterior

		_, result := Execute(w, gs, "use key")
		assert.False(t, result.Success)
	})
}

func TestExecuteUnknownVerb(t *testing.T) {
	w := testWorld(t)
	gs := NewGameState(w, "en")

	next, result := Execute(w, gs, "sing a sea shanty")
	assert.True(t, result.Success, "unknown verbs are accepted with no effect")
	assert.Equal(t, CmdUnknown, result.Command.Type)
	assert.Equal(t, gs.CurrentRoomID, next.CurrentRoomID)
	assert.Equal(t, gs.Inventory, next.Inventory)
}

func TestExecuteDoesNotMutateInput(t *testing.T) {
	w := testWorld(t)
	gs := NewGameState(w, "en")
	gs.CurrentRoomID = world.RoomBeach

	_, _ = Execute(w, gs, "take lantern")

	assert.Empty(t, gs.Inventory, "input snapshot must stay untouched")
	assert.False(t, gs.PuzzleProgress.FoundLantern)
}

// TestFullWalkthrough replays the canonical solution from a fresh session
// and checks every intermediate state.
func TestFullWalkthrough(t *testing.T) {
	w := testWorld(t)
	gs := NewGameState(w, "en")

	step := func(command string) Result {
		t.Helper()
		var result Result
		gs, result = Execute(w, gs, command)
		assert.True(t, result.Success, "command %q should succeed", command)
		return result
	}

	assert.Equal(t, world.RoomPier, gs.CurrentRoomID)
	assert.Empty(t, gs.Inventory)
	assert.Equal(t, 0, gs.PuzzleProgress.Count())

	step("go north")
	assert.Equal(t, world.RoomBeach, gs.CurrentRoomID)

	step("take lantern")
	assert.Equal(t, []string{world.ItemLantern}, gs.Inventory)
	assert.Empty(t, gs.ItemsInRoom(w, world.RoomBeach))

	step("use lantern")
	assert.True(t, gs.Flags[FlagLanternLit])
	assert.True(t, gs.PuzzleProgress.LitLantern)

	step("go north")
	assert.Equal(t, world.RoomLighthouseExterior, gs.CurrentRoomID)

	step("take key")
	assert.Equal(t, []string{world.ItemLantern, world.ItemSmallKey}, gs.Inventory)

	step("use key")
	assert.True(t, gs.Flags[FlagDoorUnlocked])

	step("go inside")
	assert.Equal(t, world.RoomLighthouseInterior, gs.CurrentRoomID)

	step("go up")
	assert.Equal(t, world.RoomLighthouseTop, gs.CurrentRoomID)
	assert.True(t, gs.PuzzleProgress.ReachedTop)
	assert.False(t, gs.GameComplete)

	step("use lantern")
	assert.True(t, gs.PuzzleProgress.LitBeacon)
	assert.True(t, gs.GameComplete)
	assert.Equal(t, Password, gs.Password)
	assert.Equal(t, 6, gs.PuzzleProgress.Count())

	// Completion never reverts.
	gs, result := Execute(w, gs, "go down")
	assert.True(t, result.Success)
	assert.True(t, gs.GameComplete)
	assert.Equal(t, Password, gs.Password)
}
