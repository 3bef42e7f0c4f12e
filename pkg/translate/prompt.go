// Package translate owns the contract with the translation service: the
// prompt that asks the LLM to turn free text into one engine command, and
// the tolerant parser that reads its answer back.
package translate

import (
	"fmt"

	"github.com/tugruldev/lighthouse-quest/pkg/chat"
	"github.com/tugruldev/lighthouse-quest/pkg/lang"
	"github.com/tugruldev/lighthouse-quest/pkg/state"
	"github.com/tugruldev/lighthouse-quest/pkg/world"
)

const systemPromptFormat = `You are the command interpreter for a text adventure game set at a lonely lighthouse. The player types free-form text in %s. Your job is to map it to EXACTLY ONE engine command and to narrate the result.

### Engine commands (the only valid values for "command"):
- "look"
- "go <direction>" where <direction> is one of the exits listed in the game state
- "take <item>"
- "inventory"
- "examine <item>"
- "use <item>"

### Rules:
- Use only rooms, items and exits that appear in the game state below. Never invent new ones.
- Item words must be one of: lantern, key.
- If the player's intent matches no command, answer with command "look" and narrate that nothing happens.
- Narration must be in %s, atmospheric, and at most three sentences.
- Do not reveal the password or talk about puzzles the player has not reached.

### Current game state:
%s

### Response format:
Reply with a single JSON object and nothing else:
{"command": "<engine command>", "narration": "<narration text>"}
You may optionally include "puzzleProgress", "gameComplete" and "language" fields. Do not wrap the JSON in a code fence.`

var languageNames = map[string]string{
	lang.English: "English",
	lang.Turkish: "Turkish",
}

// BuildMessages assembles the conversation for one interpretation round
// trip: the system contract plus the raw player input.
func BuildMessages(w *world.World, gs state.GameState, input string) []chat.ChatMessage {
	locale := lang.Normalize(gs.Language)
	name := languageNames[locale]
	system := fmt.Sprintf(systemPromptFormat, name, name, gs.Summary(w))

	return []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: system},
		{Role: chat.ChatRoleUser, Content: input},
	}
}

// BuildFailureMessages asks the service to explain, in the session language,
// why the command that was just attempted did not work. No command is
// executed from the answer.
func BuildFailureMessages(w *world.World, gs state.GameState, input string, cmd state.Command) []chat.ChatMessage {
	locale := lang.Normalize(gs.Language)
	system := fmt.Sprintf("%s\n\n### Current game state:\n%s\n\nThe player tried: %q (engine command %q %q).",
		lang.ExplainFailurePrompt(locale), gs.Summary(w), input, cmd.Type, cmd.Arg)

	return []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: system},
		{Role: chat.ChatRoleUser, Content: input},
	}
}
