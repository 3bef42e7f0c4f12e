// Package chat defines the message types shared between the API handlers
// and the LLM wire clients.
package chat

import (
	"fmt"

	"github.com/tugruldev/lighthouse-quest/pkg/state"
)

const (
	ChatRoleUser   = "user"
	ChatRoleAgent  = "assistant"
	ChatRoleSystem = "system"
)

// MaxInputLength bounds player input so a hostile client can't stuff the
// prompt.
const MaxInputLength = 1000

// ChatMessage is a single message in an LLM conversation. The shape follows
// the OpenAI-style chat completions API that Mistral exposes.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// InterpretRequest is the body of POST /interpret: raw player text plus the
// full state snapshot the stateless server needs to answer.
type InterpretRequest struct {
	Input    string          `json:"input"`
	State    state.GameState `json:"state"`
	Language string          `json:"language,omitempty"`
}

// Validate enforces the request contract. Input must be a non-empty string;
// everything else has usable defaults.
func (r *InterpretRequest) Validate() error {
	if r.Input == "" {
		return fmt.Errorf("input is required and must be a non-empty string")
	}
	if len(r.Input) > MaxInputLength {
		return fmt.Errorf("input exceeds maximum length of %d characters", MaxInputLength)
	}
	return nil
}

// InterpretResponse is the body returned for a successful interpretation.
// PuzzleProgress, GameComplete and Password are engine-computed and
// authoritative; Narration is advisory text from the translation service.
type InterpretResponse struct {
	Command        string               `json:"command"`
	Narration      string               `json:"narration"`
	Language       string               `json:"language,omitempty"`
	Success        bool                 `json:"success"`
	PuzzleProgress state.PuzzleProgress `json:"puzzleProgress"`
	GameComplete   bool                 `json:"gameComplete"`
	Password       string               `json:"password,omitempty"`
	State          *state.GameState     `json:"state,omitempty"`
}

// ErrorResponse is the JSON error envelope used on non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}
