package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tugruldev/lighthouse-quest/internal/services"
	"github.com/tugruldev/lighthouse-quest/pkg/chat"
	"github.com/tugruldev/lighthouse-quest/pkg/lang"
	"github.com/tugruldev/lighthouse-quest/pkg/state"
	"github.com/tugruldev/lighthouse-quest/pkg/translate"
	"github.com/tugruldev/lighthouse-quest/pkg/world"
)

// upstreamTimeout bounds each translation round trip. Timeouts surface to
// the client as a 500 whose narration is a non-fatal in-world message; the
// snapshot the client holds is unaffected.
const upstreamTimeout = 30 * time.Second

// InterpretHandler serves POST /interpret and POST /api/interpret: one
// player input plus a state snapshot in, one engine command plus narration
// and the updated snapshot out. The handler holds no per-session state.
type InterpretHandler struct {
	llm    services.LLMService
	world  *world.World
	logger *slog.Logger
}

func NewInterpretHandler(llm services.LLMService, w *world.World, logger *slog.Logger) *InterpretHandler {
	return &InterpretHandler{
		llm:    llm,
		world:  w,
		logger: logger,
	}
}

func (h *InterpretHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for interpret endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var request chat.InterpretRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'input' and 'state' fields.")
		return
	}

	if err := request.Validate(); err != nil {
		h.logger.Warn("Invalid interpret request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	// Upstream credential absent: the server stays up for liveness, but
	// interpretation is a configuration error.
	if h.llm == nil {
		h.logger.Error("Interpret request received but no LLM service is configured")
		writeError(w, h.logger, http.StatusInternalServerError, "Translation service is not configured.")
		return
	}

	// The request's language tag is authoritative for the whole exchange.
	// Upstream echoes never overwrite it.
	locale := request.State.Language
	if request.Language != "" {
		locale = request.Language
	}
	locale = lang.Normalize(locale)

	gs := request.State
	gs.Language = locale
	if err := gs.Validate(h.world); err != nil {
		// Unknown room or items in the snapshot: reset to a fresh session
		// rather than failing the player.
		h.logger.Warn("Invalid game state snapshot, starting fresh", "error", err)
		gs = state.NewGameState(h.world, locale)
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	raw, err := h.llm.ChatCompletion(ctx, translate.BuildMessages(h.world, gs, request.Input))
	if err != nil {
		h.logger.Error("Translation service call failed", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, lang.UpstreamFailure(locale))
		return
	}

	translation, fellBack := translate.ParseOrDefault(raw, locale)
	if fellBack {
		h.logger.Warn("Translation payload required fallback defaults",
			"raw_length", len(raw))
	}

	next, result := state.Execute(h.world, gs, translation.Command)
	narration := translation.Narration

	// One follow-up round trip when the engine rejected the command: ask
	// the service to explain the failure in-world. No command from the
	// answer is executed, and a second failure is not retried.
	if !result.Success {
		explainCtx, explainCancel := context.WithTimeout(r.Context(), upstreamTimeout)
		defer explainCancel()

		explanation, err := h.llm.ChatCompletion(explainCtx, translate.BuildFailureMessages(h.world, gs, request.Input, result.Command))
		if err != nil {
			h.logger.Warn("Failure explanation call failed", "error", err)
		} else if text := strings.TrimSpace(explanation); text != "" {
			narration = text
		}
	}

	// The engine's progress is authoritative; the echo can only add.
	if translation.PuzzleProgress != nil {
		next = next.MergeProgress(*translation.PuzzleProgress)
	}

	response := chat.InterpretResponse{
		Command:        commandString(result.Command),
		Narration:      narration,
		Language:       locale,
		Success:        result.Success,
		PuzzleProgress: next.PuzzleProgress,
		GameComplete:   next.GameComplete,
		Password:       next.Password,
		State:          &next,
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding interpret response", "error", err)
	}
}

// commandString reconstructs the canonical verb+argument string.
func commandString(cmd state.Command) string {
	if cmd.Type == state.CmdUnknown {
		return string(state.CmdLook)
	}
	if cmd.Arg == "" || cmd.Type == state.CmdLook || cmd.Type == state.CmdInventory {
		return string(cmd.Type)
	}
	return string(cmd.Type) + " " + cmd.Arg
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(chat.ErrorResponse{Error: message}); err != nil {
		logger.Error("Error encoding error response", "error", err)
	}
}
