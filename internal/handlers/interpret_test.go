package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tugruldev/lighthouse-quest/internal/services"
	"github.com/tugruldev/lighthouse-quest/pkg/chat"
	"github.com/tugruldev/lighthouse-quest/pkg/state"
	"github.com/tugruldev/lighthouse-quest/pkg/world"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func interpretBody(t *testing.T, input string, gs state.GameState, language string) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(chat.InterpretRequest{Input: input, State: gs, Language: language})
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decodeInterpret(t *testing.T, rec *httptest.ResponseRecorder) chat.InterpretResponse {
	t.Helper()
	var resp chat.InterpretResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestInterpretHandler_Success(t *testing.T) {
	w := world.MustLoad()
	mock := services.NewMockLLMAPI()
	mock.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return `{"command": "go north", "narration": "You walk up the shingle."}`, nil
	}
	handler := NewInterpretHandler(mock, w, testLogger())

	gs := state.NewGameState(w, "en")
	req := httptest.NewRequest(http.MethodPost, "/interpret", interpretBody(t, "walk north", gs, ""))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeInterpret(t, rec)
	assert.Equal(t, "go north", resp.Command)
	assert.Equal(t, "You walk up the shingle.", resp.Narration)
	assert.True(t, resp.Success)
	assert.Equal(t, "en", resp.Language)
	require.NotNil(t, resp.State)
	assert.Equal(t, world.RoomBeach, resp.State.CurrentRoomID)
	assert.Equal(t, 1, mock.CallCount(), "success needs exactly one round trip")
}

func TestInterpretHandler_MethodNotAllowed(t *testing.T) {
	handler := NewInterpretHandler(services.NewMockLLMAPI(), world.MustLoad(), testLogger())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/interpret", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
	}
}

func TestInterpretHandler_BadRequests(t *testing.T) {
	w := world.MustLoad()
	handler := NewInterpretHandler(services.NewMockLLMAPI(), w, testLogger())

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"input": `},
		{"empty input", `{"input": ""}`},
		{"missing input", `{}`},
		{"oversized input", fmt.Sprintf(`{"input": %q}`, strings.Repeat("a", chat.MaxInputLength+1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/interpret", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var errResp chat.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestInterpretHandler_NoLLMConfigured(t *testing.T) {
	w := world.MustLoad()
	handler := NewInterpretHandler(nil, w, testLogger())

	gs := state.NewGameState(w, "en")
	req := httptest.NewRequest(http.MethodPost, "/interpret", interpretBody(t, "look", gs, ""))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var errResp chat.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Contains(t, errResp.Error, "not configured")
}

func TestInterpretHandler_UpstreamFailure(t *testing.T) {
	w := world.MustLoad()
	mock := services.NewMockLLMAPI()
	mock.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return "", fmt.Errorf("connection refused")
	}
	handler := NewInterpretHandler(mock, w, testLogger())

	gs := state.NewGameState(w, "tr")
	req := httptest.NewRequest(http.MethodPost, "/interpret", interpretBody(t, "etrafa bak", gs, ""))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var errResp chat.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Contains(t, errResp.Error, "sis", "failure message follows the session locale")
}

func TestInterpretHandler_MalformedPayloadFallsBackToLook(t *testing.T) {
	w := world.MustLoad()
	mock := services.NewMockLLMAPI()
	mock.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return "I'm sorry, I can't do that.", nil
	}
	handler := NewInterpretHandler(mock, w, testLogger())

	gs := state.NewGameState(w, "en")
	req := httptest.NewRequest(http.MethodPost, "/interpret", interpretBody(t, "do a backflip", gs, ""))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeInterpret(t, rec)
	assert.Equal(t, "look", resp.Command)
	assert.NotEmpty(t, resp.Narration)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.State)
	assert.Equal(t, world.RoomPier, resp.State.CurrentRoomID, "fallback look leaves state unchanged")
}

func TestInterpretHandler_FailedCommandGetsOneExplanation(t *testing.T) {
	w := world.MustLoad()
	mock := services.NewMockLLMAPI()
	mock.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		if len(mock.ChatCompletionCalls) == 1 {
			// Pier has no south exit.
			return `{"command": "go south", "narration": "You head south."}`, nil
		}
		return "The pier ends at the water; there is no way south.", nil
	}
	handler := NewInterpretHandler(mock, w, testLogger())

	gs := state.NewGameState(w, "en")
	req := httptest.NewRequest(http.MethodPost, "/interpret", interpretBody(t, "go south", gs, ""))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeInterpret(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "go south", resp.Command)
	assert.Equal(t, "The pier ends at the water; there is no way south.", resp.Narration)
	require.NotNil(t, resp.State)
	assert.Equal(t, world.RoomPier, resp.State.CurrentRoomID, "failed command never moves the player")
	assert.Equal(t, 2, mock.CallCount(), "exactly one explanation round trip")
}

func TestInterpretHandler_ExplanationFailureKeepsNarration(t *testing.T) {
	w := world.MustLoad()
	mock := services.NewMockLLMAPI()
	mock.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		if len(mock.ChatCompletionCalls) == 1 {
			return `{"command": "go south", "narration": "You try to head south."}`, nil
		}
		return "", fmt.Errorf("timeout")
	}
	handler := NewInterpretHandler(mock, w, testLogger())

	gs := state.NewGameState(w, "en")
	req := httptest.NewRequest(http.MethodPost, "/interpret", interpretBody(t, "go south", gs, ""))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeInterpret(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "You try to head south.", resp.Narration, "explanation failure is non-fatal")
}

func TestInterpretHandler_RequestLanguageWinsOverSnapshot(t *testing.T) {
	w := world.MustLoad()
	mock := services.NewMockLLMAPI()
	mock.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return `{"command": "look", "narration": "Dalgalar kayalara vuruyor.", "language": "en"}`, nil
	}
	handler := NewInterpretHandler(mock, w, testLogger())

	gs := state.NewGameState(w, "en")
	req := httptest.NewRequest(http.MethodPost, "/interpret", interpretBody(t, "etrafa bak", gs, "tr-TR"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeInterpret(t, rec)
	assert.Equal(t, "tr", resp.Language, "request tag wins over snapshot and upstream echo")
	require.NotNil(t, resp.State)
	assert.Equal(t, "tr", resp.State.Language)
	require.NotNil(t, mock.LastCall())
	assert.Contains(t, mock.LastCall().Messages[0].Content, "Turkish")
}

func TestInterpretHandler_InvalidSnapshotResets(t *testing.T) {
	w := world.MustLoad()
	mock := services.NewMockLLMAPI()
	handler := NewInterpretHandler(mock, w, testLogger())

	gs := state.GameState{CurrentRoomID: "atlantis", Language: "en"}
	req := httptest.NewRequest(http.MethodPost, "/interpret", interpretBody(t, "look", gs, ""))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeInterpret(t, rec)
	require.NotNil(t, resp.State)
	assert.Equal(t, world.RoomPier, resp.State.CurrentRoomID, "bad snapshot restarts at the pier")
}

func TestInterpretHandler_ProgressEchoCannotRevert(t *testing.T) {
	w := world.MustLoad()
	mock := services.NewMockLLMAPI()
	mock.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		// An adversarial echo claiming nothing ever happened.
		return `{"command": "look", "narration": "All your work is undone!", "puzzleProgress": {"foundLantern": false, "litLantern": false}, "gameComplete": false}`, nil
	}
	handler := NewInterpretHandler(mock, w, testLogger())

	gs := state.NewGameState(w, "en")
	gs.Inventory = []string{world.ItemLantern}
	gs.PuzzleProgress.FoundLantern = true
	gs.PuzzleProgress.LitLantern = true
	gs.Flags[state.FlagLanternLit] = true

	req := httptest.NewRequest(http.MethodPost, "/interpret", interpretBody(t, "look around", gs, ""))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeInterpret(t, rec)
	assert.True(t, resp.PuzzleProgress.FoundLantern)
	assert.True(t, resp.PuzzleProgress.LitLantern)
	assert.False(t, resp.GameComplete)
	assert.Empty(t, resp.Password)
}

func TestInterpretHandler_CompletionSurfacesPassword(t *testing.T) {
	w := world.MustLoad()
	mock := services.NewMockLLMAPI()
	mock.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return `{"command": "use lantern", "narration": "The beacon blazes across the bay."}`, nil
	}
	handler := NewInterpretHandler(mock, w, testLogger())

	gs := state.NewGameState(w, "en")
	gs.CurrentRoomID = world.RoomLighthouseTop
	gs.Inventory = []string{world.ItemLantern, world.ItemSmallKey}
	gs.Flags[state.FlagLanternLit] = true
	gs.Flags[state.FlagDoorUnlocked] = true
	gs.PuzzleProgress = state.PuzzleProgress{
		FoundLantern: true,
		FoundKey:     true,
		LitLantern:   true,
		UnlockedDoor: true,
		ReachedTop:   true,
	}

	req := httptest.NewRequest(http.MethodPost, "/interpret", interpretBody(t, "light the beacon", gs, ""))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeInterpret(t, rec)
	assert.True(t, resp.Success)
	assert.True(t, resp.GameComplete)
	assert.True(t, resp.PuzzleProgress.LitBeacon)
	assert.Equal(t, state.Password, resp.Password)
}
