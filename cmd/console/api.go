package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/tugruldev/lighthouse-quest/pkg/chat"
	"github.com/tugruldev/lighthouse-quest/pkg/state"
)

// interpret sends one player input plus the current snapshot and returns
// the server's answer: command, narration and the updated snapshot.
func interpret(client *http.Client, baseURL string, input string, gs state.GameState) (*chat.InterpretResponse, error) {
	req := chat.InterpretRequest{
		Input:    input,
		State:    gs,
		Language: gs.Language,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/api/interpret",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp chat.ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%s", errorResp.Error)
	}

	var interpretResp chat.InterpretResponse
	if err := json.Unmarshal(body, &interpretResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &interpretResp, nil
}

// saveSession stores the snapshot server-side and returns the resume id.
func saveSession(client *http.Client, baseURL string, gs state.GameState) (uuid.UUID, error) {
	jsonData, err := json.Marshal(gs)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal game state: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/sessions",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errorResp chat.ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return uuid.Nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return uuid.Nil, fmt.Errorf("failed to save session: %s", errorResp.Error)
	}

	var saved struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(body, &saved); err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return saved.ID, nil
}

// loadSession fetches a previously saved snapshot.
func loadSession(client *http.Client, baseURL string, id uuid.UUID) (*state.GameState, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/sessions/%s", baseURL, id))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp chat.ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to load session: %s", errorResp.Error)
	}

	var gs state.GameState
	if err := json.Unmarshal(body, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse game state: %w", err)
	}
	return &gs, nil
}
