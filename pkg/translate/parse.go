package translate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tugruldev/lighthouse-quest/pkg/lang"
	"github.com/tugruldev/lighthouse-quest/pkg/state"
)

// Translation is the payload the translation service returns. Every field
// is untrusted: command and narration get defaults when missing, the rest
// is advisory.
type Translation struct {
	Command        string                `json:"command"`
	Narration      string                `json:"narration"`
	Language       string                `json:"language,omitempty"`
	PuzzleProgress *state.PuzzleProgress `json:"puzzleProgress,omitempty"`
	GameComplete   *bool                 `json:"gameComplete,omitempty"`
	Password       string                `json:"password,omitempty"`
}

// fenceRe matches a fenced code block, with or without a language tag,
// capturing the body.
var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// Parse extracts a Translation from raw LLM output. It handles clean JSON,
// JSON wrapped in a fenced code block, and JSON embedded in prose. An error
// means no usable JSON object was found; callers should fall back via
// ParseOrDefault rather than surfacing it to the player.
func Parse(raw string) (Translation, error) {
	candidates := []string{strings.TrimSpace(raw)}

	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		candidates = append([]string{m[1]}, candidates...)
	}
	if obj, ok := firstJSONObject(raw); ok {
		candidates = append(candidates, obj)
	}

	for _, c := range candidates {
		if c == "" || !strings.HasPrefix(c, "{") {
			continue
		}
		var t Translation
		if err := json.Unmarshal([]byte(c), &t); err != nil {
			continue
		}
		if t.Command == "" && t.Narration == "" {
			continue
		}
		return t, nil
	}
	return Translation{}, fmt.Errorf("no JSON object found in translation payload")
}

// ParseOrDefault is the tolerant entry point the handlers use. It never
// fails: missing or malformed payloads yield the documented defaults
// (command "look", generic narration in the session locale). The boolean
// reports whether a fallback was applied to any field.
func ParseOrDefault(raw string, locale string) (Translation, bool) {
	locale = lang.Normalize(locale)
	t, err := Parse(raw)
	if err != nil {
		return Translation{
			Command:   "look",
			Narration: lang.GenericNarration(locale),
		}, true
	}

	fellBack := false
	if t.Command == "" {
		t.Command = "look"
		fellBack = true
	}
	if t.Narration == "" {
		t.Narration = lang.GenericNarration(locale)
		fellBack = true
	}
	return t, fellBack
}

// firstJSONObject scans for the first balanced {...} in mixed prose. Strings
// and escapes are honored so braces inside narration text don't break the
// balance count.
func firstJSONObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// skip structural characters inside strings
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
