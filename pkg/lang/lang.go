// Package lang handles the two locales the game speaks: English and Turkish.
// The language tag is chosen once per session and is authoritative; values
// echoed back by the translation service never overwrite it.
package lang

import (
	"golang.org/x/text/language"
)

const (
	English = "en"
	Turkish = "tr"

	// Default is used when a request carries no tag or an unsupported one.
	Default = English
)

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Turkish,
})

// Normalize maps an arbitrary tag string ("en-US", "tr-TR", "TR", ...) onto
// one of the supported session locales. Unknown or empty input falls back
// to the default locale.
func Normalize(tag string) string {
	if tag == "" {
		return Default
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return Default
	}
	_, index, conf := matcher.Match(parsed)
	if conf == language.No {
		return Default
	}
	if index == 1 {
		return Turkish
	}
	return English
}

// IsSupported reports whether the tag is exactly one of the session locales.
func IsSupported(tag string) bool {
	return tag == English || tag == Turkish
}

// Canned strings the engine needs when the translation service can't help:
// parse fallbacks, transport failures and the failure-explanation request.
var catalog = map[string]map[string]string{
	"generic_narration": {
		English: "The wind shifts over the water. Nothing else happens.",
		Turkish: "Rüzgar suyun üzerinde yön değiştiriyor. Başka bir şey olmuyor.",
	},
	"upstream_failure": {
		English: "A thick fog rolls in and swallows your words. Try again in a moment.",
		Turkish: "Yoğun bir sis çöküyor ve sözlerini yutuyor. Birazdan tekrar dene.",
	},
	"explain_failure": {
		English: "That action did not work in the current situation. Briefly explain to the player, in English and in the voice of the game, why it failed. Respond with plain prose, no JSON.",
		Turkish: "Bu eylem mevcut durumda işe yaramadı. Oyuncuya, Türkçe olarak ve oyunun anlatım diliyle, neden başarısız olduğunu kısaca açıkla. Düz metin olarak yanıt ver, JSON kullanma.",
	},
}

// GenericNarration is the narration used when the translation payload is
// missing or unparseable.
func GenericNarration(tag string) string {
	return lookup("generic_narration", tag)
}

// UpstreamFailure is the atmospheric in-world message shown when the
// translation service is unreachable. State is left unchanged by callers.
func UpstreamFailure(tag string) string {
	return lookup("upstream_failure", tag)
}

// ExplainFailurePrompt asks the translation service to narrate why a
// command failed, in the session language.
func ExplainFailurePrompt(tag string) string {
	return lookup("explain_failure", tag)
}

func lookup(key, tag string) string {
	byTag, ok := catalog[key]
	if !ok {
		return ""
	}
	if s, ok := byTag[Normalize(tag)]; ok {
		return s
	}
	return byTag[Default]
}
