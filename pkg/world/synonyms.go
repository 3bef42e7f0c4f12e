package world

import "strings"

// itemSynonyms maps free-text item words, English and Turkish, to the two
// canonical item ids. The table is fixed; words not listed here resolve to
// no match, which the executor treats as command failure.
var itemSynonyms = map[string]string{
	// lantern
	"lantern": ItemLantern,
	"lamp":    ItemLantern,
	"light":   ItemLantern,
	"fener":   ItemLantern,
	"feneri":  ItemLantern,
	"lamba":   ItemLantern,
	"lambayı": ItemLantern,

	// small key
	"key":           ItemSmallKey,
	"smallkey":      ItemSmallKey,
	"small key":     ItemSmallKey,
	"anahtar":       ItemSmallKey,
	"anahtarı":      ItemSmallKey,
	"anahtarla":     ItemSmallKey,
	"küçük anahtar": ItemSmallKey,
}

// ResolveItem canonicalizes a free-text item word. The second return is
// false when the word matches no known item.
func ResolveItem(word string) (string, bool) {
	id, ok := itemSynonyms[strings.ToLower(strings.TrimSpace(word))]
	return id, ok
}
