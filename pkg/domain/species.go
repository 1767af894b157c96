package domain

import "strings"

// Species inference is a data table, not branching logic, so new names
// and keywords can be added without touching control flow. Entries are
// ordered; the first match wins.

type speciesHint struct {
	substr  string
	species string
}

// speciesNameHints maps common pet-name substrings to a species guess.
// Checked before the generic keyword table.
var speciesNameHints = []speciesHint{
	{"max", "Dog"},
	{"buddy", "Dog"},
	{"rex", "Dog"},
	{"rocky", "Dog"},
	{"duke", "Dog"},
	{"bailey", "Dog"},
	{"cooper", "Dog"},
	{"bella", "Dog"},
	{"daisy", "Dog"},
	{"whiskers", "Cat"},
	{"felix", "Cat"},
	{"luna", "Cat"},
	{"milo", "Cat"},
	{"simba", "Cat"},
	{"tiger", "Cat"},
	{"mittens", "Cat"},
	{"oliver", "Cat"},
}

// speciesKeywords maps generic animal words to a species.
var speciesKeywords = []speciesHint{
	{"dog", "Dog"},
	{"pup", "Dog"},
	{"puppy", "Dog"},
	{"cat", "Cat"},
	{"kitten", "Cat"},
	{"kitty", "Cat"},
	{"bird", "Bird"},
	{"parrot", "Bird"},
	{"fish", "Fish"},
}

// InferSpecies guesses a pet's species from its name or the text that
// mentions it. Unmatched input resolves to "Unknown".
func InferSpecies(name string) string {
	lower := strings.ToLower(name)
	if lower == "" {
		return "Unknown"
	}
	for _, h := range speciesNameHints {
		if strings.Contains(lower, h.substr) {
			return h.species
		}
	}
	for _, h := range speciesKeywords {
		if strings.Contains(lower, h.substr) {
			return h.species
		}
	}
	return "Unknown"
}
