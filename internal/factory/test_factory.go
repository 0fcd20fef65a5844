package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/snatchgame-go/internal/dependencies/mocks"
	"github.com/mcoot/snatchgame-go/internal/services/auth"
	"github.com/mcoot/snatchgame-go/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := newWithDependencies(store, mockClock, mockRandom, auth.DefaultConfig(), logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestDictionary loads a small dictionary for testing. The list is
// weighted toward words whose letters chain into steals.
func (t *TestApp) LoadTestDictionary() error {
	words := []string{
		// short fresh-claim fodder
		"ace", "act", "air", "ant", "ape", "arc", "arm", "art", "ash", "ate",
		"bar", "bat", "bed", "bet", "can", "cap", "car", "cat", "cot", "cup",
		"dig", "dog", "ear", "eat", "fit", "fox", "gun", "hat", "hit", "ice",
		"ink", "jar", "key", "lap", "leg", "lid", "lie", "lip", "log", "man",
		"map", "mat", "net", "nut", "oak", "oat", "orb", "ore", "owl", "pan",
		"pat", "pea", "pen", "pet", "pie", "pig", "pin", "pit", "pot", "rat",
		"raw", "ray", "rib", "rim", "rip", "rod", "rot", "rug", "run", "sat",
		"saw", "sea", "set", "sip", "sit", "sky", "son", "sun", "tan", "tap",
		"tar", "tea", "ten", "tie", "tin", "tip", "toe", "ton", "top", "tub",
		// steal chains: each word anagram-extends an earlier one
		"mile", "smile", "limes", "slime", "miles", "missile",
		"node", "nodes", "drone", "drones", "snored", "tendons",
		"rate", "rates", "tears", "stare", "raters", "starer",
		"care", "races", "scare", "carets", "recast",
		"word", "sword", "words", "swords",
		"tale", "stale", "least", "slate", "petals", "staple",
		"ring", "rings", "string", "springs",
		"pear", "spear", "pears", "spare", "parse", "spread",
		"lime", "time", "times", "smite", "merits", "mister",
		"dear", "read", "dare", "bread", "beards", "debars",
		"note", "tone", "stone", "notes", "onset", "stones",
		"rose", "sore", "roses", "snore", "senor",
		// longer fillers
		"table", "chair", "house", "mouse", "plant", "water", "stamp",
		"grape", "bridge", "planet", "stream", "candle", "marble",
	}
	return t.DictionaryService.LoadWords(words)
}
