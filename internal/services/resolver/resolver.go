package resolver

import (
	"sort"
	"strings"

	"github.com/mcoot/snatchgame-go/internal/model"
)

// MinWordLength is the minimum claimable word length
const MinWordLength = 4

// Oracle answers whether a letter sequence is a valid word. The
// dictionary service satisfies this; it is consumed, not designed here.
type Oracle interface {
	IsValidWord(word string) bool
}

// Candidate is a validated claim, ready to execute. No game state has
// been mutated yet.
type Candidate struct {
	Word         string     // normalized uppercase form
	Kind         model.ClaimKind
	Source       *model.Word // nil for fresh claims; aliases game state otherwise
	AddedLetters string      // letters drawn from the center, sorted
}

// Service decides whether a candidate word can be formed from center
// tiles plus optionally one existing word
type Service struct {
	oracle Oracle
}

// New creates a new resolver
func New(oracle Oracle) *Service {
	return &Service{oracle: oracle}
}

// Normalize uppercases the input and strips everything but letters
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCandidate checks a claim against the current board. On success
// it returns the chosen source word (nil for fresh claims) and the
// letters drawn from the center; on failure it returns a specific
// legality error and no state is touched.
//
// Source selection is deterministic: when multiple existing words could
// serve, the largest wins, ties broken by earliest creation time, then
// board order. Trivially-extending sources are never selected; if every
// matching source is trivial the claim fails as a trivial extension.
func (s *Service) ValidateCandidate(g *model.Game, claimantID model.PlayerID, raw string) (*Candidate, error) {
	word := Normalize(raw)
	if word == "" {
		return nil, model.ErrEmptyInput
	}
	if len(word) < MinWordLength {
		return nil, model.ErrWordTooShort
	}
	if !s.oracle.IsValidWord(word) {
		return nil, model.ErrNotInDictionary
	}

	need := letterCounts(word)
	center := tileCounts(g.CenterTiles)

	// Fresh claim: every letter comes from the center
	if covers(center, need) {
		return &Candidate{
			Word:         word,
			Kind:         model.ClaimKindFresh,
			AddedLetters: SortLetters(word),
		}, nil
	}

	// Steal/extension: one existing word plus a non-empty draw from the center
	var best *model.Word
	sawTrivial := false
	for _, w := range g.AllWords() {
		diff, ok := subtract(need, letterCounts(w.Text))
		if !ok {
			continue
		}
		if total(diff) == 0 {
			// Exact anagram of an existing word; the draw must be non-empty
			continue
		}
		if !covers(center, diff) {
			continue
		}
		if isTrivialExtension(word, w.Text) {
			sawTrivial = true
			continue
		}
		if best == nil || preferSource(w, best) {
			best = w
		}
	}

	if best == nil {
		if sawTrivial {
			return nil, model.ErrTrivialExtension
		}
		return nil, model.ErrInsufficientTiles
	}

	kind := model.ClaimKindSteal
	if best.OwnerID == claimantID {
		kind = model.ClaimKindExtension
	}

	added, _ := subtract(need, letterCounts(best.Text))
	return &Candidate{
		Word:         word,
		Kind:         kind,
		Source:       best,
		AddedLetters: countsToString(added),
	}, nil
}

// isTrivialExtension reports whether candidate is just source with the
// added letters tacked on the end, unrearranged. Front additions count
// as a rearrangement (CARES from CARE is trivial; SCARE is not).
func isTrivialExtension(candidate, source string) bool {
	return strings.HasPrefix(candidate, source)
}

// preferSource reports whether a should be chosen over b
func preferSource(a, b *model.Word) bool {
	if len(a.Text) != len(b.Text) {
		return len(a.Text) > len(b.Text)
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// SortLetters returns the letters of s in sorted order
func SortLetters(s string) string {
	letters := []byte(s)
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	return string(letters)
}

// letterCounts builds the letter multiset of an uppercase word
func letterCounts(word string) [26]int {
	var counts [26]int
	for _, r := range word {
		if r >= 'A' && r <= 'Z' {
			counts[r-'A']++
		}
	}
	return counts
}

// tileCounts builds the letter multiset of a tile pool
func tileCounts(tiles []model.Tile) [26]int {
	var counts [26]int
	for _, t := range tiles {
		if t.Letter >= 'A' && t.Letter <= 'Z' {
			counts[t.Letter-'A']++
		}
	}
	return counts
}

// covers reports whether have contains at least need of every letter
func covers(have, need [26]int) bool {
	for i := range need {
		if have[i] < need[i] {
			return false
		}
	}
	return true
}

// subtract returns a-b, failing if any letter would go negative
func subtract(a, b [26]int) ([26]int, bool) {
	var out [26]int
	for i := range a {
		out[i] = a[i] - b[i]
		if out[i] < 0 {
			return out, false
		}
	}
	return out, true
}

// total sums a letter multiset
func total(counts [26]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}

// countsToString renders a multiset as sorted letters
func countsToString(counts [26]int) string {
	var b strings.Builder
	for i, c := range counts {
		for j := 0; j < c; j++ {
			b.WriteByte(byte('A' + i))
		}
	}
	return b.String()
}

// ValidateEntry checks a pre-steal standing order at creation time and
// returns the normalized trigger letters (sorted) and claim word. An
// entry is rejected if it could never fire on the current board.
func (s *Service) ValidateEntry(g *model.Game, rawTrigger, rawWord string) (string, string, error) {
	word := Normalize(rawWord)
	trigger := SortLetters(Normalize(rawTrigger))
	if word == "" || trigger == "" {
		return "", "", model.ErrEmptyInput
	}
	if len(word) < MinWordLength {
		return "", "", model.ErrWordTooShort
	}
	if !s.oracle.IsValidWord(word) {
		return "", "", model.ErrNotInDictionary
	}

	required, ok := subtract(letterCounts(word), letterCounts(trigger))
	if !ok {
		// Trigger letters are not contained in the claim word
		return "", "", model.ErrEntryNotViable
	}
	if !sourceExists(g, word, required) {
		return "", "", model.ErrEntryNotViable
	}
	return trigger, word, nil
}

// EntryStillViable reports whether a standing order could still fire:
// either it is a fresh-claim entry, or some existing word matches the
// letters the entry expects beyond its trigger. This is looser than
// current validity (the trigger letters need not be in the center yet).
func (s *Service) EntryStillViable(g *model.Game, entry model.PreStealEntry) bool {
	required, ok := subtract(letterCounts(entry.ClaimWord), letterCounts(entry.TriggerLetters))
	if !ok {
		return false
	}
	return sourceExists(g, entry.ClaimWord, required)
}

// sourceExists reports whether required is empty (fresh claim) or some
// existing word carries exactly the required letters without the claim
// being a trivial extension of it
func sourceExists(g *model.Game, word string, required [26]int) bool {
	if total(required) == 0 {
		return true
	}
	for _, w := range g.AllWords() {
		if letterCounts(w.Text) == required && !isTrivialExtension(word, w.Text) {
			return true
		}
	}
	return false
}
