package game

import (
	"fmt"

	"github.com/mcoot/snatchgame-go/internal/dependencies/random"
	"github.com/mcoot/snatchgame-go/internal/model"
)

// letterDistribution is the 144-tile bag layout
var letterDistribution = map[rune]int{
	'A': 13, 'B': 3, 'C': 3, 'D': 6, 'E': 18, 'F': 3, 'G': 4, 'H': 3,
	'I': 12, 'J': 2, 'K': 2, 'L': 5, 'M': 3, 'N': 8, 'O': 11, 'P': 3,
	'Q': 2, 'R': 9, 'S': 6, 'T': 9, 'U': 6, 'V': 3, 'W': 3, 'X': 2,
	'Y': 3, 'Z': 2,
}

// BagSize is the number of tiles in a fresh bag
const BagSize = 144

// buildBag creates a freshly shuffled bag. Tile IDs are assigned after
// the shuffle so they read in draw order.
func buildBag(rnd random.Random) []model.Tile {
	letters := make([]rune, 0, BagSize)
	for r := 'A'; r <= 'Z'; r++ {
		for j := 0; j < letterDistribution[r]; j++ {
			letters = append(letters, r)
		}
	}

	rnd.Shuffle(len(letters), func(i, j int) {
		letters[i], letters[j] = letters[j], letters[i]
	})

	tiles := make([]model.Tile, len(letters))
	for i, r := range letters {
		tiles[i] = model.Tile{
			ID:     model.TileID(fmt.Sprintf("t%03d", i)),
			Letter: r,
		}
	}
	return tiles
}
