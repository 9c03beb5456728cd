package service

import (
	"math"

	"github.com/google/uuid"
	"github.com/tablekeep/tablekeep/internal/document"
)

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func calcBracketSize(count int) int {
	if count <= 0 {
		return 0
	}

	// Log2 -> Ceil -> 2^^log2 to round up
	log2 := math.Ceil(math.Log2(float64(count)))
	return int(math.Pow(2, log2))
}

// generateRound1Pairs returns seed-index pairings for the first round so that
// top seeds meet as late as possible. Indexes past the player count are byes.
func generateRound1Pairs(bracketSize int) [][2]int {
	if bracketSize == 0 {
		return [][2]int{}
	}

	rounds := []int{0}
	for len(rounds) < bracketSize {
		var nextRound []int
		currentCount := len(rounds) * 2

		for _, seed := range rounds {
			nextRound = append(nextRound, seed)
			nextRound = append(nextRound, (currentCount-1)-seed)
		}
		rounds = nextRound
	}

	pairs := make([][2]int, 0, bracketSize/2)
	for i := 0; i < len(rounds); i += 2 {
		matchup := [2]int{rounds[i], rounds[i+1]}
		pairs = append(pairs, matchup)
	}

	return pairs
}

// GenerateBracketConfig builds a single-elimination bracket over the given
// players in seed order. Later rounds start with empty player slots; byes in
// round one are marked complete immediately.
func GenerateBracketConfig(gameTitle string, players []document.Player) *document.BracketConfig {
	size := calcBracketSize(len(players))
	totalRounds := 1
	if size > 1 {
		totalRounds = int(math.Log2(float64(size)))
	}

	bc := &document.BracketConfig{
		GameTitle:    gameTitle,
		TotalRounds:  totalRounds,
		CurrentRound: 1,
	}

	for r := 1; r <= totalRounds; r++ {
		matchesInRound := size >> r
		if matchesInRound == 0 {
			matchesInRound = 1
		}
		for i := 0; i < matchesInRound; i++ {
			bc.Bracket = append(bc.Bracket, document.Match{
				ID:          uuid.New().String(),
				Round:       r,
				MatchNumber: i + 1,
			})
		}
	}

	if size < 2 {
		if len(players) == 1 {
			bc.Bracket[0].Player1ID = players[0].ID
			bc.Bracket[0].IsComplete = true
		}
		return bc
	}

	for i, pair := range generateRound1Pairs(size) {
		if i >= len(bc.Bracket) {
			break
		}
		m := &bc.Bracket[i]
		if pair[0] < len(players) {
			m.Player1ID = players[pair[0]].ID
		}
		if pair[1] < len(players) {
			m.Player2ID = players[pair[1]].ID
		}
		// A lone player advances without playing.
		if (m.Player1ID == "") != (m.Player2ID == "") {
			m.IsComplete = true
		}
	}

	return bc
}
