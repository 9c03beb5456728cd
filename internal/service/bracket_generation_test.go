package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablekeep/tablekeep/internal/document"
)

func TestCalcBracketSize(t *testing.T) {
	testCases := []struct {
		count    int
		expected int
	}{
		{count: 0, expected: 0},
		{count: 1, expected: 1},
		{count: 2, expected: 2},
		{count: 3, expected: 4},
		{count: 5, expected: 8},
		{count: 8, expected: 8},
		{count: 9, expected: 16},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, calcBracketSize(tc.count), "count %d", tc.count)
	}
}

func TestGenerateRound1SeedOrder(t *testing.T) {
	testCases := []struct {
		name       string
		numPlayers int
		expected   [][2]int
	}{
		{
			name:       "2 players",
			numPlayers: 2,
			expected:   [][2]int{{0, 1}},
		},
		{
			name:       "4 players",
			numPlayers: 4,
			expected:   [][2]int{{0, 3}, {1, 2}},
		},
		{
			name:       "8 players",
			numPlayers: 8,
			expected:   [][2]int{{0, 7}, {3, 4}, {1, 6}, {2, 5}},
		},
		{
			name:       "Non-power of 2 (7 players)",
			numPlayers: 7,
			expected:   [][2]int{{0, 7}, {3, 4}, {1, 6}, {2, 5}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := generateRound1Pairs(calcBracketSize(tc.numPlayers))
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func seedPlayers(n int) []document.Player {
	players := make([]document.Player, n)
	for i := range players {
		players[i] = document.Player{ID: string(rune('a' + i)), Name: "Player"}
	}
	return players
}

func TestGenerateBracketConfigFivePlayers(t *testing.T) {
	players := seedPlayers(5)
	bc := GenerateBracketConfig("Catan", players)

	assert.Equal(t, "Catan", bc.GameTitle)
	assert.Equal(t, 3, bc.TotalRounds)
	assert.Equal(t, 1, bc.CurrentRound)
	require.Len(t, bc.Bracket, 7)

	round1 := bc.Bracket[:4]
	// Seed pairs for a bracket of 8 are {0,7} {3,4} {1,6} {2,5}; with five
	// players every missing opponent is a bye.
	assert.Equal(t, players[0].ID, round1[0].Player1ID)
	assert.Empty(t, round1[0].Player2ID)
	assert.True(t, round1[0].IsComplete)

	assert.Equal(t, players[3].ID, round1[1].Player1ID)
	assert.Equal(t, players[4].ID, round1[1].Player2ID)
	assert.False(t, round1[1].IsComplete)

	assert.True(t, round1[2].IsComplete)
	assert.True(t, round1[3].IsComplete)

	// Later rounds start empty.
	for _, m := range bc.Bracket[4:] {
		assert.Empty(t, m.Player1ID)
		assert.Empty(t, m.Player2ID)
		assert.False(t, m.IsComplete)
	}
}

func TestGenerateBracketConfigSinglePlayer(t *testing.T) {
	players := seedPlayers(1)
	bc := GenerateBracketConfig("Solo", players)

	assert.Equal(t, 1, bc.TotalRounds)
	require.Len(t, bc.Bracket, 1)
	assert.Equal(t, players[0].ID, bc.Bracket[0].Player1ID)
	assert.True(t, bc.Bracket[0].IsComplete)
}

func TestGenerateBracketConfigMatchIDsUnique(t *testing.T) {
	bc := GenerateBracketConfig("Catan", seedPlayers(8))
	seen := make(map[string]bool)
	for _, m := range bc.Bracket {
		assert.NotEmpty(t, m.ID)
		assert.False(t, seen[m.ID], "duplicate match id %s", m.ID)
		seen[m.ID] = true
	}
}
