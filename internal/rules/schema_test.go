package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablekeep/tablekeep/internal/document"
	"github.com/tablekeep/tablekeep/internal/utils"
)

func validLibraryItem(libraryID string) *document.LibraryItem {
	return &document.LibraryItem{
		LibraryID: libraryID,
		GameID:    "13",
		GameName:  "Catan",
		Status:    document.StatusOwned,
		Quantity:  1,
		PlayCount: 4,
	}
}

func validTournament() *document.Tournament {
	return &document.Tournament{
		Name:   "Summer league",
		Format: document.FormatAccumulative,
		Players: []document.Player{
			{ID: "p1", Name: "Alice", Color: "red"},
			{ID: "p2", Name: "Bob", Color: "blue"},
		},
		State:     document.TournamentActive,
		OwnerID:   "owner-1",
		OwnerName: "Alice",
		MemberIDs: []string{"owner-1", "editor-1", "viewer-1"},
		MemberRoles: map[string]document.Role{
			"owner-1":  document.RoleOwner,
			"editor-1": document.RoleEditor,
			"viewer-1": document.RoleViewer,
		},
	}
}

func validSession(tournamentID string) *document.GameSession {
	return &document.GameSession{
		TournamentID: tournamentID,
		GameName:     "Catan",
		GameType:     document.GameFreeForAll,
		ScoringRules: document.ScoringRules{First: 3, Second: 2, Third: 1},
		Participants: []string{"p1", "p2"},
	}
}

func fields(vs []Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Field)
	}
	return out
}

func TestValidateLibraryItemValid(t *testing.T) {
	path := document.LibraryPath("user-1", "catan")
	assert.Empty(t, ValidateLibraryItem(validLibraryItem("catan"), nil, path))
}

func TestValidateLibraryItemIDMustMatchPath(t *testing.T) {
	path := document.LibraryPath("user-1", "catan")
	vs := ValidateLibraryItem(validLibraryItem("other"), nil, path)
	require.NotEmpty(t, vs)
	assert.Contains(t, fields(vs), "libraryId")
}

func TestValidateLibraryItemAllChecksRun(t *testing.T) {
	// Several broken fields must all show up in one report.
	item := validLibraryItem("catan")
	item.GameName = ""
	item.MyRating = utils.Ptr(11.0)
	item.Status = document.ItemStatus("borrowed")
	item.Tags = make([]string, 21)

	vs := ValidateLibraryItem(item, nil, document.LibraryPath("user-1", "catan"))
	got := fields(vs)
	assert.Contains(t, got, "gameName")
	assert.Contains(t, got, "myRating")
	assert.Contains(t, got, "status")
	assert.Contains(t, got, "tags")
	assert.Len(t, vs, 4)
}

func TestValidateLibraryItemRatingBounds(t *testing.T) {
	testCases := []struct {
		name   string
		rating *float64
		valid  bool
	}{
		{name: "absent", rating: nil, valid: true},
		{name: "fractional", rating: utils.Ptr(0.5), valid: true},
		{name: "upper bound", rating: utils.Ptr(10.0), valid: true},
		{name: "above upper bound", rating: utils.Ptr(10.1), valid: false},
		{name: "negative", rating: utils.Ptr(-1.0), valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			item := validLibraryItem("catan")
			item.MyRating = tc.rating
			vs := ValidateLibraryItem(item, nil, document.LibraryPath("user-1", "catan"))
			if tc.valid {
				assert.Empty(t, vs)
			} else {
				assert.Contains(t, fields(vs), "myRating")
			}
		})
	}
}

func TestValidateTournamentValid(t *testing.T) {
	assert.Empty(t, ValidateTournament(validTournament(), nil, document.TournamentPath("t1")))
}

func TestValidateTournamentNameBound(t *testing.T) {
	tournament := validTournament()
	tournament.Name = strings.Repeat("x", 25)
	assert.Empty(t, ValidateTournament(tournament, nil, document.TournamentPath("t1")))

	tournament.Name = strings.Repeat("x", 26)
	vs := ValidateTournament(tournament, nil, document.TournamentPath("t1"))
	assert.Contains(t, fields(vs), "name")
}

func TestValidateTournamentOwnerMustBeMember(t *testing.T) {
	tournament := validTournament()
	tournament.MemberIDs = []string{"editor-1", "viewer-1"}
	vs := ValidateTournament(tournament, nil, document.TournamentPath("t1"))
	assert.Contains(t, fields(vs), "ownerId")
}

func TestValidateTournamentPlayersNonEmpty(t *testing.T) {
	tournament := validTournament()
	tournament.Players = nil
	vs := ValidateTournament(tournament, nil, document.TournamentPath("t1"))
	assert.Contains(t, fields(vs), "players")
}

func TestValidateTournamentBracketConfigRequiredIffBracket(t *testing.T) {
	tournament := validTournament()
	tournament.Format = document.FormatBracket
	vs := ValidateTournament(tournament, nil, document.TournamentPath("t1"))
	assert.Contains(t, fields(vs), "bracketConfig")

	// The identical document under the accumulative format is fine.
	tournament.Format = document.FormatAccumulative
	assert.Empty(t, ValidateTournament(tournament, nil, document.TournamentPath("t1")))
}

func bracketTournament() *document.Tournament {
	tournament := validTournament()
	tournament.Format = document.FormatBracket
	tournament.BracketConfig = &document.BracketConfig{
		GameTitle:    "Catan",
		TotalRounds:  1,
		CurrentRound: 1,
		Bracket: []document.Match{
			{ID: "m1", Round: 1, MatchNumber: 1, Player1ID: "p1", Player2ID: "p2"},
		},
	}
	return tournament
}

func TestValidateBracketCurrentRound(t *testing.T) {
	testCases := []struct {
		name         string
		currentRound int
		totalRounds  int
		valid        bool
	}{
		{name: "zero is rejected", currentRound: 0, totalRounds: 1, valid: false},
		{name: "one of one", currentRound: 1, totalRounds: 1, valid: true},
		{name: "past total", currentRound: 3, totalRounds: 2, valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tournament := bracketTournament()
			tournament.BracketConfig.CurrentRound = tc.currentRound
			tournament.BracketConfig.TotalRounds = tc.totalRounds
			vs := ValidateTournament(tournament, nil, document.TournamentPath("t1"))
			if tc.valid {
				assert.Empty(t, vs)
			} else {
				assert.Contains(t, fields(vs), "bracketConfig.currentRound")
			}
		})
	}
}

func TestValidateBracketMatchReferences(t *testing.T) {
	tournament := bracketTournament()
	tournament.BracketConfig.Bracket[0].Player2ID = "ghost"
	vs := ValidateTournament(tournament, nil, document.TournamentPath("t1"))
	require.Len(t, vs, 1)
	assert.Equal(t, KindReference, vs[0].Kind)
	assert.Equal(t, "bracketConfig.bracket[0].player2Id", vs[0].Field)
}

func TestValidateBracketMatchIDsUnique(t *testing.T) {
	tournament := bracketTournament()
	tournament.BracketConfig.TotalRounds = 2
	tournament.BracketConfig.Bracket = append(tournament.BracketConfig.Bracket,
		document.Match{ID: "m1", Round: 2, MatchNumber: 1})
	vs := ValidateTournament(tournament, nil, document.TournamentPath("t1"))
	assert.Contains(t, fields(vs), "bracketConfig.bracket[1].id")
}

func TestValidateGameSessionValid(t *testing.T) {
	path := document.SessionPath("t1", "s1")
	assert.Empty(t, ValidateGameSession(validSession("t1"), nil, path, validTournament()))
}

func TestValidateGameSessionTournamentIDMustMatchPath(t *testing.T) {
	path := document.SessionPath("t1", "s1")
	vs := ValidateGameSession(validSession("t2"), nil, path, validTournament())
	assert.Contains(t, fields(vs), "tournamentId")
}

func TestValidateGameSessionParticipantsMustBePlayers(t *testing.T) {
	path := document.SessionPath("t1", "s1")
	sess := validSession("t1")
	sess.Participants = []string{"p1", "ghost"}
	vs := ValidateGameSession(sess, nil, path, validTournament())
	require.Len(t, vs, 1)
	assert.Equal(t, KindReference, vs[0].Kind)
	assert.Equal(t, "participants[1]", vs[0].Field)
}

func TestValidateGameSessionResultsMustReferenceParticipants(t *testing.T) {
	path := document.SessionPath("t1", "s1")
	sess := validSession("t1")
	sess.Results = []document.SessionResult{
		{PlayerID: "p1", Placement: 1},
		{PlayerID: "ghost", Placement: 2},
	}
	vs := ValidateGameSession(sess, nil, path, validTournament())
	require.Len(t, vs, 1)
	assert.Equal(t, "results[1].playerId", vs[0].Field)
}
