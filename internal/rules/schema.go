package rules

import (
	"fmt"

	"github.com/tablekeep/tablekeep/internal/document"
)

// Document schemas run a fixed, ordered set of field checks against the
// incoming document. Every check runs even after the first failure so the
// caller gets a full diagnostic report; the document is valid iff the
// returned list is empty. For updates the prior snapshot is consulted only
// for immutable-field stability.

func violation(kind ViolationKind, field, check, detail string) Violation {
	return Violation{Kind: kind, Field: field, Check: check, Detail: detail}
}

// ValidateLibraryItem checks a candidate library item against its schema and
// the identifier encoded in its storage path.
func ValidateLibraryItem(in *document.LibraryItem, prior *document.LibraryItem, path document.Path) []Violation {
	var vs []Violation

	if !BoundedString(in.LibraryID, 128) {
		vs = append(vs, violation(KindSchema, "libraryId", "boundedString", "must be 1..128 characters"))
	}
	if in.LibraryID != path.LibraryID {
		vs = append(vs, violation(KindSchema, "libraryId", "matchesPath",
			fmt.Sprintf("body %q does not match path segment %q", in.LibraryID, path.LibraryID)))
	}
	if prior != nil && in.LibraryID != prior.LibraryID {
		vs = append(vs, violation(KindImmutable, "libraryId", "immutable", "identifier cannot change on update"))
	}

	if !BoundedString(in.GameID, 50) {
		vs = append(vs, violation(KindSchema, "gameId", "boundedString", "must be 1..50 characters"))
	}
	if !BoundedString(in.GameName, 100) {
		vs = append(vs, violation(KindSchema, "gameName", "boundedString", "must be 1..100 characters"))
	}
	if !OptionalBoundedString(in.GameThumbnail, 500) {
		vs = append(vs, violation(KindSchema, "gameThumbnail", "optionalBoundedString", "at most 500 characters"))
	}
	if !OptionalNonNegative(in.GameYear) {
		vs = append(vs, violation(KindSchema, "gameYear", "nonNegative", "must be >= 0"))
	}
	if !EnumMember(in.Status,
		document.StatusOwned, document.StatusWishlist, document.StatusPreordered,
		document.StatusFormerlyOwned, document.StatusPlayed) {
		vs = append(vs, violation(KindSchema, "status", "enumMember", string(in.Status)))
	}
	if !NonNegative(in.Quantity) {
		vs = append(vs, violation(KindSchema, "quantity", "nonNegative", "must be >= 0"))
	}
	if !NonNegative(in.PlayCount) {
		vs = append(vs, violation(KindSchema, "playCount", "nonNegative", "must be >= 0"))
	}
	if !OptionalInRange(in.MyRating, 0, 10) {
		vs = append(vs, violation(KindSchema, "myRating", "inRange", "must be within [0,10]"))
	}
	if !OptionalBoundedString(in.Notes, 500) {
		vs = append(vs, violation(KindSchema, "notes", "optionalBoundedString", "at most 500 characters"))
	}
	if !BoundedList(in.Tags, 20) {
		vs = append(vs, violation(KindSchema, "tags", "boundedList", "at most 20 entries"))
	}
	if !TimestampLike(in.LastPlayedAt) {
		vs = append(vs, violation(KindSchema, "lastPlayedAt", "timestampLike", "must be a time string or server sentinel"))
	}
	if !TimestampLike(in.FirstPlayedAt) {
		vs = append(vs, violation(KindSchema, "firstPlayedAt", "timestampLike", "must be a time string or server sentinel"))
	}
	if !OptionalEnumMember(in.BoxSizeClass,
		document.BoxSmall, document.BoxMedium, document.BoxLarge, document.BoxXLarge, document.BoxTall) {
		vs = append(vs, violation(KindSchema, "boxSizeClass", "enumMember", ""))
	}
	if !OptionalNonNegative(in.BoxWidthMm) {
		vs = append(vs, violation(KindSchema, "boxWidthMm", "nonNegative", "must be >= 0"))
	}
	if !OptionalNonNegative(in.BoxHeightMm) {
		vs = append(vs, violation(KindSchema, "boxHeightMm", "nonNegative", "must be >= 0"))
	}
	if !OptionalNonNegative(in.BoxDepthMm) {
		vs = append(vs, violation(KindSchema, "boxDepthMm", "nonNegative", "must be >= 0"))
	}
	if !OptionalNonNegativeInt(in.ShelfCellIndex) {
		vs = append(vs, violation(KindSchema, "shelfCellIndex", "nonNegative", "must be >= 0"))
	}
	if !OptionalNonNegativeInt(in.CellPosition) {
		vs = append(vs, violation(KindSchema, "cellPosition", "nonNegative", "must be >= 0"))
	}
	if !OptionalEnumMember(in.Condition,
		document.ConditionNew, document.ConditionLikeNew, document.ConditionGood,
		document.ConditionFair, document.ConditionWorn) {
		vs = append(vs, violation(KindSchema, "condition", "enumMember", ""))
	}
	if !OptionalBoundedString(in.Language, 50) {
		vs = append(vs, violation(KindSchema, "language", "optionalBoundedString", "at most 50 characters"))
	}
	if !OptionalBoundedString(in.Edition, 50) {
		vs = append(vs, violation(KindSchema, "edition", "optionalBoundedString", "at most 50 characters"))
	}
	if !OptionalEnumMember(in.VisibilityOverride,
		document.VisibilityPublic, document.VisibilityFollowers, document.VisibilityPrivate) {
		vs = append(vs, violation(KindSchema, "visibilityOverride", "enumMember", ""))
	}
	if !TimestampLike(in.CreatedAt) {
		vs = append(vs, violation(KindSchema, "createdAt", "timestampLike", "must be a time string or server sentinel"))
	}
	if !TimestampLike(in.UpdatedAt) {
		vs = append(vs, violation(KindSchema, "updatedAt", "timestampLike", "must be a time string or server sentinel"))
	}

	return vs
}

// tournamentNameMax bounds the tournament name length.
const tournamentNameMax = 25

// ValidateTournament checks a candidate tournament document, including the
// owner/membership invariants and the bracket substructure.
func ValidateTournament(in *document.Tournament, prior *document.Tournament, path document.Path) []Violation {
	var vs []Violation

	if !BoundedString(in.Name, tournamentNameMax) {
		vs = append(vs, violation(KindSchema, "name", "boundedString",
			fmt.Sprintf("must be 1..%d characters", tournamentNameMax)))
	}
	if !EnumMember(in.Format, document.FormatAccumulative, document.FormatBracket) {
		vs = append(vs, violation(KindSchema, "format", "enumMember", string(in.Format)))
	}
	if !EnumMember(in.State, document.TournamentActive, document.TournamentCompleted) {
		vs = append(vs, violation(KindSchema, "state", "enumMember", string(in.State)))
	}
	if !TimestampLike(in.Date) {
		vs = append(vs, violation(KindSchema, "date", "timestampLike", "must be a time string or server sentinel"))
	}

	if len(in.Players) == 0 {
		vs = append(vs, violation(KindSchema, "players", "nonEmpty", "at least one player required"))
	}
	seen := make(map[string]bool, len(in.Players))
	for i, p := range in.Players {
		field := fmt.Sprintf("players[%d]", i)
		if p.ID == "" {
			vs = append(vs, violation(KindSchema, field+".id", "nonEmpty", ""))
		} else if seen[p.ID] {
			vs = append(vs, violation(KindSchema, field+".id", "unique", p.ID))
		}
		seen[p.ID] = true
		if !BoundedString(p.Name, 50) {
			vs = append(vs, violation(KindSchema, field+".name", "boundedString", "must be 1..50 characters"))
		}
	}

	if in.OwnerID == "" {
		vs = append(vs, violation(KindSchema, "ownerId", "nonEmpty", ""))
	} else if !in.HasMember(in.OwnerID) {
		vs = append(vs, violation(KindSchema, "ownerId", "ownerInMembers", "ownerId must appear in memberIds"))
	}
	if prior != nil && in.OwnerID != prior.OwnerID {
		vs = append(vs, violation(KindImmutable, "ownerId", "immutable", "ownership cannot be reassigned on update"))
	}
	if !OptionalBoundedString(&in.OwnerName, 100) {
		vs = append(vs, violation(KindSchema, "ownerName", "optionalBoundedString", "at most 100 characters"))
	}

	for id, role := range in.MemberRoles {
		if !in.HasMember(id) {
			vs = append(vs, violation(KindSchema, "memberRoles", "keysInMemberIds",
				fmt.Sprintf("role entry %q is not a member", id)))
		}
		if !document.KnownRole(role) {
			vs = append(vs, violation(KindSchema, "memberRoles", "enumMember",
				fmt.Sprintf("unknown role %q for member %q", role, id)))
		}
	}
	if r, ok := in.MemberRoles[in.OwnerID]; ok && r != document.RoleOwner {
		vs = append(vs, violation(KindSchema, "memberRoles", "ownerRole", "the owner's role entry must be owner"))
	}

	switch {
	case in.Format == document.FormatBracket && in.BracketConfig == nil:
		vs = append(vs, violation(KindSchema, "bracketConfig", "required", "required when format is bracket"))
	case in.BracketConfig != nil:
		vs = append(vs, validateBracketConfig(in.BracketConfig, in)...)
	}

	if !TimestampLike(in.CreatedAt) {
		vs = append(vs, violation(KindSchema, "createdAt", "timestampLike", "must be a time string or server sentinel"))
	}
	if !TimestampLike(in.UpdatedAt) {
		vs = append(vs, violation(KindSchema, "updatedAt", "timestampLike", "must be a time string or server sentinel"))
	}

	return vs
}

func validateBracketConfig(bc *document.BracketConfig, t *document.Tournament) []Violation {
	var vs []Violation

	if !OptionalBoundedString(&bc.GameTitle, 100) {
		vs = append(vs, violation(KindSchema, "bracketConfig.gameTitle", "optionalBoundedString", "at most 100 characters"))
	}
	if bc.TotalRounds < 1 {
		vs = append(vs, violation(KindSchema, "bracketConfig.totalRounds", "positive", "must be >= 1"))
	}
	if bc.CurrentRound < 1 || (bc.TotalRounds >= 1 && bc.CurrentRound > bc.TotalRounds) {
		vs = append(vs, violation(KindSchema, "bracketConfig.currentRound", "inRange",
			fmt.Sprintf("must be within [1,%d]", bc.TotalRounds)))
	}

	ids := make(map[string]bool, len(bc.Bracket))
	for i, m := range bc.Bracket {
		field := fmt.Sprintf("bracketConfig.bracket[%d]", i)
		if m.ID == "" {
			vs = append(vs, violation(KindSchema, field+".id", "nonEmpty", ""))
		} else if ids[m.ID] {
			vs = append(vs, violation(KindSchema, field+".id", "unique", m.ID))
		}
		ids[m.ID] = true
		if m.Round < 1 || (bc.TotalRounds >= 1 && m.Round > bc.TotalRounds) {
			vs = append(vs, violation(KindSchema, field+".round", "inRange",
				fmt.Sprintf("must be within [1,%d]", bc.TotalRounds)))
		}
		if m.MatchNumber < 1 {
			vs = append(vs, violation(KindSchema, field+".matchNumber", "positive", "must be >= 1"))
		}
		// Empty player slots are legal until the previous round fills them.
		if m.Player1ID != "" && !t.HasPlayer(m.Player1ID) {
			vs = append(vs, violation(KindReference, field+".player1Id", "playerExists", m.Player1ID))
		}
		if m.Player2ID != "" && !t.HasPlayer(m.Player2ID) {
			vs = append(vs, violation(KindReference, field+".player2Id", "playerExists", m.Player2ID))
		}
	}

	return vs
}

// ValidateGameSession checks a candidate game session against its schema,
// its path, and the parent tournament's player list.
func ValidateGameSession(in *document.GameSession, prior *document.GameSession, path document.Path, parent *document.Tournament) []Violation {
	var vs []Violation

	if in.TournamentID == "" {
		vs = append(vs, violation(KindSchema, "tournamentId", "nonEmpty", ""))
	} else if in.TournamentID != path.TournamentID {
		vs = append(vs, violation(KindSchema, "tournamentId", "matchesPath",
			fmt.Sprintf("body %q does not match parent tournament %q", in.TournamentID, path.TournamentID)))
	}
	if prior != nil && in.TournamentID != prior.TournamentID {
		vs = append(vs, violation(KindImmutable, "tournamentId", "immutable", "parent cannot change on update"))
	}

	if !BoundedString(in.GameName, 100) {
		vs = append(vs, violation(KindSchema, "gameName", "boundedString", "must be 1..100 characters"))
	}
	if !EnumMember(in.GameType, document.GameFreeForAll, document.GameTeams, document.GameCoop) {
		vs = append(vs, violation(KindSchema, "gameType", "enumMember", string(in.GameType)))
	}
	if !OptionalBoundedString(&in.Preset, 50) {
		vs = append(vs, violation(KindSchema, "preset", "optionalBoundedString", "at most 50 characters"))
	}
	for _, points := range []struct {
		field string
		value float64
	}{
		{"scoringRules.first", in.ScoringRules.First},
		{"scoringRules.second", in.ScoringRules.Second},
		{"scoringRules.third", in.ScoringRules.Third},
		{"scoringRules.others", in.ScoringRules.Others},
	} {
		if !NonNegative(points.value) {
			vs = append(vs, violation(KindSchema, points.field, "nonNegative", "must be >= 0"))
		}
	}

	if len(in.Participants) == 0 {
		vs = append(vs, violation(KindSchema, "participants", "nonEmpty", "at least one participant required"))
	}
	for i, id := range in.Participants {
		if parent != nil && !parent.HasPlayer(id) {
			vs = append(vs, violation(KindReference, fmt.Sprintf("participants[%d]", i), "playerExists", id))
		}
	}

	for i, r := range in.Results {
		field := fmt.Sprintf("results[%d]", i)
		if !in.HasParticipant(r.PlayerID) {
			vs = append(vs, violation(KindReference, field+".playerId", "participantExists", r.PlayerID))
		}
		if r.Placement < 1 {
			vs = append(vs, violation(KindSchema, field+".placement", "positive", "must be >= 1"))
		}
	}

	if !TimestampLike(in.CreatedAt) {
		vs = append(vs, violation(KindSchema, "createdAt", "timestampLike", "must be a time string or server sentinel"))
	}
	if !TimestampLike(in.UpdatedAt) {
		vs = append(vs, violation(KindSchema, "updatedAt", "timestampLike", "must be a time string or server sentinel"))
	}

	return vs
}
