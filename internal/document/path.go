package document

import (
	"fmt"
	"strings"
)

// Path identifies a document's storage location. The identifiers embedded in
// the path are authoritative: body identifiers must match them.
type Path struct {
	Kind Kind

	// OwnerID is the user segment of a library path.
	OwnerID string
	// LibraryID is the item segment of a library path.
	LibraryID string
	// TournamentID is set for tournament and game-session paths.
	TournamentID string
	// SessionID is the final segment of a game-session path.
	SessionID string
}

// LibraryPath returns the path of one library item in a user's collection.
func LibraryPath(ownerID, libraryID string) Path {
	return Path{Kind: KindLibraryItem, OwnerID: ownerID, LibraryID: libraryID}
}

// TournamentPath returns the path of a tournament document.
func TournamentPath(id string) Path {
	return Path{Kind: KindTournament, TournamentID: id}
}

// SessionPath returns the path of a game session under its tournament.
func SessionPath(tournamentID, sessionID string) Path {
	return Path{Kind: KindGameSession, TournamentID: tournamentID, SessionID: sessionID}
}

// ParsePath parses a slash-separated storage path. Supported shapes:
//
//	users/{uid}/library/{libraryId}
//	tournaments/{id}
//	tournaments/{id}/gameSessions/{sessionId}
func ParsePath(raw string) (Path, error) {
	segs := strings.Split(strings.Trim(raw, "/"), "/")
	switch {
	case len(segs) == 4 && segs[0] == "users" && segs[2] == "library":
		if segs[1] == "" || segs[3] == "" {
			return Path{}, fmt.Errorf("document: empty identifier in path %q", raw)
		}
		return LibraryPath(segs[1], segs[3]), nil
	case len(segs) == 2 && segs[0] == "tournaments":
		if segs[1] == "" {
			return Path{}, fmt.Errorf("document: empty identifier in path %q", raw)
		}
		return TournamentPath(segs[1]), nil
	case len(segs) == 4 && segs[0] == "tournaments" && segs[2] == "gameSessions":
		if segs[1] == "" || segs[3] == "" {
			return Path{}, fmt.Errorf("document: empty identifier in path %q", raw)
		}
		return SessionPath(segs[1], segs[3]), nil
	}
	return Path{}, fmt.Errorf("document: unrecognized path %q", raw)
}

func (p Path) String() string {
	switch p.Kind {
	case KindLibraryItem:
		return "users/" + p.OwnerID + "/library/" + p.LibraryID
	case KindTournament:
		return "tournaments/" + p.TournamentID
	case KindGameSession:
		return "tournaments/" + p.TournamentID + "/gameSessions/" + p.SessionID
	}
	return ""
}

// DocumentID returns the identifier of the final path segment, the one the
// document body must repeat.
func (p Path) DocumentID() string {
	switch p.Kind {
	case KindLibraryItem:
		return p.LibraryID
	case KindTournament:
		return p.TournamentID
	case KindGameSession:
		return p.SessionID
	}
	return ""
}
