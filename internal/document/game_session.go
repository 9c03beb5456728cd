package document

type GameType string

const (
	GameFreeForAll GameType = "ffa"
	GameTeams      GameType = "teams"
	GameCoop       GameType = "coop"
)

// ScoringRules maps placements to the points they award. Placements past
// third all score Others.
type ScoringRules struct {
	First  float64 `json:"first"`
	Second float64 `json:"second"`
	Third  float64 `json:"third"`
	Others float64 `json:"others"`
}

// SessionResult is one placement outcome of a played session.
type SessionResult struct {
	PlayerID  string `json:"playerId"`
	Placement int    `json:"placement"`
}

// GameSession is one played game inside a tournament, stored as a child of
// the tournament document. It has no independent ownership; access follows
// the parent tournament's memberRoles.
type GameSession struct {
	TournamentID string          `json:"tournamentId"`
	GameName     string          `json:"gameName"`
	GameType     GameType        `json:"gameType"`
	Preset       string          `json:"preset"`
	ScoringRules ScoringRules    `json:"scoringRules"`
	Participants []string        `json:"participants"`
	Results      []SessionResult `json:"results"`

	CreatedAt *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}

func (*GameSession) DocumentKind() Kind { return KindGameSession }

// HasParticipant reports whether id is one of the session's participants.
func (s *GameSession) HasParticipant(id string) bool {
	for _, p := range s.Participants {
		if p == id {
			return true
		}
	}
	return false
}
