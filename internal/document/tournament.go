package document

type TournamentFormat string

const (
	FormatAccumulative TournamentFormat = "accumulative"
	FormatBracket      TournamentFormat = "bracket"
)

type TournamentState string

const (
	TournamentActive    TournamentState = "active"
	TournamentCompleted TournamentState = "completed"
)

// Player is one competitor in a tournament. Matches and game-session
// participants reference players by ID.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Match is one slot in a single-elimination bracket. Player references may be
// empty until the previous round decides them.
type Match struct {
	ID          string `json:"id"`
	Round       int    `json:"round"`
	MatchNumber int    `json:"matchNumber"`
	Player1ID   string `json:"player1Id"`
	Player2ID   string `json:"player2Id"`
	IsComplete  bool   `json:"isComplete"`
}

// BracketConfig describes single-elimination progression. It is required
// exactly when the tournament format is bracket.
type BracketConfig struct {
	GameTitle    string  `json:"gameTitle"`
	TotalRounds  int     `json:"totalRounds"`
	CurrentRound int     `json:"currentRound"`
	HasStarted   bool    `json:"hasStarted"`
	Bracket      []Match `json:"bracket"`
}

// Tournament is a shared multi-player competition container. Access is
// recorded as a flat memberRoles mapping; game sessions stored under the
// tournament inherit its access policy.
type Tournament struct {
	Name        string           `json:"name"`
	Format      TournamentFormat `json:"format"`
	Players     []Player         `json:"players"`
	State       TournamentState  `json:"state"`
	Date        *Timestamp       `json:"date,omitempty"`
	OwnerID     string           `json:"ownerId"`
	OwnerName   string           `json:"ownerName"`
	MemberIDs   []string         `json:"memberIds"`
	MemberRoles map[string]Role  `json:"memberRoles"`

	BracketConfig *BracketConfig `json:"bracketConfig,omitempty"`

	CreatedAt *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}

func (*Tournament) DocumentKind() Kind { return KindTournament }

// HasPlayer reports whether id names one of the tournament's players.
func (t *Tournament) HasPlayer(id string) bool {
	for _, p := range t.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

// HasMember reports whether id appears in the membership set.
func (t *Tournament) HasMember(id string) bool {
	for _, m := range t.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}
