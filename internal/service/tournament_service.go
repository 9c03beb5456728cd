package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/tablekeep/tablekeep/internal/document"
	"github.com/tablekeep/tablekeep/internal/middleware"
	"github.com/tablekeep/tablekeep/internal/store"
	"github.com/tablekeep/tablekeep/internal/utils"
)

type TournamentService struct {
	store *store.DocumentStore
}

func NewTournamentService(store *store.DocumentStore) *TournamentService {
	return &TournamentService{store: store}
}

type CreateTournamentInput struct {
	Name      string                    `json:"name"`
	Format    document.TournamentFormat `json:"format"`
	Players   []document.Player         `json:"players"`
	Date      *document.Timestamp       `json:"date,omitempty"`
	GameTitle string                    `json:"gameTitle,omitempty"`
}

// Create assembles a tournament owned by the session user and writes it
// through the gated store. Player entries without an ID get one assigned.
func (s *TournamentService) Create(ctx context.Context, in CreateTournamentInput) (string, error) {
	actor := middleware.ActorID(ctx)

	ownerName := ""
	if user := middleware.GetAuthenticatedUser(ctx); user != nil {
		ownerName = user.Username
	}

	players := make([]document.Player, len(in.Players))
	copy(players, in.Players)
	for i := range players {
		if players[i].ID == "" {
			players[i].ID = uuid.New().String()
		}
	}

	t := &document.Tournament{
		Name:        in.Name,
		Format:      in.Format,
		Players:     players,
		State:       document.TournamentActive,
		Date:        in.Date,
		OwnerID:     actor,
		OwnerName:   ownerName,
		MemberIDs:   []string{actor},
		MemberRoles: map[string]document.Role{actor: document.RoleOwner},
		CreatedAt:   utils.Ptr(document.ServerAssigned()),
		UpdatedAt:   utils.Ptr(document.ServerAssigned()),
	}
	if in.Format == document.FormatBracket {
		t.BracketConfig = GenerateBracketConfig(in.GameTitle, players)
	}

	id := uuid.New().String()
	if err := s.store.PutTournament(ctx, actor, document.TournamentPath(id), t); err != nil {
		return "", err
	}
	return id, nil
}

func (s *TournamentService) Get(ctx context.Context, id string) (*document.Tournament, error) {
	return s.store.GetTournament(ctx, id)
}

func (s *TournamentService) ListForUser(ctx context.Context) ([]document.Tournament, error) {
	actor := middleware.ActorID(ctx)
	if actor == "" {
		return nil, fmt.Errorf("user ID not found in the context")
	}
	return s.store.ListTournamentsForMember(ctx, actor)
}

// Update replaces the tournament document. The engine decides whether the
// session user's role permits it and whether the candidate is valid.
func (s *TournamentService) Update(ctx context.Context, id string, t *document.Tournament) error {
	actor := middleware.ActorID(ctx)
	t.UpdatedAt = utils.Ptr(document.ServerAssigned())
	return s.store.PutTournament(ctx, actor, document.TournamentPath(id), t)
}

func (s *TournamentService) Delete(ctx context.Context, id string) error {
	actor := middleware.ActorID(ctx)
	return s.store.DeleteTournament(ctx, actor, document.TournamentPath(id))
}

// AddMember records a new member with the given role. Membership changes are
// plain tournament updates, so the engine's owner-only rule applies.
func (s *TournamentService) AddMember(ctx context.Context, id, memberID string, role document.Role) error {
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return err
	}
	if !t.HasMember(memberID) {
		t.MemberIDs = append(t.MemberIDs, memberID)
	}
	if t.MemberRoles == nil {
		t.MemberRoles = make(map[string]document.Role)
	}
	t.MemberRoles[memberID] = role
	return s.Update(ctx, id, t)
}

// RemoveMember drops a member and their role entry. Removing the owner is
// rejected by the engine's owner-in-members invariant.
func (s *TournamentService) RemoveMember(ctx context.Context, id, memberID string) error {
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return err
	}
	members := t.MemberIDs[:0:0]
	for _, m := range t.MemberIDs {
		if m != memberID {
			members = append(members, m)
		}
	}
	t.MemberIDs = members
	delete(t.MemberRoles, memberID)
	return s.Update(ctx, id, t)
}

// AdvanceBracketRound moves a bracket tournament to the next round once
// every match of the current round is complete.
func (s *TournamentService) AdvanceBracketRound(ctx context.Context, id string) error {
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return err
	}
	bc := t.BracketConfig
	if bc == nil {
		return fmt.Errorf("tournament %s has no bracket", id)
	}
	for _, m := range bc.Bracket {
		if m.Round == bc.CurrentRound && !m.IsComplete {
			return fmt.Errorf("round %d still has open matches", bc.CurrentRound)
		}
	}
	bc.HasStarted = true
	if bc.CurrentRound < bc.TotalRounds {
		bc.CurrentRound++
	} else {
		t.State = document.TournamentCompleted
	}
	return s.Update(ctx, id, t)
}

// Standing is one row of a tournament leaderboard.
type Standing struct {
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	Points     float64 `json:"points"`
	Played     int     `json:"played"`
}

// Standings aggregates recorded session results using each session's
// placement→points mapping.
func (s *TournamentService) Standings(ctx context.Context, id string) ([]Standing, error) {
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.ListGameSessions(ctx, id)
	if err != nil {
		return nil, err
	}
	return computeStandings(t, sessions), nil
}

func computeStandings(t *document.Tournament, sessions []document.GameSession) []Standing {
	byPlayer := make(map[string]*Standing, len(t.Players))
	order := make([]string, 0, len(t.Players))
	for _, p := range t.Players {
		byPlayer[p.ID] = &Standing{PlayerID: p.ID, PlayerName: p.Name}
		order = append(order, p.ID)
	}

	for _, sess := range sessions {
		for _, r := range sess.Results {
			st, ok := byPlayer[r.PlayerID]
			if !ok {
				continue
			}
			st.Points += placementPoints(sess.ScoringRules, r.Placement)
			st.Played++
		}
	}

	standings := make([]Standing, 0, len(order))
	for _, id := range order {
		standings = append(standings, *byPlayer[id])
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		return standings[i].PlayerName < standings[j].PlayerName
	})
	return standings
}

func placementPoints(rules document.ScoringRules, placement int) float64 {
	switch placement {
	case 1:
		return rules.First
	case 2:
		return rules.Second
	case 3:
		return rules.Third
	default:
		return rules.Others
	}
}
