package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tablekeep/tablekeep/internal/document"
	"github.com/tablekeep/tablekeep/internal/middleware"
	"github.com/tablekeep/tablekeep/internal/store"
	"github.com/tablekeep/tablekeep/internal/utils"
)

// SessionService manages game sessions under a tournament. Role checks are
// the engine's job: owners and editors of the parent tournament may manage
// sessions, viewers and non-members may not.
type SessionService struct {
	store *store.DocumentStore
}

func NewSessionService(store *store.DocumentStore) *SessionService {
	return &SessionService{store: store}
}

type CreateSessionInput struct {
	GameName     string                `json:"gameName"`
	GameType     document.GameType     `json:"gameType"`
	Preset       string                `json:"preset"`
	ScoringRules document.ScoringRules `json:"scoringRules"`
	Participants []string              `json:"participants"`
}

func (s *SessionService) Create(ctx context.Context, tournamentID string, in CreateSessionInput) (string, error) {
	actor := middleware.ActorID(ctx)

	sess := &document.GameSession{
		TournamentID: tournamentID,
		GameName:     in.GameName,
		GameType:     in.GameType,
		Preset:       in.Preset,
		ScoringRules: in.ScoringRules,
		Participants: in.Participants,
		Results:      []document.SessionResult{},
		CreatedAt:    utils.Ptr(document.ServerAssigned()),
		UpdatedAt:    utils.Ptr(document.ServerAssigned()),
	}

	id := uuid.New().String()
	if err := s.store.PutGameSession(ctx, actor, document.SessionPath(tournamentID, id), sess); err != nil {
		return "", err
	}
	return id, nil
}

func (s *SessionService) Get(ctx context.Context, tournamentID, sessionID string) (*document.GameSession, error) {
	return s.store.GetGameSession(ctx, tournamentID, sessionID)
}

func (s *SessionService) List(ctx context.Context, tournamentID string) ([]document.GameSession, error) {
	return s.store.ListGameSessions(ctx, tournamentID)
}

func (s *SessionService) Update(ctx context.Context, tournamentID, sessionID string, sess *document.GameSession) error {
	actor := middleware.ActorID(ctx)
	sess.UpdatedAt = utils.Ptr(document.ServerAssigned())
	return s.store.PutGameSession(ctx, actor, document.SessionPath(tournamentID, sessionID), sess)
}

func (s *SessionService) Delete(ctx context.Context, tournamentID, sessionID string) error {
	actor := middleware.ActorID(ctx)
	return s.store.DeleteGameSession(ctx, actor, document.SessionPath(tournamentID, sessionID))
}

// RecordResults replaces the session's recorded placements. The engine
// verifies every result references a session participant.
func (s *SessionService) RecordResults(ctx context.Context, tournamentID, sessionID string, results []document.SessionResult) error {
	sess, err := s.store.GetGameSession(ctx, tournamentID, sessionID)
	if err != nil {
		return err
	}
	sess.Results = results
	return s.Update(ctx, tournamentID, sessionID, sess)
}
