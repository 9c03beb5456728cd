package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tablekeep/tablekeep/internal/document"
	"github.com/tablekeep/tablekeep/internal/rules"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("store: document not found")

// DocumentStore persists library items, tournaments and game sessions.
// Every mutation reads the stored snapshot and runs the rules engine inside
// one transaction, so a deny aborts the write with no partial effect and
// authorization always observes the same snapshot the schema checks do.
type DocumentStore struct {
	db *sqlx.DB
}

func NewDocumentStore(db *sqlx.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

type docRow struct {
	Doc []byte `db:"doc"`
}

func unmarshalDoc[T any](raw []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("store: corrupt document: %w", err)
	}
	return &v, nil
}

// --- library items ---

func (s *DocumentStore) GetLibraryItem(ctx context.Context, ownerID, libraryID string) (*document.LibraryItem, error) {
	var row docRow
	err := s.db.GetContext(ctx, &row,
		"SELECT doc FROM library_items WHERE owner_id = ? AND library_id = ?", ownerID, libraryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalDoc[document.LibraryItem](row.Doc)
}

func (s *DocumentStore) ListLibraryItems(ctx context.Context, ownerID string) ([]document.LibraryItem, error) {
	var raw [][]byte
	err := s.db.SelectContext(ctx, &raw,
		"SELECT doc FROM library_items WHERE owner_id = ? ORDER BY library_id", ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]document.LibraryItem, 0, len(raw))
	for _, r := range raw {
		item, err := unmarshalDoc[document.LibraryItem](r)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// PutLibraryItem creates or updates one library item, gated by the engine.
func (s *DocumentStore) PutLibraryItem(ctx context.Context, actorID string, path document.Path, item *document.LibraryItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	existing, err := getLibraryItemTx(ctx, tx, path)
	if err != nil {
		return err
	}

	req := rules.Request{ActorID: actorID, Path: path, Incoming: item}
	if existing == nil {
		req.Op = rules.OpCreate
	} else {
		req.Op = rules.OpUpdate
		req.Existing = existing
	}
	if err := rules.Evaluate(req).Err(); err != nil {
		return err
	}

	stampLibraryItem(item, existing, time.Now())
	doc, err := json.Marshal(item)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO library_items (owner_id, library_id, doc)
		VALUES (?, ?, ?)
		ON CONFLICT (owner_id, library_id) DO UPDATE SET doc = excluded.doc`,
		path.OwnerID, path.LibraryID, doc)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *DocumentStore) DeleteLibraryItem(ctx context.Context, actorID string, path document.Path) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	existing, err := getLibraryItemTx(ctx, tx, path)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	dec := rules.Evaluate(rules.Request{
		ActorID: actorID, Op: rules.OpDelete, Path: path, Existing: existing,
	})
	if err := dec.Err(); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM library_items WHERE owner_id = ? AND library_id = ?", path.OwnerID, path.LibraryID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func getLibraryItemTx(ctx context.Context, tx *sqlx.Tx, path document.Path) (*document.LibraryItem, error) {
	var row docRow
	err := tx.GetContext(ctx, &row,
		"SELECT doc FROM library_items WHERE owner_id = ? AND library_id = ?", path.OwnerID, path.LibraryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return unmarshalDoc[document.LibraryItem](row.Doc)
}

// --- tournaments ---

func (s *DocumentStore) GetTournament(ctx context.Context, id string) (*document.Tournament, error) {
	var row docRow
	err := s.db.GetContext(ctx, &row, "SELECT doc FROM tournaments WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalDoc[document.Tournament](row.Doc)
}

// ListTournamentsForMember returns every tournament the user belongs to,
// newest first.
func (s *DocumentStore) ListTournamentsForMember(ctx context.Context, userID string) ([]document.Tournament, error) {
	var raw [][]byte
	err := s.db.SelectContext(ctx, &raw, `SELECT doc FROM tournaments
		WHERE owner_id = ?
		   OR EXISTS (SELECT 1 FROM json_each(tournaments.member_ids) WHERE json_each.value = ?)
		ORDER BY created_at DESC`, userID, userID)
	if err != nil {
		return nil, err
	}
	ts := make([]document.Tournament, 0, len(raw))
	for _, r := range raw {
		t, err := unmarshalDoc[document.Tournament](r)
		if err != nil {
			return nil, err
		}
		ts = append(ts, *t)
	}
	return ts, nil
}

// PutTournament creates or updates a tournament, gated by the engine.
func (s *DocumentStore) PutTournament(ctx context.Context, actorID string, path document.Path, t *document.Tournament) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	existing, err := getTournamentTx(ctx, tx, path.TournamentID)
	if err != nil {
		return err
	}

	req := rules.Request{ActorID: actorID, Path: path, Incoming: t}
	if existing == nil {
		req.Op = rules.OpCreate
	} else {
		req.Op = rules.OpUpdate
		req.Existing = existing
	}
	if err := rules.Evaluate(req).Err(); err != nil {
		return err
	}

	stampTournament(t, existing, time.Now())
	doc, err := json.Marshal(t)
	if err != nil {
		return err
	}
	memberIDs, err := json.Marshal(t.MemberIDs)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO tournaments (id, owner_id, member_ids, doc)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET owner_id = excluded.owner_id,
			member_ids = excluded.member_ids, doc = excluded.doc`,
		path.TournamentID, t.OwnerID, memberIDs, doc)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *DocumentStore) DeleteTournament(ctx context.Context, actorID string, path document.Path) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	existing, err := getTournamentTx(ctx, tx, path.TournamentID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	dec := rules.Evaluate(rules.Request{
		ActorID: actorID, Op: rules.OpDelete, Path: path, Existing: existing,
	})
	if err := dec.Err(); err != nil {
		return err
	}

	// Child sessions go with the tournament via ON DELETE CASCADE.
	_, err = tx.ExecContext(ctx, "DELETE FROM tournaments WHERE id = ?", path.TournamentID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func getTournamentTx(ctx context.Context, tx *sqlx.Tx, id string) (*document.Tournament, error) {
	var row docRow
	err := tx.GetContext(ctx, &row, "SELECT doc FROM tournaments WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return unmarshalDoc[document.Tournament](row.Doc)
}

// --- game sessions ---

func (s *DocumentStore) GetGameSession(ctx context.Context, tournamentID, sessionID string) (*document.GameSession, error) {
	var row docRow
	err := s.db.GetContext(ctx, &row,
		"SELECT doc FROM game_sessions WHERE tournament_id = ? AND session_id = ?", tournamentID, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalDoc[document.GameSession](row.Doc)
}

func (s *DocumentStore) ListGameSessions(ctx context.Context, tournamentID string) ([]document.GameSession, error) {
	var raw [][]byte
	err := s.db.SelectContext(ctx, &raw,
		"SELECT doc FROM game_sessions WHERE tournament_id = ? ORDER BY session_id", tournamentID)
	if err != nil {
		return nil, err
	}
	sessions := make([]document.GameSession, 0, len(raw))
	for _, r := range raw {
		sess, err := unmarshalDoc[document.GameSession](r)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, nil
}

// PutGameSession creates or updates a game session. The parent tournament is
// read inside the same transaction so membership cannot shift between the
// authorization check and the schema checks.
func (s *DocumentStore) PutGameSession(ctx context.Context, actorID string, path document.Path, sess *document.GameSession) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	parent, err := getTournamentTx(ctx, tx, path.TournamentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return ErrNotFound
	}
	existing, err := getGameSessionTx(ctx, tx, path)
	if err != nil {
		return err
	}

	req := rules.Request{ActorID: actorID, Path: path, Incoming: sess, Parent: parent}
	if existing == nil {
		req.Op = rules.OpCreate
	} else {
		req.Op = rules.OpUpdate
		req.Existing = existing
	}
	if err := rules.Evaluate(req).Err(); err != nil {
		return err
	}

	stampGameSession(sess, existing, time.Now())
	doc, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO game_sessions (tournament_id, session_id, doc)
		VALUES (?, ?, ?)
		ON CONFLICT (tournament_id, session_id) DO UPDATE SET doc = excluded.doc`,
		path.TournamentID, path.SessionID, doc)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *DocumentStore) DeleteGameSession(ctx context.Context, actorID string, path document.Path) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	parent, err := getTournamentTx(ctx, tx, path.TournamentID)
	if err != nil {
		return err
	}
	existing, err := getGameSessionTx(ctx, tx, path)
	if err != nil {
		return err
	}
	if parent == nil || existing == nil {
		return ErrNotFound
	}

	dec := rules.Evaluate(rules.Request{
		ActorID: actorID, Op: rules.OpDelete, Path: path, Existing: existing, Parent: parent,
	})
	if err := dec.Err(); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM game_sessions WHERE tournament_id = ? AND session_id = ?", path.TournamentID, path.SessionID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func getGameSessionTx(ctx context.Context, tx *sqlx.Tx, path document.Path) (*document.GameSession, error) {
	var row docRow
	err := tx.GetContext(ctx, &row,
		"SELECT doc FROM game_sessions WHERE tournament_id = ? AND session_id = ?", path.TournamentID, path.SessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return unmarshalDoc[document.GameSession](row.Doc)
}

// --- server-time stamping ---
//
// The engine accepts either a client time string or the server sentinel; the
// store is where the sentinel becomes a concrete time. createdAt survives
// updates even when the client omits it.

func stampLibraryItem(item, existing *document.LibraryItem, now time.Time) {
	item.LastPlayedAt = document.ResolveTimestamp(item.LastPlayedAt, now)
	item.FirstPlayedAt = document.ResolveTimestamp(item.FirstPlayedAt, now)
	item.CreatedAt = resolveCreated(item.CreatedAt, existingCreated(existing), now)
	item.UpdatedAt = resolveUpdated(item.UpdatedAt, now)
}

func existingCreated(existing *document.LibraryItem) *document.Timestamp {
	if existing == nil {
		return nil
	}
	return existing.CreatedAt
}

func stampTournament(t, existing *document.Tournament, now time.Time) {
	t.Date = document.ResolveTimestamp(t.Date, now)
	var prior *document.Timestamp
	if existing != nil {
		prior = existing.CreatedAt
	}
	t.CreatedAt = resolveCreated(t.CreatedAt, prior, now)
	t.UpdatedAt = resolveUpdated(t.UpdatedAt, now)
}

func stampGameSession(sess, existing *document.GameSession, now time.Time) {
	var prior *document.Timestamp
	if existing != nil {
		prior = existing.CreatedAt
	}
	sess.CreatedAt = resolveCreated(sess.CreatedAt, prior, now)
	sess.UpdatedAt = resolveUpdated(sess.UpdatedAt, now)
}

func resolveCreated(in, prior *document.Timestamp, now time.Time) *document.Timestamp {
	if in == nil || in.IsServerAssigned() {
		if prior != nil {
			return prior
		}
		ts := document.ClientTime(now.UTC().Format(time.RFC3339))
		return &ts
	}
	return in
}

func resolveUpdated(in *document.Timestamp, now time.Time) *document.Timestamp {
	if in == nil || in.IsServerAssigned() {
		ts := document.ClientTime(now.UTC().Format(time.RFC3339))
		return &ts
	}
	return in
}
