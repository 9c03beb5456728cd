package store

import (
	"context"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablekeep/tablekeep/internal/document"
	"github.com/tablekeep/tablekeep/internal/rules"
	"github.com/tablekeep/tablekeep/internal/utils"
)

// setupTestDB creates an in-memory SQLite database and applies migrations.
// The single-connection pool keeps every query on the same in-memory DB.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:?cache=shared")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	database.SetMaxOpenConns(1)

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

func testLibraryItem(libraryID string) *document.LibraryItem {
	return &document.LibraryItem{
		LibraryID: libraryID,
		GameID:    "13",
		GameName:  "Catan",
		Status:    document.StatusOwned,
		Quantity:  1,
	}
}

func testTournament() *document.Tournament {
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
		MemberIDs: []string{"owner-1", "editor-1"},
		MemberRoles: map[string]document.Role{
			"owner-1":  document.RoleOwner,
			"editor-1": document.RoleEditor,
		},
	}
}

func testSession(tournamentID string) *document.GameSession {
	return &document.GameSession{
		TournamentID: tournamentID,
		GameName:     "Catan",
		GameType:     document.GameFreeForAll,
		ScoringRules: document.ScoringRules{First: 3, Second: 2, Third: 1},
		Participants: []string{"p1", "p2"},
	}
}

func TestPutLibraryItemPersistsAllowedWrite(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewDocumentStore(db)
	ctx := context.Background()
	path := document.LibraryPath("user-1", "catan")

	item := testLibraryItem("catan")
	item.CreatedAt = utils.Ptr(document.ServerAssigned())
	item.UpdatedAt = utils.Ptr(document.ServerAssigned())
	require.NoError(t, store.PutLibraryItem(ctx, "user-1", path, item))

	got, err := store.GetLibraryItem(ctx, "user-1", "catan")
	require.NoError(t, err)
	assert.Equal(t, "Catan", got.GameName)

	// The server sentinel was resolved to a concrete time on write.
	require.NotNil(t, got.CreatedAt)
	_, isTime := got.CreatedAt.Value()
	assert.True(t, isTime)
}

func TestPutLibraryItemDeniedWriteLeavesNoRow(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewDocumentStore(db)
	ctx := context.Background()
	path := document.LibraryPath("user-1", "catan")

	err := store.PutLibraryItem(ctx, "intruder", path, testLibraryItem("catan"))
	assert.ErrorIs(t, err, rules.ErrUnauthorized)

	_, err = store.GetLibraryItem(ctx, "user-1", "catan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutLibraryItemSchemaDenyLeavesNoRow(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewDocumentStore(db)
	ctx := context.Background()
	path := document.LibraryPath("user-1", "catan")

	item := testLibraryItem("catan")
	item.GameName = ""
	err := store.PutLibraryItem(ctx, "user-1", path, item)
	assert.ErrorIs(t, err, rules.ErrSchemaViolation)

	_, err = store.GetLibraryItem(ctx, "user-1", "catan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutLibraryItemUpdatePreservesCreatedAt(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewDocumentStore(db)
	ctx := context.Background()
	path := document.LibraryPath("user-1", "catan")

	first := testLibraryItem("catan")
	first.CreatedAt = utils.Ptr(document.ClientTime("2026-01-01T00:00:00Z"))
	require.NoError(t, store.PutLibraryItem(ctx, "user-1", path, first))

	second := testLibraryItem("catan")
	second.GameName = "Catan: Seafarers expansion"
	require.NoError(t, store.PutLibraryItem(ctx, "user-1", path, second))

	got, err := store.GetLibraryItem(ctx, "user-1", "catan")
	require.NoError(t, err)
	assert.Equal(t, "Catan: Seafarers expansion", got.GameName)
	require.NotNil(t, got.CreatedAt)
	v, _ := got.CreatedAt.Value()
	assert.Equal(t, "2026-01-01T00:00:00Z", v)
}

func TestDeleteLibraryItem(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewDocumentStore(db)
	ctx := context.Background()
	path := document.LibraryPath("user-1", "catan")

	require.NoError(t, store.PutLibraryItem(ctx, "user-1", path, testLibraryItem("catan")))

	// A non-owner delete is refused and the row survives.
	err := store.DeleteLibraryItem(ctx, "intruder", path)
	assert.ErrorIs(t, err, rules.ErrUnauthorized)
	_, err = store.GetLibraryItem(ctx, "user-1", "catan")
	require.NoError(t, err)

	require.NoError(t, store.DeleteLibraryItem(ctx, "user-1", path))
	_, err = store.GetLibraryItem(ctx, "user-1", "catan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutTournamentAndListForMember(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewDocumentStore(db)
	ctx := context.Background()

	require.NoError(t, store.PutTournament(ctx, "owner-1", document.TournamentPath("t1"), testTournament()))

	other := testTournament()
	other.Name = "Autumn league"
	other.OwnerID = "owner-2"
	other.MemberIDs = []string{"owner-2"}
	other.MemberRoles = map[string]document.Role{"owner-2": document.RoleOwner}
	require.NoError(t, store.PutTournament(ctx, "owner-2", document.TournamentPath("t2"), other))

	ts, err := store.ListTournamentsForMember(ctx, "editor-1")
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, "Summer league", ts[0].Name)

	ts, err = store.ListTournamentsForMember(ctx, "owner-2")
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, "Autumn league", ts[0].Name)

	ts, err = store.ListTournamentsForMember(ctx, "stranger")
	require.NoError(t, err)
	assert.Empty(t, ts)
}

func TestPutTournamentEditorMembershipChangeRefused(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewDocumentStore(db)
	ctx := context.Background()
	path := document.TournamentPath("t1")

	require.NoError(t, store.PutTournament(ctx, "owner-1", path, testTournament()))

	in := testTournament()
	in.MemberIDs = append(in.MemberIDs, "editor-friend")
	in.MemberRoles["editor-friend"] = document.RoleEditor
	err := store.PutTournament(ctx, "editor-1", path, in)
	assert.ErrorIs(t, err, rules.ErrUnauthorized)

	got, err := store.GetTournament(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, got.MemberIDs, 2)
}

func TestDeleteTournamentCascadesToSessions(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewDocumentStore(db)
	ctx := context.Background()

	require.NoError(t, store.PutTournament(ctx, "owner-1", document.TournamentPath("t1"), testTournament()))
	require.NoError(t, store.PutGameSession(ctx, "editor-1", document.SessionPath("t1", "s1"), testSession("t1")))

	require.NoError(t, store.DeleteTournament(ctx, "owner-1", document.TournamentPath("t1")))

	_, err := store.GetGameSession(ctx, "t1", "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutGameSessionRequiresParent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewDocumentStore(db)
	ctx := context.Background()

	err := store.PutGameSession(ctx, "owner-1", document.SessionPath("missing", "s1"), testSession("missing"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutGameSessionViewerRefused(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewDocumentStore(db)
	ctx := context.Background()

	parent := testTournament()
	parent.MemberIDs = append(parent.MemberIDs, "viewer-1")
	parent.MemberRoles["viewer-1"] = document.RoleViewer
	require.NoError(t, store.PutTournament(ctx, "owner-1", document.TournamentPath("t1"), parent))

	err := store.PutGameSession(ctx, "viewer-1", document.SessionPath("t1", "s1"), testSession("t1"))
	assert.ErrorIs(t, err, rules.ErrUnauthorized)

	_, err = store.GetGameSession(ctx, "t1", "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutGameSessionGhostResultRefused(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewDocumentStore(db)
	ctx := context.Background()

	require.NoError(t, store.PutTournament(ctx, "owner-1", document.TournamentPath("t1"), testTournament()))

	sess := testSession("t1")
	sess.Results = []document.SessionResult{{PlayerID: "ghost", Placement: 1}}
	err := store.PutGameSession(ctx, "editor-1", document.SessionPath("t1", "s1"), sess)
	assert.ErrorIs(t, err, rules.ErrReferentialIntegrity)
}
