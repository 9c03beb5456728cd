package service

import (
	"context"

	"github.com/tablekeep/tablekeep/internal/document"
	"github.com/tablekeep/tablekeep/internal/middleware"
	"github.com/tablekeep/tablekeep/internal/rules"
	"github.com/tablekeep/tablekeep/internal/store"
)

// LibraryService manages the session user's game collection. All writes go
// through the rules engine at the storage boundary; the service only shapes
// requests.
type LibraryService struct {
	store *store.DocumentStore
}

func NewLibraryService(store *store.DocumentStore) *LibraryService {
	return &LibraryService{store: store}
}

func (s *LibraryService) List(ctx context.Context) ([]document.LibraryItem, error) {
	actor := middleware.ActorID(ctx)
	if actor == "" {
		return nil, rules.Unauthenticated().Err()
	}
	return s.store.ListLibraryItems(ctx, actor)
}

func (s *LibraryService) Get(ctx context.Context, libraryID string) (*document.LibraryItem, error) {
	actor := middleware.ActorID(ctx)
	if actor == "" {
		return nil, rules.Unauthenticated().Err()
	}
	return s.store.GetLibraryItem(ctx, actor, libraryID)
}

// Put creates or replaces one item under the session user's own path.
func (s *LibraryService) Put(ctx context.Context, libraryID string, item *document.LibraryItem) error {
	actor := middleware.ActorID(ctx)
	path := document.LibraryPath(actor, libraryID)
	return s.store.PutLibraryItem(ctx, actor, path, item)
}

func (s *LibraryService) Delete(ctx context.Context, libraryID string) error {
	actor := middleware.ActorID(ctx)
	path := document.LibraryPath(actor, libraryID)
	return s.store.DeleteLibraryItem(ctx, actor, path)
}
