package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/markbates/goth/gothic"
	"github.com/tablekeep/tablekeep/internal/document"
	"github.com/tablekeep/tablekeep/internal/httputil"
	"github.com/tablekeep/tablekeep/internal/middleware"
	"github.com/tablekeep/tablekeep/internal/service"
	"github.com/tablekeep/tablekeep/internal/store"
)

type routerDeps struct {
	sessions     *scs.SessionManager
	users        *store.UserStore
	userService  *service.UserService
	library      *service.LibraryService
	tournaments  *service.TournamentService
	gameSessions *service.SessionService
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(deps.sessions.LoadAndSave)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.sessions, deps.users))

		r.Route("/library", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				items, err := deps.library.List(req.Context())
				if err != nil {
					httputil.WriteError(w, "Failed to list library", err)
					return
				}
				httputil.JSON(w, http.StatusOK, items)
			})
			r.Post("/", func(w http.ResponseWriter, req *http.Request) {
				var item document.LibraryItem
				if err := json.NewDecoder(req.Body).Decode(&item); err != nil {
					httputil.BadRequest(w, "Invalid JSON body", err)
					return
				}
				if err := deps.library.Put(req.Context(), item.LibraryID, &item); err != nil {
					httputil.WriteError(w, "Failed to create library item", err)
					return
				}
				httputil.JSON(w, http.StatusCreated, item)
			})
			r.Get("/{libraryId}", func(w http.ResponseWriter, req *http.Request) {
				item, err := deps.library.Get(req.Context(), chi.URLParam(req, "libraryId"))
				if err != nil {
					httputil.WriteError(w, "Failed to get library item", err)
					return
				}
				httputil.JSON(w, http.StatusOK, item)
			})
			r.Put("/{libraryId}", func(w http.ResponseWriter, req *http.Request) {
				var item document.LibraryItem
				if err := json.NewDecoder(req.Body).Decode(&item); err != nil {
					httputil.BadRequest(w, "Invalid JSON body", err)
					return
				}
				if err := deps.library.Put(req.Context(), chi.URLParam(req, "libraryId"), &item); err != nil {
					httputil.WriteError(w, "Failed to save library item", err)
					return
				}
				httputil.JSON(w, http.StatusOK, item)
			})
			r.Delete("/{libraryId}", func(w http.ResponseWriter, req *http.Request) {
				if err := deps.library.Delete(req.Context(), chi.URLParam(req, "libraryId")); err != nil {
					httputil.WriteError(w, "Failed to delete library item", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})
		})

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				ts, err := deps.tournaments.ListForUser(req.Context())
				if err != nil {
					httputil.WriteError(w, "Failed to list tournaments", err)
					return
				}
				httputil.JSON(w, http.StatusOK, ts)
			})
			r.Post("/", func(w http.ResponseWriter, req *http.Request) {
				var in service.CreateTournamentInput
				if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
					httputil.BadRequest(w, "Invalid JSON body", err)
					return
				}
				id, err := deps.tournaments.Create(req.Context(), in)
				if err != nil {
					httputil.WriteError(w, "Failed to create tournament", err)
					return
				}
				httputil.JSON(w, http.StatusCreated, map[string]string{"id": id})
			})
			r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
				t, err := deps.tournaments.Get(req.Context(), chi.URLParam(req, "id"))
				if err != nil {
					httputil.WriteError(w, "Tournament not found", err)
					return
				}
				httputil.JSON(w, http.StatusOK, t)
			})
			r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
				var t document.Tournament
				if err := json.NewDecoder(req.Body).Decode(&t); err != nil {
					httputil.BadRequest(w, "Invalid JSON body", err)
					return
				}
				if err := deps.tournaments.Update(req.Context(), chi.URLParam(req, "id"), &t); err != nil {
					httputil.WriteError(w, "Failed to update tournament", err)
					return
				}
				httputil.JSON(w, http.StatusOK, t)
			})
			r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
				if err := deps.tournaments.Delete(req.Context(), chi.URLParam(req, "id")); err != nil {
					httputil.WriteError(w, "Failed to delete tournament", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})
			r.Get("/{id}/standings", func(w http.ResponseWriter, req *http.Request) {
				standings, err := deps.tournaments.Standings(req.Context(), chi.URLParam(req, "id"))
				if err != nil {
					httputil.WriteError(w, "Failed to compute standings", err)
					return
				}
				httputil.JSON(w, http.StatusOK, standings)
			})
			r.Post("/{id}/advance", func(w http.ResponseWriter, req *http.Request) {
				if err := deps.tournaments.AdvanceBracketRound(req.Context(), chi.URLParam(req, "id")); err != nil {
					httputil.WriteError(w, "Failed to advance bracket", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			r.Route("/{id}/sessions", func(r chi.Router) {
				r.Get("/", func(w http.ResponseWriter, req *http.Request) {
					sessions, err := deps.gameSessions.List(req.Context(), chi.URLParam(req, "id"))
					if err != nil {
						httputil.WriteError(w, "Failed to list sessions", err)
						return
					}
					httputil.JSON(w, http.StatusOK, sessions)
				})
				r.Post("/", func(w http.ResponseWriter, req *http.Request) {
					var in service.CreateSessionInput
					if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
						httputil.BadRequest(w, "Invalid JSON body", err)
						return
					}
					id, err := deps.gameSessions.Create(req.Context(), chi.URLParam(req, "id"), in)
					if err != nil {
						httputil.WriteError(w, "Failed to create session", err)
						return
					}
					httputil.JSON(w, http.StatusCreated, map[string]string{"id": id})
				})
				r.Get("/{sessionId}", func(w http.ResponseWriter, req *http.Request) {
					sess, err := deps.gameSessions.Get(req.Context(), chi.URLParam(req, "id"), chi.URLParam(req, "sessionId"))
					if err != nil {
						httputil.WriteError(w, "Session not found", err)
						return
					}
					httputil.JSON(w, http.StatusOK, sess)
				})
				r.Put("/{sessionId}", func(w http.ResponseWriter, req *http.Request) {
					var sess document.GameSession
					if err := json.NewDecoder(req.Body).Decode(&sess); err != nil {
						httputil.BadRequest(w, "Invalid JSON body", err)
						return
					}
					if err := deps.gameSessions.Update(req.Context(), chi.URLParam(req, "id"), chi.URLParam(req, "sessionId"), &sess); err != nil {
						httputil.WriteError(w, "Failed to update session", err)
						return
					}
					httputil.JSON(w, http.StatusOK, sess)
				})
				r.Delete("/{sessionId}", func(w http.ResponseWriter, req *http.Request) {
					if err := deps.gameSessions.Delete(req.Context(), chi.URLParam(req, "id"), chi.URLParam(req, "sessionId")); err != nil {
						httputil.WriteError(w, "Failed to delete session", err)
						return
					}
					w.WriteHeader(http.StatusNoContent)
				})
				r.Post("/{sessionId}/results", func(w http.ResponseWriter, req *http.Request) {
					var results []document.SessionResult
					if err := json.NewDecoder(req.Body).Decode(&results); err != nil {
						httputil.BadRequest(w, "Invalid JSON body", err)
						return
					}
					if err := deps.gameSessions.RecordResults(req.Context(), chi.URLParam(req, "id"), chi.URLParam(req, "sessionId"), results); err != nil {
						httputil.WriteError(w, "Failed to record results", err)
						return
					}
					w.WriteHeader(http.StatusNoContent)
				})
			})
		})
	})

	r.Get("/auth/{provider}", func(w http.ResponseWriter, req *http.Request) {
		provider := chi.URLParam(req, "provider")
		req = req.WithContext(context.WithValue(req.Context(), "provider", provider))

		gothic.BeginAuthHandler(w, req)
	})

	r.Get("/auth/{provider}/callback", func(w http.ResponseWriter, req *http.Request) {
		provider := chi.URLParam(req, "provider")
		req = req.WithContext(context.WithValue(req.Context(), "provider", provider))

		gothUser, err := gothic.CompleteUserAuth(w, req)
		if err != nil {
			httputil.BadRequest(w, "Authentication failure", err)
			return
		}

		user, err := deps.userService.FindOrCreateUserByProvider(req.Context(), gothUser)
		if err != nil {
			httputil.InternalServerError(w, "Failed to find or create user", err)
			return
		}

		deps.sessions.Put(req.Context(), "userID", user.ID.String())

		http.Redirect(w, req, "/", http.StatusFound)
	})

	r.Post("/auth/guest", func(w http.ResponseWriter, req *http.Request) {
		user, err := deps.userService.EnsureGuestUser(req.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to login as guest", err)
			return
		}

		deps.sessions.Put(req.Context(), "userID", user.ID.String())
		httputil.JSON(w, http.StatusOK, map[string]string{"id": user.ID.String()})
	})

	r.Get("/login", func(w http.ResponseWriter, req *http.Request) {
		httputil.JSON(w, http.StatusUnauthorized, map[string]any{
			"error":     "authentication required",
			"providers": []string{"google", "discord", "guest"},
		})
	})

	r.Post("/logout", func(w http.ResponseWriter, req *http.Request) {
		deps.sessions.Destroy(req.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
