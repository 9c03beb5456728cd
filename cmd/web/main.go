package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/tablekeep/tablekeep/internal/db"
	"github.com/tablekeep/tablekeep/internal/middleware"
	"github.com/tablekeep/tablekeep/internal/service"
	"github.com/tablekeep/tablekeep/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "tablekeep.db"
	}
	database := db.InitDB(dbPath)
	defer database.Close()

	if err := db.RunMigrations(database.DB, "migrations"); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	middleware.InitAuth()

	sessionManager := scs.New()
	sessionManager.Lifetime = 24 * time.Hour
	sessionManager.Store = sqlite3store.New(database.DB)

	documents := store.NewDocumentStore(database)
	users := store.NewUserStore(database)

	deps := routerDeps{
		sessions:    sessionManager,
		users:       users,
		userService: service.NewUserService(database, users),
		library:     service.NewLibraryService(documents),
		tournaments: service.NewTournamentService(documents),
		gameSessions: service.NewSessionService(documents),
	}
	router := newRouter(deps)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Println("Server starting on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal(err)
	}
}
