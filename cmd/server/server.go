// cmd/server/server.go
package main

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/collegecounter/ccweb/internal/api"
	"github.com/collegecounter/ccweb/internal/api/auth"
	"github.com/collegecounter/ccweb/internal/api/divisions"
	"github.com/collegecounter/ccweb/internal/api/matchedit"
	"github.com/collegecounter/ccweb/internal/api/matches"
	"github.com/collegecounter/ccweb/internal/api/nav"
	"github.com/collegecounter/ccweb/internal/api/placements"
	"github.com/collegecounter/ccweb/internal/api/players"
	"github.com/collegecounter/ccweb/internal/api/playerstats"
	"github.com/collegecounter/ccweb/internal/api/standings"
	"github.com/collegecounter/ccweb/internal/api/teams"
	"github.com/collegecounter/ccweb/internal/api/upcoming"
	"github.com/collegecounter/ccweb/internal/config"
)

func newServer(cfg *config.Config) *http.Server {
	router := http.NewServeMux()

	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	registerRoutes(router)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Public pages
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/matches", http.StatusMovedPermanently)
	})
	mux.HandleFunc("GET /matches", matches.HandleResultsPage)
	mux.HandleFunc("GET /upcoming", upcoming.HandleUpcomingPage)
	mux.HandleFunc("GET /teams", teams.HandleTeamsPage)
	mux.HandleFunc("GET /teams/{id}", teams.HandleTeamPage)
	mux.HandleFunc("GET /players/{id}", players.HandlePlayerPage)
	mux.HandleFunc("GET /standings", standings.HandleStandingsPage)
	mux.HandleFunc("GET /stats", playerstats.HandleStatsPage)
	mux.HandleFunc("GET /placements", placements.HandlePlacementsPage)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Navigation fragments
	mux.HandleFunc("GET /api/v1/nav/menu", nav.HandleMenu)
	mux.HandleFunc("GET /api/v1/nav/menu/close", nav.HandleMenuClose)

	// Admin tree, session-gated except the login endpoints
	admin := http.NewServeMux()
	admin.HandleFunc("GET /admin/login", auth.HandleLoginPage)
	admin.HandleFunc("POST /admin/login", auth.HandleLogin)
	admin.HandleFunc("POST /admin/logout", auth.HandleLogout)

	admin.HandleFunc("GET /admin/matches", matches.HandleManagePage)
	admin.HandleFunc("DELETE /admin/matches/{id}", matches.HandleDelete)
	admin.HandleFunc("GET /admin/matches/new", matchedit.HandleNewMatchPage)
	admin.HandleFunc("GET /admin/matches/{id}/edit", matchedit.HandleEditMatchPage)
	admin.HandleFunc("POST /admin/matches/editor/add-map", matchedit.HandleAddMap)
	admin.HandleFunc("POST /admin/matches/editor/remove-map", matchedit.HandleRemoveMap)
	admin.HandleFunc("POST /admin/matches/editor/add-stat", matchedit.HandleAddPlayerStat)
	admin.HandleFunc("POST /admin/matches/editor/remove-stat", matchedit.HandleRemovePlayerStat)
	admin.HandleFunc("POST /admin/matches/editor/teams", matchedit.HandleTeamChange)
	admin.HandleFunc("POST /admin/matches/editor/submit", matchedit.HandleSubmit)
	admin.HandleFunc("GET /admin/matches/editor/map-names", matchedit.HandleMapNameSearch)

	admin.HandleFunc("GET /admin/upcoming", upcoming.HandleManagePage)
	admin.HandleFunc("GET /admin/upcoming/new", upcoming.HandleFormPage)
	admin.HandleFunc("GET /admin/upcoming/{id}/edit", upcoming.HandleFormPage)
	admin.HandleFunc("POST /admin/upcoming/submit", upcoming.HandleSubmit)
	admin.HandleFunc("DELETE /admin/upcoming/{id}", upcoming.HandleDelete)

	admin.HandleFunc("GET /admin/teams", teams.HandleManagePage)
	admin.HandleFunc("POST /admin/teams/submit", teams.HandleSubmit)
	admin.HandleFunc("DELETE /admin/teams/{id}", teams.HandleDelete)

	admin.HandleFunc("GET /admin/divisions", divisions.HandleManagePage)
	admin.HandleFunc("POST /admin/divisions/submit", divisions.HandleSubmit)

	admin.HandleFunc("GET /admin/players", players.HandleManagePage)
	admin.HandleFunc("POST /admin/players/submit", players.HandleAddPlayers)
	admin.HandleFunc("POST /admin/players/{id}/edit", players.HandleEditPlayer)
	admin.HandleFunc("DELETE /admin/players/{id}", players.HandleDeletePlayer)

	mux.Handle("/admin/", api.WithAdminAuth(admin))

	// Static assets
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "static"
	}
	fs := http.FileServer(http.Dir(staticDir))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
}
